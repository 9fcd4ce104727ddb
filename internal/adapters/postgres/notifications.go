package postgres

import (
	"context"
	"database/sql"

	"collabhub/internal/domain"
)

type NotificationStore struct {
	db *DB
}

func NewNotificationStore(db *DB) *NotificationStore { return &NotificationStore{db: db} }

func (s *NotificationStore) Add(ctx context.Context, n *domain.Notification) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO notifications (id, recipient_id, kind, project_id, position_id, application_id, actor_id, created_at, processed)
		VALUES ($1, $2, $3, NULLIF($4,''), NULLIF($5,''), NULLIF($6,''), NULLIF($7,''), $8, $9)
	`, n.ID, n.RecipientID, n.Kind, n.ProjectID, n.PositionID, n.ApplicationID, n.ActorID, n.CreatedAt, n.Processed)
	return err
}

func (s *NotificationStore) GetUnprocessedForRecipient(ctx context.Context, recipientID string, max int) ([]domain.Notification, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, recipient_id, kind, project_id, position_id, application_id, actor_id, created_at, processed
		FROM notifications
		WHERE recipient_id = $1 AND NOT processed
		ORDER BY created_at
		LIMIT $2
	`, recipientID, max)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var projectID, positionID, applicationID, actorID sql.NullString
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Kind, &projectID, &positionID, &applicationID, &actorID, &n.CreatedAt, &n.Processed); err != nil {
			return nil, err
		}
		n.ProjectID = projectID.String
		n.PositionID = positionID.String
		n.ApplicationID = applicationID.String
		n.ActorID = actorID.String
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *NotificationStore) MarkProcessed(ctx context.Context, ids []string) error {
	_, err := s.db.Pool.Exec(ctx,
		`UPDATE notifications SET processed = true WHERE id = ANY($1)`, ids)
	return err
}
