package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"collabhub/internal/domain"
)

type CollaborationStore struct {
	db *DB
}

func NewCollaborationStore(db *DB) *CollaborationStore { return &CollaborationStore{db: db} }

const collaborationColumns = `id, collaborator_id, project_id, position_id, status`

func scanCollaboration(row pgx.Row) (*domain.Collaboration, error) {
	var c domain.Collaboration
	if err := row.Scan(&c.ID, &c.CollaboratorID, &c.ProjectID, &c.PositionID, &c.Status); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CollaborationStore) GetByID(ctx context.Context, id string) (*domain.Collaboration, error) {
	c, err := scanCollaboration(s.db.Pool.QueryRow(ctx,
		`SELECT `+collaborationColumns+` FROM collaborations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.E(domain.CodeNotFound, "collaboration "+id+" not found")
	}
	return c, err
}

func (s *CollaborationStore) Add(ctx context.Context, c *domain.Collaboration) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO collaborations (id, collaborator_id, project_id, position_id, status)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.CollaboratorID, c.ProjectID, c.PositionID, c.Status)
	return err
}

func (s *CollaborationStore) Update(ctx context.Context, c *domain.Collaboration) error {
	tag, err := s.db.Pool.Exec(ctx,
		`UPDATE collaborations SET status = $2 WHERE id = $1`, c.ID, c.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.E(domain.CodeNotFound, "collaboration "+c.ID+" not found")
	}
	return nil
}

func (s *CollaborationStore) queryCollaborations(ctx context.Context, query string, args ...any) ([]domain.Collaboration, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Collaboration
	for rows.Next() {
		c, err := scanCollaboration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *CollaborationStore) GetAllForProject(ctx context.Context, projectID string) ([]domain.Collaboration, error) {
	return s.queryCollaborations(ctx,
		`SELECT `+collaborationColumns+` FROM collaborations WHERE project_id = $1`, projectID)
}

func (s *CollaborationStore) GetAllByCollaborator(ctx context.Context, collaboratorID string) ([]domain.Collaboration, error) {
	return s.queryCollaborations(ctx,
		`SELECT `+collaborationColumns+` FROM collaborations WHERE collaborator_id = $1`, collaboratorID)
}

func (s *CollaborationStore) FindActive(ctx context.Context, collaboratorID, projectID, positionID string) (*domain.Collaboration, error) {
	c, err := scanCollaboration(s.db.Pool.QueryRow(ctx, `
		SELECT `+collaborationColumns+` FROM collaborations
		WHERE collaborator_id = $1 AND project_id = $2 AND position_id = $3 AND status = $4
		LIMIT 1
	`, collaboratorID, projectID, positionID, domain.CollaborationActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.E(domain.CodeNotFound, "no active collaboration for triple")
	}
	return c, err
}
