package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"collabhub/internal/domain"
	"collabhub/internal/ports"
)

type ApplicationStore struct {
	db *DB
}

func NewApplicationStore(db *DB) *ApplicationStore { return &ApplicationStore{db: db} }

const applicationColumns = `id, applicant_id, project_id, position_id, date_submitted, status`

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var a domain.Application
	err := row.Scan(&a.ID, &a.ApplicantID, &a.ProjectID, &a.PositionID, &a.DateSubmitted, &a.Status)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *ApplicationStore) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	a, err := scanApplication(s.db.Pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.E(domain.CodeNotFound, "application "+id+" not found")
	}
	return a, err
}

func (s *ApplicationStore) Add(ctx context.Context, a *domain.Application) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO applications (id, applicant_id, project_id, position_id, date_submitted, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.ApplicantID, a.ProjectID, a.PositionID, a.DateSubmitted, a.Status)
	return err
}

func (s *ApplicationStore) Update(ctx context.Context, a *domain.Application) error {
	tag, err := s.db.Pool.Exec(ctx,
		`UPDATE applications SET status = $2 WHERE id = $1`, a.ID, a.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.E(domain.CodeNotFound, "application "+a.ID+" not found")
	}
	return nil
}

func (s *ApplicationStore) GetByApplicantAndPosition(ctx context.Context, applicantID, positionID string) (*domain.Application, error) {
	a, err := scanApplication(s.db.Pool.QueryRow(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE applicant_id = $1 AND position_id = $2 AND status = $3
		ORDER BY date_submitted DESC LIMIT 1
	`, applicantID, positionID, domain.ApplicationSubmittedStatus))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.E(domain.CodeNotFound, "no application for applicant and position")
	}
	return a, err
}

func (s *ApplicationStore) queryApplications(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *ApplicationStore) GetReceived(ctx context.Context, authorID string, filter ports.ApplicationFilter) ([]domain.Application, error) {
	return s.queryApplications(ctx, `
		SELECT a.id, a.applicant_id, a.project_id, a.position_id, a.date_submitted, a.status
		FROM applications a
		JOIN projects p ON p.id = a.project_id
		WHERE p.author_id = $1 AND ($2 = '' OR a.status = $2)
		ORDER BY a.date_submitted
	`, authorID, string(filter.Status))
}

func (s *ApplicationStore) GetSent(ctx context.Context, applicantID string, filter ports.ApplicationFilter) ([]domain.Application, error) {
	return s.queryApplications(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE applicant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY date_submitted
	`, applicantID, string(filter.Status))
}

func (s *ApplicationStore) GetByProject(ctx context.Context, projectID string) ([]domain.Application, error) {
	return s.queryApplications(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE project_id = $1 ORDER BY date_submitted
	`, projectID)
}

func (s *ApplicationStore) GetByPosition(ctx context.Context, projectID, positionID string) ([]domain.Application, error) {
	return s.queryApplications(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE project_id = $1 AND position_id = $2 ORDER BY date_submitted
	`, projectID, positionID)
}

func (s *ApplicationStore) GetByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error) {
	return s.queryApplications(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE applicant_id = $1 ORDER BY date_submitted
	`, applicantID)
}
