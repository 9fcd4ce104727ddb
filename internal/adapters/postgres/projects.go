package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"collabhub/internal/domain"
	"collabhub/internal/ports"
)

type ProjectStore struct {
	db *DB
}

func NewProjectStore(db *DB) *ProjectStore { return &ProjectStore{db: db} }

func encodeHat(h domain.Hat) ([]byte, error) {
	return json.Marshal(domain.ToRecord(h))
}

func decodeHat(raw []byte) (domain.Hat, error) {
	var rec domain.HatRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode hat: %w", err)
	}
	return domain.HatFromRecord(rec)
}

func (s *ProjectStore) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p := domain.Project{}
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, title, description, author_id, date_posted, removed
		FROM projects WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.Description, &p.AuthorID, &p.DatePosted, &p.Removed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.E(domain.CodeNotFound, "project "+id+" not found")
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadPositions(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectStore) loadPositions(ctx context.Context, p *domain.Project) error {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, name, description, requirements, date_posted, open, removed
		FROM positions WHERE project_id = $1
		ORDER BY date_posted, id
	`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var pos domain.Position
		var raw []byte
		if err := rows.Scan(&pos.ID, &pos.Name, &pos.Description, &raw, &pos.DatePosted, &pos.Open, &pos.Removed); err != nil {
			return err
		}
		hat, err := decodeHat(raw)
		if err != nil {
			return err
		}
		pos.Requirements = hat
		p.Positions = append(p.Positions, pos)
	}
	return rows.Err()
}

func (s *ProjectStore) Add(ctx context.Context, p *domain.Project) error {
	return s.save(ctx, p, true)
}

func (s *ProjectStore) Update(ctx context.Context, p *domain.Project) error {
	return s.save(ctx, p, false)
}

// save writes the aggregate atomically: the project row plus an upsert of
// every owned position.
func (s *ProjectStore) save(ctx context.Context, p *domain.Project, insert bool) (err error) {
	tx, err := s.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if insert {
		_, err = tx.Exec(ctx, `
			INSERT INTO projects (id, title, description, author_id, date_posted, removed)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.ID, p.Title, p.Description, p.AuthorID, p.DatePosted, p.Removed)
	} else {
		var tag string
		err = tx.QueryRow(ctx, `
			UPDATE projects SET title=$2, description=$3, removed=$4 WHERE id=$1
			RETURNING id
		`, p.ID, p.Title, p.Description, p.Removed).Scan(&tag)
		if errors.Is(err, pgx.ErrNoRows) {
			err = domain.E(domain.CodeNotFound, "project "+p.ID+" not found")
		}
	}
	if err != nil {
		return err
	}

	for i := range p.Positions {
		pos := &p.Positions[i]
		var raw []byte
		raw, err = encodeHat(pos.Requirements)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO positions (id, project_id, name, description, requirements, date_posted, open, removed)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE
			SET name=EXCLUDED.name, description=EXCLUDED.description,
			    requirements=EXCLUDED.requirements, open=EXCLUDED.open, removed=EXCLUDED.removed
		`, pos.ID, p.ID, pos.Name, pos.Description, raw, pos.DatePosted, pos.Open, pos.Removed)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *ProjectStore) queryProjects(ctx context.Context, query string, args ...any) ([]domain.Project, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.AuthorID, &p.DatePosted, &p.Removed); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := s.loadPositions(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *ProjectStore) GetByAuthor(ctx context.Context, authorID string) ([]domain.Project, error) {
	return s.queryProjects(ctx, `
		SELECT id, title, description, author_id, date_posted, removed
		FROM projects WHERE author_id = $1
		ORDER BY date_posted DESC
	`, authorID)
}

func orderClause(opt ports.SortOption) string {
	switch opt {
	case ports.SortOldestFirst:
		return "date_posted ASC"
	case ports.SortByTitle:
		return "title ASC"
	default:
		return "date_posted DESC"
	}
}

// Discover filters keyword and sorting in SQL; hat matching is applied in Go
// afterwards because degree ordering lives in the domain, not the schema.
func (s *ProjectStore) Discover(ctx context.Context, filter ports.DiscoverFilter) ([]domain.Project, error) {
	projects, err := s.queryProjects(ctx, `
		SELECT id, title, description, author_id, date_posted, removed
		FROM projects
		WHERE NOT removed
		  AND ($1 = '' OR title ILIKE '%'||$1||'%' OR description ILIKE '%'||$1||'%')
		ORDER BY `+orderClause(filter.Sort),
		filter.Keyword)
	if err != nil {
		return nil, err
	}
	if filter.MatchingHat == nil {
		return projects, nil
	}
	out := projects[:0]
	for _, p := range projects {
		if projectHasFit(p, []domain.Hat{filter.MatchingHat}) {
			out = append(out, p)
		}
	}
	return out, nil
}

func projectHasFit(p domain.Project, hats []domain.Hat) bool {
	for _, pos := range p.Positions {
		if pos.Removed || !pos.Open {
			continue
		}
		for _, hat := range hats {
			if hat.Fits(pos.Requirements) {
				return true
			}
		}
	}
	return false
}

func (s *ProjectStore) GetRecommendedFor(ctx context.Context, hats []domain.Hat) ([]domain.Project, error) {
	projects, err := s.queryProjects(ctx, `
		SELECT id, title, description, author_id, date_posted, removed
		FROM projects WHERE NOT removed
		ORDER BY date_posted DESC
	`)
	if err != nil {
		return nil, err
	}
	out := projects[:0]
	for _, p := range projects {
		if projectHasFit(p, hats) {
			out = append(out, p)
		}
	}
	return out, nil
}
