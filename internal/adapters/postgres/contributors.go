package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"collabhub/internal/domain"
)

type ContributorStore struct {
	db *DB
}

func NewContributorStore(db *DB) *ContributorStore { return &ContributorStore{db: db} }

func encodeHats(hats []domain.Hat) ([]byte, error) {
	records := make([]domain.HatRecord, len(hats))
	for i, h := range hats {
		records[i] = domain.ToRecord(h)
	}
	return json.Marshal(records)
}

func decodeHats(raw []byte) ([]domain.Hat, error) {
	var records []domain.HatRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode hats: %w", err)
	}
	hats := make([]domain.Hat, 0, len(records))
	for _, rec := range records {
		h, err := domain.HatFromRecord(rec)
		if err != nil {
			return nil, err
		}
		hats = append(hats, h)
	}
	return hats, nil
}

func (s *ContributorStore) scanContributor(row pgx.Row) (*domain.Contributor, error) {
	var c domain.Contributor
	var raw []byte
	if err := row.Scan(&c.ID, &c.AccountID, &c.FullName, &c.ContactEmail, &raw, &c.Removed); err != nil {
		return nil, err
	}
	hats, err := decodeHats(raw)
	if err != nil {
		return nil, err
	}
	c.Hats = hats
	return &c, nil
}

const contributorColumns = `id, account_id, full_name, contact_email, hats, removed`

func (s *ContributorStore) GetByID(ctx context.Context, id string) (*domain.Contributor, error) {
	c, err := s.scanContributor(s.db.Pool.QueryRow(ctx,
		`SELECT `+contributorColumns+` FROM contributors WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.E(domain.CodeNotFound, "contributor "+id+" not found")
	}
	return c, err
}

func (s *ContributorStore) GetByAccountID(ctx context.Context, accountID string) (*domain.Contributor, error) {
	c, err := s.scanContributor(s.db.Pool.QueryRow(ctx,
		`SELECT `+contributorColumns+` FROM contributors WHERE account_id = $1`, accountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.E(domain.CodeNotFound, "no contributor for account "+accountID)
	}
	return c, err
}

func (s *ContributorStore) Add(ctx context.Context, c *domain.Contributor) error {
	raw, err := encodeHats(c.Hats)
	if err != nil {
		return err
	}
	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO contributors (id, account_id, full_name, contact_email, hats, removed)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.AccountID, c.FullName, c.ContactEmail, raw, c.Removed)
	return err
}

func (s *ContributorStore) Update(ctx context.Context, c *domain.Contributor) error {
	raw, err := encodeHats(c.Hats)
	if err != nil {
		return err
	}
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE contributors SET full_name=$2, contact_email=$3, hats=$4, removed=$5 WHERE id=$1
	`, c.ID, c.FullName, c.ContactEmail, raw, c.Removed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.E(domain.CodeNotFound, "contributor "+c.ID+" not found")
	}
	return nil
}
