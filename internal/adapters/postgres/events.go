package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"collabhub/internal/domain"
)

type EventStore struct {
	db *DB
}

func NewEventStore(db *DB) *EventStore { return &EventStore{db: db} }

// eventPayload is the flat jsonb shape of every event variant. Mapping is an
// explicit per-variant switch, mirroring the hat codec.
type eventPayload struct {
	ProjectID     string `json:"project_id,omitempty"`
	PositionID    string `json:"position_id,omitempty"`
	ContributorID string `json:"contributor_id,omitempty"`
	AccountID     string `json:"account_id,omitempty"`
	ApplicationID string `json:"application_id,omitempty"`
}

func encodeEvent(ev domain.Event) (eventPayload, error) {
	switch v := ev.(type) {
	case domain.ProjectRemoved:
		return eventPayload{ProjectID: v.ProjectID}, nil
	case domain.PositionClosed:
		return eventPayload{ProjectID: v.ProjectID, PositionID: v.PositionID}, nil
	case domain.PositionRemoved:
		return eventPayload{ProjectID: v.ProjectID, PositionID: v.PositionID}, nil
	case domain.ContributorRemoved:
		return eventPayload{ContributorID: v.ContributorID, AccountID: v.AccountID}, nil
	case domain.ApplicationSubmitted:
		return eventPayload{ApplicationID: v.ApplicationID}, nil
	case domain.ApplicationAccepted:
		return eventPayload{ApplicationID: v.ApplicationID}, nil
	default:
		return eventPayload{}, fmt.Errorf("unknown event variant %T", ev)
	}
}

func decodeEvent(kind domain.EventKind, header domain.Header, p eventPayload) (domain.Event, error) {
	switch kind {
	case domain.EventProjectRemoved:
		return domain.ProjectRemoved{Header: header, ProjectID: p.ProjectID}, nil
	case domain.EventPositionClosed:
		return domain.PositionClosed{Header: header, ProjectID: p.ProjectID, PositionID: p.PositionID}, nil
	case domain.EventPositionRemoved:
		return domain.PositionRemoved{Header: header, ProjectID: p.ProjectID, PositionID: p.PositionID}, nil
	case domain.EventContributorRemoved:
		return domain.ContributorRemoved{Header: header, ContributorID: p.ContributorID, AccountID: p.AccountID}, nil
	case domain.EventApplicationSubmitted:
		return domain.ApplicationSubmitted{Header: header, ApplicationID: p.ApplicationID}, nil
	case domain.EventApplicationAccepted:
		return domain.ApplicationAccepted{Header: header, ApplicationID: p.ApplicationID}, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
}

func (s *EventStore) Add(ctx context.Context, ev domain.Event) error {
	payload, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	// Idempotent on event id so a retried flush does not duplicate the row.
	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO domain_events (id, kind, payload, raised_at, processed)
		VALUES ($1, $2, $3, $4, false)
		ON CONFLICT (id) DO NOTHING
	`, ev.EventID(), ev.Kind(), raw, ev.RaisedAt())
	return err
}

func (s *EventStore) GetUnprocessedBatch(ctx context.Context, n int) ([]domain.Event, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, kind, payload, raised_at
		FROM domain_events
		WHERE NOT processed
		ORDER BY raised_at, id
		LIMIT $1
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Event
	for rows.Next() {
		var header domain.Header
		var kind domain.EventKind
		var raw []byte
		if err := rows.Scan(&header.ID, &kind, &raw, &header.Time); err != nil {
			return nil, err
		}
		var payload eventPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", header.ID, err)
		}
		ev, err := decodeEvent(kind, header, payload)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *EventStore) MarkProcessed(ctx context.Context, eventID string) error {
	_, err := s.db.Pool.Exec(ctx,
		`UPDATE domain_events SET processed = true WHERE id = $1`, eventID)
	return err
}
