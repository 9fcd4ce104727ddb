package projects

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"collabhub/internal/domain"
	"collabhub/internal/ports"
)

// Service orchestrates project and position use cases: load the aggregate,
// invoke the domain method, persist, then flush the returned events to the
// log. One aggregate per transaction; no optimistic token, so concurrent
// updates to the same project are last-write-wins.
type Service struct {
	projects     ports.ProjectStore
	contributors ports.ContributorStore
	events       ports.DomainEventStore
	now          func() time.Time
}

func New(projects ports.ProjectStore, contributors ports.ContributorStore, events ports.DomainEventStore) *Service {
	return &Service{projects: projects, contributors: contributors, events: events, now: time.Now}
}

func (s *Service) flush(ctx context.Context, events []domain.Event) error {
	for _, ev := range events {
		if err := s.events.Add(ctx, ev); err != nil {
			return fmt.Errorf("append %s event: %w", ev.Kind(), err)
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, authorID, title, description string, positions []domain.PositionSpec) (*domain.Project, error) {
	if _, err := s.contributors.GetByID(ctx, authorID); err != nil {
		return nil, err
	}
	p, err := domain.NewProject(uuid.NewString(), authorID, title, description, s.now(), positions)
	if err != nil {
		return nil, err
	}
	if err := s.projects.Add(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *Service) GetByAuthor(ctx context.Context, authorID string) ([]domain.Project, error) {
	return s.projects.GetByAuthor(ctx, authorID)
}

func (s *Service) EditDetails(ctx context.Context, actorID, projectID, title, description string) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := p.EditDetails(actorID, title, description); err != nil {
		return nil, err
	}
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) AddPosition(ctx context.Context, actorID, projectID string, spec domain.PositionSpec) (*domain.Position, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	pos, err := p.AddPosition(actorID, spec, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return pos, nil
}

func (s *Service) ClosePosition(ctx context.Context, actorID, projectID, positionID string) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	events, err := p.ClosePosition(actorID, positionID, s.now())
	if err != nil {
		return err
	}
	if err := s.projects.Update(ctx, p); err != nil {
		return err
	}
	return s.flush(ctx, events)
}

func (s *Service) ReopenPosition(ctx context.Context, actorID, projectID, positionID string) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if err := p.ReopenPosition(actorID, positionID); err != nil {
		return err
	}
	return s.projects.Update(ctx, p)
}

func (s *Service) RemovePosition(ctx context.Context, actorID, projectID, positionID string) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	events, err := p.RemovePosition(actorID, positionID, s.now())
	if err != nil {
		return err
	}
	if err := s.projects.Update(ctx, p); err != nil {
		return err
	}
	return s.flush(ctx, events)
}

func (s *Service) Remove(ctx context.Context, actorID, projectID string) error {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	events, err := p.Remove(actorID, s.now())
	if err != nil {
		return err
	}
	if err := s.projects.Update(ctx, p); err != nil {
		return err
	}
	return s.flush(ctx, events)
}

func (s *Service) Discover(ctx context.Context, filter ports.DiscoverFilter) ([]domain.Project, error) {
	return s.projects.Discover(ctx, filter)
}

// RecommendedFor surfaces projects with at least one open position fitted by
// one of the contributor's hats, excluding their own.
func (s *Service) RecommendedFor(ctx context.Context, contributorID string) ([]domain.Project, error) {
	c, err := s.contributors.GetByID(ctx, contributorID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.projects.GetRecommendedFor(ctx, c.Hats)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(candidates))
	for _, p := range candidates {
		if domain.Recommended(p, *c) {
			out = append(out, p)
		}
	}
	return out, nil
}
