package applications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"collabhub/internal/domain"
	"collabhub/internal/ports"
)

// Service orchestrates the application lifecycle. Authorization that spans
// two aggregates (only the project author accepts or rejects, only the
// applicant revokes) lives here, where both are in hand.
type Service struct {
	applications ports.ApplicationStore
	projects     ports.ProjectStore
	events       ports.DomainEventStore
	now          func() time.Time
}

func New(applications ports.ApplicationStore, projects ports.ProjectStore, events ports.DomainEventStore) *Service {
	return &Service{applications: applications, projects: projects, events: events, now: time.Now}
}

func (s *Service) flush(ctx context.Context, events []domain.Event) error {
	for _, ev := range events {
		if err := s.events.Add(ctx, ev); err != nil {
			return fmt.Errorf("append %s event: %w", ev.Kind(), err)
		}
	}
	return nil
}

// Submit creates an application after the project's precondition gate. The
// one-active-application-per-position rule is a read-then-write check here,
// not a store constraint, so two racing submissions can both pass; see the
// design notes.
func (s *Service) Submit(ctx context.Context, applicantID, projectID, positionID string) (*domain.Application, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	existing, err := s.applications.GetByApplicantAndPosition(ctx, applicantID, positionID)
	if err != nil && !domain.Is(err, domain.CodeNotFound) {
		return nil, err
	}
	if existing != nil && existing.Status == domain.ApplicationSubmittedStatus {
		return nil, domain.E(domain.CodeDuplicateConstraint, "an application for this position is already pending")
	}
	app, events, err := p.SubmitApplication(applicantID, positionID, uuid.NewString(), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.applications.Add(ctx, app); err != nil {
		return nil, err
	}
	return app, s.flush(ctx, events)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Application, error) {
	return s.applications.GetByID(ctx, id)
}

// load fetches an application together with its project.
func (s *Service) load(ctx context.Context, applicationID string) (*domain.Application, *domain.Project, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.projects.GetByID(ctx, app.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return app, p, nil
}

func (s *Service) Accept(ctx context.Context, actorID, applicationID string) error {
	app, p, err := s.load(ctx, applicationID)
	if err != nil {
		return err
	}
	if actorID != p.AuthorID {
		return domain.E(domain.CodeUnauthorized, "only the project author may accept applications")
	}
	events, err := app.Accept(s.now())
	if err != nil {
		return err
	}
	if err := s.applications.Update(ctx, app); err != nil {
		return err
	}
	return s.flush(ctx, events)
}

func (s *Service) Reject(ctx context.Context, actorID, applicationID string) error {
	app, p, err := s.load(ctx, applicationID)
	if err != nil {
		return err
	}
	if actorID != p.AuthorID {
		return domain.E(domain.CodeUnauthorized, "only the project author may reject applications")
	}
	if err := app.Reject(); err != nil {
		return err
	}
	return s.applications.Update(ctx, app)
}

func (s *Service) Revoke(ctx context.Context, actorID, applicationID string) error {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if actorID != app.ApplicantID {
		return domain.E(domain.CodeUnauthorized, "only the applicant may revoke an application")
	}
	if err := app.Revoke(); err != nil {
		return err
	}
	return s.applications.Update(ctx, app)
}

// Received lists applications to the author's projects.
func (s *Service) Received(ctx context.Context, authorID string, filter ports.ApplicationFilter) ([]domain.Application, error) {
	return s.applications.GetReceived(ctx, authorID, filter)
}

// Sent lists the applicant's own applications.
func (s *Service) Sent(ctx context.Context, applicantID string, filter ports.ApplicationFilter) ([]domain.Application, error) {
	return s.applications.GetSent(ctx, applicantID, filter)
}
