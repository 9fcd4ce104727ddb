package contributors

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"collabhub/internal/domain"
	"collabhub/internal/ports"
)

// Service orchestrates contributor identity use cases, including the
// fire-and-forget side channel to the external identity provider.
type Service struct {
	contributors ports.ContributorStore
	events       ports.DomainEventStore
	identity     ports.IdentityProviderGateway
	log          *zap.Logger
	now          func() time.Time
}

func New(contributors ports.ContributorStore, events ports.DomainEventStore, identity ports.IdentityProviderGateway, log *zap.Logger) *Service {
	return &Service{contributors: contributors, events: events, identity: identity, log: log, now: time.Now}
}

// SignUp registers a contributor for an identity-provider account. The
// provider callback has no two-phase guarantee; a failure is logged and the
// contributor stays registered.
func (s *Service) SignUp(ctx context.Context, accountID, fullName, contactEmail string) (*domain.Contributor, error) {
	if existing, err := s.contributors.GetByAccountID(ctx, accountID); err == nil && existing != nil {
		return nil, domain.E(domain.CodeDuplicateConstraint, "account already has a contributor")
	} else if err != nil && !domain.Is(err, domain.CodeNotFound) {
		return nil, err
	}
	c := domain.NewContributor(uuid.NewString(), accountID, fullName, contactEmail)
	if err := s.contributors.Add(ctx, c); err != nil {
		return nil, err
	}
	if err := s.identity.MarkSignedUp(ctx, accountID); err != nil {
		s.log.Warn("identity provider sign-up mark failed", zap.String("account_id", accountID), zap.Error(err))
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Contributor, error) {
	return s.contributors.GetByID(ctx, id)
}

func (s *Service) GetByAccount(ctx context.Context, accountID string) (*domain.Contributor, error) {
	return s.contributors.GetByAccountID(ctx, accountID)
}

func (s *Service) Rename(ctx context.Context, id, fullName, contactEmail string) (*domain.Contributor, error) {
	c, err := s.contributors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Rename(fullName, contactEmail); err != nil {
		return nil, err
	}
	if err := s.contributors.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) AddHat(ctx context.Context, id string, hat domain.Hat) (*domain.Contributor, error) {
	c, err := s.contributors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.AddHat(hat); err != nil {
		return nil, err
	}
	if err := s.contributors.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) RemoveHat(ctx context.Context, id string, hat domain.Hat) (*domain.Contributor, error) {
	c, err := s.contributors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveHat(hat); err != nil {
		return nil, err
	}
	if err := s.contributors.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Remove marks the contributor removed and raises ContributorRemoved; the
// handler cascades to their projects, applications, collaborations and the
// provider account.
func (s *Service) Remove(ctx context.Context, id string) error {
	c, err := s.contributors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	events, err := c.Remove(s.now())
	if err != nil {
		return err
	}
	if err := s.contributors.Update(ctx, c); err != nil {
		return err
	}
	for _, ev := range events {
		if err := s.events.Add(ctx, ev); err != nil {
			return fmt.Errorf("append %s event: %w", ev.Kind(), err)
		}
	}
	return nil
}
