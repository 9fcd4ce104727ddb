package ports

import (
	"context"

	"collabhub/internal/domain"
)

// Store ports implemented by the persistence adapters. The domain and the
// services see only these interfaces.

type SortOption string

const (
	SortNewestFirst SortOption = "newest"
	SortOldestFirst SortOption = "oldest"
	SortByTitle     SortOption = "title"
)

// DiscoverFilter narrows project discovery. MatchingHat, when set, keeps only
// projects with at least one open position the hat fits.
type DiscoverFilter struct {
	Keyword     string
	Sort        SortOption
	MatchingHat domain.Hat
}

type ProjectStore interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Add(ctx context.Context, p *domain.Project) error
	Update(ctx context.Context, p *domain.Project) error
	GetByAuthor(ctx context.Context, authorID string) ([]domain.Project, error)
	Discover(ctx context.Context, filter DiscoverFilter) ([]domain.Project, error)
	// GetRecommendedFor returns non-removed projects with at least one open
	// position fitted by at least one of the given hats.
	GetRecommendedFor(ctx context.Context, hats []domain.Hat) ([]domain.Project, error)
}

// ApplicationFilter narrows received/sent application listings.
type ApplicationFilter struct {
	Status domain.ApplicationStatus // empty means any
}

type ApplicationStore interface {
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	Add(ctx context.Context, a *domain.Application) error
	Update(ctx context.Context, a *domain.Application) error
	// GetByApplicantAndPosition returns the application of the applicant for
	// the position, or CodeNotFound.
	GetByApplicantAndPosition(ctx context.Context, applicantID, positionID string) (*domain.Application, error)
	GetReceived(ctx context.Context, authorID string, filter ApplicationFilter) ([]domain.Application, error)
	GetSent(ctx context.Context, applicantID string, filter ApplicationFilter) ([]domain.Application, error)
	GetByProject(ctx context.Context, projectID string) ([]domain.Application, error)
	GetByPosition(ctx context.Context, projectID, positionID string) ([]domain.Application, error)
	GetByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error)
}

type CollaborationStore interface {
	GetByID(ctx context.Context, id string) (*domain.Collaboration, error)
	Add(ctx context.Context, c *domain.Collaboration) error
	Update(ctx context.Context, c *domain.Collaboration) error
	GetAllForProject(ctx context.Context, projectID string) ([]domain.Collaboration, error)
	GetAllByCollaborator(ctx context.Context, collaboratorID string) ([]domain.Collaboration, error)
	// FindActive returns the active collaboration for the triple, or
	// CodeNotFound. Natural-key idempotency check for the accepted handler.
	FindActive(ctx context.Context, collaboratorID, projectID, positionID string) (*domain.Collaboration, error)
}

type ContributorStore interface {
	GetByID(ctx context.Context, id string) (*domain.Contributor, error)
	GetByAccountID(ctx context.Context, accountID string) (*domain.Contributor, error)
	Add(ctx context.Context, c *domain.Contributor) error
	Update(ctx context.Context, c *domain.Contributor) error
}

type NotificationStore interface {
	Add(ctx context.Context, n *domain.Notification) error
	// GetUnprocessedForRecipient returns up to max entries, oldest first.
	GetUnprocessedForRecipient(ctx context.Context, recipientID string, max int) ([]domain.Notification, error)
	MarkProcessed(ctx context.Context, ids []string) error
}
