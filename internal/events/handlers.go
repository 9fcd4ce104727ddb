package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"collabhub/internal/domain"
	"collabhub/internal/ports"
)

// Handlers hold the cross-aggregate consistency reactions. Each handler
// consumes one event variant and applies one side effect to other
// aggregates. Delivery is at-least-once, so every handler must be safe to
// re-run: besides the dispatcher's dedup guard, each effect is anchored on a
// natural key (existing active collaboration, already-terminal application)
// so a duplicate delivery degrades to a no-op.
type Handlers struct {
	projects       ports.ProjectStore
	applications   ports.ApplicationStore
	collaborations ports.CollaborationStore
	contributors   ports.ContributorStore
	notifications  ports.NotificationStore
	events         ports.DomainEventStore
	identity       ports.IdentityProviderGateway
	log            *zap.Logger
	now            func() time.Time
}

func NewHandlers(
	projects ports.ProjectStore,
	applications ports.ApplicationStore,
	collaborations ports.CollaborationStore,
	contributors ports.ContributorStore,
	notifications ports.NotificationStore,
	events ports.DomainEventStore,
	identity ports.IdentityProviderGateway,
	log *zap.Logger,
) *Handlers {
	return &Handlers{
		projects:       projects,
		applications:   applications,
		collaborations: collaborations,
		contributors:   contributors,
		notifications:  notifications,
		events:         events,
		identity:       identity,
		log:            log,
		now:            time.Now,
	}
}

// ApplicationSubmitted: tell the project author about the new application.
func (h *Handlers) ApplicationSubmitted(ctx context.Context, ev domain.ApplicationSubmitted) error {
	app, err := h.applications.GetByID(ctx, ev.ApplicationID)
	if err != nil {
		return fmt.Errorf("load application %s: %w", ev.ApplicationID, err)
	}
	p, err := h.projects.GetByID(ctx, app.ProjectID)
	if err != nil {
		return fmt.Errorf("load project %s: %w", app.ProjectID, err)
	}
	return h.notifications.Add(ctx, &domain.Notification{
		ID:            uuid.NewString(),
		RecipientID:   p.AuthorID,
		Kind:          domain.NotificationNewApplicationReceived,
		ProjectID:     p.ID,
		PositionID:    app.PositionID,
		ApplicationID: app.ID,
		ActorID:       app.ApplicantID,
		CreatedAt:     h.now(),
	})
}

// ApplicationAccepted: create the active collaboration and notify the
// applicant. The FindActive check keeps a re-delivered event from creating a
// second collaboration for the same triple.
func (h *Handlers) ApplicationAccepted(ctx context.Context, ev domain.ApplicationAccepted) error {
	app, err := h.applications.GetByID(ctx, ev.ApplicationID)
	if err != nil {
		return fmt.Errorf("load application %s: %w", ev.ApplicationID, err)
	}
	existing, err := h.collaborations.FindActive(ctx, app.ApplicantID, app.ProjectID, app.PositionID)
	if err != nil && !domain.Is(err, domain.CodeNotFound) {
		return err
	}
	if existing != nil {
		h.log.Debug("collaboration already exists, skipping",
			zap.String("application_id", app.ID), zap.String("collaboration_id", existing.ID))
		return nil
	}
	collab := domain.NewCollaboration(uuid.NewString(), app.ApplicantID, app.ProjectID, app.PositionID)
	if err := h.collaborations.Add(ctx, collab); err != nil {
		return err
	}
	return h.notifications.Add(ctx, &domain.Notification{
		ID:            uuid.NewString(),
		RecipientID:   app.ApplicantID,
		Kind:          domain.NotificationOwnApplicationAccepted,
		ProjectID:     app.ProjectID,
		PositionID:    app.PositionID,
		ApplicationID: app.ID,
		CreatedAt:     h.now(),
	})
}

// PositionClosed: reject (not remove) every still-submitted application for
// the position. Applications in any other status are untouched.
func (h *Handlers) PositionClosed(ctx context.Context, ev domain.PositionClosed) error {
	apps, err := h.applications.GetByPosition(ctx, ev.ProjectID, ev.PositionID)
	if err != nil {
		return err
	}
	for i := range apps {
		app := &apps[i]
		if app.Status != domain.ApplicationSubmittedStatus {
			continue
		}
		if err := app.Reject(); err != nil {
			continue
		}
		if err := h.applications.Update(ctx, app); err != nil {
			return err
		}
	}
	return nil
}

// PositionRemoved: attempt removal of every application for the position;
// already-terminal ones stay as they are.
func (h *Handlers) PositionRemoved(ctx context.Context, ev domain.PositionRemoved) error {
	apps, err := h.applications.GetByPosition(ctx, ev.ProjectID, ev.PositionID)
	if err != nil {
		return err
	}
	return h.removeApplications(ctx, apps)
}

// ProjectRemoved: remove every application across the project's positions and
// every collaboration on the project.
func (h *Handlers) ProjectRemoved(ctx context.Context, ev domain.ProjectRemoved) error {
	apps, err := h.applications.GetByProject(ctx, ev.ProjectID)
	if err != nil {
		return err
	}
	if err := h.removeApplications(ctx, apps); err != nil {
		return err
	}
	collabs, err := h.collaborations.GetAllForProject(ctx, ev.ProjectID)
	if err != nil {
		return err
	}
	return h.removeCollaborations(ctx, collabs)
}

// ContributorRemoved: drop the provider account, remove every authored
// project (feeding the cascading ProjectRemoved events back into the log),
// and remove the contributor's own applications and collaborations.
func (h *Handlers) ContributorRemoved(ctx context.Context, ev domain.ContributorRemoved) error {
	if err := h.identity.RemoveAccount(ctx, ev.AccountID); err != nil {
		h.log.Warn("identity provider account removal failed",
			zap.String("account_id", ev.AccountID), zap.Error(err))
	}
	authored, err := h.projects.GetByAuthor(ctx, ev.ContributorID)
	if err != nil {
		return err
	}
	for i := range authored {
		p := &authored[i]
		cascade, err := p.Remove(ev.ContributorID, h.now())
		if err != nil {
			if domain.Is(err, domain.CodeInvalidState) {
				continue // already removed on a previous delivery
			}
			return err
		}
		if err := h.projects.Update(ctx, p); err != nil {
			return err
		}
		for _, cev := range cascade {
			if err := h.events.Add(ctx, cev); err != nil {
				return err
			}
		}
	}
	apps, err := h.applications.GetByApplicant(ctx, ev.ContributorID)
	if err != nil {
		return err
	}
	if err := h.removeApplications(ctx, apps); err != nil {
		return err
	}
	collabs, err := h.collaborations.GetAllByCollaborator(ctx, ev.ContributorID)
	if err != nil {
		return err
	}
	return h.removeCollaborations(ctx, collabs)
}

func (h *Handlers) removeApplications(ctx context.Context, apps []domain.Application) error {
	for i := range apps {
		app := &apps[i]
		if err := app.Remove(); err != nil {
			continue // already removed
		}
		if err := h.applications.Update(ctx, app); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handlers) removeCollaborations(ctx context.Context, collabs []domain.Collaboration) error {
	for i := range collabs {
		c := &collabs[i]
		if err := c.Remove(); err != nil {
			continue // already removed
		}
		if err := h.collaborations.Update(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
