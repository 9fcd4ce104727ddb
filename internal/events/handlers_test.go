package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"collabhub/internal/adapters/identity"
	"collabhub/internal/adapters/memory"
	"collabhub/internal/domain"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func header(id string) domain.Header {
	return domain.Header{ID: id, Time: testNow}
}

type env struct {
	stores     *memory.Stores
	handlers   *Handlers
	dispatcher *Dispatcher
}

func newEnv(t *testing.T) *env {
	t.Helper()
	stores := memory.New()
	log := zap.NewNop()
	handlers := NewHandlers(stores.Projects, stores.Applications, stores.Collaborations,
		stores.Contributors, stores.Notifications, stores.Events, identity.Noop{}, log)
	return &env{
		stores:     stores,
		handlers:   handlers,
		dispatcher: NewDispatcher(handlers, stores.Events, stores.Dedup, log),
	}
}

func (e *env) seedProject(t *testing.T, id, authorID string, positions int) *domain.Project {
	t.Helper()
	specs := make([]domain.PositionSpec, positions)
	for i := range specs {
		specs[i] = domain.PositionSpec{
			Name:         "Position " + string(rune('A'+i)),
			Requirements: domain.AcademicHat{ResearchField: "Systems"},
		}
	}
	p, err := domain.NewProject(id, authorID, "Project "+id, "", testNow, specs)
	require.NoError(t, err)
	require.NoError(t, e.stores.Projects.Add(context.Background(), p))
	return p
}

func (e *env) seedApplication(t *testing.T, id, applicantID, projectID, positionID string, status domain.ApplicationStatus) {
	t.Helper()
	require.NoError(t, e.stores.Applications.Add(context.Background(), &domain.Application{
		ID:            id,
		ApplicantID:   applicantID,
		ProjectID:     projectID,
		PositionID:    positionID,
		DateSubmitted: testNow,
		Status:        status,
	}))
}

func (e *env) application(t *testing.T, id string) *domain.Application {
	t.Helper()
	app, err := e.stores.Applications.GetByID(context.Background(), id)
	require.NoError(t, err)
	return app
}

func TestApplicationSubmittedNotifiesAuthor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.seedProject(t, "p1", "author", 1)
	e.seedApplication(t, "a1", "applicant", p.ID, p.Positions[0].ID, domain.ApplicationSubmittedStatus)

	err := e.handlers.ApplicationSubmitted(ctx, domain.ApplicationSubmitted{Header: header("e1"), ApplicationID: "a1"})
	require.NoError(t, err)

	inbox, err := e.stores.Notifications.GetUnprocessedForRecipient(ctx, "author", 10)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotificationNewApplicationReceived, inbox[0].Kind)
	assert.Equal(t, "a1", inbox[0].ApplicationID)
	assert.Equal(t, "applicant", inbox[0].ActorID)
}

func TestApplicationAcceptedIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.seedProject(t, "p1", "author", 1)
	e.seedApplication(t, "a1", "applicant", p.ID, p.Positions[0].ID, domain.ApplicationAcceptedStatus)

	ev := domain.ApplicationAccepted{Header: header("e1"), ApplicationID: "a1"}
	require.NoError(t, e.handlers.ApplicationAccepted(ctx, ev))
	require.NoError(t, e.handlers.ApplicationAccepted(ctx, ev))

	collabs, err := e.stores.Collaborations.GetAllForProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, collabs, 1, "a re-delivered event must not create a second collaboration")
	assert.Equal(t, domain.CollaborationActive, collabs[0].Status)
	assert.Equal(t, "applicant", collabs[0].CollaboratorID)

	inbox, err := e.stores.Notifications.GetUnprocessedForRecipient(ctx, "applicant", 10)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotificationOwnApplicationAccepted, inbox[0].Kind)
}

func TestPositionClosedRejectsOnlySubmitted(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.seedProject(t, "p1", "author", 1)
	posID := p.Positions[0].ID
	e.seedApplication(t, "a1", "c1", p.ID, posID, domain.ApplicationSubmittedStatus)
	e.seedApplication(t, "a2", "c2", p.ID, posID, domain.ApplicationAcceptedStatus)
	e.seedApplication(t, "a3", "c3", p.ID, posID, domain.ApplicationRevokedStatus)

	ev := domain.PositionClosed{Header: header("e1"), ProjectID: p.ID, PositionID: posID}
	require.NoError(t, e.handlers.PositionClosed(ctx, ev))

	assert.Equal(t, domain.ApplicationRejectedStatus, e.application(t, "a1").Status)
	assert.Equal(t, domain.ApplicationAcceptedStatus, e.application(t, "a2").Status)
	assert.Equal(t, domain.ApplicationRevokedStatus, e.application(t, "a3").Status)

	require.NoError(t, e.handlers.PositionClosed(ctx, ev))
}

func TestPositionRemovedRemovesApplications(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.seedProject(t, "p1", "author", 2)
	e.seedApplication(t, "a1", "c1", p.ID, p.Positions[0].ID, domain.ApplicationSubmittedStatus)
	e.seedApplication(t, "a2", "c2", p.ID, p.Positions[0].ID, domain.ApplicationRejectedStatus)
	e.seedApplication(t, "a3", "c3", p.ID, p.Positions[1].ID, domain.ApplicationSubmittedStatus)

	ev := domain.PositionRemoved{Header: header("e1"), ProjectID: p.ID, PositionID: p.Positions[0].ID}
	require.NoError(t, e.handlers.PositionRemoved(ctx, ev))

	assert.Equal(t, domain.ApplicationRemovedStatus, e.application(t, "a1").Status)
	assert.Equal(t, domain.ApplicationRemovedStatus, e.application(t, "a2").Status)
	assert.Equal(t, domain.ApplicationSubmittedStatus, e.application(t, "a3").Status, "other positions untouched")

	require.NoError(t, e.handlers.PositionRemoved(ctx, ev))
}

func TestProjectRemovedCascade(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.seedProject(t, "p1", "author", 2)
	e.seedApplication(t, "a1", "c1", p.ID, p.Positions[0].ID, domain.ApplicationSubmittedStatus)
	e.seedApplication(t, "a2", "c2", p.ID, p.Positions[1].ID, domain.ApplicationAcceptedStatus)
	require.NoError(t, e.stores.Collaborations.Add(ctx,
		domain.NewCollaboration("col1", "c2", p.ID, p.Positions[1].ID)))

	ev := domain.ProjectRemoved{Header: header("e1"), ProjectID: p.ID}
	require.NoError(t, e.handlers.ProjectRemoved(ctx, ev))

	assert.Equal(t, domain.ApplicationRemovedStatus, e.application(t, "a1").Status)
	assert.Equal(t, domain.ApplicationRemovedStatus, e.application(t, "a2").Status)

	collab, err := e.stores.Collaborations.GetByID(ctx, "col1")
	require.NoError(t, err)
	assert.Equal(t, domain.CollaborationRemoved, collab.Status)

	require.NoError(t, e.handlers.ProjectRemoved(ctx, ev))
}

func TestContributorRemovedCascade(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	authored := e.seedProject(t, "p1", "c1", 1)
	other := e.seedProject(t, "p2", "author", 1)
	e.seedApplication(t, "a1", "c1", other.ID, other.Positions[0].ID, domain.ApplicationSubmittedStatus)
	require.NoError(t, e.stores.Collaborations.Add(ctx,
		domain.NewCollaboration("col1", "c1", other.ID, other.Positions[0].ID)))

	ev := domain.ContributorRemoved{Header: header("e1"), ContributorID: "c1", AccountID: "acc1"}
	require.NoError(t, e.handlers.ContributorRemoved(ctx, ev))

	p, err := e.stores.Projects.GetByID(ctx, authored.ID)
	require.NoError(t, err)
	assert.True(t, p.Removed)

	// the project removal cascades through the log, not inline
	pending, err := e.stores.Events.GetUnprocessedBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	removed, ok := pending[0].(domain.ProjectRemoved)
	require.True(t, ok)
	assert.Equal(t, authored.ID, removed.ProjectID)

	assert.Equal(t, domain.ApplicationRemovedStatus, e.application(t, "a1").Status)
	collab, err := e.stores.Collaborations.GetByID(ctx, "col1")
	require.NoError(t, err)
	assert.Equal(t, domain.CollaborationRemoved, collab.Status)

	// a second delivery finds the project already removed and moves on
	require.NoError(t, e.handlers.ContributorRemoved(ctx, ev))
	pending, err = e.stores.Events.GetUnprocessedBatch(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
