package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submittedApplication() *Application {
	return &Application{
		ID:            "a1",
		ApplicantID:   "applicant",
		ProjectID:     "p1",
		PositionID:    "pos1",
		DateSubmitted: testNow,
		Status:        ApplicationSubmittedStatus,
	}
}

func TestApplicationAccept(t *testing.T) {
	app := submittedApplication()
	events, err := app.Accept(testNow)
	require.NoError(t, err)
	assert.Equal(t, ApplicationAcceptedStatus, app.Status)
	require.Len(t, events, 1)
	accepted, ok := events[0].(ApplicationAccepted)
	require.True(t, ok)
	assert.Equal(t, app.ID, accepted.ApplicationID)
}

func TestApplicationTransitionsOnlyFromSubmitted(t *testing.T) {
	terminal := []ApplicationStatus{
		ApplicationAcceptedStatus,
		ApplicationRejectedStatus,
		ApplicationRevokedStatus,
		ApplicationRemovedStatus,
	}
	for _, status := range terminal {
		app := submittedApplication()
		app.Status = status

		_, err := app.Accept(testNow)
		assert.True(t, Is(err, CodeInvalidState), "accept from %s", status)
		assert.True(t, Is(app.Reject(), CodeInvalidState), "reject from %s", status)
		assert.True(t, Is(app.Revoke(), CodeInvalidState), "revoke from %s", status)
		assert.Equal(t, status, app.Status, "status must not change on failed transition")
	}
}

func TestApplicationRemoveLegalFromAnyStatusButRemoved(t *testing.T) {
	for _, status := range []ApplicationStatus{
		ApplicationSubmittedStatus,
		ApplicationAcceptedStatus,
		ApplicationRejectedStatus,
		ApplicationRevokedStatus,
	} {
		app := submittedApplication()
		app.Status = status
		require.NoError(t, app.Remove(), "remove from %s", status)
		assert.Equal(t, ApplicationRemovedStatus, app.Status)
	}

	app := submittedApplication()
	app.Status = ApplicationRemovedStatus
	assert.True(t, Is(app.Remove(), CodeInvalidState))
}

func TestApplicationRejectAndRevoke(t *testing.T) {
	app := submittedApplication()
	require.NoError(t, app.Reject())
	assert.Equal(t, ApplicationRejectedStatus, app.Status)

	app = submittedApplication()
	require.NoError(t, app.Revoke())
	assert.Equal(t, ApplicationRevokedStatus, app.Status)
}
