package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collabhub/internal/domain"
)

func TestDispatchMarksProcessedAndDelivered(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.seedProject(t, "p1", "author", 1)
	e.seedApplication(t, "a1", "applicant", p.ID, p.Positions[0].ID, domain.ApplicationSubmittedStatus)

	ev := domain.ApplicationSubmitted{Header: header("e1"), ApplicationID: "a1"}
	require.NoError(t, e.stores.Events.Add(ctx, ev))
	require.NoError(t, e.dispatcher.Dispatch(ctx, ev))

	pending, err := e.stores.Events.GetUnprocessedBatch(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	seen, err := e.stores.Dedup.Delivered(ctx, string(ev.Kind()), "e1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestDispatchSkipsDeliveredEvent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.seedProject(t, "p1", "author", 1)
	e.seedApplication(t, "a1", "applicant", p.ID, p.Positions[0].ID, domain.ApplicationSubmittedStatus)

	ev := domain.ApplicationSubmitted{Header: header("e1"), ApplicationID: "a1"}
	require.NoError(t, e.stores.Events.Add(ctx, ev))
	require.NoError(t, e.stores.Dedup.MarkDelivered(ctx, string(ev.Kind()), "e1"))

	require.NoError(t, e.dispatcher.Dispatch(ctx, ev))

	// the handler never ran, but the log entry is settled
	inbox, err := e.stores.Notifications.GetUnprocessedForRecipient(ctx, "author", 10)
	require.NoError(t, err)
	assert.Empty(t, inbox)
	pending, err := e.stores.Events.GetUnprocessedBatch(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDispatchFailureLeavesEventUnprocessed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	ev := domain.ApplicationSubmitted{Header: header("e1"), ApplicationID: "missing"}
	require.NoError(t, e.stores.Events.Add(ctx, ev))

	require.Error(t, e.dispatcher.Dispatch(ctx, ev))

	pending, err := e.stores.Events.GetUnprocessedBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "e1", pending[0].EventID())

	seen, err := e.stores.Dedup.Delivered(ctx, string(ev.Kind()), "e1")
	require.NoError(t, err)
	assert.False(t, seen, "a failed handler must stay eligible for re-delivery")
}
