package notifications

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collabhub/internal/adapters/memory"
	"collabhub/internal/domain"
)

func seedInbox(t *testing.T, store *memory.NotificationStore, recipientID string, n int) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		require.NoError(t, store.Add(context.Background(), &domain.Notification{
			ID:          fmt.Sprintf("n%02d", i),
			RecipientID: recipientID,
			Kind:        domain.NotificationNewApplicationReceived,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func TestInboxDeliversOldestFirstAndDrains(t *testing.T) {
	stores := memory.New()
	seedInbox(t, stores.Notifications, "r1", 12)
	svc := New(stores.Notifications, 0) // falls back to the default limit

	ctx := context.Background()
	first, err := svc.Inbox(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, first, 10)
	assert.Equal(t, "n00", first[0].ID)
	assert.Equal(t, "n09", first[9].ID)

	second, err := svc.Inbox(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "n10", second[0].ID)

	third, err := svc.Inbox(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, third, "delivered entries are processed exactly once")
}

func TestInboxRespectsConfiguredLimit(t *testing.T) {
	stores := memory.New()
	seedInbox(t, stores.Notifications, "r1", 5)
	svc := New(stores.Notifications, 3)

	batch, err := svc.Inbox(context.Background(), "r1")
	require.NoError(t, err)
	assert.Len(t, batch, 3)
}

func TestInboxIsPerRecipient(t *testing.T) {
	stores := memory.New()
	seedInbox(t, stores.Notifications, "r1", 2)
	svc := New(stores.Notifications, 10)

	batch, err := svc.Inbox(context.Background(), "r2")
	require.NoError(t, err)
	assert.Empty(t, batch)
}
