package notifications

import (
	"context"

	"collabhub/internal/domain"
	"collabhub/internal/ports"
)

const defaultInboxLimit = 10

// Service reads a recipient's inbox of unprocessed notifications.
type Service struct {
	notifications ports.NotificationStore
	limit         int
}

func New(notifications ports.NotificationStore, limit int) *Service {
	if limit <= 0 || limit > defaultInboxLimit {
		limit = defaultInboxLimit
	}
	return &Service{notifications: notifications, limit: limit}
}

// Inbox returns up to the configured limit of unprocessed notifications,
// oldest first, and marks the returned entries processed so they are
// delivered once.
func (s *Service) Inbox(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	batch, err := s.notifications.GetUnprocessedForRecipient(ctx, recipientID, s.limit)
	if err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return nil, nil
	}
	ids := make([]string, len(batch))
	for i, n := range batch {
		ids[i] = n.ID
	}
	if err := s.notifications.MarkProcessed(ctx, ids); err != nil {
		return nil, err
	}
	return batch, nil
}
