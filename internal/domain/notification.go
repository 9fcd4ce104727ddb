package domain

import "time"

type NotificationKind string

const (
	NotificationNewApplicationReceived NotificationKind = "new_application_received"
	NotificationOwnApplicationAccepted NotificationKind = "own_application_accepted"
)

// Notification is a per-recipient inbox entry produced by the consistency
// handlers. Pure read model: it never mutates the aggregates it points at.
type Notification struct {
	ID            string
	RecipientID   string
	Kind          NotificationKind
	ProjectID     string
	PositionID    string
	ApplicationID string
	ActorID       string
	CreatedAt     time.Time
	Processed     bool
}
