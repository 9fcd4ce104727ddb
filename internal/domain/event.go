package domain

import "time"

// EventKind discriminates domain event variants in the log.
type EventKind string

const (
	EventProjectRemoved       EventKind = "project_removed"
	EventPositionClosed       EventKind = "position_closed"
	EventPositionRemoved      EventKind = "position_removed"
	EventContributorRemoved   EventKind = "contributor_removed"
	EventApplicationSubmitted EventKind = "application_submitted"
	EventApplicationAccepted  EventKind = "application_accepted"
)

// Event is an immutable fact about a committed aggregate state change.
// Mutating aggregate operations return their pending events explicitly; the
// orchestrating service appends them to the log after persisting the
// aggregate. Consumers must assume at-least-once delivery.
type Event interface {
	EventID() string
	RaisedAt() time.Time
	Kind() EventKind

	sealedEvent()
}

// Header carries the identity shared by every event variant.
type Header struct {
	ID   string
	Time time.Time
}

func (h Header) EventID() string     { return h.ID }
func (h Header) RaisedAt() time.Time { return h.Time }
func (Header) sealedEvent()          {}

type ProjectRemoved struct {
	Header
	ProjectID string
}

func (ProjectRemoved) Kind() EventKind { return EventProjectRemoved }

type PositionClosed struct {
	Header
	ProjectID  string
	PositionID string
}

func (PositionClosed) Kind() EventKind { return EventPositionClosed }

type PositionRemoved struct {
	Header
	ProjectID  string
	PositionID string
}

func (PositionRemoved) Kind() EventKind { return EventPositionRemoved }

type ContributorRemoved struct {
	Header
	ContributorID string
	AccountID     string
}

func (ContributorRemoved) Kind() EventKind { return EventContributorRemoved }

type ApplicationSubmitted struct {
	Header
	ApplicationID string
}

func (ApplicationSubmitted) Kind() EventKind { return EventApplicationSubmitted }

type ApplicationAccepted struct {
	Header
	ApplicationID string
}

func (ApplicationAccepted) Kind() EventKind { return EventApplicationAccepted }
