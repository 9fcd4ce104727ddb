package domain

import "time"

type ApplicationStatus string

const (
	ApplicationSubmittedStatus ApplicationStatus = "submitted"
	ApplicationAcceptedStatus  ApplicationStatus = "accepted"
	ApplicationRejectedStatus  ApplicationStatus = "rejected"
	ApplicationRevokedStatus   ApplicationStatus = "revoked"
	ApplicationRemovedStatus   ApplicationStatus = "removed"
)

// Application is one applicant's bid for one position. Created through
// Project.SubmitApplication, which owns the submission preconditions.
type Application struct {
	ID            string
	ApplicantID   string
	ProjectID     string
	PositionID    string
	DateSubmitted time.Time
	Status        ApplicationStatus
}

// Accept, Reject and Revoke are legal only from submitted; Remove is legal
// from any status except removed. Who may call which transition (author vs
// applicant) is checked by the service, which holds both aggregates.

func (a *Application) Accept(now time.Time) ([]Event, error) {
	if a.Status != ApplicationSubmittedStatus {
		return nil, E(CodeInvalidState, "cannot accept an application in status "+string(a.Status))
	}
	a.Status = ApplicationAcceptedStatus
	return []Event{ApplicationAccepted{Header: newHeader(now), ApplicationID: a.ID}}, nil
}

func (a *Application) Reject() error {
	if a.Status != ApplicationSubmittedStatus {
		return E(CodeInvalidState, "cannot reject an application in status "+string(a.Status))
	}
	a.Status = ApplicationRejectedStatus
	return nil
}

func (a *Application) Revoke() error {
	if a.Status != ApplicationSubmittedStatus {
		return E(CodeInvalidState, "cannot revoke an application in status "+string(a.Status))
	}
	a.Status = ApplicationRevokedStatus
	return nil
}

func (a *Application) Remove() error {
	if a.Status == ApplicationRemovedStatus {
		return E(CodeInvalidState, "application is already removed")
	}
	a.Status = ApplicationRemovedStatus
	return nil
}
