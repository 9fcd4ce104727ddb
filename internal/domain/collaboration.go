package domain

type CollaborationStatus string

const (
	CollaborationActive  CollaborationStatus = "active"
	CollaborationRemoved CollaborationStatus = "removed"
)

// Collaboration records an accepted applicant's active participation on a
// project position. Created only by the ApplicationAccepted handler.
type Collaboration struct {
	ID             string
	CollaboratorID string
	ProjectID      string
	PositionID     string
	Status         CollaborationStatus
}

func NewCollaboration(id, collaboratorID, projectID, positionID string) *Collaboration {
	return &Collaboration{
		ID:             id,
		CollaboratorID: collaboratorID,
		ProjectID:      projectID,
		PositionID:     positionID,
		Status:         CollaborationActive,
	}
}

func (c *Collaboration) Remove() error {
	if c.Status == CollaborationRemoved {
		return E(CodeInvalidState, "collaboration is already removed")
	}
	c.Status = CollaborationRemoved
	return nil
}
