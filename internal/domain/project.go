package domain

import (
	"time"

	"github.com/google/uuid"
)

// Position is owned exclusively by one Project and has no identity outside
// it. Other aggregates reference it only by the (ProjectID, PositionID) pair.
type Position struct {
	ID           string
	Name         string
	Description  string
	Requirements Hat
	DatePosted   time.Time
	Open         bool
	Removed      bool
}

// Project is the transactional boundary for position-level state changes.
type Project struct {
	ID          string
	Title       string
	Description string
	AuthorID    string
	DatePosted  time.Time
	Removed     bool
	Positions   []Position
}

// PositionSpec describes a position to create.
type PositionSpec struct {
	Name         string
	Description  string
	Requirements Hat
}

func newHeader(now time.Time) Header {
	return Header{ID: uuid.NewString(), Time: now}
}

// NewProject creates a project with at least one open position.
func NewProject(id, authorID, title, description string, now time.Time, positions []PositionSpec) (*Project, error) {
	if len(positions) == 0 {
		return nil, E(CodeInvalidState, "a project requires at least one position")
	}
	p := &Project{
		ID:          id,
		Title:       title,
		Description: description,
		AuthorID:    authorID,
		DatePosted:  now,
	}
	for _, spec := range positions {
		if _, err := p.addPosition(spec, now); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Project) mutable(actorID string) error {
	if p.Removed {
		return E(CodeInvalidState, "project is removed")
	}
	if actorID != p.AuthorID {
		return E(CodeUnauthorized, "only the project author may modify it")
	}
	return nil
}

// EditDetails updates title and description. Author only.
func (p *Project) EditDetails(actorID, title, description string) error {
	if err := p.mutable(actorID); err != nil {
		return err
	}
	p.Title = title
	p.Description = description
	return nil
}

func (p *Project) position(positionID string) (*Position, error) {
	for i := range p.Positions {
		if p.Positions[i].ID == positionID && !p.Positions[i].Removed {
			return &p.Positions[i], nil
		}
	}
	return nil, E(CodeNotFound, "position "+positionID+" not found on project "+p.ID)
}

func (p *Project) addPosition(spec PositionSpec, now time.Time) (*Position, error) {
	for i := range p.Positions {
		pos := &p.Positions[i]
		if pos.Removed {
			continue
		}
		if pos.Name == spec.Name && pos.Requirements.Equal(spec.Requirements) {
			return nil, E(CodeDuplicateConstraint, "position with the same name and requirements already exists")
		}
	}
	p.Positions = append(p.Positions, Position{
		ID:           uuid.NewString(),
		Name:         spec.Name,
		Description:  spec.Description,
		Requirements: spec.Requirements,
		DatePosted:   now,
		Open:         true,
	})
	return &p.Positions[len(p.Positions)-1], nil
}

// AddPosition adds an open position. No two non-removed positions may share
// both name and structurally-equal requirements.
func (p *Project) AddPosition(actorID string, spec PositionSpec, now time.Time) (*Position, error) {
	if err := p.mutable(actorID); err != nil {
		return nil, err
	}
	return p.addPosition(spec, now)
}

// ClosePosition toggles an open position closed and raises PositionClosed so
// pending applications get rejected.
func (p *Project) ClosePosition(actorID, positionID string, now time.Time) ([]Event, error) {
	if err := p.mutable(actorID); err != nil {
		return nil, err
	}
	pos, err := p.position(positionID)
	if err != nil {
		return nil, err
	}
	if !pos.Open {
		return nil, E(CodeInvalidState, "position is already closed")
	}
	pos.Open = false
	return []Event{PositionClosed{Header: newHeader(now), ProjectID: p.ID, PositionID: pos.ID}}, nil
}

// ReopenPosition toggles a closed position back open. No event: nothing
// downstream reacts to a reopening.
func (p *Project) ReopenPosition(actorID, positionID string) error {
	if err := p.mutable(actorID); err != nil {
		return err
	}
	pos, err := p.position(positionID)
	if err != nil {
		return err
	}
	if pos.Open {
		return E(CodeInvalidState, "position is already open")
	}
	pos.Open = true
	return nil
}

// RemovePosition is a one-way terminal transition from either open or closed.
func (p *Project) RemovePosition(actorID, positionID string, now time.Time) ([]Event, error) {
	if err := p.mutable(actorID); err != nil {
		return nil, err
	}
	pos, err := p.position(positionID)
	if err != nil {
		return nil, err
	}
	pos.Removed = true
	pos.Open = false
	return []Event{PositionRemoved{Header: newHeader(now), ProjectID: p.ID, PositionID: pos.ID}}, nil
}

// Remove removes the project and all of its live positions. It raises exactly
// one ProjectRemoved; the per-position removals are covered by the project
// cascade and raise nothing themselves.
func (p *Project) Remove(actorID string, now time.Time) ([]Event, error) {
	if err := p.mutable(actorID); err != nil {
		return nil, err
	}
	p.Removed = true
	for i := range p.Positions {
		if !p.Positions[i].Removed {
			p.Positions[i].Removed = true
			p.Positions[i].Open = false
		}
	}
	return []Event{ProjectRemoved{Header: newHeader(now), ProjectID: p.ID}}, nil
}

// SubmitApplication gates a new application on the project's state: the
// project must be live, the position open and not removed, and the applicant
// must not be the author. Uniqueness per (applicant, position) is checked by
// the orchestration layer, which can see the application store.
func (p *Project) SubmitApplication(applicantID, positionID, applicationID string, now time.Time) (*Application, []Event, error) {
	if p.Removed {
		return nil, nil, E(CodeInvalidState, "project is removed")
	}
	if applicantID == p.AuthorID {
		return nil, nil, E(CodeInvalidState, "authors cannot apply to their own positions")
	}
	pos, err := p.position(positionID)
	if err != nil {
		return nil, nil, err
	}
	if !pos.Open {
		return nil, nil, E(CodeInvalidState, "position is closed")
	}
	app := &Application{
		ID:            applicationID,
		ApplicantID:   applicantID,
		ProjectID:     p.ID,
		PositionID:    pos.ID,
		DateSubmitted: now,
		Status:        ApplicationSubmittedStatus,
	}
	events := []Event{ApplicationSubmitted{Header: newHeader(now), ApplicationID: app.ID}}
	return app, events, nil
}

// Recommended reports whether the project is worth surfacing to the
// contributor: some hat they wear fits some open position. Pure predicate,
// reused for discovery ranking and per-position flags.
func Recommended(p Project, c Contributor) bool {
	if p.Removed || c.Removed || c.ID == p.AuthorID {
		return false
	}
	for _, pos := range p.Positions {
		if pos.Removed || !pos.Open {
			continue
		}
		for _, hat := range c.Hats {
			if hat.Fits(pos.Requirements) {
				return true
			}
		}
	}
	return false
}
