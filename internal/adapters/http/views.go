package httpadapter

import (
	"time"

	"collabhub/internal/domain"
)

// Display models, mapped explicitly per variant. The hat union crosses the
// wire as its flat HatRecord shape.

type PositionView struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Requirements domain.HatRecord `json:"requirements"`
	DatePosted   time.Time        `json:"date_posted"`
	Open         bool             `json:"open"`
	Removed      bool             `json:"removed"`
}

type ProjectView struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	AuthorID    string         `json:"author_id"`
	DatePosted  time.Time      `json:"date_posted"`
	Positions   []PositionView `json:"positions"`
}

type ContributorView struct {
	ID           string             `json:"id"`
	AccountID    string             `json:"account_id"`
	FullName     string             `json:"full_name"`
	ContactEmail string             `json:"contact_email"`
	Hats         []domain.HatRecord `json:"hats"`
}

func positionView(pos domain.Position) PositionView {
	return PositionView{
		ID:           pos.ID,
		Name:         pos.Name,
		Description:  pos.Description,
		Requirements: domain.ToRecord(pos.Requirements),
		DatePosted:   pos.DatePosted,
		Open:         pos.Open,
		Removed:      pos.Removed,
	}
}

func projectView(p *domain.Project) ProjectView {
	view := ProjectView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		AuthorID:    p.AuthorID,
		DatePosted:  p.DatePosted,
		Positions:   make([]PositionView, 0, len(p.Positions)),
	}
	for _, pos := range p.Positions {
		if pos.Removed {
			continue
		}
		view.Positions = append(view.Positions, positionView(pos))
	}
	return view
}

func projectViews(projects []domain.Project) []ProjectView {
	out := make([]ProjectView, 0, len(projects))
	for i := range projects {
		out = append(out, projectView(&projects[i]))
	}
	return out
}

func contributorView(c *domain.Contributor) ContributorView {
	view := ContributorView{
		ID:           c.ID,
		AccountID:    c.AccountID,
		FullName:     c.FullName,
		ContactEmail: c.ContactEmail,
		Hats:         make([]domain.HatRecord, 0, len(c.Hats)),
	}
	for _, h := range c.Hats {
		view.Hats = append(view.Hats, domain.ToRecord(h))
	}
	return view
}
