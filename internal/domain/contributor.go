package domain

import "time"

// Contributor is the identity aggregate: who someone is and which hats they
// wear. Hats feed the matching predicate; AccountID ties the contributor to
// the external identity provider.
type Contributor struct {
	ID           string
	AccountID    string
	FullName     string
	ContactEmail string
	Hats         []Hat
	Removed      bool
}

func NewContributor(id, accountID, fullName, contactEmail string) *Contributor {
	return &Contributor{ID: id, AccountID: accountID, FullName: fullName, ContactEmail: contactEmail}
}

func (c *Contributor) live() error {
	if c.Removed {
		return E(CodeInvalidState, "contributor is removed")
	}
	return nil
}

func (c *Contributor) Rename(fullName, contactEmail string) error {
	if err := c.live(); err != nil {
		return err
	}
	c.FullName = fullName
	c.ContactEmail = contactEmail
	return nil
}

// AddHat enforces the no-duplicate-hats invariant: no two structurally-equal
// hats on one contributor.
func (c *Contributor) AddHat(hat Hat) error {
	if err := c.live(); err != nil {
		return err
	}
	for _, h := range c.Hats {
		if h.Equal(hat) {
			return E(CodeDuplicateConstraint, "contributor already wears this hat")
		}
	}
	c.Hats = append(c.Hats, hat)
	return nil
}

func (c *Contributor) RemoveHat(hat Hat) error {
	if err := c.live(); err != nil {
		return err
	}
	for i, h := range c.Hats {
		if h.Equal(hat) {
			c.Hats = append(c.Hats[:i], c.Hats[i+1:]...)
			return nil
		}
	}
	return E(CodeNotFound, "contributor does not wear this hat")
}

// Remove raises ContributorRemoved; the handler cascades to projects,
// applications, collaborations and the identity-provider account.
func (c *Contributor) Remove(now time.Time) ([]Event, error) {
	if err := c.live(); err != nil {
		return nil, err
	}
	c.Removed = true
	return []Event{ContributorRemoved{Header: newHeader(now), ContributorID: c.ID, AccountID: c.AccountID}}, nil
}
