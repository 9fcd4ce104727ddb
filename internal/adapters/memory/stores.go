package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"collabhub/internal/domain"
	"collabhub/internal/ports"
)

// In-memory implementations of the store ports. They back the test suites
// and DATABASE_URL-less local runs. Reads hand out copies so callers get the
// same load/mutate/save semantics as the SQL adapter.

// Stores bundles one instance of every port implementation over shared maps.
type Stores struct {
	Projects       *ProjectStore
	Applications   *ApplicationStore
	Collaborations *CollaborationStore
	Contributors   *ContributorStore
	Notifications  *NotificationStore
	Events         *EventStore
	Dedup          *Deduper
}

func New() *Stores {
	projects := &ProjectStore{items: map[string]domain.Project{}}
	return &Stores{
		Projects:       projects,
		Applications:   &ApplicationStore{items: map[string]domain.Application{}, projects: projects},
		Collaborations: &CollaborationStore{items: map[string]domain.Collaboration{}},
		Contributors:   &ContributorStore{items: map[string]domain.Contributor{}},
		Notifications:  &NotificationStore{items: map[string]domain.Notification{}},
		Events:         &EventStore{items: map[string]ports.StoredEvent{}},
		Dedup:          &Deduper{seen: map[string]bool{}},
	}
}

// --- projects ---

type ProjectStore struct {
	mu    sync.Mutex
	items map[string]domain.Project
}

func copyProject(p domain.Project) domain.Project {
	out := p
	out.Positions = append([]domain.Position(nil), p.Positions...)
	return out
}

func (s *ProjectStore) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, domain.E(domain.CodeNotFound, "project "+id+" not found")
	}
	out := copyProject(p)
	return &out, nil
}

func (s *ProjectStore) Add(ctx context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[p.ID] = copyProject(*p)
	return nil
}

func (s *ProjectStore) Update(ctx context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[p.ID]; !ok {
		return domain.E(domain.CodeNotFound, "project "+p.ID+" not found")
	}
	s.items[p.ID] = copyProject(*p)
	return nil
}

func (s *ProjectStore) GetByAuthor(ctx context.Context, authorID string) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Project
	for _, p := range s.items {
		if p.AuthorID == authorID {
			out = append(out, copyProject(p))
		}
	}
	sortProjects(out, ports.SortNewestFirst)
	return out, nil
}

func sortProjects(projects []domain.Project, opt ports.SortOption) {
	switch opt {
	case ports.SortOldestFirst:
		sort.Slice(projects, func(i, j int) bool { return projects[i].DatePosted.Before(projects[j].DatePosted) })
	case ports.SortByTitle:
		sort.Slice(projects, func(i, j int) bool { return projects[i].Title < projects[j].Title })
	default:
		sort.Slice(projects, func(i, j int) bool { return projects[j].DatePosted.Before(projects[i].DatePosted) })
	}
}

func hatMatchesProject(hat domain.Hat, p domain.Project) bool {
	for _, pos := range p.Positions {
		if pos.Removed || !pos.Open {
			continue
		}
		if hat.Fits(pos.Requirements) {
			return true
		}
	}
	return false
}

func (s *ProjectStore) Discover(ctx context.Context, filter ports.DiscoverFilter) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keyword := strings.ToLower(filter.Keyword)
	var out []domain.Project
	for _, p := range s.items {
		if p.Removed {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(p.Title), keyword) &&
			!strings.Contains(strings.ToLower(p.Description), keyword) {
			continue
		}
		if filter.MatchingHat != nil && !hatMatchesProject(filter.MatchingHat, p) {
			continue
		}
		out = append(out, copyProject(p))
	}
	sortProjects(out, filter.Sort)
	return out, nil
}

func (s *ProjectStore) GetRecommendedFor(ctx context.Context, hats []domain.Hat) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Project
	for _, p := range s.items {
		if p.Removed {
			continue
		}
		for _, hat := range hats {
			if hatMatchesProject(hat, p) {
				out = append(out, copyProject(p))
				break
			}
		}
	}
	sortProjects(out, ports.SortNewestFirst)
	return out, nil
}

func (s *ProjectStore) authoredSet(authorID string) map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]bool{}
	for _, p := range s.items {
		if p.AuthorID == authorID {
			out[p.ID] = true
		}
	}
	return out
}

// --- applications ---

type ApplicationStore struct {
	mu       sync.Mutex
	items    map[string]domain.Application
	projects *ProjectStore
}

func (s *ApplicationStore) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.items[id]
	if !ok {
		return nil, domain.E(domain.CodeNotFound, "application "+id+" not found")
	}
	out := a
	return &out, nil
}

func (s *ApplicationStore) Add(ctx context.Context, a *domain.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[a.ID] = *a
	return nil
}

func (s *ApplicationStore) Update(ctx context.Context, a *domain.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[a.ID]; !ok {
		return domain.E(domain.CodeNotFound, "application "+a.ID+" not found")
	}
	s.items[a.ID] = *a
	return nil
}

func (s *ApplicationStore) GetByApplicantAndPosition(ctx context.Context, applicantID, positionID string) (*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.items {
		if a.ApplicantID == applicantID && a.PositionID == positionID && a.Status == domain.ApplicationSubmittedStatus {
			out := a
			return &out, nil
		}
	}
	return nil, domain.E(domain.CodeNotFound, "no application for applicant and position")
}

func (s *ApplicationStore) list(match func(domain.Application) bool) []domain.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Application
	for _, a := range s.items {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateSubmitted.Before(out[j].DateSubmitted) })
	return out
}

func statusMatches(a domain.Application, filter ports.ApplicationFilter) bool {
	return filter.Status == "" || a.Status == filter.Status
}

func (s *ApplicationStore) GetReceived(ctx context.Context, authorID string, filter ports.ApplicationFilter) ([]domain.Application, error) {
	authored := s.projects.authoredSet(authorID)
	return s.list(func(a domain.Application) bool {
		return authored[a.ProjectID] && statusMatches(a, filter)
	}), nil
}

func (s *ApplicationStore) GetSent(ctx context.Context, applicantID string, filter ports.ApplicationFilter) ([]domain.Application, error) {
	return s.list(func(a domain.Application) bool {
		return a.ApplicantID == applicantID && statusMatches(a, filter)
	}), nil
}

func (s *ApplicationStore) GetByProject(ctx context.Context, projectID string) ([]domain.Application, error) {
	return s.list(func(a domain.Application) bool { return a.ProjectID == projectID }), nil
}

func (s *ApplicationStore) GetByPosition(ctx context.Context, projectID, positionID string) ([]domain.Application, error) {
	return s.list(func(a domain.Application) bool {
		return a.ProjectID == projectID && a.PositionID == positionID
	}), nil
}

func (s *ApplicationStore) GetByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error) {
	return s.list(func(a domain.Application) bool { return a.ApplicantID == applicantID }), nil
}

// --- collaborations ---

type CollaborationStore struct {
	mu    sync.Mutex
	items map[string]domain.Collaboration
}

func (s *CollaborationStore) GetByID(ctx context.Context, id string) (*domain.Collaboration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, domain.E(domain.CodeNotFound, "collaboration "+id+" not found")
	}
	out := c
	return &out, nil
}

func (s *CollaborationStore) Add(ctx context.Context, c *domain.Collaboration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[c.ID] = *c
	return nil
}

func (s *CollaborationStore) Update(ctx context.Context, c *domain.Collaboration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[c.ID]; !ok {
		return domain.E(domain.CodeNotFound, "collaboration "+c.ID+" not found")
	}
	s.items[c.ID] = *c
	return nil
}

func (s *CollaborationStore) GetAllForProject(ctx context.Context, projectID string) ([]domain.Collaboration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Collaboration
	for _, c := range s.items {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *CollaborationStore) GetAllByCollaborator(ctx context.Context, collaboratorID string) ([]domain.Collaboration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Collaboration
	for _, c := range s.items {
		if c.CollaboratorID == collaboratorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *CollaborationStore) FindActive(ctx context.Context, collaboratorID, projectID, positionID string) (*domain.Collaboration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if c.CollaboratorID == collaboratorID && c.ProjectID == projectID &&
			c.PositionID == positionID && c.Status == domain.CollaborationActive {
			out := c
			return &out, nil
		}
	}
	return nil, domain.E(domain.CodeNotFound, "no active collaboration for triple")
}

// --- contributors ---

type ContributorStore struct {
	mu    sync.Mutex
	items map[string]domain.Contributor
}

func copyContributor(c domain.Contributor) domain.Contributor {
	out := c
	out.Hats = append([]domain.Hat(nil), c.Hats...)
	return out
}

func (s *ContributorStore) GetByID(ctx context.Context, id string) (*domain.Contributor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, domain.E(domain.CodeNotFound, "contributor "+id+" not found")
	}
	out := copyContributor(c)
	return &out, nil
}

func (s *ContributorStore) GetByAccountID(ctx context.Context, accountID string) (*domain.Contributor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if c.AccountID == accountID {
			out := copyContributor(c)
			return &out, nil
		}
	}
	return nil, domain.E(domain.CodeNotFound, "no contributor for account "+accountID)
}

func (s *ContributorStore) Add(ctx context.Context, c *domain.Contributor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[c.ID] = copyContributor(*c)
	return nil
}

func (s *ContributorStore) Update(ctx context.Context, c *domain.Contributor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[c.ID]; !ok {
		return domain.E(domain.CodeNotFound, "contributor "+c.ID+" not found")
	}
	s.items[c.ID] = copyContributor(*c)
	return nil
}

// --- notifications ---

type NotificationStore struct {
	mu    sync.Mutex
	items map[string]domain.Notification
}

func (s *NotificationStore) Add(ctx context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[n.ID] = *n
	return nil
}

func (s *NotificationStore) GetUnprocessedForRecipient(ctx context.Context, recipientID string, max int) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Notification
	for _, n := range s.items {
		if n.RecipientID == recipientID && !n.Processed {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > max {
		out = out[:max]
	}
	return out, nil
}

func (s *NotificationStore) MarkProcessed(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		n, ok := s.items[id]
		if !ok {
			continue
		}
		n.Processed = true
		s.items[id] = n
	}
	return nil
}

// --- domain event log ---

type EventStore struct {
	mu    sync.Mutex
	order []string
	items map[string]ports.StoredEvent
}

func (s *EventStore) Add(ctx context.Context, ev domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[ev.EventID()]; !ok {
		s.order = append(s.order, ev.EventID())
	}
	s.items[ev.EventID()] = ports.StoredEvent{Event: ev}
	return nil
}

func (s *EventStore) GetUnprocessedBatch(ctx context.Context, n int) ([]domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Event
	for _, id := range s.order {
		se := s.items[id]
		if se.Processed {
			continue
		}
		out = append(out, se.Event)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

func (s *EventStore) MarkProcessed(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	se, ok := s.items[eventID]
	if !ok {
		return domain.E(domain.CodeNotFound, "event "+eventID+" not found")
	}
	se.Processed = true
	s.items[eventID] = se
	return nil
}

// --- dedup ledger ---

type Deduper struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (d *Deduper) Delivered(ctx context.Context, handler, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seen[handler+"/"+eventID], nil
}

func (d *Deduper) MarkDelivered(ctx context.Context, handler, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[handler+"/"+eventID] = true
	return nil
}
