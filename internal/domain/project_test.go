package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func csBachelors() Hat { return StudentHat{StudyField: "CS", Degree: DegreeBachelors} }

func newTestProject(t *testing.T) *Project {
	t.Helper()
	p, err := NewProject("p1", "author", "Crawler", "A web crawler", testNow, []PositionSpec{
		{Name: "Backend", Description: "Server work", Requirements: csBachelors()},
	})
	require.NoError(t, err)
	return p
}

func TestNewProjectRequiresAPosition(t *testing.T) {
	_, err := NewProject("p1", "author", "Crawler", "", testNow, nil)
	require.Error(t, err)
	assert.True(t, Is(err, CodeInvalidState))
}

func TestNewProjectRejectsDuplicatePositions(t *testing.T) {
	_, err := NewProject("p1", "author", "Crawler", "", testNow, []PositionSpec{
		{Name: "Backend", Requirements: csBachelors()},
		{Name: "Backend", Requirements: csBachelors()},
	})
	require.Error(t, err)
	assert.True(t, Is(err, CodeDuplicateConstraint))
}

func TestAddPositionAllowsSameNameDifferentRequirements(t *testing.T) {
	p := newTestProject(t)
	_, err := p.AddPosition("author", PositionSpec{
		Name:         "Backend",
		Requirements: StudentHat{StudyField: "CS", Degree: DegreeMasters},
	}, testNow)
	assert.NoError(t, err)
}

func TestAddPositionAfterRemovalOfDuplicate(t *testing.T) {
	p := newTestProject(t)
	_, err := p.RemovePosition("author", p.Positions[0].ID, testNow)
	require.NoError(t, err)

	// the removed position no longer blocks the (name, requirements) slot
	_, err = p.AddPosition("author", PositionSpec{Name: "Backend", Requirements: csBachelors()}, testNow)
	assert.NoError(t, err)
}

func TestProjectMutationsAreAuthorOnly(t *testing.T) {
	p := newTestProject(t)
	posID := p.Positions[0].ID

	assert.True(t, Is(p.EditDetails("intruder", "x", "y"), CodeUnauthorized))
	_, err := p.AddPosition("intruder", PositionSpec{Name: "Docs", Requirements: csBachelors()}, testNow)
	assert.True(t, Is(err, CodeUnauthorized))
	_, err = p.ClosePosition("intruder", posID, testNow)
	assert.True(t, Is(err, CodeUnauthorized))
	_, err = p.Remove("intruder", testNow)
	assert.True(t, Is(err, CodeUnauthorized))
}

func TestClosePositionRaisesEventAndBlocksToggle(t *testing.T) {
	p := newTestProject(t)
	posID := p.Positions[0].ID

	events, err := p.ClosePosition("author", posID, testNow)
	require.NoError(t, err)
	require.Len(t, events, 1)
	closed, ok := events[0].(PositionClosed)
	require.True(t, ok)
	assert.Equal(t, p.ID, closed.ProjectID)
	assert.Equal(t, posID, closed.PositionID)

	_, err = p.ClosePosition("author", posID, testNow)
	assert.True(t, Is(err, CodeInvalidState))

	require.NoError(t, p.ReopenPosition("author", posID))
	assert.True(t, p.Positions[0].Open)
}

func TestRemovePositionIsTerminal(t *testing.T) {
	p := newTestProject(t)
	posID := p.Positions[0].ID

	events, err := p.RemovePosition("author", posID, testNow)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.IsType(t, PositionRemoved{}, events[0])

	// the removed position is gone for every later operation
	_, err = p.ClosePosition("author", posID, testNow)
	assert.True(t, Is(err, CodeNotFound))
	assert.True(t, Is(p.ReopenPosition("author", posID), CodeNotFound))
}

func TestRemoveProjectRaisesExactlyOneEvent(t *testing.T) {
	p, err := NewProject("p1", "author", "Crawler", "", testNow, []PositionSpec{
		{Name: "Backend", Requirements: csBachelors()},
		{Name: "Frontend", Requirements: AcademicHat{ResearchField: "HCI"}},
	})
	require.NoError(t, err)

	events, err := p.Remove("author", testNow)
	require.NoError(t, err)
	require.Len(t, events, 1)
	removed, ok := events[0].(ProjectRemoved)
	require.True(t, ok)
	assert.Equal(t, p.ID, removed.ProjectID)

	assert.True(t, p.Removed)
	for _, pos := range p.Positions {
		assert.True(t, pos.Removed)
		assert.False(t, pos.Open)
	}

	_, err = p.Remove("author", testNow)
	assert.True(t, Is(err, CodeInvalidState))
}

func TestSubmitApplicationPreconditions(t *testing.T) {
	p := newTestProject(t)
	posID := p.Positions[0].ID

	// author cannot apply to their own position
	_, _, err := p.SubmitApplication("author", posID, "a1", testNow)
	assert.True(t, Is(err, CodeInvalidState))

	// unknown position
	_, _, err = p.SubmitApplication("applicant", "nope", "a1", testNow)
	assert.True(t, Is(err, CodeNotFound))

	// closed position
	_, err = p.ClosePosition("author", posID, testNow)
	require.NoError(t, err)
	_, _, err = p.SubmitApplication("applicant", posID, "a1", testNow)
	assert.True(t, Is(err, CodeInvalidState))

	// removed project
	require.NoError(t, p.ReopenPosition("author", posID))
	_, err = p.Remove("author", testNow)
	require.NoError(t, err)
	_, _, err = p.SubmitApplication("applicant", posID, "a1", testNow)
	assert.True(t, Is(err, CodeInvalidState))
}

func TestSubmitApplicationHappyPath(t *testing.T) {
	p := newTestProject(t)
	posID := p.Positions[0].ID

	app, events, err := p.SubmitApplication("applicant", posID, "a1", testNow)
	require.NoError(t, err)
	assert.Equal(t, ApplicationSubmittedStatus, app.Status)
	assert.Equal(t, "applicant", app.ApplicantID)
	assert.Equal(t, p.ID, app.ProjectID)
	assert.Equal(t, posID, app.PositionID)

	require.Len(t, events, 1)
	submitted, ok := events[0].(ApplicationSubmitted)
	require.True(t, ok)
	assert.Equal(t, "a1", submitted.ApplicationID)
}

func TestRecommended(t *testing.T) {
	p := newTestProject(t) // needs CS bachelors

	fits := Contributor{ID: "c1", Hats: []Hat{StudentHat{StudyField: "CS", Degree: DegreeMasters}}}
	wrongField := Contributor{ID: "c2", Hats: []Hat{StudentHat{StudyField: "Math", Degree: DegreeDoctorate}}}
	author := Contributor{ID: "author", Hats: fits.Hats}
	removed := Contributor{ID: "c3", Hats: fits.Hats, Removed: true}

	assert.True(t, Recommended(*p, fits))
	assert.False(t, Recommended(*p, wrongField))
	assert.False(t, Recommended(*p, author), "own projects are never recommended")
	assert.False(t, Recommended(*p, removed))

	// closed positions do not count
	_, err := p.ClosePosition("author", p.Positions[0].ID, testNow)
	require.NoError(t, err)
	assert.False(t, Recommended(*p, fits))
}
