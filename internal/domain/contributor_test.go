package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContributorNoDuplicateHats(t *testing.T) {
	c := NewContributor("c1", "acc1", "Ada", "ada@example.org")
	require.NoError(t, c.AddHat(StudentHat{StudyField: "CS", Degree: DegreeMasters}))

	err := c.AddHat(StudentHat{StudyField: "CS", Degree: DegreeMasters})
	assert.True(t, Is(err, CodeDuplicateConstraint))

	// same field in a different variant is a different hat
	require.NoError(t, c.AddHat(AcademicHat{ResearchField: "CS"}))
	// same variant, different degree is a different hat
	require.NoError(t, c.AddHat(StudentHat{StudyField: "CS", Degree: DegreeDoctorate}))
	assert.Len(t, c.Hats, 3)
}

func TestContributorRemoveHat(t *testing.T) {
	c := NewContributor("c1", "acc1", "Ada", "ada@example.org")
	hat := AcademicHat{ResearchField: "Robotics"}
	require.NoError(t, c.AddHat(hat))
	require.NoError(t, c.RemoveHat(hat))
	assert.Empty(t, c.Hats)

	assert.True(t, Is(c.RemoveHat(hat), CodeNotFound))
}

func TestContributorRemoveRaisesEvent(t *testing.T) {
	c := NewContributor("c1", "acc1", "Ada", "ada@example.org")
	events, err := c.Remove(testNow)
	require.NoError(t, err)
	require.Len(t, events, 1)
	removed, ok := events[0].(ContributorRemoved)
	require.True(t, ok)
	assert.Equal(t, "c1", removed.ContributorID)
	assert.Equal(t, "acc1", removed.AccountID)

	assert.True(t, c.Removed)
	_, err = c.Remove(testNow)
	assert.True(t, Is(err, CodeInvalidState))
	assert.True(t, Is(c.AddHat(AcademicHat{ResearchField: "x"}), CodeInvalidState))
}
