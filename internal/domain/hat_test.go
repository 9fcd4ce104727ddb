package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentHatFitsDegreeGrid(t *testing.T) {
	degrees := []Degree{DegreeBachelors, DegreeMasters, DegreeDoctorate}
	for _, candidate := range degrees {
		for _, required := range degrees {
			got := StudentHat{StudyField: "CS", Degree: candidate}.
				Fits(StudentHat{StudyField: "CS", Degree: required})
			assert.Equal(t, candidate >= required, got,
				"candidate %s vs required %s", candidate, required)
		}
	}
}

func TestStudentHatFitsStudyFieldCaseSensitive(t *testing.T) {
	candidate := StudentHat{StudyField: "cs", Degree: DegreeDoctorate}
	assert.False(t, candidate.Fits(StudentHat{StudyField: "CS", Degree: DegreeBachelors}))
}

func TestAcademicHatFits(t *testing.T) {
	assert.True(t, AcademicHat{ResearchField: "Robotics"}.Fits(AcademicHat{ResearchField: "Robotics"}))
	assert.False(t, AcademicHat{ResearchField: "Robotics"}.Fits(AcademicHat{ResearchField: "Biology"}))
}

func TestCrossVariantNeverFits(t *testing.T) {
	student := StudentHat{StudyField: "CS", Degree: DegreeDoctorate}
	academic := AcademicHat{ResearchField: "CS"}
	assert.False(t, student.Fits(academic))
	assert.False(t, academic.Fits(student))
}

func TestHatEquality(t *testing.T) {
	assert.True(t, StudentHat{StudyField: "CS", Degree: DegreeMasters}.
		Equal(StudentHat{StudyField: "CS", Degree: DegreeMasters}))
	assert.False(t, StudentHat{StudyField: "CS", Degree: DegreeMasters}.
		Equal(StudentHat{StudyField: "CS", Degree: DegreeBachelors}))
	assert.False(t, StudentHat{StudyField: "CS", Degree: DegreeMasters}.
		Equal(AcademicHat{ResearchField: "CS"}))
	assert.True(t, AcademicHat{ResearchField: "CS"}.Equal(AcademicHat{ResearchField: "CS"}))
}

func TestHatRecordRoundTrip(t *testing.T) {
	hats := []Hat{
		StudentHat{StudyField: "Physics", Degree: DegreeMasters},
		AcademicHat{ResearchField: "Distributed Systems"},
	}
	for _, h := range hats {
		got, err := HatFromRecord(ToRecord(h))
		require.NoError(t, err)
		assert.True(t, h.Equal(got))
	}
}

func TestHatFromRecordRejectsUnknownKind(t *testing.T) {
	_, err := HatFromRecord(HatRecord{Kind: "wizard"})
	require.Error(t, err)
	assert.True(t, Is(err, CodeInvalidState))
}

func TestParseDegree(t *testing.T) {
	for _, d := range []Degree{DegreeBachelors, DegreeMasters, DegreeDoctorate} {
		got, err := ParseDegree(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	_, err := ParseDegree("phd")
	assert.Error(t, err)
}
