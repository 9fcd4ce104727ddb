package domain

import "fmt"

// Degree ranks academic degrees. Comparison is ordinal: a candidate degree
// satisfies a requirement when it is greater or equal.
type Degree int

const (
	DegreeBachelors Degree = iota + 1
	DegreeMasters
	DegreeDoctorate
)

func (d Degree) String() string {
	switch d {
	case DegreeBachelors:
		return "bachelors"
	case DegreeMasters:
		return "masters"
	case DegreeDoctorate:
		return "doctorate"
	default:
		return fmt.Sprintf("degree(%d)", int(d))
	}
}

func ParseDegree(s string) (Degree, error) {
	switch s {
	case "bachelors":
		return DegreeBachelors, nil
	case "masters":
		return DegreeMasters, nil
	case "doctorate":
		return DegreeDoctorate, nil
	default:
		return 0, E(CodeInvalidState, "unknown degree "+s)
	}
}

// Hat is a contributor qualification profile, used both as an identity facet
// and as a position requirement. The union is closed: StudentHat and
// AcademicHat are the only variants.
type Hat interface {
	// Fits reports whether this hat, worn by a candidate, satisfies the
	// given required hat. Cross-variant hats never fit.
	Fits(required Hat) bool
	// Equal is structural and variant-sensitive.
	Equal(other Hat) bool
	Kind() HatKind

	sealedHat()
}

type HatKind string

const (
	HatKindStudent  HatKind = "student"
	HatKindAcademic HatKind = "academic"
)

type StudentHat struct {
	StudyField string
	Degree     Degree
}

func (h StudentHat) Kind() HatKind { return HatKindStudent }
func (StudentHat) sealedHat()      {}

func (h StudentHat) Fits(required Hat) bool {
	req, ok := required.(StudentHat)
	if !ok {
		return false
	}
	return h.StudyField == req.StudyField && h.Degree >= req.Degree
}

func (h StudentHat) Equal(other Hat) bool {
	o, ok := other.(StudentHat)
	return ok && h == o
}

type AcademicHat struct {
	ResearchField string
}

func (h AcademicHat) Kind() HatKind { return HatKindAcademic }
func (AcademicHat) sealedHat()      {}

func (h AcademicHat) Fits(required Hat) bool {
	req, ok := required.(AcademicHat)
	if !ok {
		return false
	}
	return h.ResearchField == req.ResearchField
}

func (h AcademicHat) Equal(other Hat) bool {
	o, ok := other.(AcademicHat)
	return ok && h == o
}

// HatRecord is the flat wire/storage shape of a Hat. Mapping is explicit per
// variant; adapters must not reflect over the union.
type HatRecord struct {
	Kind          HatKind `json:"kind"`
	StudyField    string  `json:"study_field,omitempty"`
	Degree        string  `json:"degree,omitempty"`
	ResearchField string  `json:"research_field,omitempty"`
}

func ToRecord(h Hat) HatRecord {
	switch v := h.(type) {
	case StudentHat:
		return HatRecord{Kind: HatKindStudent, StudyField: v.StudyField, Degree: v.Degree.String()}
	case AcademicHat:
		return HatRecord{Kind: HatKindAcademic, ResearchField: v.ResearchField}
	default:
		panic(fmt.Sprintf("unreachable hat variant %T", h))
	}
}

func HatFromRecord(r HatRecord) (Hat, error) {
	switch r.Kind {
	case HatKindStudent:
		deg, err := ParseDegree(r.Degree)
		if err != nil {
			return nil, err
		}
		return StudentHat{StudyField: r.StudyField, Degree: deg}, nil
	case HatKindAcademic:
		return AcademicHat{ResearchField: r.ResearchField}, nil
	default:
		return nil, E(CodeInvalidState, "unknown hat kind "+string(r.Kind))
	}
}
