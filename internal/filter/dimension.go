// file: internal/filter/dimension.go
// version: 1.0.0
// guid: 1e7c3b58-9d42-4a06-b8f1-6a2d0e9c5f37

package filter

import "github.com/elsayedebiad/qsr-final-sub001/internal/models"

// All is the sentinel filter value that imposes no constraint.
const All = "ALL"

// Dimension names one independently filterable attribute.
type Dimension string

const (
	DimNationality    Dimension = "nationality"
	DimPosition       Dimension = "position"
	DimAge            Dimension = "age"
	DimSkills         Dimension = "skills"
	DimArabicLevel    Dimension = "arabicLevel"
	DimEnglishLevel   Dimension = "englishLevel"
	DimEducation      Dimension = "education"
	DimExperience     Dimension = "experience"
	DimHeight         Dimension = "height"
	DimWeight         Dimension = "weight"
	DimLocation       Dimension = "location"
	DimReligion       Dimension = "religion"
	DimMaritalStatus  Dimension = "maritalStatus"
	DimPassportStatus Dimension = "passportStatus"
	DimChildren       Dimension = "children"
	DimSalary         Dimension = "salary"
	DimContractPeriod Dimension = "contractPeriod"
	DimDriving        Dimension = "driving"
	DimStatus         Dimension = "status"
)

// AllDimensions lists every dimension in evaluation order.
var AllDimensions = []Dimension{
	DimNationality, DimPosition, DimAge, DimSkills, DimArabicLevel,
	DimEnglishLevel, DimEducation, DimExperience, DimHeight, DimWeight,
	DimLocation, DimReligion, DimMaritalStatus, DimPassportStatus,
	DimChildren, DimSalary, DimContractPeriod, DimDriving, DimStatus,
}

// ParseDimension returns the dimension named s.
func ParseDimension(s string) (Dimension, bool) {
	for _, d := range AllDimensions {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// closedOptions is the option vocabulary offered for each bucketed
// dimension. Open dimensions derive their options from the data instead.
var closedOptions = map[Dimension][]string{
	DimAge:            {"21-30", "30-40", "40-50"},
	DimArabicLevel:    {"YES", "NO", "WILLING", "WEAK"},
	DimEnglishLevel:   {"YES", "NO", "WILLING", "WEAK"},
	DimEducation:      {"EDUCATED", "UNEDUCATED"},
	DimExperience:     {"NONE", "1-2", "3-5", "6-10", "10+"},
	DimHeight:         {"SHORT", "MEDIUM", "TALL"},
	DimWeight:         {"LIGHT", "MEDIUM", "HEAVY"},
	DimReligion:       {"MUSLIM", "CHRISTIAN", "BUDDHIST", "HINDU", "OTHER"},
	DimPassportStatus: {"VALID", "EXPIRED", "MISSING"},
	DimChildren:       {"NONE", "FEW", "MANY"},
	DimSalary:         {"0-500", "501-1000", "1001-1500", "1501+"},
	DimDriving:        {"YES", "NO", "WILLING"},
	DimStatus: {
		string(models.StatusNew), string(models.StatusBooked),
		string(models.StatusRejected), string(models.StatusReturned),
	},
}

// Options returns the closed option list of d, or nil for open dimensions.
func Options(d Dimension) []string {
	if d == DimSkills {
		out := make([]string, len(models.AllSkills))
		for i, s := range models.AllSkills {
			out[i] = string(s)
		}
		return out
	}
	opts := closedOptions[d]
	if opts == nil {
		return nil
	}
	return append([]string(nil), opts...)
}

// IsOpen reports whether d takes free values drawn from the records.
func IsOpen(d Dimension) bool {
	switch d {
	case DimNationality, DimPosition, DimLocation, DimMaritalStatus, DimContractPeriod:
		return true
	}
	return false
}
