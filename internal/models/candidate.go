// file: internal/models/candidate.go
// version: 1.0.0
// guid: 3f1c9a52-7d64-4b8e-a1f0-5c2e8d947b13

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Status is the lifecycle state of a candidate record.
type Status string

const (
	StatusNew      Status = "NEW"
	StatusBooked   Status = "BOOKED"
	StatusHired    Status = "HIRED"
	StatusRejected Status = "REJECTED"
	StatusReturned Status = "RETURNED"
	StatusArchived Status = "ARCHIVED"
)

// Discoverable reports whether a record in this status may appear in any
// listing, search result or facet count.
func (s Status) Discoverable() bool {
	switch Status(strings.ToUpper(strings.TrimSpace(string(s)))) {
	case StatusHired, StatusArchived:
		return false
	}
	return true
}

// SkillLevel is the tri-state proficiency value. The empty value means the
// level was never recorded.
type SkillLevel string

const (
	LevelNone    SkillLevel = ""
	LevelYes     SkillLevel = "YES"
	LevelNo      SkillLevel = "NO"
	LevelWilling SkillLevel = "WILLING"
)

// ParseSkillLevel maps loosely formatted input onto the closed level set.
// Unrecognized text is kept upper-cased so predicates can reject it.
func ParseSkillLevel(s string) SkillLevel {
	v := strings.TrimSpace(s)
	switch strings.ToUpper(v) {
	case "":
		return LevelNone
	case "YES", "Y", "TRUE", "نعم":
		return LevelYes
	case "NO", "N", "FALSE", "لا":
		return LevelNo
	case "WILLING", "مستعد", "مستعدة", "راغب", "راغبة":
		return LevelWilling
	}
	return SkillLevel(strings.ToUpper(v))
}

// Capable reports whether the level counts as having the skill.
func (l SkillLevel) Capable() bool {
	return l == LevelYes || l == LevelWilling
}

// OrNo returns the level with a missing value treated as NO.
func (l SkillLevel) OrNo() SkillLevel {
	if l == LevelNone {
		return LevelNo
	}
	return l
}

func (l *SkillLevel) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*l = LevelNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var b bool
		if berr := json.Unmarshal(data, &b); berr != nil {
			return fmt.Errorf("skill level: %w", err)
		}
		if b {
			s = string(LevelYes)
		} else {
			s = string(LevelNo)
		}
	}
	*l = ParseSkillLevel(s)
	return nil
}

// SkillKey names one of the fixed skill attributes.
type SkillKey string

const (
	SkillBabySitting   SkillKey = "babySitting"
	SkillChildrenCare  SkillKey = "childrenCare"
	SkillTutoring      SkillKey = "tutoring"
	SkillDisabledCare  SkillKey = "disabledCare"
	SkillCleaning      SkillKey = "cleaning"
	SkillWashing       SkillKey = "washing"
	SkillIroning       SkillKey = "ironing"
	SkillArabicCooking SkillKey = "arabicCooking"
	SkillSewing        SkillKey = "sewing"
	SkillDriving       SkillKey = "driving"
)

// AllSkills lists the skill keys in display order.
var AllSkills = []SkillKey{
	SkillBabySitting, SkillChildrenCare, SkillTutoring, SkillDisabledCare,
	SkillCleaning, SkillWashing, SkillIroning, SkillArabicCooking,
	SkillSewing, SkillDriving,
}

// FlexString accepts either a JSON string or a JSON number. Upstream data
// stores ids, heights and salaries inconsistently.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// FlexInt accepts a JSON number or a numeric string.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	if strings.TrimSpace(raw) == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("expected integer: %w", err)
	}
	*f = FlexInt(int(v))
	return nil
}

// CandidateRecord is one candidate profile as delivered by the records
// collaborator. The engine never mutates it.
type CandidateRecord struct {
	ID             FlexString `json:"id"`
	FullName       string     `json:"fullName"`
	FullNameArabic string     `json:"fullNameArabic,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	ReferenceCode  string     `json:"referenceCode,omitempty"`
	Position       string     `json:"position,omitempty"`
	Nationality    string     `json:"nationality,omitempty"`
	Religion       string     `json:"religion,omitempty"`
	MaritalStatus  string     `json:"maritalStatus,omitempty"`
	Age            FlexInt    `json:"age,omitempty"`

	Education      string `json:"education,omitempty"`
	EducationLevel string `json:"educationLevel,omitempty"`
	Experience     string `json:"experience,omitempty"`

	PassportNumber     string `json:"passportNumber,omitempty"`
	PassportExpiryDate string `json:"passportExpiryDate,omitempty"`

	Height           FlexString `json:"height,omitempty"`
	Weight           FlexString `json:"weight,omitempty"`
	NumberOfChildren *FlexInt   `json:"numberOfChildren,omitempty"`
	LivingTown       string     `json:"livingTown,omitempty"`
	PlaceOfBirth     string     `json:"placeOfBirth,omitempty"`
	MonthlySalary    FlexString `json:"monthlySalary,omitempty"`
	ContractPeriod   string     `json:"contractPeriod,omitempty"`

	BabySitting   SkillLevel `json:"babySitting,omitempty"`
	ChildrenCare  SkillLevel `json:"childrenCare,omitempty"`
	Tutoring      SkillLevel `json:"tutoring,omitempty"`
	DisabledCare  SkillLevel `json:"disabledCare,omitempty"`
	Cleaning      SkillLevel `json:"cleaning,omitempty"`
	Washing       SkillLevel `json:"washing,omitempty"`
	Ironing       SkillLevel `json:"ironing,omitempty"`
	ArabicCooking SkillLevel `json:"arabicCooking,omitempty"`
	Sewing        SkillLevel `json:"sewing,omitempty"`
	Driving       SkillLevel `json:"driving,omitempty"`

	ArabicLevel  SkillLevel `json:"arabicLevel,omitempty"`
	EnglishLevel SkillLevel `json:"englishLevel,omitempty"`

	Status Status `json:"status,omitempty"`
}

// Key returns the record id as a plain string.
func (r *CandidateRecord) Key() string {
	return strings.TrimSpace(string(r.ID))
}

// Skill returns the level for key and whether key names a known skill.
func (r *CandidateRecord) Skill(key SkillKey) (SkillLevel, bool) {
	switch key {
	case SkillBabySitting:
		return r.BabySitting, true
	case SkillChildrenCare:
		return r.ChildrenCare, true
	case SkillTutoring:
		return r.Tutoring, true
	case SkillDisabledCare:
		return r.DisabledCare, true
	case SkillCleaning:
		return r.Cleaning, true
	case SkillWashing:
		return r.Washing, true
	case SkillIroning:
		return r.Ironing, true
	case SkillArabicCooking:
		return r.ArabicCooking, true
	case SkillSewing:
		return r.Sewing, true
	case SkillDriving:
		return r.Driving, true
	}
	return LevelNone, false
}

// EducationText prefers the structured education level over the free text.
func (r *CandidateRecord) EducationText() string {
	if s := strings.TrimSpace(r.EducationLevel); s != "" {
		return s
	}
	return strings.TrimSpace(r.Education)
}

// ChildrenCount treats a missing count as zero.
func (r *CandidateRecord) ChildrenCount() int {
	if r.NumberOfChildren == nil {
		return 0
	}
	return int(*r.NumberOfChildren)
}

// DisplayName returns the best available human name for the record.
func (r *CandidateRecord) DisplayName() string {
	if s := strings.TrimSpace(r.FullName); s != "" {
		return s
	}
	if s := strings.TrimSpace(r.FullNameArabic); s != "" {
		return s
	}
	return "cv"
}
