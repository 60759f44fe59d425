// file: internal/filter/state.go
// version: 1.0.0
// guid: 0d5a8c21-6e3f-4b97-a4c2-9f18e7b06d53

package filter

import (
	"net/url"
	"strings"

	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
)

// FilterState is the operator's current selection: one value per dimension
// plus the multi-select skills set. The zero value selects everything.
type FilterState struct {
	values map[Dimension]string
	skills []models.SkillKey
}

// NewFilterState returns an empty state with every dimension at ALL.
func NewFilterState() *FilterState {
	return &FilterState{values: make(map[Dimension]string)}
}

// Set assigns value to d. ALL or an empty value clears the dimension.
// Setting DimSkills replaces the skills set with the comma-separated keys.
func (s *FilterState) Set(d Dimension, value string) *FilterState {
	value = strings.TrimSpace(value)
	if d == DimSkills {
		s.skills = nil
		if value != All {
			for _, k := range strings.Split(value, ",") {
				s.addSkill(models.SkillKey(strings.TrimSpace(k)))
			}
		}
		return s
	}
	if s.values == nil {
		s.values = make(map[Dimension]string)
	}
	if value == "" || value == All {
		delete(s.values, d)
		return s
	}
	s.values[d] = value
	return s
}

// Get returns the value of d, or ALL when unset.
func (s *FilterState) Get(d Dimension) string {
	if d == DimSkills {
		if len(s.skills) == 0 {
			return All
		}
		return joinSkills(s.skills)
	}
	if v, ok := s.values[d]; ok {
		return v
	}
	return All
}

// ToggleSkill adds key to the skills set, or removes it when present.
func (s *FilterState) ToggleSkill(key models.SkillKey) *FilterState {
	if key == "" {
		return s
	}
	for i, k := range s.skills {
		if k == key {
			s.skills = append(s.skills[:i:i], s.skills[i+1:]...)
			return s
		}
	}
	s.skills = append(s.skills, key)
	return s
}

func (s *FilterState) addSkill(key models.SkillKey) {
	if key == "" {
		return
	}
	for _, k := range s.skills {
		if k == key {
			return
		}
	}
	s.skills = append(s.skills, key)
}

// Skills returns a copy of the selected skill keys.
func (s *FilterState) Skills() []models.SkillKey {
	return append([]models.SkillKey(nil), s.skills...)
}

// Reset clears every dimension.
func (s *FilterState) Reset() {
	s.values = make(map[Dimension]string)
	s.skills = nil
}

// Active returns the constrained dimensions in evaluation order.
func (s *FilterState) Active() []Dimension {
	var out []Dimension
	for _, d := range AllDimensions {
		if s.Get(d) != All {
			out = append(out, d)
		}
	}
	return out
}

// Clone returns an independent copy.
func (s *FilterState) Clone() *FilterState {
	c := NewFilterState()
	for d, v := range s.values {
		c.values[d] = v
	}
	c.skills = s.Skills()
	return c
}

// FilterStateFromQuery builds a state from query parameters named after the
// dimensions. Skills may be repeated or comma-separated.
func FilterStateFromQuery(q url.Values) *FilterState {
	s := NewFilterState()
	for _, d := range AllDimensions {
		if d == DimSkills {
			continue
		}
		if v := q.Get(string(d)); v != "" {
			s.Set(d, v)
		}
	}
	for _, raw := range q[string(DimSkills)] {
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != All {
				s.addSkill(models.SkillKey(k))
			}
		}
	}
	return s
}

func joinSkills(keys []models.SkillKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}
