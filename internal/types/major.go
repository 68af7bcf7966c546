package types

import (
	"encoding/json"
)

// Major is one admission program row decoded from a faculty's score table.
// Field order matches the serialized output.
type Major struct {
	ID               string          `json:"id"                 bson:"id"`
	Faculty          string          `json:"faculty"            bson:"faculty"`
	Name             string          `json:"name"               bson:"name"`
	StudentInRegular int16           `json:"student_in_regular" bson:"student_in_regular"`
	StudentInSpecial int16           `json:"student_in_special" bson:"student_in_special"`
	Scores           map[string]int8 `json:"scores"             bson:"scores"`
}

// NewMajor creates an empty Major with all fields at their defaults.
func NewMajor() *Major {
	return &Major{
		Scores: make(map[string]int8),
	}
}

// SetScore records a minimum score for a subject. Non-positive scores mean
// "no requirement" and are not stored.
func (m *Major) SetScore(subject string, score int8) bool {
	if score <= 0 {
		return false
	}
	m.Scores[subject] = score
	return true
}

// ScoresJSON returns the score map as compact JSON with sorted keys.
func (m *Major) ScoresJSON() string {
	if len(m.Scores) == 0 {
		return "{}"
	}
	b, _ := json.Marshal(m.Scores)
	return string(b)
}

// Clone creates a deep copy of the major.
func (m *Major) Clone() *Major {
	clone := *m
	clone.Scores = make(map[string]int8, len(m.Scores))
	for k, v := range m.Scores {
		clone.Scores[k] = v
	}
	return &clone
}

// Subjects is the ordered list of subject keys discovered from one faculty's
// header row. Position i corresponds to table column i+4.
type Subjects []string

