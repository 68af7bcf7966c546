package scraper

import (
	"github.com/IshaanNene/netsat/internal/parser"
	"github.com/IshaanNene/netsat/internal/types"
)

// FacultyState tracks one faculty through the scrape.
type FacultyState int

const (
	StateNotSelected FacultyState = iota
	StateSelected
	StateTableLocated
	StateNoTable
	StateRowsExtracted
	StateDone
)

func (s FacultyState) String() string {
	switch s {
	case StateNotSelected:
		return "not_selected"
	case StateSelected:
		return "selected"
	case StateTableLocated:
		return "table_located"
	case StateNoTable:
		return "no_table"
	case StateRowsExtracted:
		return "rows_extracted"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// FacultyReport summarizes what happened for one faculty.
type FacultyReport struct {
	// Index is the option's position in the select list.
	Index    int
	Label    string
	State    FacultyState
	Subjects types.Subjects
	Rows     int
	Majors   int
	Cells    parser.RowStats

	// Terminal is the last state reached before Done; either StateNoTable
	// or StateRowsExtracted for a faculty that completed.
	Terminal FacultyState

	// History lists every state the faculty passed through, in order.
	History []FacultyState
}

func newFacultyReport(index int, label string, initial FacultyState) *FacultyReport {
	return &FacultyReport{
		Index:   index,
		Label:   label,
		State:   initial,
		History: []FacultyState{initial},
	}
}

func (r *FacultyReport) advance(next FacultyState) {
	if next == StateDone {
		r.Terminal = r.State
	}
	r.State = next
	r.History = append(r.History, next)
}
