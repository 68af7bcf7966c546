package parser

import (
	"fmt"

	"github.com/IshaanNene/netsat/internal/types"
)

// FieldKind names the Major field a table column decodes into.
type FieldKind int

const (
	FieldID FieldKind = iota
	FieldName
	FieldRegular
	FieldSpecial
	FieldScore
)

func (k FieldKind) String() string {
	switch k {
	case FieldID:
		return "id"
	case FieldName:
		return "name"
	case FieldRegular:
		return "student_in_regular"
	case FieldSpecial:
		return "student_in_special"
	case FieldScore:
		return "score"
	default:
		return "unknown"
	}
}

// fixedPrefix lists the leading data columns whose meaning never changes.
var fixedPrefix = []FieldKind{FieldID, FieldName, FieldRegular, FieldSpecial}

// Field describes how one column of a data row is decoded.
type Field struct {
	Column  int
	Kind    FieldKind
	Subject string // set only for FieldScore
}

func (f Field) String() string {
	if f.Kind == FieldScore {
		return fmt.Sprintf("col %d -> scores[%s]", f.Column, f.Subject)
	}
	return fmt.Sprintf("col %d -> %s", f.Column, f.Kind)
}

// Layout is the column-to-field mapping for one faculty's table: the fixed
// prefix followed by one score column per discovered subject.
type Layout struct {
	fields []Field
}

// NewLayout builds the layout for a table whose header yielded subjects.
func NewLayout(subjects types.Subjects) *Layout {
	fields := make([]Field, 0, len(fixedPrefix)+len(subjects))
	for i, kind := range fixedPrefix {
		fields = append(fields, Field{Column: i, Kind: kind})
	}
	for i, subject := range subjects {
		fields = append(fields, Field{
			Column:  len(fixedPrefix) + i,
			Kind:    FieldScore,
			Subject: subject,
		})
	}
	return &Layout{fields: fields}
}

// FieldAt returns the descriptor for column col. Columns past the last
// discovered subject have no descriptor.
func (l *Layout) FieldAt(col int) (Field, bool) {
	if col < 0 || col >= len(l.fields) {
		return Field{}, false
	}
	return l.fields[col], true
}

// Subjects returns the subject keys of the score tail, in column order.
func (l *Layout) Subjects() types.Subjects {
	subjects := make(types.Subjects, 0, len(l.fields)-len(fixedPrefix))
	for _, f := range l.fields[len(fixedPrefix):] {
		subjects = append(subjects, f.Subject)
	}
	return subjects
}

// Describe renders every descriptor, one per entry, for logging.
func (l *Layout) Describe() []string {
	out := make([]string, len(l.fields))
	for i, f := range l.fields {
		out[i] = f.String()
	}
	return out
}
