package parser

import (
	"strings"

	"github.com/IshaanNene/netsat/internal/types"
)

// RowStats counts the cells a decode could not use as-is.
type RowStats struct {
	// Defaulted counts numeric cells that did not parse and fell back to 0.
	Defaulted int

	// Skipped counts cells with no column descriptor or an empty subject key.
	Skipped int
}

// Add accumulates other into s.
func (s *RowStats) Add(other RowStats) {
	s.Defaulted += other.Defaulted
	s.Skipped += other.Skipped
}

// BuildMajor decodes one data row positionally according to layout. It never
// fails: unparseable numbers become 0 and surplus cells are ignored. The
// returned Major has no faculty; the caller stamps it.
func BuildMajor(cells []string, layout *Layout) (*types.Major, RowStats) {
	major := types.NewMajor()
	var stats RowStats

	for col, text := range cells {
		field, ok := layout.FieldAt(col)
		if !ok {
			stats.Skipped++
			continue
		}

		switch field.Kind {
		case FieldID:
			major.ID = text
		case FieldName:
			major.Name = strings.ReplaceAll(text, "*", "")
		case FieldRegular:
			v, defaulted := ParseQuota(text)
			major.StudentInRegular = v
			if defaulted {
				stats.Defaulted++
			}
		case FieldSpecial:
			v, defaulted := ParseQuota(text)
			major.StudentInSpecial = v
			if defaulted {
				stats.Defaulted++
			}
		case FieldScore:
			if field.Subject == "" {
				stats.Skipped++
				continue
			}
			score, defaulted := ParseScore(text)
			if defaulted {
				stats.Defaulted++
			}
			// Zero, negative and unparseable all mean "no requirement".
			major.SetScore(field.Subject, score)
		}
	}

	return major, stats
}
