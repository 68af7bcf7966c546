package parser

import (
	"strings"

	"github.com/IshaanNene/netsat/internal/types"
)

// DiscoverSubjects turns header labels into subject keys. The first skip
// labels are quota columns and are dropped. Every remaining label yields its
// first whitespace-delimited token, so "Mathematics (O-NET)" becomes
// "Mathematics". A blank label keeps its position with an empty key.
func DiscoverSubjects(labels []string, skip int) types.Subjects {
	if skip < 0 {
		skip = 0
	}
	if len(labels) <= skip {
		return types.Subjects{}
	}

	subjects := make(types.Subjects, 0, len(labels)-skip)
	for _, label := range labels[skip:] {
		subjects = append(subjects, subjectKey(label))
	}
	return subjects
}

func subjectKey(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
