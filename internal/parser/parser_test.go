package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/IshaanNene/netsat/internal/types"
)

// --- Coercion ---

func TestParseQuota(t *testing.T) {
	tests := []struct {
		input         string
		want          int16
		wantDefaulted bool
	}{
		{"40", 40, false},
		{"0", 0, false},
		{"-", 0, true},
		{"", 0, true},
		{" 12", 0, true},
		{"abc", 0, true},
		{"-5", 0, true},
		{"40000", 0, true},
		{"+7", 7, false},
	}

	for _, tt := range tests {
		got, defaulted := ParseQuota(tt.input)
		if got != tt.want || defaulted != tt.wantDefaulted {
			t.Errorf("ParseQuota(%q) = (%d, %v), want (%d, %v)",
				tt.input, got, defaulted, tt.want, tt.wantDefaulted)
		}
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		input         string
		want          int8
		wantDefaulted bool
	}{
		{"25", 25, false},
		{"0", 0, false},
		{"-5", -5, false},
		{"-", 0, true},
		{"", 0, true},
		{"30.5", 0, true},
		{"200", 0, true},
	}

	for _, tt := range tests {
		got, defaulted := ParseScore(tt.input)
		if got != tt.want || defaulted != tt.wantDefaulted {
			t.Errorf("ParseScore(%q) = (%d, %v), want (%d, %v)",
				tt.input, got, defaulted, tt.want, tt.wantDefaulted)
		}
	}
}

// --- Schema discovery ---

func TestDiscoverSubjects(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   types.Subjects
	}{
		{
			name:   "first token only",
			labels: []string{"Regular", "Special", "Mathematics (O-NET)", "Eng 2", "GAT\nความถนัด"},
			want:   types.Subjects{"Mathematics", "Eng", "GAT"},
		},
		{
			name:   "only quota columns",
			labels: []string{"Regular", "Special"},
			want:   types.Subjects{},
		},
		{
			name:   "fewer than skip",
			labels: []string{"Regular"},
			want:   types.Subjects{},
		},
		{
			name:   "no header",
			labels: nil,
			want:   types.Subjects{},
		},
		{
			name:   "blank label keeps position",
			labels: []string{"Regular", "Special", "Math", "  ", "Sci"},
			want:   types.Subjects{"Math", "", "Sci"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscoverSubjects(tt.labels, 2)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("subjects mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiscoverSubjectsCount(t *testing.T) {
	for k := 0; k < 8; k++ {
		labels := make([]string, k)
		for i := range labels {
			labels[i] = "Label extra words"
		}
		got := DiscoverSubjects(labels, 2)
		want := k - 2
		if want < 0 {
			want = 0
		}
		if len(got) != want {
			t.Errorf("k=%d: expected %d subjects, got %d", k, want, len(got))
		}
	}
}

// --- Layout ---

func TestLayout(t *testing.T) {
	layout := NewLayout(types.Subjects{"Math", "Eng"})

	want := []string{
		"col 0 -> id",
		"col 1 -> name",
		"col 2 -> student_in_regular",
		"col 3 -> student_in_special",
		"col 4 -> scores[Math]",
		"col 5 -> scores[Eng]",
	}
	if diff := cmp.Diff(want, layout.Describe()); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}

	if _, ok := layout.FieldAt(6); ok {
		t.Error("column past the subject tail should have no descriptor")
	}
	if _, ok := layout.FieldAt(-1); ok {
		t.Error("negative column should have no descriptor")
	}
	if diff := cmp.Diff(types.Subjects{"Math", "Eng"}, layout.Subjects()); diff != "" {
		t.Errorf("subjects mismatch (-want +got):\n%s", diff)
	}
}

// --- Record building ---

func TestBuildMajorScenario(t *testing.T) {
	subjects := DiscoverSubjects([]string{"Regular", "Special", "Math 1", "Eng 2"}, 2)
	if diff := cmp.Diff(types.Subjects{"Math", "Eng"}, subjects); diff != "" {
		t.Fatalf("subjects mismatch (-want +got):\n%s", diff)
	}

	major, stats := BuildMajor(
		[]string{"01010101", "Civil Engineering*", "40", "10", "25", "0"},
		NewLayout(subjects),
	)

	want := &types.Major{
		ID:               "01010101",
		Name:             "Civil Engineering",
		StudentInRegular: 40,
		StudentInSpecial: 10,
		Scores:           map[string]int8{"Math": 25},
	}
	if diff := cmp.Diff(want, major); diff != "" {
		t.Errorf("major mismatch (-want +got):\n%s", diff)
	}
	if stats.Defaulted != 0 || stats.Skipped != 0 {
		t.Errorf("expected clean row, got %+v", stats)
	}
}

func TestBuildMajorDefaults(t *testing.T) {
	layout := NewLayout(types.Subjects{"Math", "Sci", "Eng"})

	major, stats := BuildMajor(
		[]string{"02", "Physics**", "-", "", "-5", "abc", "30"},
		layout,
	)

	if major.StudentInRegular != 0 || major.StudentInSpecial != 0 {
		t.Errorf("expected zero quotas, got %d/%d", major.StudentInRegular, major.StudentInSpecial)
	}
	if major.Name != "Physics" {
		t.Errorf("expected asterisks stripped, got %q", major.Name)
	}
	if diff := cmp.Diff(map[string]int8{"Eng": 30}, major.Scores); diff != "" {
		t.Errorf("scores mismatch (-want +got):\n%s", diff)
	}
	// "-", "" and "abc" fell back to zero.
	if stats.Defaulted != 3 {
		t.Errorf("expected 3 defaulted cells, got %d", stats.Defaulted)
	}
}

func TestBuildMajorShortAndLongRows(t *testing.T) {
	layout := NewLayout(types.Subjects{"Math"})

	short, stats := BuildMajor([]string{"03"}, layout)
	if short.ID != "03" || short.Name != "" || len(short.Scores) != 0 {
		t.Errorf("unexpected short row decode: %+v", short)
	}
	if stats.Skipped != 0 {
		t.Errorf("short row should skip nothing, got %d", stats.Skipped)
	}

	long, stats := BuildMajor([]string{"04", "Art", "5", "5", "20", "99", "99"}, layout)
	if diff := cmp.Diff(map[string]int8{"Math": 20}, long.Scores); diff != "" {
		t.Errorf("scores mismatch (-want +got):\n%s", diff)
	}
	if stats.Skipped != 2 {
		t.Errorf("expected 2 surplus cells skipped, got %d", stats.Skipped)
	}
}

func TestBuildMajorBlankSubjectKey(t *testing.T) {
	layout := NewLayout(types.Subjects{"Math", ""})

	major, stats := BuildMajor([]string{"05", "Music", "1", "1", "10", "50"}, layout)
	if _, ok := major.Scores[""]; ok {
		t.Error("blank subject key must never be stored")
	}
	if stats.Skipped != 1 {
		t.Errorf("expected 1 skipped cell, got %d", stats.Skipped)
	}
}

func TestBuildMajorInvariants(t *testing.T) {
	layout := NewLayout(types.Subjects{"A", "B", "C", "D"})
	rows := [][]string{
		{"1", "*X*", "1", "2", "0", "-1", "127", "-"},
		{"2", "Y*Z", "x", "-3", "1", "", "128", "-128"},
		{"3", "***", "", "", "", "", "", ""},
	}

	for _, row := range rows {
		major, _ := BuildMajor(row, layout)
		if strings.Contains(major.Name, "*") {
			t.Errorf("name %q contains '*'", major.Name)
		}
		if major.StudentInRegular < 0 || major.StudentInSpecial < 0 {
			t.Errorf("negative quota in %+v", major)
		}
		for subject, score := range major.Scores {
			if score <= 0 {
				t.Errorf("non-positive score %d stored for %s", score, subject)
			}
			found := false
			for _, s := range layout.Subjects() {
				if s == subject {
					found = true
				}
			}
			if !found {
				t.Errorf("score key %q not among discovered subjects", subject)
			}
		}
	}
}
