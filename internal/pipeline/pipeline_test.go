package pipeline

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/IshaanNene/netsat/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newMajor(faculty, id, name string) *types.Major {
	m := types.NewMajor()
	m.Faculty = faculty
	m.ID = id
	m.Name = name
	return m
}

func TestPipelineBasic(t *testing.T) {
	p := New(testLogger)
	p.Use(&TrimMiddleware{})

	result, err := p.Process(newMajor(" Science ", " 0101 ", "  Physics  "))
	if err != nil {
		t.Fatalf("pipeline error: %v", err)
	}
	if result.ID != "0101" || result.Name != "Physics" || result.Faculty != "Science" {
		t.Errorf("expected trimmed fields, got %+v", result)
	}
}

func TestPipelineEmptyPassesThrough(t *testing.T) {
	p := New(testLogger)
	in := newMajor("Arts", " x ", "y")
	out, err := p.Process(in)
	if err != nil || out != in {
		t.Errorf("empty pipeline should return the input unchanged, got %v, %v", out, err)
	}
}

func TestRequiredFieldsMiddleware(t *testing.T) {
	m := &RequiredFieldsMiddleware{}

	if result, _ := m.Process(newMajor("Arts", "01", "Music")); result == nil {
		t.Error("major with id should pass")
	}
	if result, _ := m.Process(newMajor("Arts", "  ", "Music")); result != nil {
		t.Error("major without id should be dropped")
	}
}

func TestDedupMiddleware(t *testing.T) {
	p, err := FromNames([]string{"dedup"}, testLogger)
	if err != nil {
		t.Fatal(err)
	}

	inputs := []*types.Major{
		newMajor("Arts", "01", "Music"),
		newMajor("Arts", "01", "Music again"),
		newMajor("Science", "01", "Physics"),
	}
	var kept int
	for _, in := range inputs {
		out, err := p.Process(in)
		if err != nil {
			t.Fatal(err)
		}
		if out != nil {
			kept++
		}
	}
	if kept != 2 {
		t.Errorf("expected 2 majors kept, got %d", kept)
	}
}

type failingMiddleware struct{}

func (failingMiddleware) Name() string { return "boom" }
func (failingMiddleware) Process(*types.Major) (*types.Major, error) {
	return nil, errors.New("boom")
}

func TestPipelineError(t *testing.T) {
	p := New(testLogger)
	p.Use(failingMiddleware{})

	_, err := p.Process(newMajor("Arts", "01", "Music"))
	var pe *types.PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PipelineError, got %v", err)
	}
	if pe.Stage != "boom" {
		t.Errorf("expected stage boom, got %q", pe.Stage)
	}
}

func TestFromNames(t *testing.T) {
	p, err := FromNames([]string{"trim", "required", "dedup"}, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 3 {
		t.Errorf("expected 3 middlewares, got %d", p.Len())
	}
	if _, err := FromNames([]string{"nope"}, testLogger); err == nil {
		t.Error("expected error for unknown middleware")
	}
}
