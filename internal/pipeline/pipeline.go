package pipeline

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/IshaanNene/netsat/internal/types"
)

// Middleware processes a major and returns the (possibly modified) major.
// Return nil to drop the major from the pipeline.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms a major. Return nil to drop it.
	Process(m *types.Major) (*types.Major, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// FromNames builds a pipeline from configured middleware names, in order.
func FromNames(names []string, logger *slog.Logger) (*Pipeline, error) {
	p := New(logger)
	for _, name := range names {
		switch name {
		case "trim":
			p.Use(&TrimMiddleware{})
		case "dedup":
			p.Use(NewDedupMiddleware())
		case "required":
			p.Use(&RequiredFieldsMiddleware{})
		default:
			return nil, fmt.Errorf("unknown middleware %q", name)
		}
	}
	return p, nil
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the major through all middleware in order.
func (p *Pipeline) Process(m *types.Major) (*types.Major, error) {
	current := m

	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, &types.PipelineError{
				Stage: mw.Name(),
				Major: current,
				Err:   err,
			}
		}
		if result == nil {
			p.logger.Debug("major dropped", "stage", mw.Name(), "id", m.ID, "faculty", m.Faculty)
			return nil, nil
		}
		current = result
	}

	return current, nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// --- Built-in Middleware ---

// TrimMiddleware trims surrounding whitespace from the text fields.
type TrimMiddleware struct{}

func (m *TrimMiddleware) Name() string { return "trim" }

func (m *TrimMiddleware) Process(major *types.Major) (*types.Major, error) {
	major.ID = strings.TrimSpace(major.ID)
	major.Name = strings.TrimSpace(major.Name)
	major.Faculty = strings.TrimSpace(major.Faculty)
	return major, nil
}

// RequiredFieldsMiddleware drops majors without a program code.
type RequiredFieldsMiddleware struct{}

func (m *RequiredFieldsMiddleware) Name() string { return "required" }

func (m *RequiredFieldsMiddleware) Process(major *types.Major) (*types.Major, error) {
	if strings.TrimSpace(major.ID) == "" {
		return nil, nil
	}
	return major, nil
}

// DedupMiddleware drops majors already seen under the same faculty and code.
// A pipeline runs on a single goroutine, so no locking is needed.
type DedupMiddleware struct {
	seen map[string]struct{}
}

func NewDedupMiddleware() *DedupMiddleware {
	return &DedupMiddleware{
		seen: make(map[string]struct{}),
	}
}

func (m *DedupMiddleware) Name() string { return "dedup" }

func (m *DedupMiddleware) Process(major *types.Major) (*types.Major, error) {
	key := major.Faculty + "\x00" + major.ID
	if _, exists := m.seen[key]; exists {
		return nil, nil
	}
	m.seen[key] = struct{}{}
	return major, nil
}
