package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/IshaanNene/netsat/internal/config"
	"github.com/IshaanNene/netsat/internal/observability"
	"github.com/IshaanNene/netsat/internal/parser"
	"github.com/IshaanNene/netsat/internal/pipeline"
	"github.com/IshaanNene/netsat/internal/portal"
	"github.com/IshaanNene/netsat/internal/types"
)

// Result is the outcome of a complete run.
type Result struct {
	// Majors holds every record in faculty order, then row order.
	Majors    []*types.Major
	Faculties []FacultyReport
	Rows      parser.RowStats
	Elapsed   time.Duration
}

// NoTableCount returns how many faculties ended without a score table.
func (r *Result) NoTableCount() int {
	n := 0
	for _, f := range r.Faculties {
		if f.Terminal == StateNoTable {
			n++
		}
	}
	return n
}

// Scraper walks every faculty of the portal and decodes its score table.
// It is strictly sequential: one faculty, one row, one page call at a time.
type Scraper struct {
	cfg      *config.PortalConfig
	pipeline *pipeline.Pipeline
	metrics  *observability.Metrics
	base     *slog.Logger
	logger   *slog.Logger
}

// Option configures the Scraper.
type Option func(*Scraper)

// WithPipeline runs every decoded major through p.
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(s *Scraper) { s.pipeline = p }
}

// WithMetrics records run counters into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

// New creates a Scraper for the given portal layout.
func New(cfg *config.PortalConfig, logger *slog.Logger, opts ...Option) *Scraper {
	s := &Scraper{
		cfg:    cfg,
		base:   logger,
		logger: logger.With("component", "scraper"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pipeline == nil {
		s.pipeline = pipeline.New(logger)
	}
	if s.metrics == nil {
		s.metrics = observability.NewMetrics(logger)
	}
	return s
}

// Run selects every faculty option after the placeholder and accumulates
// their majors. Any session failure aborts the run and no partial result is
// returned.
func (s *Scraper) Run(ctx context.Context, page portal.Page) (*Result, error) {
	start := time.Now()

	options, err := page.Options(ctx)
	if err != nil {
		return nil, &types.SessionError{Op: "list faculties", Err: err}
	}
	if len(options) <= 1 {
		s.logger.Warn("faculty list has no selectable entries", "options", len(options))
	}

	result := &Result{}
	for i := 1; i < len(options); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		opt := options[i]
		report := newFacultyReport(i, "", StateNotSelected)
		if err := opt.Select(ctx); err != nil {
			return nil, &types.SessionError{Op: "select faculty", Err: fmt.Errorf("option %d: %w", i, err)}
		}
		report.advance(StateSelected)
		label, err := opt.Label(ctx)
		if err != nil {
			return nil, &types.SessionError{Op: "read faculty label", Err: fmt.Errorf("option %d: %w", i, err)}
		}
		report.Label = label

		majors, err := s.scrapeSelected(ctx, page, report)
		if err != nil {
			return nil, err
		}
		result.Majors = append(result.Majors, majors...)
		result.Faculties = append(result.Faculties, *report)
		result.Rows.Add(report.Cells)
	}

	result.Elapsed = time.Since(start)
	s.logger.Info("scrape complete",
		"faculties", len(result.Faculties),
		"no_table", result.NoTableCount(),
		"majors", len(result.Majors),
		"defaulted_cells", result.Rows.Defaulted,
		"skipped_cells", result.Rows.Skipped,
		"elapsed", result.Elapsed,
	)
	return result, nil
}

// ScrapeFaculty decodes the score table of the currently selected faculty
// and stamps every major with label. A missing table yields no majors and
// no error.
func (s *Scraper) ScrapeFaculty(ctx context.Context, page portal.Page, label string) ([]*types.Major, *FacultyReport, error) {
	run := newFacultyReport(0, label, StateSelected)
	majors, err := s.scrapeSelected(ctx, page, run)
	if err != nil {
		return nil, nil, err
	}
	return majors, run, nil
}

func (s *Scraper) scrapeSelected(ctx context.Context, page portal.Page, run *FacultyReport) ([]*types.Major, error) {
	label := run.Label
	logger := s.logger.With("faculty", label)
	s.metrics.FacultiesVisited.Add(1)

	nav := portal.NewNavigator(page, s.cfg.TableWait, s.cfg.HeaderRow, s.base)
	grid, found, err := nav.Locate(ctx)
	if err != nil {
		return nil, withFaculty(err, label)
	}
	if !found {
		run.advance(StateNoTable)
		run.advance(StateDone)
		s.metrics.FacultiesNoTable.Add(1)
		logger.Info("no score table for faculty")
		return nil, nil
	}
	run.advance(StateTableLocated)

	labels, err := nav.HeaderLabels(ctx, grid)
	if err != nil {
		return nil, withFaculty(err, label)
	}
	subjects := parser.DiscoverSubjects(labels, s.cfg.FixedHeaderCells)
	layout := parser.NewLayout(subjects)
	run.Subjects = layout.Subjects()
	logger.Debug("table layout", "subjects", []string(subjects), "columns", layout.Describe())

	majors := make([]*types.Major, 0, len(grid.Body))
	for _, row := range grid.Body {
		cells, err := nav.RowTexts(ctx, row)
		if err != nil {
			return nil, withFaculty(err, label)
		}

		major, stats := parser.BuildMajor(cells, layout)
		major.Faculty = label
		run.Rows++
		run.Cells.Add(stats)
		s.metrics.RowsDecoded.Add(1)
		s.metrics.CellsDefaulted.Add(int64(stats.Defaulted))
		s.metrics.CellsSkipped.Add(int64(stats.Skipped))

		processed, err := s.pipeline.Process(major)
		if err != nil {
			return nil, err
		}
		if processed == nil {
			s.metrics.MajorsDropped.Add(1)
			continue
		}
		majors = append(majors, processed)
	}
	run.advance(StateRowsExtracted)
	run.advance(StateDone)

	run.Majors = len(majors)
	s.metrics.MajorsScraped.Add(int64(len(majors)))
	logger.Info("faculty scraped", "rows", run.Rows, "majors", len(majors), "subjects", len(subjects))
	return majors, nil
}

func withFaculty(err error, label string) error {
	if se, ok := err.(*types.SessionError); ok && se.Faculty == "" {
		se.Faculty = label
	}
	return err
}
