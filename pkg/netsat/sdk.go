// Package netsat provides a public SDK for embedding the score table scraper
// as a library.
//
// Example usage:
//
//	s := netsat.New(
//	    netsat.WithTableWait(5*time.Second),
//	    netsat.WithOutput("json", "./majors.json"),
//	)
//
//	s.OnMajor(func(m *netsat.Major) {
//	    fmt.Println(m.Faculty, m.ID, m.Name)
//	})
//
//	majors, err := s.Scrape(ctx)
//	if err != nil {
//	    return err
//	}
//	err = s.Export(majors)
package netsat

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/IshaanNene/netsat/internal/browser"
	"github.com/IshaanNene/netsat/internal/config"
	"github.com/IshaanNene/netsat/internal/pipeline"
	"github.com/IshaanNene/netsat/internal/scraper"
	"github.com/IshaanNene/netsat/internal/snapshot"
	"github.com/IshaanNene/netsat/internal/storage"
	"github.com/IshaanNene/netsat/internal/types"
)

// Major is one admission program record.
type Major = types.Major

// MajorCallback is called with a copy of every decoded major, in output order.
type MajorCallback func(m *Major)

// Scraper is the high-level API for using netsat as a library.
type Scraper struct {
	cfg       *config.Config
	logger    *slog.Logger
	callbacks []MajorCallback
}

// Option configures a Scraper.
type Option func(*config.Config)

// WithURL sets the program search page.
func WithURL(url string) Option {
	return func(c *config.Config) { c.Portal.URL = url }
}

// WithTableWait sets how long each faculty's table may take to appear.
func WithTableWait(d time.Duration) Option {
	return func(c *config.Config) { c.Portal.TableWait = d }
}

// WithOutput sets the output format and path used by Export.
func WithOutput(format, path string) Option {
	return func(c *config.Config) {
		c.Storage.Type = format
		c.Storage.OutputPath = path
	}
}

// WithHeadless shows or hides the browser window.
func WithHeadless(headless bool) Option {
	return func(c *config.Config) { c.Browser.Headless = headless }
}

// WithStealth applies anti-detection patches to the browser page.
func WithStealth() Option {
	return func(c *config.Config) { c.Browser.Stealth = true }
}

// WithControlURL attaches to an already running browser.
func WithControlURL(u string) Option {
	return func(c *config.Config) { c.Browser.ControlURL = u }
}

// WithMiddlewares enables post-processing stages by name (trim, dedup, required).
func WithMiddlewares(names ...string) Option {
	return func(c *config.Config) { c.Pipeline.Middlewares = names }
}

// WithVerbose enables debug-level logging.
func WithVerbose() Option {
	return func(c *config.Config) { c.Logging.Level = "debug" }
}

// New creates a Scraper with the given options.
func New(opts ...Option) *Scraper {
	cfg := config.DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	level := slog.LevelInfo
	if cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return &Scraper{
		cfg:    cfg,
		logger: logger,
	}
}

// OnMajor registers a callback for every decoded major.
func (s *Scraper) OnMajor(cb MajorCallback) {
	s.callbacks = append(s.callbacks, cb)
}

// Scrape walks every faculty of the live portal. On error no majors are
// returned.
func (s *Scraper) Scrape(ctx context.Context) ([]*Major, error) {
	if err := config.Validate(s.cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	sc, err := s.scraper()
	if err != nil {
		return nil, err
	}

	sess, err := browser.Launch(ctx, s.cfg, s.logger)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if err := sess.Open(ctx, s.cfg.Portal.URL); err != nil {
		return nil, err
	}
	res, err := sc.Run(ctx, sess)
	if err != nil {
		return nil, err
	}
	return res.Majors, nil
}

// ParseHTML decodes the score table of a saved portal page. An empty
// faculty falls back to the option marked selected in the page.
func (s *Scraper) ParseHTML(ctx context.Context, body []byte, faculty string) ([]*Major, error) {
	page, err := snapshot.Parse("html", body, s.cfg.Portal.FacultySelect, s.cfg.Portal.TableXPath, s.logger)
	if err != nil {
		return nil, err
	}
	if faculty == "" {
		faculty = page.SelectedFaculty()
	}

	sc, err := s.scraper()
	if err != nil {
		return nil, err
	}
	majors, _, err := sc.ScrapeFaculty(ctx, page, faculty)
	return majors, err
}

// Export writes majors to the configured output.
func (s *Scraper) Export(majors []*Major) error {
	store, err := storage.New(s.cfg, s.logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	if err := store.Store(majors); err != nil {
		_ = store.Close()
		return err
	}
	return store.Close()
}

func (s *Scraper) scraper() (*scraper.Scraper, error) {
	pipe, err := pipeline.FromNames(s.cfg.Pipeline.Middlewares, s.logger)
	if err != nil {
		return nil, err
	}
	if len(s.callbacks) > 0 {
		pipe.Use(&callbackMiddleware{callbacks: s.callbacks})
	}
	return scraper.New(&s.cfg.Portal, s.logger, scraper.WithPipeline(pipe)), nil
}

// callbackMiddleware hands a copy of each surviving major to the user
// callbacks, so they cannot alter the returned records.
type callbackMiddleware struct {
	callbacks []MajorCallback
}

func (m *callbackMiddleware) Name() string { return "callbacks" }

func (m *callbackMiddleware) Process(major *types.Major) (*types.Major, error) {
	for _, cb := range m.callbacks {
		cb(major.Clone())
	}
	return major, nil
}
