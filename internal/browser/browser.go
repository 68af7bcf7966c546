// Package browser drives the live admissions portal through a Chromium
// instance controlled by Rod.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/IshaanNene/netsat/internal/config"
	"github.com/IshaanNene/netsat/internal/portal"
	"github.com/IshaanNene/netsat/internal/types"
)

// selectJS marks an option selected and fires the change handler the portal
// uses to load the faculty's table.
const selectJS = `() => {
	this.selected = true;
	this.parentElement.dispatchEvent(new Event('change', { bubbles: true }));
}`

// Session owns one browser and the single page the scraper works on.
type Session struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	cfg      *config.BrowserConfig
	portal   *config.PortalConfig
	logger   *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Launch starts (or connects to) a browser and opens a blank page. The
// caller must Close the session on every path.
func Launch(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Session, error) {
	s := &Session{
		cfg:    &cfg.Browser,
		portal: &cfg.Portal,
		logger: logger.With("component", "browser"),
	}

	controlURL := cfg.Browser.ControlURL
	if controlURL == "" {
		u, err := s.launch(ctx)
		if err != nil {
			return nil, &types.SessionError{Op: "launch browser", Err: err}
		}
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		s.cleanup()
		return nil, &types.SessionError{Op: "connect browser", Err: err}
	}
	s.browser = b

	var page *rod.Page
	var err error
	if cfg.Browser.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		_ = s.Close()
		return nil, &types.SessionError{Op: "open page", Err: err}
	}
	s.page = page

	s.logger.Info("browser ready",
		"headless", cfg.Browser.Headless,
		"stealth", cfg.Browser.Stealth,
		"remote", cfg.Browser.ControlURL != "",
	)
	return s, nil
}

func (s *Session) launch(ctx context.Context) (string, error) {
	l := launcher.New().
		Context(ctx).
		Headless(s.cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	if s.cfg.Bin != "" {
		l = l.Bin(s.cfg.Bin)
	}
	if s.cfg.Proxy != "" {
		l = l.Proxy(s.cfg.Proxy)
	}
	if s.cfg.UserDataDir != "" {
		l = l.UserDataDir(s.cfg.UserDataDir)
	}
	if s.cfg.WindowSize != "" {
		l = l.Set("window-size", s.cfg.WindowSize)
	}

	s.launcher = l
	return l.Launch()
}

// Open navigates to url and waits for the page to settle.
func (s *Session) Open(ctx context.Context, url string) error {
	page, err := s.live()
	if err != nil {
		return err
	}

	err = bounded(ctx, s.cfg.NavigateTimeout, func(tctx context.Context) error {
		return page.Context(tctx).Navigate(url)
	})
	if err != nil {
		return &types.SessionError{Op: "navigate", Err: fmt.Errorf("%s: %w", url, err)}
	}
	s.settle(ctx, page)

	s.logger.Info("portal opened", "url", url)
	return nil
}

// Options implements portal.Page.
func (s *Session) Options(ctx context.Context) ([]portal.Option, error) {
	page, err := s.live()
	if err != nil {
		return nil, err
	}

	var list *rod.Element
	err = bounded(ctx, s.cfg.NavigateTimeout, func(tctx context.Context) error {
		el, err := page.Context(tctx).Element(s.portal.FacultySelect)
		list = el
		return err
	})
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, types.ErrNoSelect
		}
		return nil, err
	}

	els, err := list.Context(ctx).Elements("option")
	if err != nil {
		return nil, err
	}

	opts := make([]portal.Option, 0, len(els))
	for _, el := range els {
		opts = append(opts, &option{el: el, session: s})
	}
	return opts, nil
}

// Table implements portal.Page. A lookup that outlives wait while ctx is
// still alive reports types.ErrNoTable.
func (s *Session) Table(ctx context.Context, wait time.Duration) (portal.Table, error) {
	page, err := s.live()
	if err != nil {
		return nil, err
	}

	var el *rod.Element
	err = bounded(ctx, wait, func(tctx context.Context) error {
		found, err := page.Context(tctx).ElementX(s.portal.TableXPath)
		el = found
		return err
	})
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, types.ErrNoTable
		}
		return nil, err
	}
	return &table{el: el.Context(ctx)}, nil
}

// Close shuts the page, the browser and any launched process. It is safe
// to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close page: %w", err))
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	s.cleanup()

	s.logger.Debug("browser closed")
	return errors.Join(errs...)
}

func (s *Session) cleanup() {
	if s.launcher == nil {
		return
	}
	s.launcher.Kill()
	// Cleanup removes the profile directory, so a user-supplied one is kept.
	if s.cfg.UserDataDir == "" {
		s.launcher.Cleanup()
	}
}

func (s *Session) live() (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.page == nil {
		return nil, types.ErrSessionEnded
	}
	return s.page, nil
}

// settle waits for the DOM to stop changing. A page that never settles is
// still usable, so failures only log.
func (s *Session) settle(ctx context.Context, page *rod.Page) {
	if s.cfg.Settle <= 0 {
		return
	}
	err := bounded(ctx, s.cfg.NavigateTimeout, func(tctx context.Context) error {
		return page.Context(tctx).WaitStable(s.cfg.Settle)
	})
	if err != nil && ctx.Err() == nil {
		s.logger.Warn("page stability timeout, continuing", "error", err)
	}
}

// bounded runs fn under a deadline of d derived from ctx and releases the
// deadline's timer as soon as fn returns. Elements found inside fn must be
// rebound to ctx before use.
func bounded(ctx context.Context, d time.Duration, fn func(context.Context) error) error {
	tctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return fn(tctx)
}

type option struct {
	el      *rod.Element
	session *Session
}

func (o *option) Select(ctx context.Context) error {
	page, err := o.session.live()
	if err != nil {
		return err
	}
	if _, err := o.el.Context(ctx).Eval(selectJS); err != nil {
		return err
	}
	o.session.settle(ctx, page)
	return ctx.Err()
}

func (o *option) Label(ctx context.Context) (string, error) {
	return o.el.Context(ctx).Text()
}

type table struct {
	el *rod.Element
}

func (t *table) Rows(ctx context.Context) ([]portal.Row, error) {
	els, err := t.el.Context(ctx).Elements("tr")
	if err != nil {
		return nil, err
	}
	return rows(els), nil
}

func (t *table) BodyRows(ctx context.Context) ([]portal.Row, error) {
	bodies, err := t.el.Context(ctx).Elements("tbody")
	if err != nil {
		return nil, err
	}
	if len(bodies) == 0 {
		return nil, nil
	}
	els, err := bodies.First().Context(ctx).Elements("tr")
	if err != nil {
		return nil, err
	}
	return rows(els), nil
}

func rows(els rod.Elements) []portal.Row {
	out := make([]portal.Row, 0, len(els))
	for _, el := range els {
		out = append(out, &row{el: el})
	}
	return out
}

type row struct {
	el *rod.Element
}

func (r *row) Cells(ctx context.Context, tag string) ([]portal.Cell, error) {
	els, err := r.el.Context(ctx).Elements(tag)
	if err != nil {
		return nil, err
	}
	cells := make([]portal.Cell, 0, len(els))
	for _, el := range els {
		cells = append(cells, &cell{el: el})
	}
	return cells, nil
}

type cell struct {
	el *rod.Element
}

func (c *cell) Text(ctx context.Context) (string, error) {
	return c.el.Context(ctx).Text()
}
