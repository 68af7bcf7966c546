package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/IshaanNene/netsat/internal/config"
	"github.com/IshaanNene/netsat/internal/fetcher"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestApplyScrapeOverrides(t *testing.T) {
	defer func() {
		outputPath, outputType, portalURL, controlURL = "", "", "", ""
		tableWait, headful, useStealth = 0, false, false
	}()

	outputPath = "out/majors.json"
	outputType = "JSONL"
	portalURL = "https://example.com/programlist.php"
	tableWait = 5 * time.Second
	headful = true
	useStealth = true

	cfg := config.DefaultConfig()
	applyScrapeOverrides(cfg)

	if cfg.Storage.OutputPath != "out/majors.json" {
		t.Errorf("unexpected output path %q", cfg.Storage.OutputPath)
	}
	if cfg.Storage.Type != "jsonl" {
		t.Errorf("expected lower-cased format, got %q", cfg.Storage.Type)
	}
	if cfg.Portal.URL != "https://example.com/programlist.php" {
		t.Errorf("unexpected url %q", cfg.Portal.URL)
	}
	if cfg.Portal.TableWait != 5*time.Second {
		t.Errorf("unexpected wait %s", cfg.Portal.TableWait)
	}
	if cfg.Browser.Headless || !cfg.Browser.Stealth {
		t.Errorf("expected headful stealth browser, got headless=%v stealth=%v", cfg.Browser.Headless, cfg.Browser.Stealth)
	}
	if cfg.Browser.ControlURL != "" {
		t.Errorf("control url should stay unset, got %q", cfg.Browser.ControlURL)
	}
}

func TestApplyScrapeOverridesKeepsConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	applyScrapeOverrides(cfg)

	if diff := cmp.Diff(config.DefaultConfig(), cfg); diff != "" {
		t.Errorf("empty flags should leave the config untouched (-want +got):\n%s", diff)
	}
}

func TestSetupLogger(t *testing.T) {
	ctx := context.Background()

	l := setupLogger(&config.LoggingConfig{Level: "warn", Format: "json"})
	if l.Enabled(ctx, slog.LevelInfo) || !l.Enabled(ctx, slog.LevelWarn) {
		t.Error("warn level not applied")
	}
	if _, ok := l.Handler().(*slog.JSONHandler); !ok {
		t.Errorf("expected JSON handler, got %T", l.Handler())
	}

	verbose = true
	defer func() { verbose = false }()
	l = setupLogger(&config.LoggingConfig{Level: "error", Format: "text"})
	if !l.Enabled(ctx, slog.LevelDebug) {
		t.Error("--verbose should force debug")
	}
}

func TestReadSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte("<html></html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	body, err := readSource(context.Background(), config.DefaultConfig(), path, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "<html></html>" {
		t.Errorf("unexpected body %q", body)
	}

	if _, err := readSource(context.Background(), config.DefaultConfig(), filepath.Join(t.TempDir(), "missing.html"), testLogger); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadSourceRejectsOversizedPage(t *testing.T) {
	page := "<html><body><table>" + strings.Repeat("<tr><td>01010101</td></tr>", 100) + "</table></body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Fetcher.MaxBodySize = int64(len(page) / 2)

	body, err := readSource(context.Background(), cfg, srv.URL, testLogger)
	if !errors.Is(err, fetcher.ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
	if body != nil {
		t.Errorf("expected no body, got %d bytes", len(body))
	}
}
