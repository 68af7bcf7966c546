package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/netsat/internal/browser"
	"github.com/IshaanNene/netsat/internal/config"
	"github.com/IshaanNene/netsat/internal/observability"
	"github.com/IshaanNene/netsat/internal/pipeline"
	"github.com/IshaanNene/netsat/internal/scraper"
	"github.com/IshaanNene/netsat/internal/storage"
	"github.com/IshaanNene/netsat/internal/types"
)

var (
	outputPath string
	outputType string
	portalURL  string
	controlURL string
	tableWait  time.Duration
	headful    bool
	useStealth bool
)

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape every faculty's score table from the live portal",
		Long: `Open the program search portal in a browser, select each faculty in turn
and decode its score table. Records are written only when every faculty has
been processed; a failed run leaves any existing output untouched.`,
		Args: cobra.NoArgs,
		RunE: runScrape,
	}
	addScrapeFlags(cmd)
	return cmd
}

func addScrapeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path (default from config)")
	cmd.Flags().StringVarP(&outputType, "format", "f", "", "output format: json, jsonl, csv, mongodb, multi")
	cmd.Flags().StringVar(&portalURL, "url", "", "program search page URL")
	cmd.Flags().StringVar(&controlURL, "control-url", "", "DevTools URL of an already running browser")
	cmd.Flags().DurationVar(&tableWait, "wait", 0, "how long to wait for each faculty's table")
	cmd.Flags().BoolVar(&headful, "headful", false, "show the browser window")
	cmd.Flags().BoolVar(&useStealth, "stealth", false, "apply anti-detection patches to the page")
}

// applyScrapeOverrides applies command-line flag values to the config.
func applyScrapeOverrides(cfg *config.Config) {
	if outputPath != "" {
		cfg.Storage.OutputPath = outputPath
	}
	if outputType != "" {
		cfg.Storage.Type = strings.ToLower(outputType)
	}
	if portalURL != "" {
		cfg.Portal.URL = portalURL
	}
	if controlURL != "" {
		cfg.Browser.ControlURL = controlURL
	}
	if tableWait > 0 {
		cfg.Portal.TableWait = tableWait
	}
	if headful {
		cfg.Browser.Headless = false
	}
	if useStealth {
		cfg.Browser.Stealth = true
	}
}

// runScrape executes the scrape command.
func runScrape(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	applyScrapeOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Info("starting scrape",
		"url", cfg.Portal.URL,
		"output", cfg.Storage.OutputPath,
		"format", cfg.Storage.Type,
		"headless", cfg.Browser.Headless,
	)

	ctx, cancel := signalContext(logger)
	defer cancel()

	metrics := startMetrics(cfg, logger)

	pipe, err := pipeline.FromNames(cfg.Pipeline.Middlewares, logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	store, err := storage.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}

	sess, err := browser.Launch(ctx, cfg, logger)
	if err != nil {
		_ = store.Close()
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn("browser close failed", "error", err)
		}
	}()

	if err := sess.Open(ctx, cfg.Portal.URL); err != nil {
		_ = store.Close()
		return err
	}

	s := scraper.New(&cfg.Portal, logger, scraper.WithPipeline(pipe), scraper.WithMetrics(metrics))
	res, err := s.Run(ctx, sess)
	if err != nil {
		// Nothing was stored, so closing leaves the previous output in place.
		_ = store.Close()
		return fmt.Errorf("scrape aborted: %w", err)
	}

	if err := persist(store, res.Majors, metrics); err != nil {
		return err
	}

	printSummary(res, metrics, cfg.Storage.OutputPath)
	return nil
}

// persist writes majors to store and closes it.
func persist(store storage.Storage, majors []*types.Major, metrics *observability.Metrics) error {
	if err := store.Store(majors); err != nil {
		_ = store.Close()
		return fmt.Errorf("store majors: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	metrics.MajorsStored.Add(int64(len(majors)))
	return nil
}

func startMetrics(cfg *config.Config, logger *slog.Logger) *observability.Metrics {
	metrics := observability.NewMetrics(logger)
	if cfg.Metrics.Enabled {
		if err := metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Warn("failed to start metrics server", "error", err)
		}
	}
	return metrics
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down...", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

func printSummary(res *scraper.Result, metrics *observability.Metrics, output string) {
	stats := metrics.Snapshot()

	fmt.Printf("\n✅ Scrape complete in %s\n", res.Elapsed.Round(time.Millisecond))
	fmt.Printf("   Faculties: %d visited, %d without a table\n", len(res.Faculties), res.NoTableCount())
	fmt.Printf("   Rows:      %v decoded, %d cells defaulted, %d skipped\n", stats["rows_decoded"], res.Rows.Defaulted, res.Rows.Skipped)
	fmt.Printf("   Majors:    %d written, %v dropped\n", len(res.Majors), stats["majors_dropped"])
	fmt.Printf("   Output:    %s\n", output)

	if verbose {
		fmt.Println()
		for _, f := range res.Faculties {
			fmt.Printf("   [%2d] %-40s %-15s %3d majors  %s\n", f.Index, f.Label, f.Terminal, f.Majors, strings.Join(f.Subjects, ","))
		}
	}
}
