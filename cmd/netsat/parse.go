package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/netsat/internal/config"
	"github.com/IshaanNene/netsat/internal/fetcher"
	"github.com/IshaanNene/netsat/internal/pipeline"
	"github.com/IshaanNene/netsat/internal/scraper"
	"github.com/IshaanNene/netsat/internal/snapshot"
	"github.com/IshaanNene/netsat/internal/storage"
)

var (
	parseFaculty string
	parseOutput  string
	parseFormat  string
)

// parseCmd creates the "parse" subcommand.
func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file|url]",
		Short: "Decode the score table of a saved portal page",
		Long: `Decode the score table of one faculty from a saved copy of the program
search page, without starting a browser. The argument is a local HTML file or
an http(s) URL. The faculty label defaults to the option marked selected.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}

	cmd.Flags().StringVar(&parseFaculty, "faculty", "", "faculty label stamped on every record")
	cmd.Flags().StringVarP(&parseOutput, "output", "o", "", "output file path (default from config)")
	cmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: json, jsonl, csv, mongodb, multi")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if parseOutput != "" {
		cfg.Storage.OutputPath = parseOutput
	}
	if parseFormat != "" {
		cfg.Storage.Type = strings.ToLower(parseFormat)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	source := args[0]
	body, err := readSource(ctx, cfg, source, logger)
	if err != nil {
		return err
	}

	page, err := snapshot.Parse(source, body, cfg.Portal.FacultySelect, cfg.Portal.TableXPath, logger)
	if err != nil {
		return err
	}
	label := parseFaculty
	if label == "" {
		label = page.SelectedFaculty()
	}

	metrics := startMetrics(cfg, logger)
	pipe, err := pipeline.FromNames(cfg.Pipeline.Middlewares, logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	start := time.Now()
	s := scraper.New(&cfg.Portal, logger, scraper.WithPipeline(pipe), scraper.WithMetrics(metrics))
	majors, report, err := s.ScrapeFaculty(ctx, page, label)
	if err != nil {
		return fmt.Errorf("decode %s: %w", source, err)
	}

	store, err := storage.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	if err := persist(store, majors, metrics); err != nil {
		return err
	}

	res := &scraper.Result{
		Majors:    majors,
		Faculties: []scraper.FacultyReport{*report},
		Rows:      report.Cells,
		Elapsed:   time.Since(start),
	}
	printSummary(res, metrics, cfg.Storage.OutputPath)
	return nil
}

// readSource loads a saved page from disk, or over HTTP for URLs.
func readSource(ctx context.Context, cfg *config.Config, source string, logger *slog.Logger) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		body, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		return body, nil
	}

	if err := config.ValidateURL(source); err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", source, err)
	}
	f := fetcher.NewHTTPFetcher(&cfg.Fetcher, logger)
	defer f.Close()
	return f.Fetch(ctx, source)
}
