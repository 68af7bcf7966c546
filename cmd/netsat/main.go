package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/netsat/internal/config"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "netsat",
		Short: "Admission score table scraper for the KKU program search portal",
		Long: `netsat walks every faculty of the KKU program search portal in a
headless browser, decodes each faculty's score table and writes one record
per admission program.

Running netsat with no subcommand is the same as "netsat scrape".`,
		RunE:         runScrape,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	addScrapeFlags(rootCmd)

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("netsat %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Portal:\n")
			fmt.Printf("  URL:               %s\n", cfg.Portal.URL)
			fmt.Printf("  Faculty Select:    %s\n", cfg.Portal.FacultySelect)
			fmt.Printf("  Table XPath:       %s\n", cfg.Portal.TableXPath)
			fmt.Printf("  Table Wait:        %s\n", cfg.Portal.TableWait)
			fmt.Printf("  Header Row:        %d (skip %d)\n", cfg.Portal.HeaderRow, cfg.Portal.FixedHeaderCells)
			fmt.Printf("\nBrowser:\n")
			fmt.Printf("  Headless:          %v\n", cfg.Browser.Headless)
			fmt.Printf("  Stealth:           %v\n", cfg.Browser.Stealth)
			fmt.Printf("  Control URL:       %s\n", orNone(cfg.Browser.ControlURL))
			fmt.Printf("  Navigate Timeout:  %s\n", cfg.Browser.NavigateTimeout)
			fmt.Printf("\nPipeline:\n")
			fmt.Printf("  Middlewares:       %s\n", orNone(strings.Join(cfg.Pipeline.Middlewares, ", ")))
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Path:       %s\n", cfg.Storage.OutputPath)
			if cfg.Storage.Type == "mongodb" || cfg.Storage.Type == "multi" {
				fmt.Printf("  Mongo:             %s/%s.%s\n", cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
			}
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:              %d\n", cfg.Metrics.Port)
			return nil
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// loadConfig reads the config file and environment, then builds the logger
// the rest of the command uses.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, setupLogger(&cfg.Logging), nil
}

// setupLogger creates a structured logger.
func setupLogger(cfg *config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
