package config

import (
	"fmt"
	"net/url"
)

var validStorageTypes = map[string]bool{
	"json": true, "jsonl": true, "csv": true, "mongodb": true, "multi": true,
}

var validMiddlewares = map[string]bool{
	"trim": true, "dedup": true, "required": true,
}

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if err := ValidateURL(cfg.Portal.URL); err != nil {
		return fmt.Errorf("portal.url: %w", err)
	}
	if cfg.Portal.FacultySelect == "" {
		return fmt.Errorf("portal.faculty_select must not be empty")
	}
	if cfg.Portal.TableXPath == "" {
		return fmt.Errorf("portal.table_xpath must not be empty")
	}
	if cfg.Portal.TableWait <= 0 {
		return fmt.Errorf("portal.table_wait must be > 0")
	}
	if cfg.Portal.HeaderRow < 0 {
		return fmt.Errorf("portal.header_row must be >= 0, got %d", cfg.Portal.HeaderRow)
	}
	if cfg.Portal.FixedHeaderCells < 0 {
		return fmt.Errorf("portal.fixed_header_cells must be >= 0, got %d", cfg.Portal.FixedHeaderCells)
	}

	if cfg.Browser.NavigateTimeout <= 0 {
		return fmt.Errorf("browser.navigate_timeout must be > 0")
	}
	if cfg.Browser.Settle < 0 {
		return fmt.Errorf("browser.settle must be >= 0")
	}
	if cfg.Browser.Proxy != "" {
		if _, err := url.Parse(cfg.Browser.Proxy); err != nil {
			return fmt.Errorf("invalid proxy URL %q: %w", cfg.Browser.Proxy, err)
		}
	}

	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}

	for _, name := range cfg.Pipeline.Middlewares {
		if !validMiddlewares[name] {
			return fmt.Errorf("pipeline middleware %q is not supported (valid: trim, dedup, required)", name)
		}
	}

	if err := validateStorage(cfg.Storage.Type, cfg); err != nil {
		return err
	}
	if cfg.Storage.Type == "multi" {
		if len(cfg.Storage.Backends) == 0 {
			return fmt.Errorf("storage.backends must list at least one backend for type multi")
		}
		for _, b := range cfg.Storage.Backends {
			if b == "multi" {
				return fmt.Errorf("storage.backends cannot nest multi")
			}
			if err := validateStorage(b, cfg); err != nil {
				return err
			}
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

func validateStorage(storageType string, cfg *Config) error {
	if !validStorageTypes[storageType] {
		return fmt.Errorf("storage.type %q is not supported (valid: json, jsonl, csv, mongodb, multi)", storageType)
	}
	switch storageType {
	case "json", "jsonl", "csv":
		if cfg.Storage.OutputPath == "" {
			return fmt.Errorf("storage.output_path must not be empty for %s", storageType)
		}
	case "mongodb":
		if cfg.Mongo.URI == "" || cfg.Mongo.Database == "" || cfg.Mongo.Collection == "" {
			return fmt.Errorf("mongo.uri, mongo.database and mongo.collection are required for mongodb storage")
		}
	}
	return nil
}

// ValidateURL checks if a URL string is a usable http(s) address.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
