package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Storage.OutputPath != "netsat_data.json" {
		t.Errorf("expected default output netsat_data.json, got %q", cfg.Storage.OutputPath)
	}
	if cfg.Portal.TableWait != 3*time.Second {
		t.Errorf("expected 3s table wait, got %s", cfg.Portal.TableWait)
	}
	if len(cfg.Pipeline.Middlewares) != 0 {
		t.Errorf("expected empty default pipeline, got %v", cfg.Pipeline.Middlewares)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "netsat.yaml")
	content := `
portal:
  table_wait: 5s
  faculty_select: "#faculty"
storage:
  type: csv
  output_path: out/majors.csv
pipeline:
  middlewares: [trim, dedup]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Portal.TableWait != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.Portal.TableWait)
	}
	if cfg.Portal.FacultySelect != "#faculty" {
		t.Errorf("expected #faculty, got %q", cfg.Portal.FacultySelect)
	}
	if cfg.Storage.Type != "csv" || cfg.Storage.OutputPath != "out/majors.csv" {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if len(cfg.Pipeline.Middlewares) != 2 {
		t.Errorf("expected 2 middlewares, got %v", cfg.Pipeline.Middlewares)
	}
	// Untouched sections keep their defaults.
	if cfg.Portal.HeaderRow != 1 || cfg.Portal.FixedHeaderCells != 2 {
		t.Errorf("header defaults lost: %+v", cfg.Portal)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("NETSAT_STORAGE_OUTPUT_PATH", "from-env.json")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.OutputPath != "from-env.json" {
		t.Errorf("expected env override, got %q", cfg.Storage.OutputPath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad url", func(c *Config) { c.Portal.URL = "ftp://example.com" }},
		{"empty select", func(c *Config) { c.Portal.FacultySelect = "" }},
		{"zero wait", func(c *Config) { c.Portal.TableWait = 0 }},
		{"negative header row", func(c *Config) { c.Portal.HeaderRow = -1 }},
		{"unknown storage", func(c *Config) { c.Storage.Type = "xml" }},
		{"multi without backends", func(c *Config) { c.Storage.Type = "multi" }},
		{"nested multi", func(c *Config) {
			c.Storage.Type = "multi"
			c.Storage.Backends = []string{"json", "multi"}
		}},
		{"mongo without uri", func(c *Config) {
			c.Storage.Type = "mongodb"
			c.Mongo.URI = ""
		}},
		{"unknown middleware", func(c *Config) { c.Pipeline.Middlewares = []string{"uppercase"} }},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad metrics port", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Port = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}
