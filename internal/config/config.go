package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for netsat.
type Config struct {
	Portal   PortalConfig   `mapstructure:"portal"   yaml:"portal"`
	Browser  BrowserConfig  `mapstructure:"browser"  yaml:"browser"`
	Fetcher  FetcherConfig  `mapstructure:"fetcher"  yaml:"fetcher"`
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`
	Storage  StorageConfig  `mapstructure:"storage"  yaml:"storage"`
	Mongo    MongoConfig    `mapstructure:"mongo"    yaml:"mongo"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"  yaml:"metrics"`
}

// PortalConfig describes where the admissions portal keeps its data.
type PortalConfig struct {
	URL           string        `mapstructure:"url"            yaml:"url"`
	FacultySelect string        `mapstructure:"faculty_select" yaml:"faculty_select"`
	TableXPath    string        `mapstructure:"table_xpath"    yaml:"table_xpath"`
	TableWait     time.Duration `mapstructure:"table_wait"     yaml:"table_wait"`

	// HeaderRow is the index of the row holding subject labels.
	HeaderRow int `mapstructure:"header_row" yaml:"header_row"`

	// FixedHeaderCells is how many leading header cells are quota columns
	// rather than subjects.
	FixedHeaderCells int `mapstructure:"fixed_header_cells" yaml:"fixed_header_cells"`
}

// BrowserConfig controls the headless browser session.
type BrowserConfig struct {
	Headless        bool          `mapstructure:"headless"         yaml:"headless"`
	ControlURL      string        `mapstructure:"control_url"      yaml:"control_url"`
	Bin             string        `mapstructure:"bin"              yaml:"bin"`
	Stealth         bool          `mapstructure:"stealth"          yaml:"stealth"`
	WindowSize      string        `mapstructure:"window_size"      yaml:"window_size"`
	UserDataDir     string        `mapstructure:"user_data_dir"    yaml:"user_data_dir"`
	Proxy           string        `mapstructure:"proxy"            yaml:"proxy"`
	NavigateTimeout time.Duration `mapstructure:"navigate_timeout" yaml:"navigate_timeout"`
	Settle          time.Duration `mapstructure:"settle"           yaml:"settle"`
}

// FetcherConfig controls the HTTP fetcher used for offline parsing of URLs.
type FetcherConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	MaxBodySize    int64         `mapstructure:"max_body_size"   yaml:"max_body_size"`
	UserAgent      string        `mapstructure:"user_agent"      yaml:"user_agent"`
	TLSInsecure    bool          `mapstructure:"tls_insecure"    yaml:"tls_insecure"`
}

// PipelineConfig controls post-processing of decoded majors.
type PipelineConfig struct {
	Middlewares []string `mapstructure:"middlewares" yaml:"middlewares"`
}

// StorageConfig controls output/storage.
type StorageConfig struct {
	Type       string   `mapstructure:"type"        yaml:"type"`
	OutputPath string   `mapstructure:"output_path" yaml:"output_path"`
	Backends   []string `mapstructure:"backends"    yaml:"backends"`
}

// MongoConfig configures the optional MongoDB sink.
type MongoConfig struct {
	URI        string        `mapstructure:"uri"        yaml:"uri"`
	Database   string        `mapstructure:"database"   yaml:"database"`
	Collection string        `mapstructure:"collection" yaml:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"    yaml:"timeout"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the Prometheus text endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Portal: PortalConfig{
			URL:              "https://apply.kku.ac.th/programsearch67/programlist.php",
			FacultySelect:    "#facultyname",
			TableXPath:       "/html/body/div[2]/div[3]/div/div/div/div[1]/div[2]/table",
			TableWait:        3 * time.Second,
			HeaderRow:        1,
			FixedHeaderCells: 2,
		},
		Browser: BrowserConfig{
			Headless:        true,
			WindowSize:      "1366,768",
			NavigateTimeout: 30 * time.Second,
			Settle:          300 * time.Millisecond,
		},
		Fetcher: FetcherConfig{
			RequestTimeout: 30 * time.Second,
			MaxBodySize:    10 * 1024 * 1024, // 10MB
		},
		Storage: StorageConfig{
			Type:       "json",
			OutputPath: "netsat_data.json",
		},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "netsat",
			Collection: "majors",
			Timeout:    10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
