package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

// ErrMissingAPIKey is the configuration error reported before any network call
// when no API key has been supplied.
var ErrMissingAPIKey = errors.New("configuration error: YT_API_KEY is not set")

var validSamplePolicies = map[string]bool{
	"fail-fast":   true,
	"collect-all": true,
	"skip-failed": true,
}

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// YouTube Data API
	APIKey            string  `long:"api-key" env:"YT_API_KEY" description:"YouTube Data API key (required)"`
	APIBaseURL        string  `long:"api-base-url" env:"YT_API_BASE_URL" default:"https://www.googleapis.com/youtube/v3" description:"YouTube Data API endpoint"`
	RequestsPerSecond float64 `long:"requests-per-second" env:"REQUESTS_PER_SECOND" default:"5" description:"Client-side API request rate limit"`
	MaxRetries        int     `long:"max-retries" env:"MAX_RETRIES" default:"3" description:"Retries for transient transport failures"`

	// Application configuration
	SeriesDir       string `long:"series-dir" env:"SERIES_DIR" default:"./series" description:"Directory containing series definition files"`
	OutputDir       string `long:"output-dir" env:"OUTPUT_DIR" default:"." description:"Directory plots are written to"`
	WorkerCount     int    `long:"worker-count" env:"WORKER_COUNT" default:"10" description:"Number of concurrent thumbnail workers"`
	RequestTimeout  int    `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"15" description:"Per-request timeout in seconds"`
	SamplePolicy    string `long:"sample-policy" env:"SAMPLE_POLICY" default:"collect-all" description:"Thumbnail failure policy: fail-fast, collect-all or skip-failed"`
	DBPath          string `long:"db-path" env:"DB_PATH" description:"SQLite run archive path (optional)"`
	HTTPAddr        string `long:"http-addr" env:"HTTP_ADDR" description:"Report server listen address (optional)"`
	APIAccessKey    string `long:"api-access-key" env:"API_ACCESS_KEY" description:"Key required by the report server's /api endpoints (optional)"`
	FeedBaseURL     string `long:"feed-base-url" env:"FEED_BASE_URL" default:"https://www.youtube.com/feeds/videos.xml" description:"Channel upload feed endpoint"`
	Force           bool   `long:"force" env:"FORCE" description:"Harvest even when the upload feed shows nothing new"`
	RefreshInterval int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"0" description:"Re-harvest interval in seconds while the report server runs (0 harvests once)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"episode-trends/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses the process arguments and environment. It returns nil, nil when
// help was requested.
func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs is Load with explicit arguments; nil means os.Args[1:].
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		APIKey:            raw.APIKey,
		APIBaseURL:        raw.APIBaseURL,
		RequestsPerSecond: raw.RequestsPerSecond,
		MaxRetries:        raw.MaxRetries,
		SeriesDir:         raw.SeriesDir,
		OutputDir:         raw.OutputDir,
		WorkerCount:       raw.WorkerCount,
		RequestTimeout:    time.Duration(raw.RequestTimeout) * time.Second,
		SamplePolicy:      raw.SamplePolicy,
		DBPath:            raw.DBPath,
		HTTPAddr:          raw.HTTPAddr,
		APIAccessKey:      raw.APIAccessKey,
		FeedBaseURL:       raw.FeedBaseURL,
		Force:             raw.Force,
		RefreshInterval:   time.Duration(raw.RefreshInterval) * time.Second,
		UserAgent:         raw.UserAgent,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Cfg) error {
	if cfg.APIKey == "" {
		return ErrMissingAPIKey
	}

	positiveFields := map[string]int{
		"worker count":    cfg.WorkerCount,
		"request timeout": int(cfg.RequestTimeout / time.Second),
	}
	for fieldName, fieldValue := range positiveFields {
		if fieldValue <= 0 {
			return fmt.Errorf("configuration error: %s must be positive", fieldName)
		}
	}

	if cfg.RefreshInterval < 0 {
		return fmt.Errorf("configuration error: refresh interval must be non-negative")
	}
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("configuration error: max retries must be non-negative")
	}
	if cfg.RequestsPerSecond <= 0 {
		return fmt.Errorf("configuration error: requests per second must be positive")
	}
	if !validSamplePolicies[cfg.SamplePolicy] {
		return fmt.Errorf("configuration error: unknown sample policy '%s'", cfg.SamplePolicy)
	}

	return nil
}
