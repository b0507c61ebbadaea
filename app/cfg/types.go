package cfg

import "time"

type Cfg struct {
	// YouTube Data API
	APIKey            string
	APIBaseURL        string
	RequestsPerSecond float64
	MaxRetries        int

	// Application configuration
	SeriesDir       string
	OutputDir       string
	WorkerCount     int
	RequestTimeout  time.Duration
	SamplePolicy    string
	DBPath          string
	HTTPAddr        string
	APIAccessKey    string
	FeedBaseURL     string
	Force           bool
	RefreshInterval time.Duration

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
