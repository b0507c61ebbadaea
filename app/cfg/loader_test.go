package cfg

import (
	"errors"
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		t.Logf("Version: %s", version)
	}
}

func TestLoadArgs_MissingAPIKey(t *testing.T) {
	t.Setenv("YT_API_KEY", "")

	_, err := LoadArgs([]string{})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Expected ErrMissingAPIKey, got %v", err)
	}
}

func TestLoadArgs_Defaults(t *testing.T) {
	t.Setenv("YT_API_KEY", "test-key")

	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.APIKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", cfg.APIKey)
	}
	if cfg.APIBaseURL != "https://www.googleapis.com/youtube/v3" {
		t.Errorf("Unexpected API base URL '%s'", cfg.APIBaseURL)
	}
	if cfg.WorkerCount != 10 {
		t.Errorf("Expected worker count 10, got %d", cfg.WorkerCount)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("Expected request timeout 15s, got %s", cfg.RequestTimeout)
	}
	if cfg.SamplePolicy != "collect-all" {
		t.Errorf("Expected sample policy 'collect-all', got '%s'", cfg.SamplePolicy)
	}
	if cfg.SeriesDir != "./series" {
		t.Errorf("Expected series dir './series', got '%s'", cfg.SeriesDir)
	}
	if cfg.OutputDir != "." {
		t.Errorf("Expected output dir '.', got '%s'", cfg.OutputDir)
	}
	if cfg.DBPath != "" || cfg.HTTPAddr != "" {
		t.Error("Archive and report server should be disabled by default")
	}
}

func TestLoadArgs_EnvironmentOverrides(t *testing.T) {
	t.Setenv("YT_API_KEY", "test-key")
	t.Setenv("WORKER_COUNT", "3")
	t.Setenv("SAMPLE_POLICY", "fail-fast")
	t.Setenv("DB_PATH", "/tmp/runs.db")

	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.WorkerCount != 3 {
		t.Errorf("Expected worker count 3, got %d", cfg.WorkerCount)
	}
	if cfg.SamplePolicy != "fail-fast" {
		t.Errorf("Expected sample policy 'fail-fast', got '%s'", cfg.SamplePolicy)
	}
	if cfg.DBPath != "/tmp/runs.db" {
		t.Errorf("Expected DB path '/tmp/runs.db', got '%s'", cfg.DBPath)
	}
}

func TestLoadArgs_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"zero workers", map[string]string{"WORKER_COUNT": "0"}},
		{"unknown policy", map[string]string{"SAMPLE_POLICY": "best-effort"}},
		{"negative retries", map[string]string{"MAX_RETRIES": "-1"}},
		{"zero timeout", map[string]string{"REQUEST_TIMEOUT": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("YT_API_KEY", "test-key")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := LoadArgs([]string{}); err == nil {
				t.Error("Expected configuration error")
			}
		})
	}
}
