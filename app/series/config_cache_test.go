package series

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigCacheLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
handle: "lefticus1"
title_pattern: '^C\+\+ Weekly - Ep ([0-9]+)'
exclude_video_ids:
  - "doom-stream-id"
thumbnail_quality: "high"
color_channel: "green"

plots:
  duration:
    file: "durations.png"
    title: "Episode Duration"
  color:
    file: "green.png"
    title: "Thumbnail Green"
`

	err := os.WriteFile(filepath.Join(tempDir, "cpp.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	err = configCache.Run()
	if err != nil {
		t.Fatal(err)
	}

	if configCache.GetConfigCount() != 1 {
		t.Errorf("Expected 1 seriesConfig, got %d", configCache.GetConfigCount())
	}

	seriesConfig, err := configCache.GetConfig("cpp")
	if err != nil {
		t.Fatal(err)
	}

	if seriesConfig.Name != "cpp" {
		t.Errorf("Expected name 'cpp', got '%s'", seriesConfig.Name)
	}
	if seriesConfig.Handle != "lefticus1" {
		t.Errorf("Expected handle 'lefticus1', got '%s'", seriesConfig.Handle)
	}
	if len(seriesConfig.ExcludeVideoIDs) != 1 || seriesConfig.ExcludeVideoIDs[0] != "doom-stream-id" {
		t.Errorf("Unexpected excluded ids: %v", seriesConfig.ExcludeVideoIDs)
	}
	if seriesConfig.ThumbnailQuality != "high" {
		t.Errorf("Expected thumbnail quality 'high', got '%s'", seriesConfig.ThumbnailQuality)
	}
	if seriesConfig.Plots.Duration.XLabel != "Episode" {
		t.Errorf("Expected default x label 'Episode', got '%s'", seriesConfig.Plots.Duration.XLabel)
	}
	if seriesConfig.Plots.Color.YLabel != "Green Channel" {
		t.Errorf("Expected default y label 'Green Channel', got '%s'", seriesConfig.Plots.Color.YLabel)
	}
}

func TestConfigCacheDefaultSeries(t *testing.T) {
	configCache := NewConfigCache(filepath.Join(t.TempDir(), "missing"))
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	configs := configCache.GetConfigs()
	if len(configs) != 1 {
		t.Fatalf("Expected the default series, got %d configs", len(configs))
	}

	def := configs[0]
	if def.Name != DefaultName {
		t.Errorf("Expected name '%s', got '%s'", DefaultName, def.Name)
	}
	if def.Handle != "lefticus1" {
		t.Errorf("Expected handle 'lefticus1', got '%s'", def.Handle)
	}
	if def.Plots.Duration.File != "cw_durations.png" || def.Plots.Color.File != "cw_green.png" {
		t.Errorf("Unexpected plot files: %s, %s", def.Plots.Duration.File, def.Plots.Color.File)
	}
}

func TestConfigCacheDefaultsApplied(t *testing.T) {
	tempDir := t.TempDir()

	content := `
handle: "someone"
plots:
  duration:
    file: "d.png"
  color:
    file: "c.png"
`
	if err := os.WriteFile(filepath.Join(tempDir, "minimal.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	seriesConfig, err := configCache.GetConfig("minimal")
	if err != nil {
		t.Fatal(err)
	}

	if seriesConfig.TitlePattern != Default().TitlePattern {
		t.Errorf("Expected default title pattern, got '%s'", seriesConfig.TitlePattern)
	}
	if seriesConfig.ColorChannel != "green" {
		t.Errorf("Expected default color channel 'green', got '%s'", seriesConfig.ColorChannel)
	}
	if seriesConfig.ThumbnailQuality != "default" {
		t.Errorf("Expected default thumbnail quality, got '%s'", seriesConfig.ThumbnailQuality)
	}
}

func TestConfigCacheInvalidConfigs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "missing handle",
			content: "plots:\n  duration:\n    file: d.png\n  color:\n    file: c.png\n",
			errText: "channel handle is required",
		},
		{
			name:    "pattern without group",
			content: "handle: x\ntitle_pattern: '^Ep \\d+'\nplots:\n  duration:\n    file: d.png\n  color:\n    file: c.png\n",
			errText: "capture group",
		},
		{
			name:    "unknown channel",
			content: "handle: x\ncolor_channel: alpha\nplots:\n  duration:\n    file: d.png\n  color:\n    file: c.png\n",
			errText: "unknown color channel",
		},
		{
			name:    "unknown quality",
			content: "handle: x\nthumbnail_quality: huge\nplots:\n  duration:\n    file: d.png\n  color:\n    file: c.png\n",
			errText: "invalid thumbnail quality",
		},
		{
			name:    "same plot file",
			content: "handle: x\nplots:\n  duration:\n    file: p.png\n  color:\n    file: p.png\n",
			errText: "different files",
		},
		{
			name:    "empty excluded id",
			content: "handle: x\nexclude_video_ids: ['']\nplots:\n  duration:\n    file: d.png\n  color:\n    file: c.png\n",
			errText: "is empty",
		},
		{
			name:    "invalid yaml",
			content: "handle: [unterminated\n",
			errText: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			if err := os.WriteFile(filepath.Join(tempDir, "bad.yml"), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			err := NewConfigCache(tempDir).Run()
			if err == nil {
				t.Fatal("Expected error for invalid config")
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("Expected error containing '%s', got: %v", tt.errText, err)
			}
		})
	}
}

func TestConfigCacheGetConfigNotFound(t *testing.T) {
	configCache := NewConfigCache(t.TempDir())
	if _, err := configCache.GetConfig("nonexistent"); err == nil {
		t.Error("Expected error for unknown series")
	}
}
