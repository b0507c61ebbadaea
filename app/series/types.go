package series

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
)

// Config describes one video series: where its uploads live, how episode
// titles look and which plots to draw.
type Config struct {
	Name             string   // Derived from filename (without .yml extension)
	Handle           string   `yaml:"handle"`
	TitlePattern     string   `yaml:"title_pattern"`
	ExcludeVideoIDs  []string `yaml:"exclude_video_ids"` // known-anomalous uploads, e.g. marathon streams tagged as episodes
	ThumbnailQuality string   `yaml:"thumbnail_quality"`
	ColorChannel     string   `yaml:"color_channel"`
	Plots            Plots    `yaml:"plots"`
}

type Plots struct {
	Duration PlotConfig `yaml:"duration"`
	Color    PlotConfig `yaml:"color"`
}

type PlotConfig struct {
	File   string `yaml:"file"`
	Title  string `yaml:"title"`
	XLabel string `yaml:"x_label"`
	YLabel string `yaml:"y_label"`
}

// Fingerprint identifies the settings that decide which uploads become
// episodes and how their thumbnails are sampled. Plot labels are not part of it.
func (c *Config) Fingerprint() string {
	exclusions := slices.Compact(slices.Sorted(slices.Values(c.ExcludeVideoIDs)))

	content := fmt.Sprintf("%s|%s|%s|%s|%s",
		c.Handle,
		c.TitlePattern,
		strings.Join(exclusions, ","),
		c.ThumbnailQuality,
		c.ColorChannel)

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
