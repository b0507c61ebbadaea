package series

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/episode-trends/app/episode"
	"github.com/lysyi3m/episode-trends/app/thumbnail"
)

var validThumbnailQualities = map[string]bool{
	"default":  true,
	"medium":   true,
	"high":     true,
	"standard": true,
	"maxres":   true,
}

type ConfigCache struct {
	seriesDir string
	cache     map[string]*Config
	mu        sync.RWMutex
}

func NewConfigCache(seriesDir string) *ConfigCache {
	return &ConfigCache{
		seriesDir: seriesDir,
		cache:     make(map[string]*Config),
	}
}

// Run loads every *.yml file of the series directory. When the directory is
// missing or holds no definitions the built-in default series is registered.
func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.seriesDir); err == nil {
		files, err := filepath.Glob(filepath.Join(cc.seriesDir, "*.yml"))
		if err != nil {
			return fmt.Errorf("failed to find YML files: %w", err)
		}

		for _, file := range files {
			seriesName := strings.TrimSuffix(filepath.Base(file), ".yml")

			config, err := cc.LoadConfig(seriesName)
			if err != nil {
				return fmt.Errorf("error loading %s: %w", file, err)
			}

			slog.Debug("Configuration loaded", "series", seriesName, "handle", config.Handle, "excluded", len(config.ExcludeVideoIDs))
		}
	}

	if cc.GetConfigCount() == 0 {
		def := Default()
		cc.mu.Lock()
		cc.cache[def.Name] = def
		cc.mu.Unlock()
		slog.Debug("No series definitions found, using default", "series", def.Name)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(seriesName string) (*Config, error) {
	configFile := cc.getConfigFilePath(seriesName)
	seriesConfig, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	seriesConfig.Name = seriesName

	if err := cc.validateConfig(seriesConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[seriesConfig.Name] = seriesConfig

	return seriesConfig, nil
}

func (cc *ConfigCache) GetConfig(seriesName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	seriesConfig, ok := cc.cache[seriesName]
	if !ok {
		return nil, fmt.Errorf("series config with name '%s' not found", seriesName)
	}
	return seriesConfig, nil
}

// GetConfigs returns the loaded series sorted by name.
func (cc *ConfigCache) GetConfigs() []*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configs := make([]*Config, 0, len(cc.cache))
	for _, v := range cc.cache {
		configs = append(configs, v)
	}
	slices.SortFunc(configs, func(a, b *Config) int {
		return strings.Compare(a.Name, b.Name)
	})
	return configs
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var seriesConfig Config
	if err := yaml.Unmarshal(data, &seriesConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&seriesConfig)

	return &seriesConfig, nil
}

func applyDefaults(c *Config) {
	def := Default()

	c.TitlePattern = cmp.Or(c.TitlePattern, def.TitlePattern)
	c.ThumbnailQuality = cmp.Or(c.ThumbnailQuality, def.ThumbnailQuality)
	c.ColorChannel = cmp.Or(c.ColorChannel, def.ColorChannel)

	c.Plots.Duration.XLabel = cmp.Or(c.Plots.Duration.XLabel, def.Plots.Duration.XLabel)
	c.Plots.Duration.YLabel = cmp.Or(c.Plots.Duration.YLabel, def.Plots.Duration.YLabel)
	c.Plots.Color.XLabel = cmp.Or(c.Plots.Color.XLabel, def.Plots.Color.XLabel)
	c.Plots.Color.YLabel = cmp.Or(c.Plots.Color.YLabel, strings.ToUpper(c.ColorChannel[:1])+c.ColorChannel[1:]+" Channel")
}

func (cc *ConfigCache) validateConfig(seriesConfig *Config) error {
	if seriesConfig == nil {
		return fmt.Errorf("seriesConfig is nil")
	}

	requiredFields := map[string]string{
		"series name":        seriesConfig.Name,
		"channel handle":     seriesConfig.Handle,
		"duration plot file": seriesConfig.Plots.Duration.File,
		"color plot file":    seriesConfig.Plots.Color.File,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	if seriesConfig.Plots.Duration.File == seriesConfig.Plots.Color.File {
		return fmt.Errorf("duration and color plots must use different files")
	}

	if _, err := episode.NewFilterer(seriesConfig.TitlePattern); err != nil {
		return err
	}

	if _, err := thumbnail.ParseChannel(seriesConfig.ColorChannel); err != nil {
		return err
	}

	if !validThumbnailQualities[seriesConfig.ThumbnailQuality] {
		return fmt.Errorf("invalid thumbnail quality: %s", seriesConfig.ThumbnailQuality)
	}

	for i, id := range seriesConfig.ExcludeVideoIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("excluded video id at index %d is empty", i)
		}
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(seriesName string) string {
	return filepath.Join(cc.seriesDir, seriesName+".yml")
}
