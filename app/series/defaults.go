package series

import "github.com/lysyi3m/episode-trends/app/episode"

const DefaultName = "cpp-weekly"

// Default is the C++ Weekly series, used when no series files are configured.
func Default() *Config {
	return &Config{
		Name:             DefaultName,
		Handle:           "lefticus1",
		TitlePattern:     episode.DefaultTitlePattern,
		ThumbnailQuality: "default",
		ColorChannel:     "green",
		Plots: Plots{
			Duration: PlotConfig{
				File:   "cw_durations.png",
				Title:  "C++ Weekly Episode Duration",
				XLabel: "Episode",
				YLabel: "Seconds",
			},
			Color: PlotConfig{
				File:   "cw_green.png",
				Title:  "C++ Weekly Thumbnail Green Color Channel",
				XLabel: "Episode",
				YLabel: "Green Channel",
			},
		},
	}
}
