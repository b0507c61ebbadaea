package database

import (
	"time"
)

type Run struct {
	ID                  int64      `json:"id"`
	Series              string     `json:"series"`
	ChannelID           string     `json:"channel_id"`
	PlaylistID          string     `json:"playlist_id"`
	ConfigFingerprint   string     `json:"config_fingerprint"` // series settings the run was harvested with
	StartedAt           time.Time  `json:"started_at"`
	FinishedAt          time.Time  `json:"finished_at"`
	VideoCount          int        `json:"video_count"`
	EpisodeCount        int        `json:"episode_count"`
	UnparsableDurations int        `json:"unparsable_durations"`
	FailedSamples       int        `json:"failed_samples"`
	DurationFit         *FitRecord `json:"duration_fit,omitempty"`
	ColorFit            *FitRecord `json:"color_fit,omitempty"`
}

type FitRecord struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

type EpisodeRecord struct {
	Number          int      `json:"number"`
	VideoID         string   `json:"video_id"`
	Title           string   `json:"title"`
	DurationCode    string   `json:"duration_code"`
	ThumbnailURL    string   `json:"thumbnail_url"`
	DurationSeconds *int     `json:"duration_seconds"` // nil when the duration code did not parse
	ColorSample     *float64 `json:"color_sample"`     // nil when sampling failed
	SampleError     string   `json:"sample_error,omitempty"`
}
