package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/mo"

	"github.com/lysyi3m/episode-trends/app/database"
	"github.com/lysyi3m/episode-trends/app/episode"
	"github.com/lysyi3m/episode-trends/app/youtube"
)

func (p *Pipeline) archive(result *Result, videoIDs []string, samples []mo.Result[float64], startedAt time.Time) (int64, error) {
	records := make([]database.EpisodeRecord, len(result.Episodes))
	for i, e := range result.Episodes {
		records[i] = database.EpisodeRecord{
			Number:       e.Number,
			VideoID:      e.Video.ID,
			Title:        e.Video.Title,
			DurationCode: e.Video.DurationISO8601,
			ThumbnailURL: e.Video.ThumbnailURL,
		}

		if seconds, err := episode.ParseDuration(e.Video.DurationISO8601).Get(); err == nil {
			records[i].DurationSeconds = &seconds
		}

		if value, err := samples[i].Get(); err == nil {
			records[i].ColorSample = &value
		} else {
			records[i].SampleError = err.Error()
		}
	}

	run := database.Run{
		Series:              result.Series,
		ChannelID:           result.ChannelID,
		PlaylistID:          result.PlaylistID,
		ConfigFingerprint:   p.series.Fingerprint(),
		StartedAt:           startedAt,
		FinishedAt:          time.Now(),
		VideoCount:          result.VideoCount,
		EpisodeCount:        len(result.Episodes),
		UnparsableDurations: len(result.Unparsable),
		FailedSamples:       result.FailedSamples,
		DurationFit:         &database.FitRecord{Slope: result.DurationModel.Slope, Intercept: result.DurationModel.Intercept},
		ColorFit:            &database.FitRecord{Slope: result.ColorModel.Slope, Intercept: result.ColorModel.Intercept},
	}

	runID, err := p.runRepo.CreateRun(run, videoIDs, records)
	if err != nil {
		return 0, fmt.Errorf("failed to archive run: %w", err)
	}

	slog.Debug("Run archived", "series", result.Series, "run", runID, "episodes", len(records))

	return runID, nil
}

// replayArchive re-renders the plots of the latest archived run when that run
// was harvested with the current series settings and the channel's newest
// upload was already seen by it. Any feed or archive problem falls back to a
// full harvest.
func (p *Pipeline) replayArchive(ctx context.Context) (*Result, bool) {
	if p.runRepo == nil || p.prober == nil || p.force {
		return nil, false
	}

	last, err := p.runRepo.GetLatestRun(p.series.Name)
	if err != nil {
		slog.Warn("Archive lookup failed", "series", p.series.Name, "error", err)
		return nil, false
	}
	if last == nil {
		return nil, false
	}
	if last.ConfigFingerprint != p.series.Fingerprint() {
		slog.Info("Series settings changed since last run", "series", p.series.Name, "run", last.ID)
		return nil, false
	}

	upload, err := p.prober.Latest(ctx, last.ChannelID)
	if err != nil {
		slog.Warn("Feed check failed", "series", p.series.Name, "channel", last.ChannelID, "error", err)
		return nil, false
	}

	seen, err := p.runRepo.HasVideo(last.ID, upload.VideoID)
	if err != nil {
		slog.Warn("Archive lookup failed", "series", p.series.Name, "error", err)
		return nil, false
	}
	if !seen {
		slog.Info("New upload found", "series", p.series.Name, "video", upload.VideoID, "title", upload.Title)
		return nil, false
	}

	records, err := p.runRepo.GetRunEpisodes(last.ID)
	if err != nil {
		slog.Warn("Archive lookup failed", "series", p.series.Name, "error", err)
		return nil, false
	}

	result := resultFromArchive(last, records)
	if result.DurationModel, err = p.fitAndRender(p.series.Plots.Duration, result.Durations, result); err != nil {
		slog.Warn("Archived run not replayable", "series", p.series.Name, "run", last.ID, "error", err)
		return nil, false
	}
	if result.ColorModel, err = p.fitAndRender(p.series.Plots.Color, result.Colors, result); err != nil {
		slog.Warn("Archived run not replayable", "series", p.series.Name, "run", last.ID, "error", err)
		return nil, false
	}

	return result, true
}

func resultFromArchive(run *database.Run, records []database.EpisodeRecord) *Result {
	result := &Result{
		Series:        run.Series,
		ChannelID:     run.ChannelID,
		PlaylistID:    run.PlaylistID,
		VideoCount:    run.VideoCount,
		FailedSamples: run.FailedSamples,
		RunID:         run.ID,
		FromArchive:   true,
	}

	for _, r := range records {
		e := episode.Episode{
			Number: r.Number,
			Video: youtube.Video{
				ID:              r.VideoID,
				Title:           r.Title,
				DurationISO8601: r.DurationCode,
				ThumbnailURL:    r.ThumbnailURL,
			},
		}
		result.Episodes = append(result.Episodes, e)

		if r.DurationSeconds != nil {
			result.Durations.add(float64(r.Number), float64(*r.DurationSeconds))
		} else {
			result.Unparsable = append(result.Unparsable, e)
		}

		if r.ColorSample != nil {
			result.Colors.add(float64(r.Number), *r.ColorSample)
		}
	}

	return result
}
