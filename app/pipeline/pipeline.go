package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/mo"

	"github.com/lysyi3m/episode-trends/app/database"
	"github.com/lysyi3m/episode-trends/app/episode"
	"github.com/lysyi3m/episode-trends/app/harvest"
	"github.com/lysyi3m/episode-trends/app/plot"
	"github.com/lysyi3m/episode-trends/app/series"
	"github.com/lysyi3m/episode-trends/app/stats"
	"github.com/lysyi3m/episode-trends/app/tasks"
)

// Pipeline harvests one series and renders its duration and color plots.
type Pipeline struct {
	series   *series.Config
	api      API
	sampler  Sampler
	plotter  plot.Plotter
	filterer *episode.Filterer
	policy   tasks.Policy

	runRepo database.RunRepository
	prober  UploadProber
	force   bool
}

type Option func(*Pipeline)

// WithArchive records every successful run in repo.
func WithArchive(repo database.RunRepository) Option {
	return func(p *Pipeline) { p.runRepo = repo }
}

// WithProber lets an archived series skip harvesting when its upload feed
// shows no video the last run has not seen. It has no effect without an archive.
func WithProber(prober UploadProber) Option {
	return func(p *Pipeline) { p.prober = prober }
}

func WithForce(force bool) Option {
	return func(p *Pipeline) { p.force = force }
}

func New(seriesConfig *series.Config, api API, sampler Sampler, plotter plot.Plotter, policy tasks.Policy, opts ...Option) (*Pipeline, error) {
	filterer, err := episode.NewFilterer(seriesConfig.TitlePattern)
	if err != nil {
		return nil, fmt.Errorf("series %s: %w", seriesConfig.Name, err)
	}

	p := &Pipeline{
		series:   seriesConfig,
		api:      api,
		sampler:  sampler,
		plotter:  plotter,
		filterer: filterer,
		policy:   policy,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	if result, ok := p.replayArchive(ctx); ok {
		slog.Info("Task completed",
			"type", "ReplaySeries",
			"series", p.series.Name,
			"duration", time.Since(start),
			"run", result.RunID,
			"episodes", len(result.Episodes))
		return result, nil
	}

	channel, err := p.api.ChannelByHandle(ctx, p.series.Handle)
	if err != nil {
		return nil, err
	}

	items, err := harvest.FetchAllPlaylistItems(ctx, p.api, channel.UploadsPlaylistID)
	if err != nil {
		return nil, err
	}
	videoIDs := harvest.VideoIDs(items)

	videos, err := harvest.LookupAll(ctx, p.api, videoIDs)
	if err != nil {
		return nil, err
	}

	episodes, unmatched := episode.Exclude(p.filterer.Run(videos), p.series.ExcludeVideoIDs)
	if len(unmatched) > 0 {
		slog.Warn("Excluded videos not found among episodes", "series", p.series.Name, "videos", unmatched)
	}

	result := &Result{
		Series:     p.series.Name,
		ChannelID:  channel.ID,
		PlaylistID: channel.UploadsPlaylistID,
		VideoCount: len(videoIDs),
		Episodes:   episodes,
	}

	durations := episode.Durations(episodes)
	result.Durations = Points{X: durations.X, Y: durations.Y}
	result.Unparsable = durations.Unparsable
	if len(durations.Unparsable) > 0 {
		slog.Warn("Unparsable durations",
			"series", p.series.Name,
			"count", len(durations.Unparsable),
			"videos", videoIDsOf(durations.Unparsable))
	}

	if result.DurationModel, err = p.fitAndRender(p.series.Plots.Duration, result.Durations, result); err != nil {
		return nil, err
	}

	samples := p.sampler.SampleAll(ctx, episode.ThumbnailURLs(episodes))

	colors, sampleErrs := collectSamples(episodes, samples)
	result.Colors = colors
	result.FailedSamples = len(sampleErrs)
	if len(sampleErrs) > 0 {
		if p.policy != tasks.PolicySkipFailed {
			return nil, &SampleError{Failed: len(sampleErrs), Total: len(samples), Errs: sampleErrs}
		}
		slog.Warn("Skipping failed thumbnail samples",
			"series", p.series.Name,
			"failed", len(sampleErrs),
			"total", len(samples))
	}

	if result.ColorModel, err = p.fitAndRender(p.series.Plots.Color, result.Colors, result); err != nil {
		return nil, err
	}

	if p.runRepo != nil {
		runID, err := p.archive(result, videoIDs, samples, start)
		if err != nil {
			return nil, err
		}
		result.RunID = runID
	}

	slog.Info("Task completed",
		"type", "HarvestSeries",
		"series", p.series.Name,
		"duration", time.Since(start),
		"videos", result.VideoCount,
		"episodes", len(episodes),
		"unparsable", len(result.Unparsable),
		"failed_samples", result.FailedSamples,
		"run", result.RunID)

	return result, nil
}

func (p *Pipeline) fitAndRender(plotConfig series.PlotConfig, points Points, result *Result) (stats.Model, error) {
	model, err := stats.LinearFit(points.X, points.Y)
	if err != nil {
		return stats.Model{}, fmt.Errorf("failed to fit %s: %w", plotConfig.File, err)
	}

	for i := range points.X {
		slog.Debug("Point", "series", p.series.Name, "plot", plotConfig.File, "x", points.X[i], "y", points.Y[i])
	}

	path, err := p.plotter.Render(plot.Chart{
		X:      points.X,
		Y:      points.Y,
		Model:  model,
		Title:  plotConfig.Title,
		XLabel: plotConfig.XLabel,
		YLabel: plotConfig.YLabel,
		File:   plotConfig.File,
	})
	if err != nil {
		return stats.Model{}, err
	}

	slog.Info("Plot written", "series", p.series.Name, "path", path, "points", len(points.X),
		"slope", model.Slope, "intercept", model.Intercept)
	result.Plots = append(result.Plots, path)

	return model, nil
}

// collectSamples pairs every successful sample with its episode number. Failures
// are annotated with their episode; tasks cancelled before running come last.
func collectSamples(episodes []episode.Episode, samples []mo.Result[float64]) (Points, []error) {
	var points Points
	var failed, notRun []error

	for i, sample := range samples {
		value, err := sample.Get()
		if err == nil {
			points.add(float64(episodes[i].Number), value)
			continue
		}

		err = fmt.Errorf("episode %d (%s): %w", episodes[i].Number, episodes[i].Video.ID, err)
		if errors.Is(err, tasks.ErrNotRun) {
			notRun = append(notRun, err)
		} else {
			failed = append(failed, err)
		}
	}

	return points, append(failed, notRun...)
}

func videoIDsOf(episodes []episode.Episode) []string {
	ids := make([]string, len(episodes))
	for i, e := range episodes {
		ids[i] = e.Video.ID
	}
	return ids
}
