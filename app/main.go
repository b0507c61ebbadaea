package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/lysyi3m/episode-trends/app/api"
	"github.com/lysyi3m/episode-trends/app/cfg"
	"github.com/lysyi3m/episode-trends/app/database"
	"github.com/lysyi3m/episode-trends/app/feed"
	"github.com/lysyi3m/episode-trends/app/pipeline"
	"github.com/lysyi3m/episode-trends/app/plot"
	"github.com/lysyi3m/episode-trends/app/series"
	"github.com/lysyi3m/episode-trends/app/tasks"
	"github.com/lysyi3m/episode-trends/app/thumbnail"
	"github.com/lysyi3m/episode-trends/app/youtube"
)

func main() {
	logLevel := new(slog.LevelVar)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	if appCfg.Debug {
		logLevel.Set(slog.LevelDebug)
	}

	slog.Info("Starting Episode Trends", "version", appCfg.Version)

	configCache := series.NewConfigCache(appCfg.SeriesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load series configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Series configurations loaded", "count", configCache.GetConfigCount(), "dir", appCfg.SeriesDir)

	policy, err := tasks.ParsePolicy(appCfg.SamplePolicy)
	if err != nil {
		slog.Error("Invalid sample policy", "error", err)
		os.Exit(1)
	}

	var runRepo database.RunRepository
	if appCfg.DBPath != "" {
		db, err := database.NewConnection(appCfg.DBPath)
		if err != nil {
			slog.Error("Database connection failed", "path", appCfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()

		runRepo = database.NewRunRepository(db)
		slog.Info("Run archive enabled", "path", appCfg.DBPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outputFs := afero.NewOsFs()

	var httpServer *http.Server
	serverErrChan := make(chan error, 1)
	if appCfg.HTTPAddr != "" {
		handler := api.NewHandler(configCache, runRepo, outputFs, appCfg.OutputDir, appCfg.Version)
		httpServer = &http.Server{
			Addr:         appCfg.HTTPAddr,
			Handler:      api.NewServer(handler, appCfg.APIAccessKey),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		go func() {
			slog.Info("Starting HTTP server", "addr", appCfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
			}
		}()
	}

	failed := 0
	if httpServer != nil && appCfg.RefreshInterval > 0 {
		scheduler := tasks.NewScheduler(ctx, appCfg.RefreshInterval, func(ctx context.Context) {
			if n := harvestAll(ctx, appCfg, configCache, runRepo, outputFs, policy); n > 0 {
				slog.Warn("Scheduled harvest finished with errors", "failed", n)
			}
		})
		slog.Info("Starting scheduled harvests", "interval", appCfg.RefreshInterval)
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		failed = harvestAll(ctx, appCfg, configCache, runRepo, outputFs, policy)
	}

	if httpServer != nil {
		slog.Info("Serving reports until interrupted")

		select {
		case <-ctx.Done():
			slog.Info("Received shutdown signal")
		case err := <-serverErrChan:
			slog.Error("Server error", "error", err)
			failed++
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		} else {
			slog.Info("HTTP server stopped")
		}
	}

	if failed > 0 {
		slog.Error("Episode Trends finished with errors", "failed", failed)
		os.Exit(1)
	}

	slog.Info("Episode Trends finished")
}

// harvestAll runs every configured series and returns how many failed. Quota
// exhaustion stops the remaining series.
func harvestAll(ctx context.Context, appCfg *cfg.Cfg, configCache *series.ConfigCache, runRepo database.RunRepository, outputFs afero.Fs, policy tasks.Policy) int {
	httpClient := &http.Client{}

	retry := youtube.DefaultRetryConfig
	retry.MaxRetries = appCfg.MaxRetries

	client := youtube.NewClient(appCfg.APIKey,
		youtube.WithBaseURL(appCfg.APIBaseURL),
		youtube.WithHTTPClient(httpClient),
		youtube.WithUserAgent(appCfg.UserAgent),
		youtube.WithTimeout(appCfg.RequestTimeout),
		youtube.WithRateLimit(appCfg.RequestsPerSecond),
		youtube.WithRetry(retry),
	)

	fetcher := thumbnail.NewFetcher(httpClient, appCfg.UserAgent, appCfg.RequestTimeout)
	pool := tasks.NewPool(appCfg.WorkerCount, policy,
		tasks.WithTaskTimeout(appCfg.RequestTimeout),
		tasks.WithRetry(thumbnail.IsRetryable, retry.InitialWait, retry.MaxWait),
	)
	plotter := plot.NewPNGPlotter(outputFs, appCfg.OutputDir)

	opts := []pipeline.Option{pipeline.WithForce(appCfg.Force)}
	if runRepo != nil {
		opts = append(opts,
			pipeline.WithArchive(runRepo),
			pipeline.WithProber(feed.NewProber(httpClient, appCfg.FeedBaseURL, appCfg.UserAgent, appCfg.RequestTimeout)),
		)
	}

	failed := 0
	configs := configCache.GetConfigs()
	for i, seriesConfig := range configs {
		if ctx.Err() != nil {
			failed += len(configs) - i
			break
		}

		channel, err := thumbnail.ParseChannel(seriesConfig.ColorChannel)
		if err != nil {
			slog.Error("Invalid series configuration", "series", seriesConfig.Name, "error", err)
			failed++
			continue
		}

		sampler := tasks.NewThumbnailSampler(pool, fetcher, channel, appCfg.MaxRetries)
		p, err := pipeline.New(seriesConfig, client.ForThumbnailQuality(seriesConfig.ThumbnailQuality), sampler, plotter, policy, opts...)
		if err != nil {
			slog.Error("Invalid series configuration", "series", seriesConfig.Name, "error", err)
			failed++
			continue
		}

		result, err := p.Run(ctx)
		if err != nil {
			slog.Error("Series failed", "series", seriesConfig.Name, "error", err)
			failed++

			if errors.Is(err, youtube.ErrQuotaExceeded) {
				slog.Error("API quota exhausted, skipping remaining series", "remaining", len(configs)-i-1)
				failed += len(configs) - i - 1
				break
			}
			continue
		}

		slog.Info("Series completed",
			"series", result.Series,
			"episodes", len(result.Episodes),
			"from_archive", result.FromArchive,
			"duration_slope", result.DurationModel.Slope,
			"color_slope", result.ColorModel.Slope,
			"plots", result.Plots)
	}

	return failed
}
