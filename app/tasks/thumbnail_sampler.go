package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/mo"

	"github.com/lysyi3m/episode-trends/app/thumbnail"
)

// ThumbnailSampler measures one color channel of many thumbnails concurrently.
type ThumbnailSampler struct {
	pool       PoolInterface
	fetcher    ImageFetcher
	channel    thumbnail.Channel
	maxRetries int
}

func NewThumbnailSampler(pool PoolInterface, fetcher ImageFetcher, channel thumbnail.Channel, maxRetries int) *ThumbnailSampler {
	return &ThumbnailSampler{
		pool:       pool,
		fetcher:    fetcher,
		channel:    channel,
		maxRetries: maxRetries,
	}
}

// SampleAll returns one outcome per url; result[i] always belongs to urls[i]
// whatever order the workers finish in.
func (s *ThumbnailSampler) SampleAll(ctx context.Context, urls []string) []mo.Result[float64] {
	start := time.Now()

	sampleTasks := make([]*SampleThumbnailTask, len(urls))
	batch := make([]TaskInterface, len(urls))
	for i, url := range urls {
		sampleTasks[i] = NewSampleThumbnailTask(url, s.fetcher, s.channel, s.maxRetries)
		batch[i] = sampleTasks[i]
	}

	errs := s.pool.Run(ctx, batch)

	results := make([]mo.Result[float64], len(urls))
	failed := 0
	for i, task := range sampleTasks {
		if errs[i] != nil {
			results[i] = mo.Err[float64](errs[i])
			failed++
			continue
		}
		results[i] = mo.Ok(task.Value)
	}

	slog.Info("Task completed",
		"type", "SampleThumbnails",
		"duration", time.Since(start),
		"channel", string(s.channel),
		"success", len(urls)-failed,
		"errors", failed)

	return results
}
