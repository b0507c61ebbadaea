package tasks

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/lysyi3m/episode-trends/app/thumbnail"
)

// ImageFetcher downloads and decodes one image.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

var _ ImageFetcher = (*thumbnail.Fetcher)(nil)

type SampleThumbnailTask struct {
	Task
	URL     string
	Value   float64
	fetcher ImageFetcher
	channel thumbnail.Channel
}

func NewSampleThumbnailTask(url string, fetcher ImageFetcher, channel thumbnail.Channel, maxRetries int) *SampleThumbnailTask {
	return &SampleThumbnailTask{
		Task:    NewTask(TaskTypeSampleThumbnail, url, maxRetries),
		URL:     url,
		fetcher: fetcher,
		channel: channel,
	}
}

func (t *SampleThumbnailTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	img, err := t.fetcher.Fetch(ctx, t.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch thumbnail: %w", err)
	}

	value, err := thumbnail.MeanChannel(img, t.channel)
	if err != nil {
		return fmt.Errorf("failed to sample thumbnail %s: %w", t.URL, err)
	}
	t.Value = value

	slog.Debug("Thumbnail sampled", "url", t.URL, "channel", string(t.channel), "value", value)

	return nil
}
