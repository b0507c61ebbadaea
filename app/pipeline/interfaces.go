package pipeline

import (
	"context"

	"github.com/samber/mo"

	"github.com/lysyi3m/episode-trends/app/feed"
	"github.com/lysyi3m/episode-trends/app/harvest"
	"github.com/lysyi3m/episode-trends/app/tasks"
	"github.com/lysyi3m/episode-trends/app/youtube"
)

// API is the part of the YouTube Data API a harvest needs.
type API interface {
	ChannelByHandle(ctx context.Context, handle string) (*youtube.Channel, error)
	harvest.PageLister
	harvest.VideoLister
}

type Sampler interface {
	SampleAll(ctx context.Context, urls []string) []mo.Result[float64]
}

type UploadProber interface {
	Latest(ctx context.Context, channelID string) (*feed.Upload, error)
}

var (
	_ API          = (*youtube.Client)(nil)
	_ Sampler      = (*tasks.ThumbnailSampler)(nil)
	_ UploadProber = (*feed.Prober)(nil)
)
