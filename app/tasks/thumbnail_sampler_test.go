package tasks

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/episode-trends/app/thumbnail"
)

type fakeFetcher struct {
	mu        sync.Mutex
	green     map[string]uint8
	delay     map[string]time.Duration
	failures  map[string]error
	completed []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	time.Sleep(f.delay[url])

	f.mu.Lock()
	f.completed = append(f.completed, url)
	f.mu.Unlock()

	if err := f.failures[url]; err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.RGBA{G: f.green[url], A: 255})
		}
	}
	return img, nil
}

func TestThumbnailSampler_PreservesInputOrder(t *testing.T) {
	fetcher := &fakeFetcher{
		green: map[string]uint8{"u0": 10, "u1": 20, "u2": 30},
		delay: map[string]time.Duration{"u0": 60 * time.Millisecond, "u1": 30 * time.Millisecond, "u2": 0},
	}
	sampler := NewThumbnailSampler(NewPool(3, PolicyCollectAll), fetcher, thumbnail.Green, 0)

	results := sampler.SampleAll(context.Background(), []string{"u0", "u1", "u2"})

	require.Len(t, results, 3)
	assert.Equal(t, []string{"u2", "u1", "u0"}, fetcher.completed)
	for i, want := range []float64{10, 20, 30} {
		got, err := results[i].Get()
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9)
	}
}

func TestThumbnailSampler_PerIndexFailures(t *testing.T) {
	boom := errors.New("boom")
	fetcher := &fakeFetcher{
		green:    map[string]uint8{"u0": 10, "u2": 30},
		failures: map[string]error{"u1": boom},
	}
	sampler := NewThumbnailSampler(NewPool(2, PolicyCollectAll), fetcher, thumbnail.Green, 0)

	results := sampler.SampleAll(context.Background(), []string{"u0", "u1", "u2"})

	assert.True(t, results[0].IsOk())
	assert.True(t, results[1].IsError())
	assert.ErrorIs(t, results[1].Error(), boom)
	assert.True(t, results[2].IsOk())
}
