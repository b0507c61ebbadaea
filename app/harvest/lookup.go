package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/lysyi3m/episode-trends/app/youtube"
)

// Partition splits items into consecutive chunks of at most size elements.
// The last chunk holds the remainder.
func Partition[T any](items []T, size int) [][]T {
	if size <= 0 {
		panic("harvest: partition size must be positive")
	}
	if len(items) == 0 {
		return nil
	}
	return lo.Chunk(items, size)
}

// LookupAll resolves ids in chunks of youtube.MaxResults, one call per chunk in
// input order. Repeated ids are requested once. The result follows the
// requested id order; ids the API omits (deleted or private videos) are dropped.
func LookupAll(ctx context.Context, lister VideoLister, ids []string) ([]youtube.Video, error) {
	start := time.Now()

	unique := lo.Uniq(ids)

	byID := make(map[string]youtube.Video, len(unique))
	for i, chunk := range Partition(unique, youtube.MaxResults) {
		videos, err := lister.ListVideos(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("video batch %d: %w", i+1, err)
		}
		for _, v := range videos {
			byID[v.ID] = v
		}
	}

	videos := make([]youtube.Video, 0, len(byID))
	missing := 0
	for _, id := range unique {
		v, ok := byID[id]
		if !ok {
			missing++
			continue
		}
		videos = append(videos, v)
	}

	if missing > 0 {
		slog.Warn("Videos omitted by lookup", "requested", len(ids), "missing", missing)
	}

	slog.Info("Task completed",
		"type", "LookupVideos",
		"duration", time.Since(start),
		"requested", len(ids),
		"videos", len(videos))

	return videos, nil
}
