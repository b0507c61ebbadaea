package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/episode-trends/app/youtube"
)

// ErrPaginationLoop is returned when the API hands back a token it already returned.
var ErrPaginationLoop = errors.New("pagination token repeated")

// FetchAllPlaylistItems pages through playlistID until a response carries no
// continuation token. Pages without items but with a token are followed. Any
// error aborts the harvest and no partial result is returned.
func FetchAllPlaylistItems(ctx context.Context, lister PageLister, playlistID string) ([]youtube.PlaylistItem, error) {
	start := time.Now()

	var items []youtube.PlaylistItem
	seen := make(map[string]bool)
	pageToken := ""
	pages := 0

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		page, err := lister.ListPlaylistItems(ctx, playlistID, pageToken)
		if err != nil {
			return nil, fmt.Errorf("page %d of playlist %s: %w", pages+1, playlistID, err)
		}
		pages++
		items = append(items, page.Items...)

		if page.NextPageToken == "" {
			break
		}
		if seen[page.NextPageToken] {
			return nil, fmt.Errorf("playlist %s: %w: %s", playlistID, ErrPaginationLoop, page.NextPageToken)
		}
		seen[page.NextPageToken] = true
		pageToken = page.NextPageToken
	}

	slog.Info("Task completed",
		"type", "FetchPlaylistItems",
		"playlist", playlistID,
		"duration", time.Since(start),
		"pages", pages,
		"items", len(items))

	return items, nil
}

// VideoIDs extracts the video identifiers of items in order.
func VideoIDs(items []youtube.PlaylistItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.VideoID
	}
	return ids
}
