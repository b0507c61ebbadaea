package harvest

import (
	"context"

	"github.com/lysyi3m/episode-trends/app/youtube"
)

// PageLister lists one page of a playlist.
type PageLister interface {
	ListPlaylistItems(ctx context.Context, playlistID, pageToken string) (*youtube.PlaylistPage, error)
}

// VideoLister looks up at most youtube.MaxResults videos by id.
type VideoLister interface {
	ListVideos(ctx context.Context, ids []string) ([]youtube.Video, error)
}

var (
	_ PageLister  = (*youtube.Client)(nil)
	_ VideoLister = (*youtube.Client)(nil)
)
