package youtube

// Wire types for the three Data API v3 resources the harvest consumes. Only the
// fields read by the pipeline are declared.

type channelListResponse struct {
	Items []channelResource `json:"items"`
}

type channelResource struct {
	ID             string `json:"id"`
	ContentDetails struct {
		RelatedPlaylists struct {
			Uploads string `json:"uploads"`
		} `json:"relatedPlaylists"`
	} `json:"contentDetails"`
}

type playlistItemListResponse struct {
	NextPageToken string                 `json:"nextPageToken"`
	Items         []playlistItemResource `json:"items"`
}

type playlistItemResource struct {
	ContentDetails struct {
		VideoID string `json:"videoId"`
	} `json:"contentDetails"`
}

type videoListResponse struct {
	Items []videoResource `json:"items"`
}

type videoResource struct {
	ID      string `json:"id"`
	Snippet struct {
		Title      string               `json:"title"`
		Thumbnails map[string]thumbnail `json:"thumbnails"`
	} `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
}

type thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// Channel identifies a channel and its uploads playlist.
type Channel struct {
	ID                string
	UploadsPlaylistID string
}

// PlaylistItem is one entry of a playlist page.
type PlaylistItem struct {
	VideoID string
}

// PlaylistPage is a single playlistItems.list response. NextPageToken is empty
// on the last page.
type PlaylistPage struct {
	Items         []PlaylistItem
	NextPageToken string
}

// Video is the typed record of a videos.list item.
type Video struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DurationISO8601 string `json:"duration"`
	ThumbnailURL    string `json:"thumbnail_url"`
}
