package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// MaxResults is the page size and inline-ID limit of the Data API.
	MaxResults = 50

	DefaultBaseURL          = "https://www.googleapis.com/youtube/v3"
	DefaultThumbnailQuality = "default"
)

// Client talks to the YouTube Data API v3 with an API key.
type Client struct {
	apiKey           string
	baseURL          string
	userAgent        string
	thumbnailQuality string
	timeout          time.Duration
	httpClient       *http.Client
	limiter          *rate.Limiter
	retry            RetryConfig
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) { c.userAgent = userAgent }
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.timeout = timeout }
}

func WithRateLimit(requestsPerSecond float64) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1) }
}

func WithRetry(rc RetryConfig) ClientOption {
	return func(c *Client) { c.retry = rc }
}

// WithThumbnailQuality selects the thumbnail size read from video snippets.
func WithThumbnailQuality(quality string) ClientOption {
	return func(c *Client) { c.thumbnailQuality = quality }
}

// NewClient returns a client for apiKey. The key is validated by the API, not here.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:           apiKey,
		baseURL:          DefaultBaseURL,
		userAgent:        "episode-trends/1.0",
		thumbnailQuality: DefaultThumbnailQuality,
		timeout:          15 * time.Second,
		httpClient:       &http.Client{},
		limiter:          rate.NewLimiter(rate.Inf, 1),
		retry:            DefaultRetryConfig,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ForThumbnailQuality returns a client that picks thumbnails of the given
// quality. The copy shares the HTTP client and rate limiter with c.
func (c *Client) ForThumbnailQuality(quality string) *Client {
	clone := *c
	clone.thumbnailQuality = quality
	return &clone
}

// ChannelByHandle resolves a legacy username to its channel and uploads playlist.
func (c *Client) ChannelByHandle(ctx context.Context, handle string) (*Channel, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("forUsername", handle)

	var resp channelListResponse
	if err := c.get(ctx, "channels", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to look up channel %s: %w", handle, err)
	}

	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, handle)
	}

	item := resp.Items[0]
	if item.ContentDetails.RelatedPlaylists.Uploads == "" {
		return nil, &MissingFieldError{Resource: "channel", ID: item.ID, Field: "contentDetails.relatedPlaylists.uploads"}
	}

	return &Channel{
		ID:                item.ID,
		UploadsPlaylistID: item.ContentDetails.RelatedPlaylists.Uploads,
	}, nil
}

// UploadsPlaylistID returns the uploads playlist of the channel owned by handle.
func (c *Client) UploadsPlaylistID(ctx context.Context, handle string) (string, error) {
	channel, err := c.ChannelByHandle(ctx, handle)
	if err != nil {
		return "", err
	}
	return channel.UploadsPlaylistID, nil
}

// ListPlaylistItems fetches one page of playlistID. An empty pageToken requests the first page.
func (c *Client) ListPlaylistItems(ctx context.Context, playlistID, pageToken string) (*PlaylistPage, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", strconv.Itoa(MaxResults))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var resp playlistItemListResponse
	if err := c.get(ctx, "playlistItems", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to list playlist items: %w", err)
	}

	page := &PlaylistPage{
		Items:         make([]PlaylistItem, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for i, item := range resp.Items {
		if item.ContentDetails.VideoID == "" {
			return nil, &MissingFieldError{Resource: "playlist item", ID: strconv.Itoa(i), Field: "contentDetails.videoId"}
		}
		page.Items = append(page.Items, PlaylistItem{VideoID: item.ContentDetails.VideoID})
	}

	return page, nil
}

// ListVideos looks up at most MaxResults ids in one call. Deleted or private
// videos are omitted by the API.
func (c *Client) ListVideos(ctx context.Context, ids []string) ([]Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxResults {
		return nil, fmt.Errorf("too many ids in one lookup: %d > %d", len(ids), MaxResults)
	}

	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("id", strings.Join(ids, ","))
	params.Set("maxResults", strconv.Itoa(MaxResults))

	var resp videoListResponse
	if err := c.get(ctx, "videos", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		video, err := c.toVideo(item)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}

	return videos, nil
}

func (c *Client) toVideo(item videoResource) (Video, error) {
	if item.ID == "" {
		return Video{}, &MissingFieldError{Resource: "video", Field: "id"}
	}
	if item.Snippet.Title == "" {
		return Video{}, &MissingFieldError{Resource: "video", ID: item.ID, Field: "snippet.title"}
	}
	if item.ContentDetails.Duration == "" {
		return Video{}, &MissingFieldError{Resource: "video", ID: item.ID, Field: "contentDetails.duration"}
	}

	thumb, ok := item.Snippet.Thumbnails[c.thumbnailQuality]
	if !ok || thumb.URL == "" {
		thumb, ok = item.Snippet.Thumbnails[DefaultThumbnailQuality]
	}
	if !ok || thumb.URL == "" {
		return Video{}, &MissingFieldError{Resource: "video", ID: item.ID, Field: "snippet.thumbnails." + c.thumbnailQuality + ".url"}
	}

	return Video{
		ID:              item.ID,
		Title:           item.Snippet.Title,
		DurationISO8601: item.ContentDetails.Duration,
		ThumbnailURL:    thumb.URL,
	}, nil
}

func (c *Client) get(ctx context.Context, resource string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	apiURL := c.baseURL + "/" + resource + "?" + params.Encode()

	body, err := RetryDo(ctx, c.retry, func() ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return c.do(ctx, apiURL)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", resource, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, apiURL string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := parseAPIError(resp.StatusCode, body)
		slog.Debug("YouTube API error", "status", resp.StatusCode, "reason", apiErr.Reason)
		return nil, apiErr
	}

	return body, nil
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}

	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil {
		if er.Error.Message != "" {
			apiErr.Message = er.Error.Message
		}
		if len(er.Error.Errors) > 0 {
			apiErr.Reason = er.Error.Errors[0].Reason
		}
	}
	return apiErr
}
