package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultFeedBaseURL = "https://www.youtube.com/feeds/videos.xml"

var ErrNoUploads = errors.New("feed has no uploads")

// Prober reads a channel's public upload feed.
type Prober struct {
	httpClient *http.Client
	parser     *Parser
	baseURL    string
	userAgent  string
	timeout    time.Duration
}

func NewProber(httpClient *http.Client, baseURL, userAgent string, timeout time.Duration) *Prober {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultFeedBaseURL
	}

	return &Prober{
		httpClient: httpClient,
		parser:     NewParser(),
		baseURL:    baseURL,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// Uploads returns the channel's most recent uploads, newest first.
func (p *Prober) Uploads(ctx context.Context, channelID string) (*Metadata, []Upload, error) {
	data, err := p.fetchFeed(ctx, channelID)
	if err != nil {
		return nil, nil, err
	}

	return p.parser.Run(data)
}

// Latest returns the newest upload of the channel.
func (p *Prober) Latest(ctx context.Context, channelID string) (*Upload, error) {
	_, uploads, err := p.Uploads(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if len(uploads) == 0 {
		return nil, ErrNoUploads
	}

	return &uploads[0], nil
}

func (p *Prober) fetchFeed(ctx context.Context, channelID string) ([]byte, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	feedURL := p.baseURL + "?" + url.Values{"channel_id": {channelID}}.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
