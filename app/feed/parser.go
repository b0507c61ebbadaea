package feed

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

const videoGUIDPrefix = "yt:video:"

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses a channel upload feed. Uploads are returned newest first; entries
// without a recognizable video ID are skipped.
func (p *Parser) Run(data []byte) (*Metadata, []Upload, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:     feed.Title,
		Link:      feed.Link,
		ChannelID: extensionValue(feed.Extensions, "channelId"),
	}

	if len(feed.Authors) > 0 && feed.Authors[0] != nil {
		metadata.Author = strings.TrimSpace(feed.Authors[0].Name)
	}

	uploads := make([]Upload, 0, len(feed.Items))
	for _, item := range feed.Items {
		upload, ok := p.normalizeItem(item)
		if !ok {
			continue
		}
		uploads = append(uploads, upload)
	}

	slices.SortStableFunc(uploads, func(a, b Upload) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})

	return metadata, uploads, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) (Upload, bool) {
	videoID := extensionValue(item.Extensions, "videoId")
	if videoID == "" {
		if id, ok := strings.CutPrefix(item.GUID, videoGUIDPrefix); ok {
			videoID = id
		}
	}
	if videoID == "" {
		return Upload{}, false
	}

	upload := Upload{
		VideoID: videoID,
		Title:   item.Title,
		Link:    item.Link,
	}

	if item.PublishedParsed != nil {
		upload.PublishedAt = *item.PublishedParsed
	}

	if item.UpdatedParsed != nil {
		upload.UpdatedAt = item.UpdatedParsed
	}

	return upload, true
}

func extensionValue(extensions ext.Extensions, name string) string {
	values := extensions["yt"][name]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0].Value)
}
