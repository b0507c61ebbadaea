package feed

import (
	"time"
)

// Channel upload feed types

type Metadata struct {
	Title     string
	Link      string
	ChannelID string
	Author    string
}

type Upload struct {
	VideoID     string
	Title       string
	Link        string
	PublishedAt time.Time
	UpdatedAt   *time.Time
}
