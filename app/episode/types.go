package episode

import "github.com/lysyi3m/episode-trends/app/youtube"

// Episode is a video whose title carries a sequence number.
type Episode struct {
	Number int
	Video  youtube.Video
}
