package episode

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/lysyi3m/episode-trends/app/youtube"
)

// DefaultTitlePattern matches "C++ Weekly - Ep <n>" with anything after the number.
const DefaultTitlePattern = `^C\+\+ Weekly - Ep ([0-9]+)`

type Filterer struct {
	pattern *regexp.Regexp
}

// NewFilterer compiles pattern, which must contain exactly one capture group
// holding the episode number.
func NewFilterer(pattern string) (*Filterer, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid title pattern: %w", err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("title pattern must have exactly one capture group, has %d", re.NumSubexp())
	}
	return &Filterer{pattern: re}, nil
}

// Run keeps videos whose title matches and returns them ascending by episode
// number. Non-matching titles are dropped.
func (f *Filterer) Run(videos []youtube.Video) []Episode {
	episodes := make([]Episode, 0, len(videos))
	for _, v := range videos {
		number, ok := f.Match(v.Title)
		if !ok {
			continue
		}
		episodes = append(episodes, Episode{Number: number, Video: v})
	}

	slices.SortStableFunc(episodes, func(a, b Episode) int {
		return a.Number - b.Number
	})

	slog.Debug("Episodes filtered", "videos", len(videos), "episodes", len(episodes))

	return episodes
}

// Match extracts the episode number from title.
func (f *Filterer) Match(title string) (int, bool) {
	m := f.pattern.FindStringSubmatch(norm.NFKC.String(title))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Exclude drops episodes whose video id is listed in ids. It returns the kept
// episodes and the ids that matched nothing.
func Exclude(episodes []Episode, ids []string) ([]Episode, []string) {
	if len(ids) == 0 {
		return episodes, nil
	}

	excluded := make(map[string]bool, len(ids))
	for _, id := range ids {
		excluded[id] = false
	}

	kept := make([]Episode, 0, len(episodes))
	for _, e := range episodes {
		if _, ok := excluded[e.Video.ID]; ok {
			excluded[e.Video.ID] = true
			slog.Info("Episode excluded", "episode", e.Number, "video_id", e.Video.ID, "title", e.Video.Title)
			continue
		}
		kept = append(kept, e)
	}

	var unmatched []string
	for _, id := range ids {
		if !excluded[id] {
			unmatched = append(unmatched, id)
		}
	}

	return kept, unmatched
}

// Numbers returns the episode numbers as plot coordinates.
func Numbers(episodes []Episode) []float64 {
	x := make([]float64, len(episodes))
	for i, e := range episodes {
		x[i] = float64(e.Number)
	}
	return x
}

// ThumbnailURLs returns the thumbnail of each episode in order.
func ThumbnailURLs(episodes []Episode) []string {
	urls := make([]string, len(episodes))
	for i, e := range episodes {
		urls[i] = e.Video.ThumbnailURL
	}
	return urls
}
