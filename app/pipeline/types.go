package pipeline

import (
	"errors"
	"fmt"

	"github.com/lysyi3m/episode-trends/app/episode"
	"github.com/lysyi3m/episode-trends/app/stats"
)

// Points is one plotted data set.
type Points struct {
	X []float64
	Y []float64
}

func (p *Points) add(x, y float64) {
	p.X = append(p.X, x)
	p.Y = append(p.Y, y)
}

// Result describes one completed series run.
type Result struct {
	Series        string
	ChannelID     string
	PlaylistID    string
	VideoCount    int
	Episodes      []episode.Episode
	Unparsable    []episode.Episode
	Durations     Points
	Colors        Points
	FailedSamples int
	DurationModel stats.Model
	ColorModel    stats.Model
	Plots         []string
	RunID         int64
	FromArchive   bool
}

// SampleError reports the thumbnails that could not be sampled.
type SampleError struct {
	Failed int
	Total  int
	Errs   []error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("%d of %d thumbnail samples failed: %v", e.Failed, e.Total, errors.Join(e.Errs...))
}

func (e *SampleError) Unwrap() []error {
	return e.Errs
}
