package episode

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/samber/mo"
)

var ErrUnsupportedDuration = errors.New("unsupported duration")

// DurationError reports a duration code outside the accepted grammar.
type DurationError struct {
	Code string
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("unsupported duration %q", e.Code)
}

func (e *DurationError) Unwrap() error {
	return ErrUnsupportedDuration
}

var (
	minutesOnly       = regexp.MustCompile(`^PT(\d+)M$`)
	secondsOnly       = regexp.MustCompile(`^PT(\d+)S$`)
	minutesAndSeconds = regexp.MustCompile(`^PT(\d+)M(\d+)S$`)
)

// ParseDuration converts PT<m>M, PT<s>S and PT<m>M<s>S codes to seconds.
// Any other shape, including hour components, is a *DurationError.
func ParseDuration(code string) mo.Result[int] {
	var minutes, seconds string
	if m := minutesOnly.FindStringSubmatch(code); m != nil {
		minutes = m[1]
	} else if m := secondsOnly.FindStringSubmatch(code); m != nil {
		seconds = m[1]
	} else if m := minutesAndSeconds.FindStringSubmatch(code); m != nil {
		minutes, seconds = m[1], m[2]
	} else {
		return mo.Err[int](&DurationError{Code: code})
	}

	mins, err := atoiOrZero(minutes)
	if err != nil {
		return mo.Err[int](&DurationError{Code: code})
	}
	secs, err := atoiOrZero(seconds)
	if err != nil || mins > (math.MaxInt-secs)/60 {
		return mo.Err[int](&DurationError{Code: code})
	}
	return mo.Ok(60*mins + secs)
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// DurationSeries is the duration-vs-episode data of a set of episodes.
// Episodes whose duration does not parse are left out and listed in Unparsable.
type DurationSeries struct {
	X          []float64
	Y          []float64
	Episodes   []Episode
	Unparsable []Episode
}

func Durations(episodes []Episode) DurationSeries {
	var s DurationSeries
	for _, e := range episodes {
		seconds, err := ParseDuration(e.Video.DurationISO8601).Get()
		if err != nil {
			s.Unparsable = append(s.Unparsable, e)
			continue
		}
		s.X = append(s.X, float64(e.Number))
		s.Y = append(s.Y, float64(seconds))
		s.Episodes = append(s.Episodes, e)
	}
	return s
}
