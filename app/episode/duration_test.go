package episode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/episode-trends/app/youtube"
)

func TestParseDuration_Supported(t *testing.T) {
	tests := map[string]int{
		"PT5M":    300,
		"PT45S":   45,
		"PT1M30S": 90,
		"PT0S":    0,
		"PT59M9S": 3549,
	}

	for code, want := range tests {
		t.Run(code, func(t *testing.T) {
			got, err := ParseDuration(code).Get()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseDuration_Unsupported(t *testing.T) {
	for _, code := range []string{"PT1H2M3S", "PT13H", "PT1H5M", "P0D", "P1DT2M", "", "5M", "PT", "PT1M30", "PTxM", "PT99999999999999999999M", "PT153722867280912931M", "PT153722867280912930M59S"} {
		t.Run(code, func(t *testing.T) {
			result := ParseDuration(code)
			require.True(t, result.IsError())
			assert.ErrorIs(t, result.Error(), ErrUnsupportedDuration)

			var de *DurationError
			require.ErrorAs(t, result.Error(), &de)
			assert.Equal(t, code, de.Code)
		})
	}
}

func TestDurations_SeparatesUnparsable(t *testing.T) {
	episodes := []Episode{
		{Number: 1, Video: youtube.Video{ID: "a", DurationISO8601: "PT10M"}},
		{Number: 2, Video: youtube.Video{ID: "b", DurationISO8601: "PT13H2M"}},
		{Number: 3, Video: youtube.Video{ID: "c", DurationISO8601: "PT12M"}},
	}

	s := Durations(episodes)
	assert.Equal(t, []float64{1, 3}, s.X)
	assert.Equal(t, []float64{600, 720}, s.Y)
	require.Len(t, s.Unparsable, 1)
	assert.Equal(t, "b", s.Unparsable[0].Video.ID)
	assert.Len(t, s.Episodes, 2)
}
