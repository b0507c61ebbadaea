package thumbnail

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetcher_DecodesImage(t *testing.T) {
	body := solidPNG(t, color.RGBA{G: 77, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), "test-agent", time.Second)
	img, err := f.Fetch(context.Background(), srv.URL+"/t.png")
	require.NoError(t, err)

	green, err := MeanChannel(img, Green)
	require.NoError(t, err)
	assert.InDelta(t, 77.0, green, 1e-9)
}

func TestFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), "test-agent", time.Second)
	_, err := f.Fetch(context.Background(), srv.URL)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.False(t, IsRetryable(err))
	assert.True(t, IsRetryable(&StatusError{StatusCode: http.StatusServiceUnavailable}))
}

func TestFetcher_UndecodableImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not an image"))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), "test-agent", time.Second)
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.False(t, IsRetryable(err))
}
