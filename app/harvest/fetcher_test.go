package harvest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/episode-trends/app/youtube"
)

type mockPageLister struct {
	pages  []youtube.PlaylistPage
	err    error
	tokens []string
}

func (m *mockPageLister) ListPlaylistItems(ctx context.Context, playlistID, pageToken string) (*youtube.PlaylistPage, error) {
	m.tokens = append(m.tokens, pageToken)
	if m.err != nil && len(m.tokens) == len(m.pages)+1 {
		return nil, m.err
	}
	page := m.pages[len(m.tokens)-1]
	return &page, nil
}

func items(ids ...string) []youtube.PlaylistItem {
	out := make([]youtube.PlaylistItem, len(ids))
	for i, id := range ids {
		out[i] = youtube.PlaylistItem{VideoID: id}
	}
	return out
}

func TestFetchAllPlaylistItems_FollowsTokens(t *testing.T) {
	lister := &mockPageLister{pages: []youtube.PlaylistPage{
		{Items: items("a", "b"), NextPageToken: "t1"},
		{Items: items("c")},
	}}

	got, err := FetchAllPlaylistItems(context.Background(), lister, "UU1")
	require.NoError(t, err)
	assert.Equal(t, items("a", "b", "c"), got)
	assert.Equal(t, []string{"", "t1"}, lister.tokens)
}

func TestFetchAllPlaylistItems_ContinuesThroughEmptyPage(t *testing.T) {
	lister := &mockPageLister{pages: []youtube.PlaylistPage{
		{Items: items("a"), NextPageToken: "t1"},
		{NextPageToken: "t2"},
		{Items: items("b")},
	}}

	got, err := FetchAllPlaylistItems(context.Background(), lister, "UU1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, VideoIDs(got))
	assert.Len(t, lister.tokens, 3)
}

func TestFetchAllPlaylistItems_AbortsOnError(t *testing.T) {
	boom := errors.New("boom")
	lister := &mockPageLister{
		pages: []youtube.PlaylistPage{{Items: items("a"), NextPageToken: "t1"}},
		err:   boom,
	}

	got, err := FetchAllPlaylistItems(context.Background(), lister, "UU1")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestFetchAllPlaylistItems_DetectsTokenLoop(t *testing.T) {
	lister := &mockPageLister{pages: []youtube.PlaylistPage{
		{Items: items("a"), NextPageToken: "t1"},
		{Items: items("b"), NextPageToken: "t1"},
	}}

	_, err := FetchAllPlaylistItems(context.Background(), lister, "UU1")
	assert.ErrorIs(t, err, ErrPaginationLoop)
}
