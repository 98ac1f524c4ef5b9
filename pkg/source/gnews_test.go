package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gnewsFixture = `{
	"articles": [
		{
			"title": "Paul Skenes fans 12 in Triple-A start",
			"description": "The Pirates right-hander keeps climbing.",
			"url": "https://example.com/skenes",
			"publishedAt": "2025-06-14T15:30:00Z",
			"source": {"name": "Example Sports"}
		},
		{
			"title": "League notebook: trade deadline chatter",
			"description": "Nothing about our guy here.",
			"url": "https://example.com/notebook",
			"publishedAt": "2025-06-14T10:00:00Z",
			"source": {"name": "Example Sports"}
		},
		{
			"title": "Skenes linked to midseason call-up",
			"description": "",
			"content": "Club officials discussed the timeline.",
			"url": "https://example.com/callup",
			"publishedAt": "not-a-real-date",
			"source": {"name": "Rumor Mill"}
		}
	]
}`

func TestGNews_SearchNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `"Paul Skenes" MLB`, r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "10", r.URL.Query().Get("max"))
		fmt.Fprint(w, gnewsFixture)
	}))
	defer srv.Close()

	g := NewGNews("test-key", 10, time.Millisecond)
	g.baseURL = srv.URL

	items, err := g.SearchNews(context.Background(), testProspect())
	require.NoError(t, err)
	require.Len(t, items, 2, "irrelevant articles are dropped")

	assert.Equal(t, "Paul Skenes fans 12 in Triple-A start", items[0].Title)
	assert.Equal(t, "Example Sports", items[0].Source)
	assert.NotZero(t, items[0].PublishedTS)
	assert.Equal(t, "Jun 14", items[0].PublishedAt)
	assert.Empty(t, items[0].Sentiment, "collectors leave scoring fields unset")

	// Unparseable publish date stays at 0 so scoring excludes it.
	assert.Equal(t, "Skenes linked to midseason call-up", items[1].Title)
	assert.Zero(t, items[1].PublishedTS)
}

func TestGNews_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGNews("test-key", 10, time.Millisecond)
	g.baseURL = srv.URL

	_, err := g.SearchNews(context.Background(), testProspect())
	assert.Error(t, err)
}

func TestParsePublished(t *testing.T) {
	ts, display := parsePublished("2025-06-14T15:30:00Z")
	assert.Equal(t, int64(1749915000), ts)
	assert.Equal(t, "Jun 14", display)

	ts, display = parsePublished("")
	assert.Zero(t, ts)
	assert.Empty(t, display)

	ts, display = parsePublished("2025-06-14 garbage")
	assert.Zero(t, ts)
	assert.Equal(t, "2025-06-14", display)
}
