package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranklesystem/buzztrack/pkg/buzz"
	"github.com/ranklesystem/buzztrack/pkg/source"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResults(updated time.Time) []buzz.Result {
	return []buzz.Result{
		{
			ProspectID:       "paul-skenes",
			Name:             "Paul Skenes",
			Team:             "PIT",
			BuzzScore:        92.5,
			RawBuzz:          140.21,
			MentionCount7d:   4,
			MentionCount30d:  11,
			DaysWithMentions: 6,
			NegativeRatio:    0.09,
			Mentions: []source.Mention{
				{ID: "m1", Subreddit: "fantasybaseball", Kind: source.PlacementTitle,
					Title: "Skenes promoted", Sentiment: source.SentimentPositive,
					Confidence: 1.0, Contribution: 31.4},
			},
			NewsArticles: []source.NewsItem{
				{Title: "Skenes fans 12", Source: "Example Sports",
					Sentiment: source.SentimentPositive, Contribution: 8.1},
			},
			LastUpdated: updated,
		},
		{
			ProspectID:  "jackson-holliday",
			Name:        "Jackson Holliday",
			Team:        "BAL",
			BuzzScore:   41.0,
			RawBuzz:     22.75,
			LastUpdated: updated,
		},
	}
}

func TestSaveRunAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	run := &Run{GeneratedAt: now, ProspectCount: 2}
	require.NoError(t, s.SaveRun(ctx, run, sampleResults(now)))
	assert.NotEmpty(t, run.ID, "missing run id is assigned")

	got, results, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, 2, got.ProspectCount)

	require.Len(t, results, 2)
	assert.Equal(t, "paul-skenes", results[0].ProspectID, "ordered by score descending")
	assert.Equal(t, 92.5, results[0].BuzzScore)
	assert.InDelta(t, 0.09, results[0].NegativeRatio, 1e-9)

	require.Len(t, results[0].Mentions, 1)
	assert.Equal(t, "m1", results[0].Mentions[0].ID)
	assert.Equal(t, source.SentimentPositive, results[0].Mentions[0].Sentiment)
	assert.InDelta(t, 31.4, results[0].Mentions[0].Contribution, 1e-9)

	require.Len(t, results[0].NewsArticles, 1)
	assert.Equal(t, "Skenes fans 12", results[0].NewsArticles[0].Title)

	assert.Empty(t, results[0].MentionsJSON, "raw json columns are not exposed")
	assert.Empty(t, results[0].NewsJSON)
}

func TestGetRun_UnknownID(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.GetRun(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNoRuns)
}

func TestLatestRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := &Run{GeneratedAt: time.Now().UTC().Add(-time.Hour), ProspectCount: 2}
	require.NoError(t, s.SaveRun(ctx, older, sampleResults(older.GeneratedAt)))

	newest := &Run{GeneratedAt: time.Now().UTC(), ProspectCount: 2}
	require.NoError(t, s.SaveRun(ctx, newest, sampleResults(newest.GeneratedAt)))

	run, results, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, newest.ID, run.ID)
	assert.Len(t, results, 2)
}

func TestLatestRun_Empty(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.LatestRun(context.Background())
	assert.ErrorIs(t, err, ErrNoRuns)
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		run := &Run{
			GeneratedAt:   time.Now().UTC().Add(time.Duration(i) * time.Minute),
			ProspectCount: i,
		}
		require.NoError(t, s.SaveRun(ctx, run, nil))
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 2, runs[0].ProspectCount, "newest first")

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
