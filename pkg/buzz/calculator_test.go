package buzz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranklesystem/buzztrack/pkg/source"
)

func prospect(id, first, last, team string) source.Prospect {
	return source.Prospect{ID: id, FirstName: first, LastName: last, Team: team}
}

func neutralMention(id string, age time.Duration) source.Mention {
	return source.Mention{
		ID:         id,
		Kind:       source.PlacementTitle,
		Title:      "Top 100 update thread",
		Score:      99,
		CreatedUTC: testNow.Add(-age).Unix(),
		Confidence: 1.0,
	}
}

func TestScoreBatch_WindowFiltering(t *testing.T) {
	c := NewCalculator(DefaultParams())

	data := ProspectData{
		Prospect: prospect("p1", "Paul", "Skenes", "PIT"),
		Mentions: []source.Mention{
			neutralMention("fresh", 2*24*time.Hour),
			neutralMention("mid", 20*24*time.Hour),
			neutralMention("stale", 45*24*time.Hour),
		},
	}

	results := c.ScoreBatch([]ProspectData{data}, testNow)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, 2, r.MentionCount30d)
	assert.Equal(t, 1, r.MentionCount7d)
	assert.Len(t, r.Mentions, 2, "only in-window mentions are serialized")
	assert.Equal(t, 2, r.DaysWithMentions)
}

func TestScoreBatch_DistinctActivityDays(t *testing.T) {
	c := NewCalculator(DefaultParams())

	data := ProspectData{
		Prospect: prospect("p1", "Jackson", "Holliday", "BAL"),
		Mentions: []source.Mention{
			neutralMention("a", 1*time.Hour),
			neutralMention("b", 3*time.Hour),
			neutralMention("c", 26*time.Hour),
		},
	}

	results := c.ScoreBatch([]ProspectData{data}, testNow)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].DaysWithMentions)
}

func TestScoreBatch_NegativeRatio(t *testing.T) {
	c := NewCalculator(DefaultParams())

	injured := neutralMention("neg", 24*time.Hour)
	injured.Title = "Injury setback for prospect"

	data := ProspectData{
		Prospect: prospect("p1", "Wyatt", "Langford", "TEX"),
		Mentions: []source.Mention{
			neutralMention("a", 2*time.Hour),
			neutralMention("b", 48*time.Hour),
			injured,
			neutralMention("d", 72*time.Hour),
		},
	}

	results := c.ScoreBatch([]ProspectData{data}, testNow)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.25, results[0].NegativeRatio, 1e-9)
}

func TestScoreBatch_NegativeRatioZeroWithoutMentions(t *testing.T) {
	c := NewCalculator(DefaultParams())

	results := c.ScoreBatch([]ProspectData{
		{Prospect: prospect("p1", "Colton", "Cowser", "BAL")},
	}, testNow)

	require.Len(t, results, 1)
	assert.Zero(t, results[0].NegativeRatio)
	assert.Zero(t, results[0].MentionCount30d)
	assert.Zero(t, results[0].RawBuzz)
}

func TestScoreBatch_DegenerateBatchScoresMidpoint(t *testing.T) {
	c := NewCalculator(DefaultParams())

	batch := []ProspectData{
		{Prospect: prospect("p1", "A", "One", "AAA")},
		{Prospect: prospect("p2", "B", "Two", "BBB")},
		{Prospect: prospect("p3", "C", "Three", "CCC")},
	}

	for _, r := range c.ScoreBatch(batch, testNow) {
		assert.Equal(t, 50.0, r.BuzzScore)
	}
}

func TestScoreBatch_SortedDescendingAndBounded(t *testing.T) {
	c := NewCalculator(DefaultParams())

	batch := []ProspectData{
		{Prospect: prospect("quiet", "Q", "Quiet", "QQQ")},
		{
			Prospect: prospect("loud", "L", "Loud", "LLL"),
			Mentions: []source.Mention{
				neutralMention("a", 2*time.Hour),
				neutralMention("b", 24*time.Hour),
				neutralMention("c", 48*time.Hour),
			},
		},
		{
			Prospect: prospect("middling", "M", "Mid", "MMM"),
			Mentions: []source.Mention{neutralMention("d", 96*time.Hour)},
		},
	}

	results := c.ScoreBatch(batch, testNow)
	require.Len(t, results, 3)

	assert.Equal(t, "loud", results[0].ProspectID)
	for i, r := range results {
		assert.GreaterOrEqual(t, r.BuzzScore, 0.0)
		assert.LessOrEqual(t, r.BuzzScore, 100.0)
		if i > 0 {
			assert.GreaterOrEqual(t, results[i-1].BuzzScore, r.BuzzScore)
		}
	}
}

func TestScoreBatch_Idempotent(t *testing.T) {
	c := NewCalculator(DefaultParams())

	batch := []ProspectData{
		{
			Prospect: prospect("p1", "Paul", "Skenes", "PIT"),
			Mentions: []source.Mention{
				neutralMention("a", 3*time.Hour),
				neutralMention("b", 5*24*time.Hour),
			},
			News: []source.NewsItem{
				{Title: "Breakout sleeper alert", PublishedTS: testNow.Add(-24 * time.Hour).Unix()},
			},
		},
		{
			Prospect: prospect("p2", "Jackson", "Holliday", "BAL"),
			News: []source.NewsItem{
				{Title: "Injury setback for prospect", PublishedTS: testNow.Add(-48 * time.Hour).Unix()},
			},
		},
	}

	first := c.ScoreBatch(batch, testNow)
	second := c.ScoreBatch(batch, testNow)
	require.Equal(t, first, second)
}

func TestScoreBatch_RoundsOutputs(t *testing.T) {
	c := NewCalculator(DefaultParams())

	batch := []ProspectData{
		{
			Prospect: prospect("p1", "Paul", "Skenes", "PIT"),
			Mentions: []source.Mention{neutralMention("a", 7*24*time.Hour)},
		},
		{Prospect: prospect("p2", "Jackson", "Holliday", "BAL")},
	}

	for _, r := range c.ScoreBatch(batch, testNow) {
		assert.InDelta(t, r.BuzzScore, float64(int(r.BuzzScore*10+0.5))/10, 1e-9)
		assert.Equal(t, r.LastUpdated, testNow)
	}
}

func TestScoreProspect_FallbackWithoutPeers(t *testing.T) {
	c := NewCalculator(DefaultParams())

	// One capped title mention leaves a raw total of 7.5; the no-peer
	// fallback halves it.
	data := ProspectData{
		Prospect: prospect("p1", "Paul", "Skenes", "PIT"),
		Mentions: []source.Mention{neutralMention("a", 1*time.Hour)},
	}

	r := c.ScoreProspect(data, testNow, nil)
	assert.InDelta(t, 7.5, r.RawBuzz, 1e-9)
	assert.InDelta(t, 3.8, r.BuzzScore, 1e-9)
}

func TestScoreProspect_FallbackClampsToBounds(t *testing.T) {
	c := NewCalculator(DefaultParams())

	// Strongly negative news with no mentions pushes the raw total below
	// zero; the fallback still reports a bounded score.
	data := ProspectData{
		Prospect: prospect("p1", "Paul", "Skenes", "PIT"),
		News: []source.NewsItem{
			{Title: "Injury setback for prospect", PublishedTS: testNow.Unix()},
		},
	}

	r := c.ScoreProspect(data, testNow, nil)
	assert.Negative(t, r.RawBuzz)
	assert.Equal(t, 0.0, r.BuzzScore)
}

func TestScoreProspect_WithExplicitPeers(t *testing.T) {
	c := NewCalculator(DefaultParams())

	data := ProspectData{Prospect: prospect("p1", "Paul", "Skenes", "PIT")}
	r := c.ScoreProspect(data, testNow, []float64{5, 5, 5})
	assert.Equal(t, 50.0, r.BuzzScore)
}
