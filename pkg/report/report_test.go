package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranklesystem/buzztrack/pkg/buzz"
	"github.com/ranklesystem/buzztrack/pkg/source"
)

func sampleResults() []buzz.Result {
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
			NewsArticles: []source.NewsItem{
				{Title: "Skenes fans 12", Sentiment: source.SentimentPositive},
				{Title: "Skenes named starter", Sentiment: source.SentimentNeutral},
				{Title: "Skenes bobblehead night", Sentiment: source.SentimentNeutral},
			},
		},
		{ProspectID: "jackson-holliday", Name: "Jackson Holliday", Team: "BAL", BuzzScore: 41.0},
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintSummary(&buf, sampleResults()))

	out := buf.String()
	assert.Contains(t, out, "TIER")
	assert.Contains(t, out, "SCORE")
	assert.Contains(t, out, "HOT")
	assert.Contains(t, out, "ACTIVE")
	assert.Contains(t, out, "Paul Skenes")
	assert.Contains(t, out, "92.5")
	assert.Contains(t, out, "9%")
	assert.Contains(t, out, "Jackson Holliday")

	// Top 2 headlines only, with sentiment.
	assert.Contains(t, out, "Skenes fans 12 (positive)")
	assert.Contains(t, out, "Skenes named starter (neutral)")
	assert.NotContains(t, out, "bobblehead")
}

func TestTier(t *testing.T) {
	assert.Equal(t, "HOT", tier(70))
	assert.Equal(t, "RISING", tier(50.1))
	assert.Equal(t, "ACTIVE", tier(30))
	assert.Equal(t, "QUIET", tier(29.9))
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, "short headline", shortTitle("  short headline "))

	long := "Prospect report: the sixty character headline that keeps going"
	require.Greater(t, len(long), 55)
	assert.Equal(t, long[:52]+"...", shortTitle(long))
}

func TestPrintSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintSummary(&buf, nil))
	assert.Contains(t, buf.String(), "no results")
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "buzz_results.json")
	generatedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, Save(path, generatedAt, sampleResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.True(t, doc.GeneratedAt.Equal(generatedAt))
	assert.Equal(t, 2, doc.ProspectCount)
	require.Len(t, doc.Results, 2)
	assert.Equal(t, "paul-skenes", doc.Results[0].ProspectID)
}
