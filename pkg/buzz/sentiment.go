package buzz

import (
	"strings"

	"github.com/ranklesystem/buzztrack/pkg/source"
)

// Classifier assigns a sentiment label by keyword overlap. It is shared
// between mentions and news so sentiment is comparable across sources.
type Classifier struct {
	positive []string
	negative []string
}

// NewClassifier builds a classifier from keyword lists. The text is
// lowercased before matching but keywords match as configured, so an
// upper-case keyword never fires. Lowercasing short entries like "IL"
// would turn everyday words ("will", "headline") into sentiment hits.
func NewClassifier(positive, negative []string) *Classifier {
	return &Classifier{positive: positive, negative: negative}
}

// Classify returns positive, negative or neutral for a text blob.
// Ties, including keyword-free and empty text, are neutral.
func (c *Classifier) Classify(text string) source.Sentiment {
	if text == "" {
		return source.SentimentNeutral
	}
	lower := strings.ToLower(text)

	posCount := 0
	for _, kw := range c.positive {
		if strings.Contains(lower, kw) {
			posCount++
		}
	}
	negCount := 0
	for _, kw := range c.negative {
		if strings.Contains(lower, kw) {
			negCount++
		}
	}

	switch {
	case negCount > posCount:
		return source.SentimentNegative
	case posCount > negCount:
		return source.SentimentPositive
	default:
		return source.SentimentNeutral
	}
}
