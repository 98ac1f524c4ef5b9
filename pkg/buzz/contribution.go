package buzz

import (
	"math"
	"time"

	"github.com/ranklesystem/buzztrack/pkg/source"
)

// MentionContribution computes the weighted, decayed score of a single
// mention. Pure function of the mention (with sentiment already set),
// the batch timestamp and the params; always >= 0.
func (c *Calculator) MentionContribution(m source.Mention, now time.Time) float64 {
	base, ok := c.params.BasePoints[m.Kind]
	if !ok {
		base = c.params.DefaultBasePoints
	}

	// Logarithmic engagement. Heavily downvoted posts would push the
	// log argument below 1; clamp so the logarithm stays defined.
	arg := 1 + float64(m.Score)
	if arg < 1 {
		arg = 1
	}
	engagement := 1 + math.Log10(arg)
	if m.NumComments > 0 {
		engagement += 0.5 * math.Log10(1+float64(m.NumComments))
	}

	weight, ok := c.params.SubredditWeights[m.Subreddit]
	if !ok {
		weight = 1.0
	}

	// Whole days only; future-dated posts count as fresh.
	daysOld := int(now.Sub(time.Unix(m.CreatedUTC, 0)).Hours() / 24)
	if daysOld < 0 {
		daysOld = 0
	}
	decay := math.Exp(-c.params.DecayLambda * float64(daysOld))

	var sentimentMod float64
	switch m.Sentiment {
	case source.SentimentPositive:
		sentimentMod = c.params.PositiveModifier
	case source.SentimentNegative:
		sentimentMod = c.params.NegativeModifier
	default:
		sentimentMod = c.params.NeutralModifier
	}

	return base * engagement * weight * decay * sentimentMod * m.Confidence
}

// NewsContribution computes the signed score of a single article.
// Articles with an unknown publish date or older than the tracking
// window contribute 0 and are excluded from the aggregate.
func (c *Calculator) NewsContribution(n source.NewsItem, now time.Time) float64 {
	if n.PublishedTS < c.trackCutoff(now) {
		return 0
	}

	daysOld := float64(now.Unix()-n.PublishedTS) / 86400.0
	decay := math.Exp(-c.params.DecayLambda * daysOld)

	var mod float64
	switch n.Sentiment {
	case source.SentimentPositive:
		mod = c.params.News.Positive
	case source.SentimentNegative:
		mod = c.params.News.Negative
	default:
		mod = c.params.News.Neutral
	}

	return c.params.News.BasePoints * decay * mod
}

func (c *Calculator) trackCutoff(now time.Time) int64 {
	return now.Unix() - int64(c.params.TrackDays)*86400
}

func (c *Calculator) recentCutoff(now time.Time) int64 {
	return now.Unix() - int64(c.params.RecentDays)*86400
}

// scoreMentions classifies and scores copies of the given mentions and
// returns them with the capped aggregate. The inputs are never written.
func (c *Calculator) scoreMentions(mentions []source.Mention, now time.Time) ([]source.Mention, float64) {
	scored := make([]source.Mention, len(mentions))
	copy(scored, mentions)

	total := 0.0
	for i := range scored {
		scored[i].Sentiment = c.classifier.Classify(scored[i].Title + " " + scored[i].Text)
		scored[i].Contribution = c.MentionContribution(scored[i], now)
		total += scored[i].Contribution
	}

	return scored, c.capMentionTotal(scored, total)
}

// capMentionTotal trims the aggregate when one mention exceeds its
// allowed share. Per-mention contributions are deliberately left as
// computed; only the total shrinks.
func (c *Calculator) capMentionTotal(scored []source.Mention, total float64) float64 {
	if len(scored) == 0 || total == 0 {
		return total
	}

	maxContribution := scored[0].Contribution
	for _, m := range scored[1:] {
		if m.Contribution > maxContribution {
			maxContribution = m.Contribution
		}
	}

	if cap := total * c.params.CapFraction; maxContribution > cap {
		total -= maxContribution - cap
	}
	return total
}

// scoreNews classifies and scores copies of the given articles and
// returns them with the capped signed aggregate. Unlike mentions, the
// news cap clamps both the per-article contribution and the total.
func (c *Calculator) scoreNews(articles []source.NewsItem, now time.Time) ([]source.NewsItem, float64) {
	scored := make([]source.NewsItem, len(articles))
	copy(scored, articles)

	total := 0.0
	for i := range scored {
		scored[i].Sentiment = c.classifier.Classify(scored[i].Title + " " + scored[i].Description)
		scored[i].Contribution = c.NewsContribution(scored[i], now)
		total += scored[i].Contribution
	}

	if len(scored) == 0 || total == 0 {
		return scored, total
	}

	// Cap each in-window article against the pre-cap magnitude,
	// sign-preserving, adjusting the total by the excess.
	absTotal := math.Abs(total)
	cutoff := c.trackCutoff(now)
	for i := range scored {
		if scored[i].PublishedTS < cutoff {
			continue
		}
		cap := absTotal * c.params.News.CapFraction
		if math.Abs(scored[i].Contribution) > cap {
			excess := math.Abs(scored[i].Contribution) - cap
			if scored[i].Contribution < 0 {
				total += excess
				scored[i].Contribution = -cap
			} else {
				total -= excess
				scored[i].Contribution = cap
			}
		}
	}

	return scored, total
}
