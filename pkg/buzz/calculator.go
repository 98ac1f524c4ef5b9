package buzz

import (
	"math"
	"sort"
	"time"

	"github.com/ranklesystem/buzztrack/pkg/source"
)

// Calculator turns raw mentions and news into buzz scores.
type Calculator struct {
	params     Params
	classifier *Classifier
}

// NewCalculator creates a calculator for the given params. Empty keyword
// lists fall back to the defaults.
func NewCalculator(params Params) *Calculator {
	positive := params.PositiveKeywords
	if len(positive) == 0 {
		positive = DefaultPositiveKeywords
	}
	negative := params.NegativeKeywords
	if len(negative) == 0 {
		negative = DefaultNegativeKeywords
	}
	return &Calculator{
		params:     params,
		classifier: NewClassifier(positive, negative),
	}
}

// ProspectData is one prospect's raw input for a scan.
type ProspectData struct {
	Prospect source.Prospect
	Mentions []source.Mention
	News     []source.NewsItem
}

// Result is the scored output for one prospect.
type Result struct {
	ProspectID       string            `json:"prospect_id" db:"prospect_id"`
	Name             string            `json:"name" db:"name"`
	Team             string            `json:"team" db:"team"`
	BuzzScore        float64           `json:"buzz_score" db:"buzz_score"`
	RawBuzz          float64           `json:"raw_buzz" db:"raw_buzz"`
	MentionCount7d   int               `json:"mention_count_7d" db:"mention_count_7d"`
	MentionCount30d  int               `json:"mention_count_30d" db:"mention_count_30d"`
	DaysWithMentions int               `json:"days_with_mentions" db:"days_with_mentions"`
	NegativeRatio    float64           `json:"negative_ratio" db:"negative_ratio"`
	Mentions         []source.Mention  `json:"mentions" db:"-"`
	NewsArticles     []source.NewsItem `json:"news_articles" db:"-"`
	LastUpdated      time.Time         `json:"last_updated" db:"last_updated"`
	MentionsJSON     string            `json:"-" db:"mentions"`
	NewsJSON         string            `json:"-" db:"news_articles"`
}

// scoredProspect caches one prospect's pass-1 scoring so pass 2 can
// normalize without recomputing.
type scoredProspect struct {
	prospect    source.Prospect
	mentions30d []source.Mention
	count7d     int
	news        []source.NewsItem
	rawTotal    float64
}

// ScoreBatch runs the two-pass batch protocol: score every prospect
// against a single captured now, then normalize each raw total against
// the whole batch. Results come back sorted by buzz score, descending.
func (c *Calculator) ScoreBatch(batch []ProspectData, now time.Time) []Result {
	scored := make([]scoredProspect, len(batch))
	rawScores := make([]float64, len(batch))
	for i, data := range batch {
		scored[i] = c.scoreProspect(data, now)
		rawScores[i] = scored[i].rawTotal
	}

	results := make([]Result, len(batch))
	for i := range scored {
		results[i] = c.assemble(scored[i], rawScores, now)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].BuzzScore > results[j].BuzzScore
	})

	return results
}

// ScoreProspect scores a single prospect. With fewer than two peer raw
// values the score falls back to raw/2, clamped to [0,100]: the result
// contract promises a bounded score even without a comparison batch.
func (c *Calculator) ScoreProspect(data ProspectData, now time.Time, peers []float64) Result {
	s := c.scoreProspect(data, now)
	if len(peers) == 0 {
		return c.assembleWithScore(s, clamp(s.rawTotal/2, 0, 100), now)
	}
	return c.assemble(s, peers, now)
}

// scoreProspect is pass 1: window filtering, contribution computation
// and capping for one prospect.
func (c *Calculator) scoreProspect(data ProspectData, now time.Time) scoredProspect {
	trackCutoff := c.trackCutoff(now)
	recentCutoff := c.recentCutoff(now)

	var mentions30d []source.Mention
	count7d := 0
	for _, m := range data.Mentions {
		if m.CreatedUTC >= trackCutoff {
			mentions30d = append(mentions30d, m)
		}
		if m.CreatedUTC >= recentCutoff {
			count7d++
		}
	}

	scoredMentions, mentionTotal := c.scoreMentions(mentions30d, now)
	scoredNews, newsTotal := c.scoreNews(data.News, now)

	return scoredProspect{
		prospect:    data.Prospect,
		mentions30d: scoredMentions,
		count7d:     count7d,
		news:        scoredNews,
		rawTotal:    mentionTotal + newsTotal,
	}
}

// assemble is pass 2: normalization against the peer batch plus the
// derived metrics.
func (c *Calculator) assemble(s scoredProspect, peers []float64, now time.Time) Result {
	return c.assembleWithScore(s, Normalize(s.rawTotal, peers), now)
}

func (c *Calculator) assembleWithScore(s scoredProspect, score float64, now time.Time) Result {
	days := make(map[string]struct{})
	negativeCount := 0
	for _, m := range s.mentions30d {
		days[time.Unix(m.CreatedUTC, 0).UTC().Format("2006-01-02")] = struct{}{}
		if m.Sentiment == source.SentimentNegative {
			negativeCount++
		}
	}

	negativeRatio := 0.0
	if len(s.mentions30d) > 0 {
		negativeRatio = float64(negativeCount) / float64(len(s.mentions30d))
	}

	return Result{
		ProspectID:       s.prospect.ID,
		Name:             s.prospect.FullName(),
		Team:             s.prospect.Team,
		BuzzScore:        round(score, 1),
		RawBuzz:          round(s.rawTotal, 2),
		MentionCount7d:   s.count7d,
		MentionCount30d:  len(s.mentions30d),
		DaysWithMentions: len(days),
		NegativeRatio:    round(negativeRatio, 2),
		Mentions:         s.mentions30d,
		NewsArticles:     s.news,
		LastUpdated:      now,
	}
}

func round(v float64, decimals int) float64 {
	shift := math.Pow(10, float64(decimals))
	return math.Round(v*shift) / shift
}
