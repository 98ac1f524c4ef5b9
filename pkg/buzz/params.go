package buzz

import "github.com/ranklesystem/buzztrack/pkg/source"

// DefaultPositiveKeywords is the base set of bullish fantasy terms.
var DefaultPositiveKeywords = []string{
	"breakout", "sleeper", "stash", "must-add", "must add", "call-up", "callup",
	"promoted", "raking", "mashing", "filthy", "ace", "stud", "league winner",
	"add now", "get him", "fire", "elite", "dominant", "nasty", "underrated",
}

// DefaultNegativeKeywords is the base set of bearish fantasy terms.
var DefaultNegativeKeywords = []string{
	"injured", "injury", "IL", "surgery", "torn", "struggling", "demoted",
	"bust", "avoid", "drop", "overrated", "overhyped", "disappointing",
	"setback", "shut down", "out for", "DL",
}

// NewsParams holds the news-specific scoring constants. Sentiment values
// are signed: negative news actively subtracts from the aggregate.
type NewsParams struct {
	BasePoints  float64
	Positive    float64
	Negative    float64
	Neutral     float64
	CapFraction float64
}

// Params holds every knob of the scoring engine. Zero-value fields are
// not usable; start from DefaultParams and override.
type Params struct {
	SubredditWeights map[string]float64
	PositiveKeywords []string
	NegativeKeywords []string

	// DecayLambda with the default 0.1 gives mentions a ~7-day half-life.
	DecayLambda float64
	TrackDays   int
	RecentDays  int

	BasePoints        map[source.PlacementKind]float64
	DefaultBasePoints float64

	PositiveModifier float64
	NegativeModifier float64
	NeutralModifier  float64

	// CapFraction limits one mention's share of the aggregate.
	CapFraction float64

	News NewsParams
}

// DefaultParams returns the standard scoring configuration.
func DefaultParams() Params {
	return Params{
		SubredditWeights: map[string]float64{
			"fantasybaseball":     1.5,
			"MLBProspects":        1.3,
			"MinorLeagueBaseball": 1.2,
			"baseball":            1.0,
		},
		PositiveKeywords: DefaultPositiveKeywords,
		NegativeKeywords: DefaultNegativeKeywords,
		DecayLambda:      0.1,
		TrackDays:        30,
		RecentDays:       7,
		BasePoints: map[source.PlacementKind]float64{
			source.PlacementTitle:   10,
			source.PlacementBody:    5,
			source.PlacementComment: 2,
		},
		DefaultBasePoints: 2,
		PositiveModifier:  1.2,
		NegativeModifier:  0.7,
		NeutralModifier:   1.0,
		CapFraction:       0.25,
		News: NewsParams{
			BasePoints:  8,
			Positive:    1.2,
			Negative:    -1.0,
			Neutral:     0.3,
			CapFraction: 0.25,
		},
	}
}
