package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Sentiment is the classified tone of a mention or news article.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// PlacementKind says where in a post a prospect was mentioned.
type PlacementKind string

const (
	PlacementTitle   PlacementKind = "title"
	PlacementBody    PlacementKind = "body"
	PlacementComment PlacementKind = "comment"
)

// Mention is a single Reddit mention of a tracked prospect.
// Sentiment and Contribution are assigned by the scoring engine;
// collectors leave them zero.
type Mention struct {
	ID           string        `json:"id"`
	Subreddit    string        `json:"subreddit"`
	Kind         PlacementKind `json:"type"`
	Title        string        `json:"title"`
	Text         string        `json:"text"`
	Score        int           `json:"score"`
	NumComments  int           `json:"num_comments"`
	CreatedUTC   int64         `json:"created_utc"`
	URL          string        `json:"url"`
	Sentiment    Sentiment     `json:"sentiment"`
	Confidence   float64       `json:"confidence"`
	Contribution float64       `json:"contribution"`
}

// NewsItem is a news article mentioning a tracked prospect.
// PublishedTS is 0 when the publish date could not be parsed; such
// articles are excluded from scoring. Contribution may be negative.
type NewsItem struct {
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Source       string    `json:"source"`
	PublishedAt  string    `json:"published_at"`
	PublishedTS  int64     `json:"published_ts"`
	Description  string    `json:"description"`
	Sentiment    Sentiment `json:"sentiment"`
	Contribution float64   `json:"contribution"`
}

// Prospect is a tracked player, loaded once per run.
type Prospect struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Team      string   `json:"team"`
	Position  string   `json:"position,omitempty"`
	Aliases   []string `json:"aliases,omitempty"`
}

// FullName returns "First Last".
func (p Prospect) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// MentionSource fetches social-media mentions of a prospect.
type MentionSource interface {
	Name() string
	SearchProspect(ctx context.Context, p Prospect) ([]Mention, error)
}

// NewsSource fetches news articles about a prospect.
type NewsSource interface {
	Name() string
	SearchNews(ctx context.Context, p Prospect) ([]NewsItem, error)
}

// LoadProspects reads the prospect list from a JSON file. A missing or
// empty path yields the built-in sample list so the tool works out of
// the box.
func LoadProspects(path string) ([]Prospect, error) {
	if path == "" {
		return SampleProspects(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SampleProspects(), nil
		}
		return nil, fmt.Errorf("read prospects %s: %w", path, err)
	}

	var prospects []Prospect
	if err := json.Unmarshal(data, &prospects); err != nil {
		return nil, fmt.Errorf("parse prospects %s: %w", path, err)
	}
	return prospects, nil
}

// SampleProspects returns a small default watch list.
func SampleProspects() []Prospect {
	return []Prospect{
		{ID: "jackson-holliday", FirstName: "Jackson", LastName: "Holliday", Team: "BAL", Position: "SS"},
		{ID: "paul-skenes", FirstName: "Paul", LastName: "Skenes", Team: "PIT", Position: "SP"},
		{ID: "wyatt-langford", FirstName: "Wyatt", LastName: "Langford", Team: "TEX", Position: "OF"},
		{ID: "colton-cowser", FirstName: "Colton", LastName: "Cowser", Team: "BAL", Position: "OF"},
		{ID: "ceddanne-rafaela", FirstName: "Ceddanne", LastName: "Rafaela", Team: "BOS", Position: "SS"},
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
