package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultGNewsBaseURL = "https://gnews.io/api/v4/search"

// GNews fetches prospect news via the GNews API.
type GNews struct {
	client      *http.Client
	apiKey      string
	maxArticles int
	baseURL     string
	pace        pacer
}

// NewGNews creates a new GNews collector. requestDelay spaces the API
// calls and defaults to half a second, matching the free tier.
func NewGNews(apiKey string, maxArticles int, requestDelay time.Duration) *GNews {
	if maxArticles <= 0 {
		maxArticles = 10
	}
	if requestDelay <= 0 {
		requestDelay = 500 * time.Millisecond
	}
	return &GNews{
		client:      &http.Client{Timeout: 15 * time.Second},
		apiKey:      apiKey,
		maxArticles: maxArticles,
		baseURL:     defaultGNewsBaseURL,
		pace:        pacer{delay: requestDelay},
	}
}

func (g *GNews) Name() string { return "gnews" }

// SearchNews queries GNews for recent articles about the prospect.
// Articles that never name the prospect in title or description are
// dropped; unparseable publish dates leave PublishedTS at 0 so the
// engine excludes them from scoring.
func (g *GNews) SearchNews(ctx context.Context, p Prospect) ([]NewsItem, error) {
	if err := g.pace.wait(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("%q MLB", p.FullName())
	params := url.Values{
		"q":      {query},
		"lang":   {"en"},
		"max":    {fmt.Sprintf("%d", g.maxArticles)},
		"apikey": {g.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gnews search %s: %w", p.LastName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gnews status %d", resp.StatusCode)
	}

	var payload gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode gnews response: %w", err)
	}

	fullName := strings.ToLower(p.FullName())
	lastName := strings.ToLower(p.LastName)

	var items []NewsItem
	for _, a := range payload.Articles {
		title := strings.TrimSpace(a.Title)
		if title == "" {
			continue
		}

		desc := a.Description
		if desc == "" {
			desc = a.Content
		}
		desc = strings.TrimSpace(truncate(desc, 200))

		content := strings.ToLower(desc + " " + title)
		if !strings.Contains(content, fullName) && !strings.Contains(content, lastName) {
			continue
		}

		publishedTS, publishedAt := parsePublished(a.PublishedAt)

		items = append(items, NewsItem{
			Title:       title,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: publishedAt,
			PublishedTS: publishedTS,
			Description: desc,
		})
	}

	return items, nil
}

// parsePublished converts an RFC3339 publish date into a unix timestamp
// and a short display string. Returns ts 0 when the date is unusable.
func parsePublished(raw string) (int64, string) {
	if len(raw) < 10 {
		return 0, ""
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0, raw[:10]
	}
	return t.Unix(), t.UTC().Format("Jan 02")
}

type gnewsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}
