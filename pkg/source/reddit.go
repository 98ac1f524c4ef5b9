package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Reddit searches fantasy baseball subreddits for prospect mentions.
type Reddit struct {
	client       *http.Client
	clientID     string
	clientSecret string
	userAgent    string
	subreddits   []string
	limitPerSub  int
	pace         pacer
	mu           sync.Mutex
	token        string
	tokenExpiry  time.Time
}

// NewReddit creates a new Reddit collector. subreddits defaults to the
// standard fantasy baseball set when empty; requestDelay spaces the
// search calls and defaults to one second.
func NewReddit(clientID, clientSecret, userAgent string, subreddits []string, limitPerSub int, requestDelay time.Duration) *Reddit {
	if len(subreddits) == 0 {
		subreddits = []string{
			"fantasybaseball", "MLBProspects", "MinorLeagueBaseball", "baseball",
		}
	}
	if userAgent == "" {
		userAgent = "buzztrack/1.0"
	}
	if limitPerSub <= 0 {
		limitPerSub = 100
	}
	if requestDelay <= 0 {
		requestDelay = time.Second
	}
	return &Reddit{
		client:       &http.Client{Timeout: 30 * time.Second},
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		subreddits:   subreddits,
		limitPerSub:  limitPerSub,
		pace:         pacer{delay: requestDelay},
	}
}

func (r *Reddit) Name() string { return "reddit" }

// SearchProspect searches every configured subreddit for mentions of the
// prospect, deduplicated by post id. Failing subreddits are skipped.
func (r *Reddit) SearchProspect(ctx context.Context, p Prospect) ([]Mention, error) {
	if err := r.authenticate(ctx); err != nil {
		return nil, fmt.Errorf("reddit auth: %w", err)
	}

	terms := searchTerms(p)
	seen := make(map[string]bool)
	var mentions []Mention

	for _, sub := range r.subreddits {
		for _, term := range terms {
			if err := r.pace.wait(ctx); err != nil {
				return mentions, err
			}
			posts, err := r.searchSubreddit(ctx, sub, term)
			if err != nil {
				fmt.Printf("  reddit r/%s error: %v\n", sub, err)
				continue
			}
			for _, post := range posts {
				if post.Stickied || seen[post.ID] {
					continue
				}
				m, ok := matchPost(post, p, sub)
				if !ok {
					continue
				}
				seen[post.ID] = true
				mentions = append(mentions, m)
			}
		}
	}

	return mentions, nil
}

// searchTerms builds the quoted search queries for a prospect.
func searchTerms(p Prospect) []string {
	terms := []string{fmt.Sprintf("%q", p.FullName())}
	for _, alias := range p.Aliases {
		terms = append(terms, fmt.Sprintf("%q", alias))
	}
	return terms
}

// matchPost decides whether a post actually mentions the prospect,
// where the mention sits, and how confident the match is. Full-name
// matches score 1.0; last-name matches need a context clue and score 0.8.
func matchPost(post redditPost, p Prospect, subreddit string) (Mention, bool) {
	fullName := strings.ToLower(p.FullName())
	lastName := strings.ToLower(p.LastName)
	titleLower := strings.ToLower(post.Title)
	bodyLower := strings.ToLower(post.Selftext)

	var kind PlacementKind
	confidence := 0.0

	switch {
	case strings.Contains(titleLower, fullName):
		kind, confidence = PlacementTitle, 1.0
	case strings.Contains(bodyLower, fullName):
		kind, confidence = PlacementBody, 1.0
	case strings.Contains(titleLower, lastName) || strings.Contains(bodyLower, lastName):
		combined := titleLower + " " + bodyLower
		clues := []string{strings.ToLower(p.Team), "prospect", strings.ToLower(p.Position), "minors", "minor league"}
		for _, clue := range clues {
			if clue != "" && strings.Contains(combined, clue) {
				if strings.Contains(titleLower, lastName) {
					kind = PlacementTitle
				} else {
					kind = PlacementBody
				}
				confidence = 0.8
				break
			}
		}
	}

	if kind == "" || confidence == 0 {
		return Mention{}, false
	}

	return Mention{
		ID:          post.ID,
		Subreddit:   subreddit,
		Kind:        kind,
		Title:       post.Title,
		Text:        truncate(post.Selftext, 500),
		Score:       post.Score,
		NumComments: post.NumComments,
		CreatedUTC:  int64(post.CreatedUTC),
		URL:         "https://reddit.com" + post.Permalink,
		Confidence:  confidence,
	}, true
}

func (r *Reddit) authenticate(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.token != "" && time.Now().Before(r.tokenExpiry) {
		return nil
	}

	data := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://www.reddit.com/api/v1/access_token",
		strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}

	req.SetBasicAuth(r.clientID, r.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("reddit token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reddit auth status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("decode reddit token: %w", err)
	}

	r.token = tokenResp.AccessToken
	r.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)
	return nil
}

func (r *Reddit) searchSubreddit(ctx context.Context, subreddit, term string) ([]redditPost, error) {
	reqURL := fmt.Sprintf(
		"https://oauth.reddit.com/r/%s/search.json?q=%s&restrict_sr=1&t=month&limit=%d",
		subreddit, url.QueryEscape(term), r.limitPerSub)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search r/%s: %w", subreddit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit r/%s status %d", subreddit, resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode r/%s: %w", subreddit, err)
	}

	posts := make([]redditPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Permalink   string  `json:"permalink"`
	Selftext    string  `json:"selftext"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Stickied    bool    `json:"stickied"`
}
