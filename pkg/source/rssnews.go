package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSFeed is a named RSS/Atom feed URL.
type RSSFeed struct {
	Name string
	URL  string
}

// RSSNews collects prospect news from RSS/Atom feeds.
type RSSNews struct {
	client *http.Client
	parser *gofeed.Parser
	feeds  []RSSFeed
}

// NewRSSNews creates a new RSS news collector.
func NewRSSNews(feeds []RSSFeed) *RSSNews {
	return &RSSNews{
		client: &http.Client{Timeout: 30 * time.Second},
		parser: gofeed.NewParser(),
		feeds:  feeds,
	}
}

func (r *RSSNews) Name() string { return "rss" }

// SearchNews scans every configured feed for entries naming the
// prospect. Failing feeds are skipped. Entries without a parseable
// publish date keep PublishedTS 0 and are excluded from scoring.
func (r *RSSNews) SearchNews(ctx context.Context, p Prospect) ([]NewsItem, error) {
	var allItems []NewsItem

	for _, feed := range r.feeds {
		items, err := r.searchFeed(ctx, feed, p)
		if err != nil {
			fmt.Printf("  rss feed %s error: %v\n", feed.Name, err)
			continue
		}
		allItems = append(allItems, items...)
	}

	return allItems, nil
}

func (r *RSSNews) searchFeed(ctx context.Context, feed RSSFeed, p Prospect) ([]NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create rss request %s: %w", feed.Name, err)
	}
	req.Header.Set("User-Agent", "buzztrack/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rss %s: %w", feed.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rss %s status %d", feed.Name, resp.StatusCode)
	}

	parsed, err := r.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse rss %s: %w", feed.Name, err)
	}

	fullName := strings.ToLower(p.FullName())
	lastName := strings.ToLower(p.LastName)

	var items []NewsItem
	for _, entry := range parsed.Items {
		text := strings.ToLower(entry.Title + " " + entry.Description)
		if !strings.Contains(text, fullName) && !strings.Contains(text, lastName) {
			continue
		}

		var publishedTS int64
		publishedAt := ""
		if entry.PublishedParsed != nil {
			publishedTS = entry.PublishedParsed.Unix()
			publishedAt = entry.PublishedParsed.UTC().Format("Jan 02")
		} else if entry.UpdatedParsed != nil {
			publishedTS = entry.UpdatedParsed.Unix()
			publishedAt = entry.UpdatedParsed.UTC().Format("Jan 02")
		}

		link := entry.Link
		if link == "" && len(entry.Links) > 0 {
			link = entry.Links[0]
		}

		items = append(items, NewsItem{
			Title:       entry.Title,
			URL:         link,
			Source:      feed.Name,
			PublishedAt: publishedAt,
			PublishedTS: publishedTS,
			Description: truncate(entry.Description, 200),
		})
	}

	return items, nil
}
