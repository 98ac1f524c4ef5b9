package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Prospects ProspectsConfig `yaml:"prospects"`
	Output    OutputConfig    `yaml:"output"`
	Reddit    RedditConfig    `yaml:"reddit"`
	News      NewsConfig      `yaml:"news"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Server    ServerConfig    `yaml:"server"`
	Alerts    AlertsConfig    `yaml:"alerts"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ProspectsConfig points at the tracked prospect list.
type ProspectsConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig configures the JSON results document.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// RedditConfig for the Reddit mention collector.
type RedditConfig struct {
	Enabled           bool               `yaml:"enabled"`
	ClientID          string             `yaml:"client_id"`
	ClientSecret      string             `yaml:"client_secret"`
	UserAgent         string             `yaml:"user_agent"`
	SubredditWeights  map[string]float64 `yaml:"subreddit_weights"`
	LimitPerSubreddit int                `yaml:"limit_per_subreddit"`
	RequestDelayMS    int                `yaml:"request_delay_ms"`
}

// Subreddits returns the configured subreddit names.
func (r RedditConfig) Subreddits() []string {
	subs := make([]string, 0, len(r.SubredditWeights))
	for sub := range r.SubredditWeights {
		subs = append(subs, sub)
	}
	return subs
}

// NewsConfig holds the news collectors.
type NewsConfig struct {
	GNews GNewsConfig `yaml:"gnews"`
	Feeds []FeedItem  `yaml:"feeds"`
}

// GNewsConfig for the GNews API collector.
type GNewsConfig struct {
	Enabled        bool   `yaml:"enabled"`
	APIKey         string `yaml:"api_key"`
	MaxArticles    int    `yaml:"max_articles"`
	RequestDelayMS int    `yaml:"request_delay_ms"`
}

// FeedItem is a single RSS news feed entry.
type FeedItem struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// ScoringConfig maps onto the engine params. Empty keyword lists keep
// the engine defaults.
type ScoringConfig struct {
	DecayLambda      float64           `yaml:"decay_lambda"`
	TrackDays        int               `yaml:"track_days"`
	RecentDays       int               `yaml:"recent_days"`
	CapFraction      float64           `yaml:"cap_fraction"`
	BasePoints       BasePointsConfig  `yaml:"base_points"`
	Sentiment        SentimentConfig   `yaml:"sentiment"`
	PositiveKeywords []string          `yaml:"positive_keywords"`
	NegativeKeywords []string          `yaml:"negative_keywords"`
	News             NewsScoringConfig `yaml:"news"`
}

// BasePointsConfig sets per-placement mention base points.
type BasePointsConfig struct {
	Title   float64 `yaml:"title"`
	Body    float64 `yaml:"body"`
	Comment float64 `yaml:"comment"`
}

// SentimentConfig sets the mention sentiment multipliers.
type SentimentConfig struct {
	Positive float64 `yaml:"positive"`
	Negative float64 `yaml:"negative"`
	Neutral  float64 `yaml:"neutral"`
}

// NewsScoringConfig sets the signed news sentiment constants.
type NewsScoringConfig struct {
	BasePoints  float64 `yaml:"base_points"`
	Positive    float64 `yaml:"positive"`
	Negative    float64 `yaml:"negative"`
	Neutral     float64 `yaml:"neutral"`
	CapFraction float64 `yaml:"cap_fraction"`
}

// ScheduleConfig configures the daemon scan interval.
type ScheduleConfig struct {
	ScanInterval string `yaml:"scan_interval"`
}

// ParseScanInterval returns the scan interval as time.Duration.
func (s ScheduleConfig) ParseScanInterval() time.Duration {
	d, err := time.ParseDuration(s.ScanInterval)
	if err != nil {
		return 6 * time.Hour
	}
	return d
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// AlertsConfig configures alert destinations.
type AlertsConfig struct {
	MinScore float64       `yaml:"min_score"`
	Slack    SlackConfig   `yaml:"slack"`
	Discord  DiscordConfig `yaml:"discord"`
	Webhook  WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook alerts.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook alerts.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook alerts.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// Default returns a Config with sensible defaults matching the engine's
// DefaultParams.
func Default() *Config {
	return &Config{
		Database:  DatabaseConfig{Path: "./buzztrack.db"},
		Prospects: ProspectsConfig{Path: "./prospects.json"},
		Output:    OutputConfig{Path: "./buzz_results.json"},
		Reddit: RedditConfig{
			Enabled:   true,
			UserAgent: "ProspectBuzzTracker/1.0",
			SubredditWeights: map[string]float64{
				"fantasybaseball":     1.5,
				"MLBProspects":        1.3,
				"MinorLeagueBaseball": 1.2,
				"baseball":            1.0,
			},
			LimitPerSubreddit: 100,
			RequestDelayMS:    1000,
		},
		News: NewsConfig{
			GNews: GNewsConfig{Enabled: false, MaxArticles: 10, RequestDelayMS: 500},
		},
		Scoring: ScoringConfig{
			DecayLambda: 0.1,
			TrackDays:   30,
			RecentDays:  7,
			CapFraction: 0.25,
			BasePoints:  BasePointsConfig{Title: 10, Body: 5, Comment: 2},
			Sentiment:   SentimentConfig{Positive: 1.2, Negative: 0.7, Neutral: 1.0},
			News: NewsScoringConfig{
				BasePoints:  8,
				Positive:    1.2,
				Negative:    -1.0,
				Neutral:     0.3,
				CapFraction: 0.25,
			},
		},
		Schedule: ScheduleConfig{ScanInterval: "6h"},
		Server:   ServerConfig{Port: 8080},
		Alerts:   AlertsConfig{MinScore: 70},
	}
}

// Load reads configuration from a YAML file, a local .env file and
// environment variable overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Credentials usually live in .env next to the binary.
	_ = godotenv.Load()

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BUZZTRACK_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("REDDIT_CLIENT_ID"); v != "" {
		cfg.Reddit.ClientID = v
	}
	if v := os.Getenv("REDDIT_CLIENT_SECRET"); v != "" {
		cfg.Reddit.ClientSecret = v
	}
	if v := os.Getenv("REDDIT_USER_AGENT"); v != "" {
		cfg.Reddit.UserAgent = v
	}
	if v := os.Getenv("GNEWS_API_KEY"); v != "" {
		cfg.News.GNews.APIKey = v
		cfg.News.GNews.Enabled = true
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Discord.WebhookURL = v
		cfg.Alerts.Discord.Enabled = true
	}
}
