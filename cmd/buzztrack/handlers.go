package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ranklesystem/buzztrack/internal/config"
	"github.com/ranklesystem/buzztrack/internal/scan"
	"github.com/ranklesystem/buzztrack/internal/scheduler"
	"github.com/ranklesystem/buzztrack/internal/store"
	"github.com/ranklesystem/buzztrack/pkg/alert"
	"github.com/ranklesystem/buzztrack/pkg/buzz"
	"github.com/ranklesystem/buzztrack/pkg/report"
	"github.com/ranklesystem/buzztrack/pkg/server"
	"github.com/ranklesystem/buzztrack/pkg/source"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func buildCalculator(cfg *config.Config) *buzz.Calculator {
	params := buzz.DefaultParams()

	sc := cfg.Scoring
	if sc.DecayLambda > 0 {
		params.DecayLambda = sc.DecayLambda
	}
	if sc.TrackDays > 0 {
		params.TrackDays = sc.TrackDays
	}
	if sc.RecentDays > 0 {
		params.RecentDays = sc.RecentDays
	}
	if sc.CapFraction > 0 {
		params.CapFraction = sc.CapFraction
	}
	if sc.BasePoints.Title > 0 {
		params.BasePoints[source.PlacementTitle] = sc.BasePoints.Title
	}
	if sc.BasePoints.Body > 0 {
		params.BasePoints[source.PlacementBody] = sc.BasePoints.Body
	}
	if sc.BasePoints.Comment > 0 {
		params.BasePoints[source.PlacementComment] = sc.BasePoints.Comment
		params.DefaultBasePoints = sc.BasePoints.Comment
	}
	if sc.Sentiment.Positive > 0 {
		params.PositiveModifier = sc.Sentiment.Positive
	}
	if sc.Sentiment.Negative > 0 {
		params.NegativeModifier = sc.Sentiment.Negative
	}
	if sc.Sentiment.Neutral > 0 {
		params.NeutralModifier = sc.Sentiment.Neutral
	}
	if len(sc.PositiveKeywords) > 0 {
		params.PositiveKeywords = sc.PositiveKeywords
	}
	if len(sc.NegativeKeywords) > 0 {
		params.NegativeKeywords = sc.NegativeKeywords
	}
	if sc.News.BasePoints > 0 {
		params.News.BasePoints = sc.News.BasePoints
	}
	if sc.News.Positive != 0 {
		params.News.Positive = sc.News.Positive
	}
	if sc.News.Negative != 0 {
		params.News.Negative = sc.News.Negative
	}
	if sc.News.Neutral != 0 {
		params.News.Neutral = sc.News.Neutral
	}
	if sc.News.CapFraction > 0 {
		params.News.CapFraction = sc.News.CapFraction
	}
	if len(cfg.Reddit.SubredditWeights) > 0 {
		params.SubredditWeights = cfg.Reddit.SubredditWeights
	}

	return buzz.NewCalculator(params)
}

func buildMentionSources(cfg *config.Config) []source.MentionSource {
	var sources []source.MentionSource

	if cfg.Reddit.Enabled && cfg.Reddit.ClientID != "" && cfg.Reddit.ClientSecret != "" {
		sources = append(sources, source.NewReddit(
			cfg.Reddit.ClientID,
			cfg.Reddit.ClientSecret,
			cfg.Reddit.UserAgent,
			cfg.Reddit.Subreddits(),
			cfg.Reddit.LimitPerSubreddit,
			time.Duration(cfg.Reddit.RequestDelayMS)*time.Millisecond,
		))
	}

	return sources
}

func buildNewsSources(cfg *config.Config) []source.NewsSource {
	var sources []source.NewsSource

	if cfg.News.GNews.Enabled && cfg.News.GNews.APIKey != "" {
		sources = append(sources, source.NewGNews(
			cfg.News.GNews.APIKey,
			cfg.News.GNews.MaxArticles,
			time.Duration(cfg.News.GNews.RequestDelayMS)*time.Millisecond,
		))
	}
	if len(cfg.News.Feeds) > 0 {
		feeds := make([]source.RSSFeed, len(cfg.News.Feeds))
		for i, f := range cfg.News.Feeds {
			feeds[i] = source.RSSFeed{Name: f.Name, URL: f.URL}
		}
		sources = append(sources, source.NewRSSNews(feeds))
	}

	return sources
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func buildRunner(cfg *config.Config, db store.Store) (*scan.Runner, error) {
	prospects, err := source.LoadProspects(cfg.Prospects.Path)
	if err != nil {
		return nil, fmt.Errorf("load prospects: %w", err)
	}
	fmt.Fprintf(os.Stderr, "tracking %d prospects\n", len(prospects))

	mentionSources := buildMentionSources(cfg)
	newsSources := buildNewsSources(cfg)
	if len(mentionSources) == 0 && len(newsSources) == 0 {
		return nil, fmt.Errorf("no sources configured: set REDDIT_CLIENT_ID/REDDIT_CLIENT_SECRET or GNEWS_API_KEY")
	}

	return scan.New(db, buildCalculator(cfg), mentionSources, newsSources, prospects), nil
}

func runScan(output string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	runner, err := buildRunner(cfg, db)
	if err != nil {
		return err
	}

	run, results, err := runner.Scan(context.Background())
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if err := report.PrintSummary(os.Stdout, results); err != nil {
		return err
	}

	if output == "" {
		output = cfg.Output.Path
	}
	if output != "" {
		if err := report.Save(output, run.GeneratedAt, results); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "results saved to %s\n", output)
	}

	return nil
}

func runResults(jsonOutput bool, runID string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	var (
		run     *store.Run
		results []buzz.Result
	)
	if runID != "" {
		run, results, err = db.GetRun(ctx, runID)
	} else {
		run, results, err = db.LatestRun(ctx)
	}
	if err != nil {
		return fmt.Errorf("load results: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report.Document{
			GeneratedAt:   run.GeneratedAt,
			ProspectCount: run.ProspectCount,
			Results:       results,
		})
	}

	return report.PrintSummary(os.Stdout, results)
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	runner, err := buildRunner(cfg, db)
	if err != nil {
		return err
	}

	srv := server.New(db, runner, port)
	return srv.ListenAndServe()
}

func runDaemon(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	runner, err := buildRunner(cfg, db)
	if err != nil {
		return err
	}
	alertMgr := buildAlertManager(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(runner, alertMgr,
		cfg.Schedule.ParseScanInterval(),
		cfg.Alerts.MinScore,
	)

	// Run the scheduler in the background alongside the API.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "scheduler error: %v\n", err)
		}
	}()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nshutting down...")
	}()

	srv := server.New(db, runner, port)
	return srv.ListenAndServe()
}
