package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ranklesystem/buzztrack/internal/scan"
	"github.com/ranklesystem/buzztrack/pkg/alert"
	"github.com/ranklesystem/buzztrack/pkg/buzz"
)

// Scheduler runs periodic scans and alerts on high-buzz prospects.
type Scheduler struct {
	runner   *scan.Runner
	alertMgr *alert.Manager
	interval time.Duration
	minScore float64
}

// New creates a new scheduler.
func New(runner *scan.Runner, alertMgr *alert.Manager, interval time.Duration, minScore float64) *Scheduler {
	if interval == 0 {
		interval = 6 * time.Hour
	}
	if minScore == 0 {
		minScore = 70
	}
	return &Scheduler{
		runner:   runner,
		alertMgr: alertMgr,
		interval: interval,
		minScore: minScore,
	}
}

// Run starts the scheduler loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start.
	fmt.Fprintln(os.Stderr, "scheduler: initial scan...")
	s.scanAndAlert(ctx)

	fmt.Fprintf(os.Stderr, "scheduler: running (scan every %s)\n", s.interval)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "scheduler: stopped")
			return ctx.Err()
		case <-ticker.C:
			fmt.Fprintln(os.Stderr, "scheduler: scanning...")
			s.scanAndAlert(ctx)
		}
	}
}

func (s *Scheduler) scanAndAlert(ctx context.Context) {
	_, results, err := s.runner.Scan(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  scan error: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "  scored %d prospects\n", len(results))

	if !s.alertMgr.HasNotifiers() {
		return
	}

	for _, r := range results {
		if r.BuzzScore < s.minScore {
			continue
		}

		if err := s.alertMgr.Broadcast(ctx, notificationFor(r)); err != nil {
			fmt.Fprintf(os.Stderr, "  alert error for %s: %v\n", r.Name, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "  alerted: %s (score: %.1f)\n", r.Name, r.BuzzScore)
	}
}

func notificationFor(r buzz.Result) *alert.Notification {
	n := &alert.Notification{
		Prospect:    r.Name,
		Team:        r.Team,
		Score:       r.BuzzScore,
		RawBuzz:     r.RawBuzz,
		Mentions7d:  r.MentionCount7d,
		Mentions30d: r.MentionCount30d,
	}
	limit := 3
	if len(r.NewsArticles) < limit {
		limit = len(r.NewsArticles)
	}
	n.Headlines = r.NewsArticles[:limit]
	return n
}
