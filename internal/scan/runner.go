package scan

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ranklesystem/buzztrack/internal/store"
	"github.com/ranklesystem/buzztrack/pkg/buzz"
	"github.com/ranklesystem/buzztrack/pkg/source"
)

// Runner fetches raw data for every tracked prospect, scores the batch
// and persists the completed run.
type Runner struct {
	store          store.Store
	calc           *buzz.Calculator
	mentionSources []source.MentionSource
	newsSources    []source.NewsSource
	prospects      []source.Prospect
}

// New creates a scan runner. store may be nil for one-off runs that
// should not be persisted.
func New(
	st store.Store,
	calc *buzz.Calculator,
	mentionSources []source.MentionSource,
	newsSources []source.NewsSource,
	prospects []source.Prospect,
) *Runner {
	return &Runner{
		store:          st,
		calc:           calc,
		mentionSources: mentionSources,
		newsSources:    newsSources,
		prospects:      prospects,
	}
}

// Scan runs one full batch: fetch, score, persist. A failing source is
// skipped for that prospect and the scan continues with whatever data
// is available. The batch timestamp is captured once so decay and
// window filtering stay consistent even when fetching is slow.
func (r *Runner) Scan(ctx context.Context) (*store.Run, []buzz.Result, error) {
	now := time.Now().UTC()

	batch := make([]buzz.ProspectData, 0, len(r.prospects))
	for i, p := range r.prospects {
		fmt.Fprintf(os.Stderr, "[%d/%d] scanning %s (%s)...\n",
			i+1, len(r.prospects), p.FullName(), p.Team)

		data := buzz.ProspectData{Prospect: p}

		for _, src := range r.mentionSources {
			mentions, err := src.SearchProspect(ctx, p)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  %s error: %v\n", src.Name(), err)
				continue
			}
			fmt.Fprintf(os.Stderr, "  %s: %d mentions\n", src.Name(), len(mentions))
			data.Mentions = append(data.Mentions, mentions...)
		}

		for _, src := range r.newsSources {
			articles, err := src.SearchNews(ctx, p)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  %s error: %v\n", src.Name(), err)
				continue
			}
			fmt.Fprintf(os.Stderr, "  %s: %d articles\n", src.Name(), len(articles))
			data.News = append(data.News, articles...)
		}

		batch = append(batch, data)
	}

	results := r.calc.ScoreBatch(batch, now)

	run := &store.Run{GeneratedAt: now, ProspectCount: len(results)}
	if r.store != nil {
		if err := r.store.SaveRun(ctx, run, results); err != nil {
			return nil, nil, fmt.Errorf("save run: %w", err)
		}
	}

	return run, results, nil
}

// Prospects returns the tracked prospect list.
func (r *Runner) Prospects() []source.Prospect {
	return r.prospects
}
