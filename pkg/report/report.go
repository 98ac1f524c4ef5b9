package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ranklesystem/buzztrack/pkg/buzz"
)

// Document is the persisted results file shape.
type Document struct {
	GeneratedAt   time.Time     `json:"generated_at"`
	ProspectCount int           `json:"prospect_count"`
	Results       []buzz.Result `json:"results"`
}

// PrintSummary writes a console table of results, highest buzz first,
// then the top headlines for every prospect with news coverage.
func PrintSummary(w io.Writer, results []buzz.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "no results (run a scan first: buzztrack scan)")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIER\tSCORE\tNAME\tTEAM\t7D\t30D\tDAYS\tNEG\tNEWS")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%.1f\t%s\t%s\t%d\t%d\t%d\t%.0f%%\t%d\n",
			tier(r.BuzzScore), r.BuzzScore, r.Name, r.Team,
			r.MentionCount7d, r.MentionCount30d, r.DaysWithMentions,
			r.NegativeRatio*100, len(r.NewsArticles))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, r := range results {
		if len(r.NewsArticles) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", r.Name)
		headlines := r.NewsArticles
		if len(headlines) > 2 {
			headlines = headlines[:2]
		}
		for _, a := range headlines {
			fmt.Fprintf(w, "  %s (%s)\n", shortTitle(a.Title), a.Sentiment)
		}
	}
	return nil
}

// tier labels a score bucket for the console table.
func tier(score float64) string {
	switch {
	case score >= 70:
		return "HOT"
	case score >= 50:
		return "RISING"
	case score >= 30:
		return "ACTIVE"
	default:
		return "QUIET"
	}
}

func shortTitle(title string) string {
	title = strings.TrimSpace(title)
	if len(title) > 55 {
		return title[:52] + "..."
	}
	return title
}

// Save writes the results document as indented JSON, creating parent
// directories as needed.
func Save(path string, generatedAt time.Time, results []buzz.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	doc := Document{
		GeneratedAt:   generatedAt,
		ProspectCount: len(results),
		Results:       results,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results %s: %w", path, err)
	}
	return nil
}
