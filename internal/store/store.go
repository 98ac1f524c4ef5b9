package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ranklesystem/buzztrack/pkg/buzz"
)

// ErrNoRuns is returned when no scan run has been stored yet.
var ErrNoRuns = errors.New("no scan runs stored")

// Run is one completed scan over the whole prospect batch.
type Run struct {
	ID            string    `db:"id" json:"id"`
	GeneratedAt   time.Time `db:"generated_at" json:"generated_at"`
	ProspectCount int       `db:"prospect_count" json:"prospect_count"`
}

// Store is the persistence interface.
type Store interface {
	SaveRun(ctx context.Context, run *Run, results []buzz.Result) error
	GetRun(ctx context.Context, id string) (*Run, []buzz.Result, error)
	LatestRun(ctx context.Context) (*Run, []buzz.Result, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts the run and its results in one transaction. A missing
// run ID is assigned.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run, results []buzz.Result) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scan_runs (id, generated_at, prospect_count)
		VALUES (?, ?, ?)
	`, run.ID, run.GeneratedAt, run.ProspectCount)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for i := range results {
		r := results[i]
		mentionsJSON, _ := json.Marshal(r.Mentions)
		newsJSON, _ := json.Marshal(r.NewsArticles)

		_, err = tx.ExecContext(ctx, `
			INSERT INTO scan_results (run_id, prospect_id, name, team, buzz_score, raw_buzz,
				mention_count_7d, mention_count_30d, days_with_mentions, negative_ratio,
				mentions, news_articles, last_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, r.ProspectID, r.Name, r.Team, r.BuzzScore, r.RawBuzz,
			r.MentionCount7d, r.MentionCount30d, r.DaysWithMentions, r.NegativeRatio,
			string(mentionsJSON), string(newsJSON), r.LastUpdated)
		if err != nil {
			return fmt.Errorf("insert result %s: %w", r.ProspectID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun loads one run and its results, highest score first.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, []buzz.Result, error) {
	var run Run
	err := s.db.GetContext(ctx, &run, "SELECT * FROM scan_runs WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNoRuns
		}
		return nil, nil, fmt.Errorf("get run %s: %w", id, err)
	}

	results, err := s.runResults(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return &run, results, nil
}

// LatestRun loads the most recent run and its results.
func (s *SQLiteStore) LatestRun(ctx context.Context) (*Run, []buzz.Result, error) {
	var run Run
	err := s.db.GetContext(ctx, &run,
		"SELECT * FROM scan_runs ORDER BY generated_at DESC LIMIT 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNoRuns
		}
		return nil, nil, fmt.Errorf("get latest run: %w", err)
	}

	results, err := s.runResults(ctx, run.ID)
	if err != nil {
		return nil, nil, err
	}
	return &run, results, nil
}

// ListRuns returns recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	err := s.db.SelectContext(ctx, &runs,
		"SELECT * FROM scan_runs ORDER BY generated_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func (s *SQLiteStore) runResults(ctx context.Context, runID string) ([]buzz.Result, error) {
	var results []buzz.Result
	err := s.db.SelectContext(ctx, &results, `
		SELECT prospect_id, name, team, buzz_score, raw_buzz,
			mention_count_7d, mention_count_30d, days_with_mentions, negative_ratio,
			mentions, news_articles, last_updated
		FROM scan_results WHERE run_id = ? ORDER BY buzz_score DESC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list results for run %s: %w", runID, err)
	}

	for i := range results {
		json.Unmarshal([]byte(results[i].MentionsJSON), &results[i].Mentions)
		json.Unmarshal([]byte(results[i].NewsJSON), &results[i].NewsArticles)
		results[i].MentionsJSON = ""
		results[i].NewsJSON = ""
	}
	return results, nil
}
