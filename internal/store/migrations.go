package store

const schema = `
CREATE TABLE IF NOT EXISTS scan_runs (
    id             TEXT PRIMARY KEY,
    generated_at   DATETIME NOT NULL,
    prospect_count INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON scan_runs(generated_at);

CREATE TABLE IF NOT EXISTS scan_results (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id             TEXT NOT NULL REFERENCES scan_runs(id),
    prospect_id        TEXT NOT NULL,
    name               TEXT NOT NULL,
    team               TEXT NOT NULL DEFAULT '',
    buzz_score         REAL NOT NULL DEFAULT 0,
    raw_buzz           REAL NOT NULL DEFAULT 0,
    mention_count_7d   INTEGER NOT NULL DEFAULT 0,
    mention_count_30d  INTEGER NOT NULL DEFAULT 0,
    days_with_mentions INTEGER NOT NULL DEFAULT 0,
    negative_ratio     REAL NOT NULL DEFAULT 0,
    mentions           TEXT NOT NULL DEFAULT '[]',
    news_articles      TEXT NOT NULL DEFAULT '[]',
    last_updated       DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_run ON scan_results(run_id);
CREATE INDEX IF NOT EXISTS idx_results_prospect ON scan_results(prospect_id);
CREATE INDEX IF NOT EXISTS idx_results_score ON scan_results(buzz_score);
`
