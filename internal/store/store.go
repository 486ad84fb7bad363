// Package store is the durable persistence layer: one sqlite file
// holding jobs, recognized config keys, and the single supervisor
// record for this host. Every state transition happens through the
// methods here; workers and the admin API never touch rows directly.
package store

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id              TEXT PRIMARY KEY,
	command         TEXT NOT NULL,
	priority        INTEGER NOT NULL DEFAULT 0,
	max_retries     INTEGER NOT NULL DEFAULT 3,
	attempts        INTEGER NOT NULL DEFAULT 0,
	timeout_seconds INTEGER NOT NULL DEFAULT 30,
	run_at          DATETIME NOT NULL,
	state           TEXT NOT NULL DEFAULT 'pending',
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL,
	claimed_by      TEXT,
	last_error      TEXT,
	exit_code       INTEGER
);
CREATE INDEX IF NOT EXISTS idx_jobs_claim ON jobs(state, priority, run_at);

CREATE TABLE IF NOT EXISTS config (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS supervisor (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	pid           INTEGER NOT NULL,
	started_at    DATETIME NOT NULL,
	worker_count  INTEGER NOT NULL,
	shutting_down INTEGER NOT NULL DEFAULT 0
);
`

var defaultConfig = map[string]string{
	"backoff_base":     "2",
	"max_retries":      "3",
	"default_timeout":  "30",
	"poll_interval_ms": "500",
}

// Open opens (creating if absent) the sqlite-backed store at path,
// applies the schema, and seeds recognized config defaults.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	for k, v := range defaultConfig {
		if _, err := db.Exec(`INSERT INTO config(key, value) VALUES(?, ?) ON CONFLICT(key) DO NOTHING`, k, v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
