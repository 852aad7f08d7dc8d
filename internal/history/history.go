// Package history keeps a ledger of builds in SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome values stored in the ledger.
const (
	OutcomeSuccess  = "success"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// Stage is one step of a recorded build.
type Stage struct {
	Name       string `json:"name"`
	Result     string `json:"result"`
	DurationMS int64  `json:"duration_ms"`
}

// Record is one build in the ledger.
type Record struct {
	ID        int64
	BuildID   string
	Module    string
	URL       string
	Tag       string
	Commit    string
	Outcome   string
	Error     string
	StartedAt time.Time
	Duration  time.Duration
	Stages    []Stage
}

// Store persists build records.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the ledger at path. Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL UNIQUE,
		module TEXT NOT NULL,
		url TEXT,
		tag TEXT,
		git_commit TEXT,
		outcome TEXT NOT NULL,
		error TEXT,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		stages TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_module ON builds(module);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores r.
func (s *Store) Append(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stages, err := json.Marshal(r.Stages)
	if err != nil {
		return fmt.Errorf("marshal stages: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO builds (build_id, module, url, tag, git_commit, outcome, error, started_at, duration_ms, stages)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.BuildID, r.Module, r.URL, r.Tag, r.Commit, r.Outcome, r.Error,
		r.StartedAt.UnixMilli(), r.Duration.Milliseconds(), string(stages),
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// List returns the most recent records first. An empty module lists every
// module; limit <= 0 returns all records.
func (s *Store) List(ctx context.Context, module string, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, build_id, module, url, tag, git_commit, outcome, error, started_at, duration_ms, stages FROM builds`
	var args []any
	if module != "" {
		query += ` WHERE module = ?`
		args = append(args, module)
	}
	query += ` ORDER BY started_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var (
			r                     Record
			url, tag, commit, msg sql.NullString
			stages                sql.NullString
			startedMS, durationMS int64
		)
		if err := rows.Scan(&r.ID, &r.BuildID, &r.Module, &url, &tag, &commit, &r.Outcome, &msg, &startedMS, &durationMS, &stages); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		r.URL, r.Tag, r.Commit, r.Error = url.String, tag.String, commit.String, msg.String
		r.StartedAt = time.UnixMilli(startedMS)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		if stages.Valid && stages.String != "" {
			if err := json.Unmarshal([]byte(stages.String), &r.Stages); err != nil {
				return nil, fmt.Errorf("unmarshal stages: %w", err)
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
