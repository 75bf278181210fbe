// Package store handles SQLite persistence of completed sessions.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/quicktype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for session history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			words INTEGER NOT NULL,
			theme TEXT NOT NULL,
			wordlist_path TEXT NOT NULL,
			target_len INTEGER NOT NULL,
			typed INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			wpm REAL NOT NULL,
			raw_wpm REAL NOT NULL,
			accuracy REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed session and returns its id.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, words, theme, wordlist_path, target_len, typed, errors, duration_ms, wpm, raw_wpm, accuracy)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.UTC().Format(timeLayout),
		rec.EndedAt.UTC().Format(timeLayout),
		rec.Words,
		rec.Theme,
		rec.WordListPath,
		rec.TargetLen,
		rec.Typed,
		rec.Errors,
		rec.DurationMs,
		rec.WPM,
		rec.RawWPM,
		rec.Accuracy,
	)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	return res.LastInsertId()
}

// ListSessions returns sessions matching cfg, oldest first. When cfg.Last is
// positive only the most recent cfg.Last sessions are returned.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	limit := ""
	if cfg.Last > 0 {
		limit = "LIMIT ?"
		args = append(args, cfg.Last)
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, words, theme, wordlist_path, target_len, typed, errors, duration_ms, wpm, raw_wpm, accuracy
		FROM sessions
		WHERE %s
		ORDER BY ended_at DESC, id DESC
		%s`, strings.Join(clauses, " AND "), limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var startedAt, endedAt string
		if err := rows.Scan(&rec.ID, &startedAt, &endedAt, &rec.Words, &rec.Theme, &rec.WordListPath,
			&rec.TargetLen, &rec.Typed, &rec.Errors, &rec.DurationMs, &rec.WPM, &rec.RawWPM, &rec.Accuracy); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}
	return sessions, nil
}
