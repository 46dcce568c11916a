package state

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/inful/mdfp"
	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Fingerprint hashes the content of a generated file together with its
// destination.
func Fingerprint(dest, content string) string {
	return mdfp.CalculateFingerprintFromParts(dest, content)
}

// BuildRecord summarises one finished build.
type BuildRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Written    int
	Skipped    int
	Failures   int
	Outcome    string
}

// SQLiteStore implements the page state store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens the state database at path. Use ":memory:" for an
// in-memory store.
func Open(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, errors.WrapError(err, errors.CategoryState, "failed to create state directory").
				WithContext("path", path).Build()
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryState, "failed to open state database").
			WithContext("path", path).Build()
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryState, "failed to initialize state schema").
			WithContext("path", path).Build()
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		dest TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		build_id TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		written INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		failures INTEGER NOT NULL,
		outcome TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_finished ON builds(finished_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Unchanged reports whether dest was last recorded with fingerprint.
func (s *SQLiteStore) Unchanged(ctx context.Context, dest, fingerprint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stored string
	err := s.db.QueryRowContext(ctx, "SELECT fingerprint FROM pages WHERE dest = ?", dest).Scan(&stored)
	if stderrors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query page state: %w", err)
	}
	return stored == fingerprint, nil
}

// Record stores the fingerprint written to dest by build buildID.
func (s *SQLiteStore) Record(ctx context.Context, buildID, dest, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (dest, fingerprint, build_id, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(dest) DO UPDATE SET fingerprint = excluded.fingerprint, build_id = excluded.build_id, updated_at = excluded.updated_at`,
		dest, fingerprint, buildID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert page state: %w", err)
	}
	return nil
}

// Forget drops the state of dest so the next build rewrites it.
func (s *SQLiteStore) Forget(ctx context.Context, dest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE dest = ?", dest); err != nil {
		return fmt.Errorf("delete page state: %w", err)
	}
	return nil
}

// Pages returns the number of tracked output files.
func (s *SQLiteStore) Pages(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&n); err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

// RecordBuild appends a build to the history.
func (s *SQLiteStore) RecordBuild(ctx context.Context, b BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, started_at, finished_at, written, skipped, failures, outcome) VALUES (?, ?, ?, ?, ?, ?, ?)",
		b.ID, b.StartedAt.UnixMilli(), b.FinishedAt.UnixMilli(), b.Written, b.Skipped, b.Failures, b.Outcome,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// LastBuild returns the most recently finished build; ok is false when the
// history is empty.
func (s *SQLiteStore) LastBuild(ctx context.Context) (BuildRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		b                 BuildRecord
		started, finished int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, started_at, finished_at, written, skipped, failures, outcome FROM builds ORDER BY finished_at DESC, rowid DESC LIMIT 1",
	).Scan(&b.ID, &started, &finished, &b.Written, &b.Skipped, &b.Failures, &b.Outcome)
	if stderrors.Is(err, sql.ErrNoRows) {
		return BuildRecord{}, false, nil
	}
	if err != nil {
		return BuildRecord{}, false, fmt.Errorf("query last build: %w", err)
	}
	b.StartedAt = time.UnixMilli(started)
	b.FinishedAt = time.UnixMilli(finished)
	return b, true, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
