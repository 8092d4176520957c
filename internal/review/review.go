// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package review

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when a file has no verdict
	ErrNotFound = errors.New("no review for file")
	// ErrInvalidVerdict is returned for unknown verdict names
	ErrInvalidVerdict = errors.New("invalid verdict")
	// ErrClosed is returned when using a closed store
	ErrClosed = errors.New("review store closed")
)

// =============================================================================
// TYPES
// =============================================================================

// Verdict is the outcome of reviewing a file.
type Verdict int

const (
	// Approved means the changes were accepted
	Approved Verdict = iota + 1
	// Rejected means the changes need more work
	Rejected
)

// String returns the string representation of a verdict.
func (v Verdict) String() string {
	switch v {
	case Approved:
		return "approved"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// ParseVerdict parses "approved" or "rejected" (case-insensitive).
func ParseVerdict(s string) (Verdict, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approved", "approve", "a":
		return Approved, nil
	case "rejected", "reject", "r":
		return Rejected, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidVerdict, s)
	}
}

// Entry is the stored verdict of one file.
type Entry struct {
	Path        string
	ContentHash string
	Verdict     Verdict
	Note        string
	SessionID   string
	ReviewedAt  time.Time
}

// Stale reports whether the file changed since the verdict was recorded.
func (e Entry) Stale(currentHash string) bool {
	return e.ContentHash != currentHash
}

// Hash returns the hex sha256 of content.
func Hash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// HashLines hashes lines joined by "\n". Callers hash the stripped lines of
// a document so that editing annotations does not invalidate a verdict.
func HashLines(lines []string) string {
	return Hash(strings.Join(lines, "\n"))
}

// NewSessionID returns a random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// =============================================================================
// STORE
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS reviews (
	path TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL,
	verdict INTEGER NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	session_id TEXT NOT NULL,
	reviewed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reviews_session ON reviews(session_id);
`

// Store is a review database.
type Store struct {
	db        *sql.DB
	sessionID string
}

// Open opens (creating if needed) the database at path. Use ":memory:" for a
// private in-memory store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, sessionID: NewSessionID()}, nil
}

// SessionID identifies verdicts recorded through this store.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Mark records a verdict, replacing any previous one for the path. Empty
// SessionID and zero ReviewedAt are filled in.
func (s *Store) Mark(ctx context.Context, e Entry) error {
	if s.db == nil {
		return ErrClosed
	}
	if e.Verdict != Approved && e.Verdict != Rejected {
		return fmt.Errorf("%w: %d", ErrInvalidVerdict, e.Verdict)
	}

	path, err := filepath.Abs(e.Path)
	if err != nil {
		return err
	}
	if e.SessionID == "" {
		e.SessionID = s.sessionID
	}
	if e.ReviewedAt.IsZero() {
		e.ReviewedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reviews (path, content_hash, verdict, note, session_id, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_hash = excluded.content_hash,
			verdict = excluded.verdict,
			note = excluded.note,
			session_id = excluded.session_id,
			reviewed_at = excluded.reviewed_at
	`, path, e.ContentHash, int(e.Verdict), e.Note, e.SessionID, e.ReviewedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("mark %s: %w", path, err)
	}
	return nil
}

// Get returns the verdict of path, or ErrNotFound.
func (s *Store) Get(ctx context.Context, path string) (Entry, error) {
	if s.db == nil {
		return Entry{}, ErrClosed
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Entry{}, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT path, content_hash, verdict, note, session_id, reviewed_at
		FROM reviews WHERE path = ?
	`, abs)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return e, err
}

// List returns every verdict ordered by path.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, content_hash, verdict, note, session_id, reviewed_at
		FROM reviews ORDER BY path
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes the verdict of path. It reports whether one existed.
func (s *Store) Clear(ctx context.Context, path string) (bool, error) {
	if s.db == nil {
		return false, ErrClosed
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM reviews WHERE path = ?", abs)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var verdict int
	var reviewedAt int64
	if err := row.Scan(&e.Path, &e.ContentHash, &verdict, &e.Note, &e.SessionID, &reviewedAt); err != nil {
		return Entry{}, err
	}
	e.Verdict = Verdict(verdict)
	e.ReviewedAt = time.Unix(0, reviewedAt)
	return e, nil
}
