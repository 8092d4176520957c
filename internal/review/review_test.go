// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package review

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "review.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMarkAndGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "main.go")

	require.NoError(t, s.Mark(ctx, Entry{
		Path:        path,
		ContentHash: Hash("package main\n"),
		Verdict:     Approved,
		Note:        "looks good",
	}))

	e, err := s.Get(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path, e.Path)
	assert.Equal(t, Approved, e.Verdict)
	assert.Equal(t, "looks good", e.Note)
	assert.Equal(t, s.SessionID(), e.SessionID)
	assert.WithinDuration(t, time.Now(), e.ReviewedAt, time.Minute)
	assert.False(t, e.Stale(Hash("package main\n")))
	assert.True(t, e.Stale(Hash("package main\n\nfunc main() {}\n")))
}

func TestMark_Replaces(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "a.go")

	require.NoError(t, s.Mark(ctx, Entry{Path: path, ContentHash: Hash("v1"), Verdict: Approved}))
	require.NoError(t, s.Mark(ctx, Entry{Path: path, ContentHash: Hash("v2"), Verdict: Rejected, Note: "nil check"}))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Rejected, entries[0].Verdict)
	assert.Equal(t, Hash("v2"), entries[0].ContentHash)
}

func TestMark_InvalidVerdict(t *testing.T) {
	s := openStore(t)
	err := s.Mark(context.Background(), Entry{Path: "x.go"})
	assert.ErrorIs(t, err, ErrInvalidVerdict)
}

func TestGet_NotFound(t *testing.T) {
	s := openStore(t)
	_, err := s.Get(context.Background(), "missing.go")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrderAndClear(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	for _, name := range []string{"c.go", "a.go", "b.go"} {
		require.NoError(t, s.Mark(ctx, Entry{Path: filepath.Join(dir, name), ContentHash: Hash(name), Verdict: Approved}))
	}

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, filepath.Join(dir, "a.go"), entries[0].Path)
	assert.Equal(t, filepath.Join(dir, "c.go"), entries[2].Path)

	removed, err := s.Clear(ctx, filepath.Join(dir, "b.go"))
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Clear(ctx, filepath.Join(dir, "b.go"))
	require.NoError(t, err)
	assert.False(t, removed)

	entries, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestPersistsAcrossOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "review.db")
	path := filepath.Join(t.TempDir(), "keep.go")
	ctx := context.Background()

	s, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Mark(ctx, Entry{Path: path, ContentHash: Hash("x"), Verdict: Rejected}))
	require.NoError(t, s.Close())

	s2, err := Open(dbPath)
	require.NoError(t, err)
	defer s2.Close()

	e, err := s2.Get(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, Rejected, e.Verdict)
	assert.NotEqual(t, s2.SessionID(), e.SessionID)
}

func TestClosedStore(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Close())

	_, err := s.List(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, s.Close())
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		input   string
		want    Verdict
		wantErr bool
	}{
		{"approved", Approved, false},
		{"REJECTED", Rejected, false},
		{"a", Approved, false},
		{"maybe", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseVerdict(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidVerdict, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestHashAndSession(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Hash(""))

	assert.Equal(t, Hash("a\nb"), HashLines([]string{"a", "b"}))
	assert.NotEqual(t, HashLines([]string{"a", "b"}), HashLines([]string{"a b"}))

	_, err := uuid.Parse(NewSessionID())
	assert.NoError(t, err)
	assert.NotEqual(t, NewSessionID(), NewSessionID())
}
