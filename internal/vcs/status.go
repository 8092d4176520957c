// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package vcs

import (
	"bytes"
	"context"
	"path/filepath"
)

// FileStatus is the working tree state of a file.
type FileStatus int

const (
	// StatusClean means the file matches HEAD
	StatusClean FileStatus = iota
	// StatusModified means the file differs from HEAD
	StatusModified
	// StatusAdded means the file is staged but not at HEAD
	StatusAdded
	// StatusDeleted means the file is at HEAD but gone from the work tree or index
	StatusDeleted
	// StatusUntracked means git does not know the file
	StatusUntracked
	// StatusRenamed means the file was staged under a new name
	StatusRenamed
)

// String returns the string representation of a file status.
func (s FileStatus) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusModified:
		return "modified"
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	case StatusUntracked:
		return "untracked"
	case StatusRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// Marker returns the one-letter marker shown next to file names.
func (s FileStatus) Marker() string {
	switch s {
	case StatusModified:
		return "M"
	case StatusAdded:
		return "A"
	case StatusDeleted:
		return "D"
	case StatusUntracked:
		return "?"
	case StatusRenamed:
		return "R"
	default:
		return " "
	}
}

// Status returns the status of every changed file of the repository that
// contains g.Dir, keyed by absolute path. Clean files are absent.
func (g *Git) Status(ctx context.Context) (map[string]FileStatus, error) {
	root, err := g.Root(ctx, g.Dir)
	if err != nil {
		return nil, err
	}

	out, err := g.run(ctx, root, "status", "--porcelain=v1", "-z", "--untracked-files=all")
	if err != nil {
		return nil, err
	}

	statuses := parsePorcelain(out)
	result := make(map[string]FileStatus, len(statuses))
	for rel, status := range statuses {
		result[filepath.Join(root, filepath.FromSlash(rel))] = status
	}

	g.log.Debug().Int("changed", len(result)).Msg("loaded git status")
	return result, nil
}

// parsePorcelain parses "git status --porcelain=v1 -z" output into statuses
// keyed by repository-relative slash paths.
func parsePorcelain(out []byte) map[string]FileStatus {
	result := make(map[string]FileStatus)

	entries := bytes.Split(out, []byte{0})
	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		if len(entry) < 4 {
			continue
		}
		x, y := entry[0], entry[1]
		path := string(entry[3:])

		switch {
		case x == '?' && y == '?':
			result[path] = StatusUntracked
		case x == 'R' || x == 'C':
			result[path] = StatusRenamed
			// The original path follows as its own entry
			i++
		case x == 'D' || y == 'D':
			result[path] = StatusDeleted
		case x == 'A':
			result[path] = StatusAdded
		case x == '!' && y == '!':
			// ignored
		default:
			result[path] = StatusModified
		}
	}

	return result
}
