// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"fmt"
	"strings"
)

// =============================================================================
// DIFF STATS
// =============================================================================

// Stats holds statistics about an aligned diff.
type Stats struct {
	Added     int    // Lines only in the working copy
	Removed   int    // Lines only in the baseline
	Modified  int    // Related line pairs with word changes
	Unchanged int    // Lines equal on both sides, whitespace aside
	FileMode  string // "new", "deleted" or "modified"
}

// Changed reports whether the diff holds any change at all.
func (s Stats) Changed() bool {
	return s.Added+s.Removed+s.Modified > 0
}

// Stats counts the lines of r by kind.
func (r Result) Stats() Stats {
	var s Stats
	hasHead, hasWorking := false, false
	for _, line := range r.Lines {
		hasHead = hasHead || line.Head != nil
		hasWorking = hasWorking || line.Working != nil
		switch line.Kind() {
		case LineAdded:
			s.Added++
		case LineRemoved:
			s.Removed++
		case LineModified:
			s.Modified++
		default:
			s.Unchanged++
		}
	}

	switch {
	case !hasHead && hasWorking:
		s.FileMode = "new"
	case hasHead && !hasWorking:
		s.FileMode = "deleted"
	default:
		s.FileMode = "modified"
	}
	return s
}

// Summary returns a human-readable summary of the diff.
func (r Result) Summary() string {
	s := r.Stats()
	if !s.Changed() {
		return "No changes"
	}

	var parts []string
	switch s.FileMode {
	case "new":
		parts = append(parts, "New file")
	case "deleted":
		parts = append(parts, "File deleted")
	default:
		parts = append(parts, "Modified")
	}
	if s.Added > 0 {
		parts = append(parts, fmt.Sprintf("+%d", s.Added))
	}
	if s.Removed > 0 {
		parts = append(parts, fmt.Sprintf("-%d", s.Removed))
	}
	if s.Modified > 0 {
		parts = append(parts, fmt.Sprintf("~%d", s.Modified))
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// DIFF HUNK
// =============================================================================

// Hunk is a run of changed lines with surrounding context.
type Hunk struct {
	OldStart int        // First baseline line, or the line before an empty range
	OldCount int        // Baseline lines in the hunk
	NewStart int        // First working line, or the line before an empty range
	NewCount int        // Working lines in the hunk
	Lines    []DiffLine // Lines of the hunk, context included
}

// Hunks groups the changed lines of r into hunks. Each hunk includes up to
// context unchanged lines before and after its changes; hunks whose context
// would touch or overlap are merged.
func (r Result) Hunks(context int) []Hunk {
	if context < 0 {
		context = 0
	}

	var hunks []Hunk
	start, end := -1, -1
	flush := func() {
		if start >= 0 {
			hunks = append(hunks, r.newHunk(start, end))
		}
	}

	for i, line := range r.Lines {
		if line.Kind() == LineUnchanged {
			continue
		}
		from := max(0, i-context)
		to := min(len(r.Lines)-1, i+context)
		if start >= 0 && from <= end+1 {
			end = max(end, to)
			continue
		}
		flush()
		start, end = from, to
	}
	flush()

	return hunks
}

// newHunk builds the hunk covering r.Lines[start:end+1].
func (r Result) newHunk(start, end int) Hunk {
	h := Hunk{Lines: r.Lines[start : end+1]}

	// Line numbers of the last lines before the hunk, for empty ranges.
	for _, line := range r.Lines[:start] {
		if line.Head != nil {
			h.OldStart = line.Head.Number
		}
		if line.Working != nil {
			h.NewStart = line.Working.Number
		}
	}

	firstOld, firstNew := true, true
	for _, line := range h.Lines {
		if line.Head != nil {
			if firstOld {
				h.OldStart = line.Head.Number
				firstOld = false
			}
			h.OldCount++
		}
		if line.Working != nil {
			if firstNew {
				h.NewStart = line.Working.Number
				firstNew = false
			}
			h.NewCount++
		}
	}

	return h
}

// =============================================================================
// UNIFIED DIFF FORMAT
// =============================================================================

// FormatUnified renders r in unified diff format with the given number of
// context lines. Modified lines are written as a removal followed by an
// addition. Whitespace-only edits are not shown, so the output describes the
// review, not an applicable patch; see Patch for that.
func FormatUnified(path string, r Result, context int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("--- a/%s\n", path))
	sb.WriteString(fmt.Sprintf("+++ b/%s\n", path))

	for _, hunk := range r.Hunks(context) {
		sb.WriteString(fmt.Sprintf("@@ -%d,%d +%d,%d @@\n",
			hunk.OldStart, hunk.OldCount,
			hunk.NewStart, hunk.NewCount))

		for _, line := range hunk.Lines {
			switch line.Kind() {
			case LineAdded:
				writeUnifiedLine(&sb, "+", line.Working.Content)
			case LineRemoved:
				writeUnifiedLine(&sb, "-", line.Head.Content)
			case LineModified:
				writeUnifiedLine(&sb, "-", line.Head.Content)
				writeUnifiedLine(&sb, "+", line.Working.Content)
			default:
				writeUnifiedLine(&sb, " ", line.Working.Content)
			}
		}
	}

	return sb.String()
}

func writeUnifiedLine(sb *strings.Builder, prefix, content string) {
	sb.WriteString(prefix)
	sb.WriteString(content)
	sb.WriteString("\n")
}
