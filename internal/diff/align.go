// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"slices"
	"strings"
)

// =============================================================================
// LINE CHANGE TYPES
// =============================================================================

// LineKind classifies a line of an aligned diff.
type LineKind int

const (
	// LineUnchanged is present on both sides (possibly re-indented)
	LineUnchanged LineKind = iota
	// LineAdded exists only in the working copy
	LineAdded
	// LineRemoved exists only in the baseline
	LineRemoved
	// LineModified pairs a baseline line with a related working line
	LineModified
)

// String returns the string representation of a line kind.
func (k LineKind) String() string {
	switch k {
	case LineUnchanged:
		return "unchanged"
	case LineAdded:
		return "added"
	case LineRemoved:
		return "removed"
	case LineModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Prefix returns the unified diff prefix character for this line kind.
func (k LineKind) Prefix() string {
	switch k {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	case LineModified:
		return "~"
	default:
		return " "
	}
}

// LineChange describes how a line changed. Words and the leading whitespace
// fields are only set for LineModified.
type LineChange struct {
	Kind         LineKind
	Words        []WordChange
	OldLeadingWS string
	NewLeadingWS string
}

// clone returns a deep copy so each side of a DiffLine owns its change.
func (c LineChange) clone() LineChange {
	c.Words = slices.Clone(c.Words)
	return c
}

// Side is one side of a DiffLine.
type Side struct {
	Number  int    // 1-based line number on this side
	Content string // Line text on this side
	Change  LineChange
}

// DiffLine is one row of an aligned diff. At least one of Working and Head is
// set; when both are set they carry equal LineChange values.
type DiffLine struct {
	Working *Side // Line in the working copy, nil for removed lines
	Head    *Side // Line in the baseline, nil for added lines
}

// Kind returns the line kind shared by both sides.
func (l DiffLine) Kind() LineKind {
	if l.Working != nil {
		return l.Working.Change.Kind
	}
	if l.Head != nil {
		return l.Head.Change.Kind
	}
	return LineUnchanged
}

// Change returns the line change shared by both sides.
func (l DiffLine) Change() LineChange {
	if l.Working != nil {
		return l.Working.Change
	}
	if l.Head != nil {
		return l.Head.Change
	}
	return LineChange{}
}

// Result is an aligned diff in document order.
type Result struct {
	Lines []DiffLine
}

// =============================================================================
// LINE ALIGNMENT
// =============================================================================

// SplitLines splits text on line breaks. A trailing line break does not start
// an extra line, "\r\n" endings are accepted and an empty text has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Align diffs the working lines against the baseline text.
//
// Lines are matched with Sequence. Every Delete immediately followed by an
// Insert is a candidate modification: if the two lines only differ in
// surrounding whitespace they become one Unchanged line carrying the working
// content; if they score at least ModifiedThreshold they become one Modified
// line with a word diff; otherwise the deletion is emitted alone and the
// insertion is handled on its own.
func Align(newLines []string, baseline string) Result {
	headLines := SplitLines(baseline)
	script := Sequence(headLines, newLines)

	lines := make([]DiffLine, 0, len(script))
	headNo, workNo := 0, 0

	for i := 0; i < len(script); i++ {
		e := script[i]

		switch e.Op {
		case OpEqual:
			headNo++
			workNo++
			lines = append(lines, both(headNo, e.Item, workNo, e.Item, LineChange{Kind: LineUnchanged}))

		case OpDelete:
			headNo++
			if i+1 < len(script) && script[i+1].Op == OpInsert {
				oldLine, newLine := e.Item, script[i+1].Item

				if strings.TrimSpace(oldLine) == strings.TrimSpace(newLine) {
					workNo++
					lines = append(lines, both(headNo, newLine, workNo, newLine, LineChange{Kind: LineUnchanged}))
					i++
					continue
				}

				if Similarity(oldLine, newLine) >= ModifiedThreshold {
					workNo++
					wd := WordDiff(oldLine, newLine)
					change := LineChange{
						Kind:         LineModified,
						Words:        wd.Changes,
						OldLeadingWS: wd.OldLeadingWS,
						NewLeadingWS: wd.NewLeadingWS,
					}
					lines = append(lines, both(headNo, oldLine, workNo, newLine, change))
					i++
					continue
				}
			}
			lines = append(lines, DiffLine{
				Head: &Side{Number: headNo, Content: e.Item, Change: LineChange{Kind: LineRemoved}},
			})

		case OpInsert:
			workNo++
			lines = append(lines, DiffLine{
				Working: &Side{Number: workNo, Content: e.Item, Change: LineChange{Kind: LineAdded}},
			})
		}
	}

	return Result{Lines: lines}
}

// both builds a DiffLine present on both sides with identical changes.
func both(headNo int, headContent string, workNo int, workContent string, change LineChange) DiffLine {
	return DiffLine{
		Working: &Side{Number: workNo, Content: workContent, Change: change.clone()},
		Head:    &Side{Number: headNo, Content: headContent, Change: change.clone()},
	}
}
