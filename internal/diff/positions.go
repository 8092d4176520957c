// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"strings"
	"unicode"
)

// =============================================================================
// CHANGE POSITION MAPPING
// =============================================================================

// Pane selects which side of a word diff is being rendered.
type Pane int

const (
	// PaneOld renders the baseline line; Added tokens do not appear in it
	PaneOld Pane = iota
	// PaneNew renders the working line; Removed tokens do not appear in it
	PaneNew
)

// ChangeRange is the byte range of a changed token in a rendered line.
type ChangeRange struct {
	Start int
	End   int
	Type  ChangeType
}

// belongs reports whether a word change is visible in the pane.
func (p Pane) belongs(c ChangeType) bool {
	switch c {
	case ChangeAdded:
		return p == PaneNew
	case ChangeRemoved:
		return p == PaneOld
	default:
		return true
	}
}

// MapChanges locates the Added or Removed tokens of words inside original,
// the line as it will be displayed in pane. The original line may still hold
// its indentation and content the word diff never saw (an annotation suffix,
// for example); offsets are bytes into original.
//
// Tokens of original are matched against the words visible in the pane in
// order. A word that does not match the current token is skipped, so a
// stale or partial word list degrades to fewer highlights, never wrong ones.
func MapChanges(original string, words []WordChange, pane Pane) []ChangeRange {
	body := strings.TrimLeftFunc(original, unicode.IsSpace)
	offset := len(original) - len(body)
	tokens := TokenizePositions(body)

	var ranges []ChangeRange
	ti := 0
	for _, w := range words {
		if ti >= len(tokens) {
			break
		}
		if !pane.belongs(w.Type) {
			continue
		}
		if w.Text != tokens[ti].Text {
			continue
		}
		if w.Type != ChangeUnchanged {
			ranges = append(ranges, ChangeRange{
				Start: tokens[ti].Start + offset,
				End:   tokens[ti].End + offset,
				Type:  w.Type,
			})
		}
		ti++
	}

	return ranges
}
