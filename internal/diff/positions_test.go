// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapChanges(t *testing.T) {
	words := WordDiff("foo bar", "foo baz").Changes

	assert.Equal(t, []ChangeRange{{Start: 4, End: 7, Type: ChangeAdded}}, MapChanges("foo baz", words, PaneNew))
	assert.Equal(t, []ChangeRange{{Start: 4, End: 7, Type: ChangeRemoved}}, MapChanges("foo bar", words, PaneOld))
}

func TestMapChanges_IndentAndAnnotation(t *testing.T) {
	words := WordDiff("\ttotal := price * count", "\ttotal := price * qty").Changes
	original := "    total := price * qty // [ANNOTATION] check rounding"

	ranges := MapChanges(original, words, PaneNew)

	require.Len(t, ranges, 1)
	assert.Equal(t, ChangeRange{Start: 21, End: 24, Type: ChangeAdded}, ranges[0])
	assert.Equal(t, "qty", original[ranges[0].Start:ranges[0].End])
}

func TestMapChanges_MultiByte(t *testing.T) {
	words := WordDiff("let naïve = 1", "let café = 1").Changes

	newRanges := MapChanges("let café = 1", words, PaneNew)
	require.Len(t, newRanges, 1)
	assert.Equal(t, ChangeRange{Start: 4, End: 9, Type: ChangeAdded}, newRanges[0])

	oldLine := "let naïve = 1"
	oldRanges := MapChanges(oldLine, words, PaneOld)
	require.Len(t, oldRanges, 1)
	assert.Equal(t, "naïve", oldLine[oldRanges[0].Start:oldRanges[0].End])
}

func TestMapChanges_SkipsMismatchedWords(t *testing.T) {
	// The word list no longer matches the line: no range is invented.
	words := []WordChange{
		{Text: "gone", Type: ChangeAdded},
		{Text: "foo", Type: ChangeUnchanged},
		{Text: "baz", Type: ChangeAdded},
	}

	ranges := MapChanges("foo baz", words, PaneNew)

	assert.Equal(t, []ChangeRange{{Start: 4, End: 7, Type: ChangeAdded}}, ranges)
}

func TestMapChanges_Empty(t *testing.T) {
	assert.Empty(t, MapChanges("", WordDiff("a", "b").Changes, PaneNew))
	assert.Empty(t, MapChanges("a b", nil, PaneOld))
}

// Every range slices to the text of a changed word visible in the pane.
func TestMapChanges_RangesMatchWords(t *testing.T) {
	for _, a := range corpus {
		for _, b := range corpus {
			words := WordDiff(a, b).Changes

			for _, tc := range []struct {
				line string
				pane Pane
				want ChangeType
			}{
				{a, PaneOld, ChangeRemoved},
				{b, PaneNew, ChangeAdded},
			} {
				var changed []string
				for _, w := range words {
					if w.Type == tc.want {
						changed = append(changed, w.Text)
					}
				}

				ranges := MapChanges(tc.line, words, tc.pane)
				require.Len(t, ranges, len(changed), "a=%q b=%q", a, b)
				for i, r := range ranges {
					require.Equal(t, tc.want, r.Type)
					require.Equal(t, changed[i], tc.line[r.Start:r.End], "a=%q b=%q", a, b)
				}
			}
		}
	}
}
