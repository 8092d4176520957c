// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"slices"
	"strings"
)

// =============================================================================
// SIMILARITY SCORING
// =============================================================================

const (
	// ReorderSimilarity is the score of two lines holding the same tokens in a
	// different order, such as an import list that was re-sorted.
	ReorderSimilarity = 0.95

	// ModifiedThreshold is the minimum similarity for a deleted line and the
	// inserted line after it to be shown as one modified line. A score equal to
	// the threshold counts as modified.
	ModifiedThreshold = 0.5
)

// Similarity scores how alike two lines are, from 0 (unrelated) to 1
// (identical tokens). Leading and trailing whitespace is ignored.
// Similarity(a, b) == Similarity(b, a) for all inputs.
func Similarity(oldLine, newLine string) float64 {
	oldTrim := strings.TrimSpace(oldLine)
	newTrim := strings.TrimSpace(newLine)

	switch {
	case oldTrim == "" && newTrim == "":
		return 1.0
	case oldTrim == "" || newTrim == "":
		return 0.0
	}

	oldTokens := Tokenize(oldTrim)
	newTokens := Tokenize(newTrim)

	switch {
	case len(oldTokens) == 0 && len(newTokens) == 0:
		return 1.0
	case len(oldTokens) == 0 || len(newTokens) == 0:
		return 0.0
	case slices.Equal(oldTokens, newTokens):
		return 1.0
	case isReordered(oldTokens, newTokens):
		return ReorderSimilarity
	}

	equal := 0
	for _, e := range Sequence(oldTokens, newTokens) {
		if e.Op == OpEqual {
			equal++
		}
	}

	return float64(equal) / float64(max(len(oldTokens), len(newTokens)))
}

// isReordered reports whether a and b hold the same tokens with the same
// multiplicities.
func isReordered(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sortedA := slices.Clone(a)
	sortedB := slices.Clone(b)
	slices.Sort(sortedA)
	slices.Sort(sortedB)
	return slices.Equal(sortedA, sortedB)
}
