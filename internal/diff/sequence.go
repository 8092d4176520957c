// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

// =============================================================================
// SEQUENCE DIFFER
// =============================================================================

// Op is an edit operation in a script produced by Sequence.
type Op int

const (
	// OpEqual keeps an item present in both sequences
	OpEqual Op = iota
	// OpInsert adds an item present only in the second sequence
	OpInsert
	// OpDelete removes an item present only in the first sequence
	OpDelete
)

// String returns the string representation of an edit operation.
func (o Op) String() string {
	switch o {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Edit is one step of an edit script.
type Edit[T comparable] struct {
	Op   Op
	Item T
}

// Sequence computes a minimal edit script turning a into b, based on a
// longest common subsequence. Items common to both sides are emitted once as
// OpEqual, items only in a as OpDelete and items only in b as OpInsert.
//
// When several minimal scripts exist, deletions are emitted before insertions
// at the same alignment point, and an insertion is never directly followed by
// a deletion. Align relies on this to recognize modified lines.
func Sequence[T comparable](a, b []T) []Edit[T] {
	script := make([]Edit[T], 0, max(len(a), len(b)))

	// Common prefix and suffix never change the LCS length, and matching them
	// greedily is what the walk below would do anyway.
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	for _, item := range a[:prefix] {
		script = append(script, Edit[T]{Op: OpEqual, Item: item})
	}
	script = appendMiddle(script, a[prefix:len(a)-suffix], b[prefix:len(b)-suffix])
	for _, item := range a[len(a)-suffix:] {
		script = append(script, Edit[T]{Op: OpEqual, Item: item})
	}

	return script
}

// appendMiddle appends the script for a and b, which share no common prefix
// or suffix.
func appendMiddle[T comparable](script []Edit[T], a, b []T) []Edit[T] {
	m, n := len(a), len(b)

	if m == 0 {
		for _, item := range b {
			script = append(script, Edit[T]{Op: OpInsert, Item: item})
		}
		return script
	}
	if n == 0 {
		for _, item := range a {
			script = append(script, Edit[T]{Op: OpDelete, Item: item})
		}
		return script
	}

	// lcs[i*(n+1)+j] is the LCS length of a[i:] and b[j:].
	width := n + 1
	lcs := make([]int32, (m+1)*width)
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i*width+j] = lcs[(i+1)*width+j+1] + 1
			} else if down, right := lcs[(i+1)*width+j], lcs[i*width+j+1]; down >= right {
				lcs[i*width+j] = down
			} else {
				lcs[i*width+j] = right
			}
		}
	}

	// Walk forward; preferring the delete on ties keeps deletions ahead of
	// insertions within every changed region.
	i, j := 0, 0
	for i < m && j < n {
		switch {
		case a[i] == b[j]:
			script = append(script, Edit[T]{Op: OpEqual, Item: a[i]})
			i++
			j++
		case lcs[(i+1)*width+j] >= lcs[i*width+j+1]:
			script = append(script, Edit[T]{Op: OpDelete, Item: a[i]})
			i++
		default:
			script = append(script, Edit[T]{Op: OpInsert, Item: b[j]})
			j++
		}
	}
	for ; i < m; i++ {
		script = append(script, Edit[T]{Op: OpDelete, Item: a[i]})
	}
	for ; j < n; j++ {
		script = append(script, Edit[T]{Op: OpInsert, Item: b[j]})
	}

	return script
}
