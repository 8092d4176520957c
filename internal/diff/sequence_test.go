// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"math/rand"
	"testing"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOp_String(t *testing.T) {
	tests := []struct {
		op       Op
		expected string
	}{
		{OpEqual, "equal"},
		{OpInsert, "insert"},
		{OpDelete, "delete"},
		{Op(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.expected {
			t.Errorf("Op(%d).String() = %q, want %q", int(tt.op), got, tt.expected)
		}
	}
}

func TestSequence(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []string
		expected []Edit[string]
	}{
		{
			name:     "both empty",
			expected: []Edit[string]{},
		},
		{
			name: "insert only",
			b:    []string{"x", "y"},
			expected: []Edit[string]{
				{OpInsert, "x"},
				{OpInsert, "y"},
			},
		},
		{
			name: "delete only",
			a:    []string{"x", "y"},
			expected: []Edit[string]{
				{OpDelete, "x"},
				{OpDelete, "y"},
			},
		},
		{
			name: "identical",
			a:    []string{"a", "b"},
			b:    []string{"a", "b"},
			expected: []Edit[string]{
				{OpEqual, "a"},
				{OpEqual, "b"},
			},
		},
		{
			name: "replacement deletes first",
			a:    []string{"foo", "BAR", "baz"},
			b:    []string{"foo", "bar", "baz"},
			expected: []Edit[string]{
				{OpEqual, "foo"},
				{OpDelete, "BAR"},
				{OpInsert, "bar"},
				{OpEqual, "baz"},
			},
		},
		{
			name: "whole replacement",
			a:    []string{"a", "b"},
			b:    []string{"c", "d"},
			expected: []Edit[string]{
				{OpDelete, "a"},
				{OpDelete, "b"},
				{OpInsert, "c"},
				{OpInsert, "d"},
			},
		},
		{
			name: "insert in middle",
			a:    []string{"a", "c"},
			b:    []string{"a", "b", "c"},
			expected: []Edit[string]{
				{OpEqual, "a"},
				{OpInsert, "b"},
				{OpEqual, "c"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sequence(tt.a, tt.b))
		})
	}
}

func TestSequence_Ints(t *testing.T) {
	script := Sequence([]int{1, 2, 3}, []int{1, 3, 4})

	assert.Equal(t, []Edit[int]{
		{OpEqual, 1},
		{OpDelete, 2},
		{OpEqual, 3},
		{OpInsert, 4},
	}, script)
}

// randomPairs returns deterministic pseudo-random sequence pairs over a small
// alphabet, so that many items repeat.
func randomPairs(n int) [][2][]string {
	rng := rand.New(rand.NewSource(7))
	alphabet := []string{"a", "b", "c", "d", "{", "}"}

	gen := func() []string {
		seq := make([]string, rng.Intn(14))
		for i := range seq {
			seq[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return seq
	}

	pairs := make([][2][]string, n)
	for i := range pairs {
		pairs[i] = [2][]string{gen(), gen()}
	}
	return pairs
}

func TestSequence_Reconstructs(t *testing.T) {
	for _, pair := range randomPairs(300) {
		a, b := pair[0], pair[1]
		script := Sequence(a, b)

		var gotA, gotB []string
		for _, e := range script {
			switch e.Op {
			case OpEqual:
				gotA = append(gotA, e.Item)
				gotB = append(gotB, e.Item)
			case OpDelete:
				gotA = append(gotA, e.Item)
			case OpInsert:
				gotB = append(gotB, e.Item)
			}
		}

		require.Equal(t, len(a), len(gotA), "a=%v b=%v", a, b)
		require.Equal(t, len(b), len(gotB), "a=%v b=%v", a, b)
		if len(a) > 0 {
			require.Equal(t, a, gotA)
		}
		if len(b) > 0 {
			require.Equal(t, b, gotB)
		}
	}
}

func TestSequence_DeletesBeforeInserts(t *testing.T) {
	for _, pair := range randomPairs(300) {
		script := Sequence(pair[0], pair[1])
		for i := 1; i < len(script); i++ {
			if script[i-1].Op == OpInsert {
				require.NotEqual(t, OpDelete, script[i].Op,
					"insert followed by delete at %d for a=%v b=%v", i, pair[0], pair[1])
			}
		}
	}
}

// TestSequence_MinimalAgainstDiffMatchPatch checks that the number of equal
// items matches an independent LCS computed by diff-match-patch. Items are
// interned to runes so the comparison is item-wise.
func TestSequence_MinimalAgainstDiffMatchPatch(t *testing.T) {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	for _, pair := range randomPairs(300) {
		a, b := pair[0], pair[1]

		ids := map[string]rune{}
		intern := func(seq []string) []rune {
			out := make([]rune, len(seq))
			for i, item := range seq {
				r, ok := ids[item]
				if !ok {
					r = rune(0x4E00 + len(ids))
					ids[item] = r
				}
				out[i] = r
			}
			return out
		}
		ra, rb := intern(a), intern(b)

		want := 0
		for _, d := range dmp.DiffMainRunes(ra, rb, false) {
			if d.Type == diffmatchpatch.DiffEqual {
				want += utf8.RuneCountInString(d.Text)
			}
		}

		got := 0
		for _, e := range Sequence(a, b) {
			if e.Op == OpEqual {
				got++
			}
		}

		require.Equal(t, want, got, "a=%v b=%v", a, b)
	}
}
