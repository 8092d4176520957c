// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diff aligns a working copy of a source file against its committed
// baseline and explains each changed line word by word.
//
// The package is pure: every function is synchronous, allocation-only and safe
// to call from multiple goroutines on different inputs.
//
// # Pipeline
//
//   - Tokenize splits a line into words, numbers, punctuation and two-character
//     operators such as "->" or "::". Whitespace is dropped.
//   - Sequence computes a minimal edit script over any comparable slice. It is
//     used at line granularity by Align and at token granularity by Similarity
//     and WordDiff, so both levels share one tie-break rule: deletions are
//     emitted before insertions at the same alignment point.
//   - Similarity scores two lines in [0, 1]; identical token multisets in a
//     different order score ReorderSimilarity.
//   - WordDiff tags each token of a line pair Unchanged, Added or Removed.
//   - Align walks the line-level script and merges a Delete immediately
//     followed by an Insert into a single Modified line when the pair scores at
//     least ModifiedThreshold. Pairs that differ only in whitespace collapse to
//     Unchanged.
//   - MapChanges projects a word diff back onto byte ranges of the original,
//     unstripped line so a renderer can highlight exactly the changed tokens.
//
// # Key Types
//
//   - Result: ordered DiffLines in document order
//   - DiffLine: a working side, a head side, or both, labeled identically
//   - LineChange: Unchanged, Added, Removed or Modified with word changes
//   - Hunk: a run of changed lines padded with context, for unified output
//
// # Usage
//
//	result := diff.Align(workingLines, baselineText)
//	fmt.Println(result.Summary())
//	fmt.Print(diff.FormatUnified("main.go", result, 3))
package diff
