// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"strings"
	"unicode"
)

// =============================================================================
// WORD CHANGE TYPES
// =============================================================================

// ChangeType is the state of a single token in a word diff.
type ChangeType int

const (
	// ChangeUnchanged marks a token present in both lines
	ChangeUnchanged ChangeType = iota
	// ChangeAdded marks a token present only in the new line
	ChangeAdded
	// ChangeRemoved marks a token present only in the old line
	ChangeRemoved
)

// String returns the string representation of a change type.
func (c ChangeType) String() string {
	switch c {
	case ChangeUnchanged:
		return "unchanged"
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// WordChange is one token of a word diff.
type WordChange struct {
	Text string
	Type ChangeType
}

// WordDiffResult is the word-level breakdown of a line pair.
type WordDiffResult struct {
	OldLeadingWS string       // Indentation of the old line, not tokenized
	NewLeadingWS string       // Indentation of the new line, not tokenized
	Changes      []WordChange // One entry per token of the merged edit script
}

// =============================================================================
// WORD DIFF
// =============================================================================

// WordDiff compares two lines token by token. Leading whitespace is captured
// separately, trailing whitespace is ignored, and the remaining tokens are
// diffed with Sequence. Empty lines yield no changes.
func WordDiff(oldLine, newLine string) WordDiffResult {
	oldWS, oldBody := splitIndent(oldLine)
	newWS, newBody := splitIndent(newLine)

	script := Sequence(Tokenize(oldBody), Tokenize(newBody))

	result := WordDiffResult{
		OldLeadingWS: oldWS,
		NewLeadingWS: newWS,
	}
	if len(script) > 0 {
		result.Changes = make([]WordChange, 0, len(script))
	}
	for _, e := range script {
		result.Changes = append(result.Changes, WordChange{Text: e.Item, Type: changeTypeOf(e.Op)})
	}

	return result
}

// changeTypeOf maps an edit operation to the change type of its token.
func changeTypeOf(op Op) ChangeType {
	switch op {
	case OpInsert:
		return ChangeAdded
	case OpDelete:
		return ChangeRemoved
	default:
		return ChangeUnchanged
	}
}

// splitIndent returns the leading whitespace of line and the rest of it with
// trailing whitespace removed.
func splitIndent(line string) (indent, body string) {
	body = strings.TrimLeftFunc(line, unicode.IsSpace)
	indent = line[:len(line)-len(body)]
	return indent, strings.TrimRightFunc(body, unicode.IsSpace)
}
