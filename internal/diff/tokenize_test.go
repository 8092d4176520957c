// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// corpus holds lines shared by the property tests of this package.
var corpus = []string{
	"",
	"   ",
	"\t",
	"getUserName()",
	"foo bar",
	"foo baz",
	"foo bar baz",
	"foo BAR baz",
	"    foo",
	"\tfoo",
	"import { a, b, c } from 'x';",
	"import { c, b, a } from 'x';",
	"if x->next != nil && ok {",
	"if x->next == nil || !ok {",
	"std::vector<int> v; v.push_back(1);",
	"a <<= 2; b >>= 3;",
	"total := price * qty",
	"total := price * count // [ANNOTATION] check",
	"let naïve = café + 1;",
	"let naive = cafe + 1;",
	"日本語 テキスト = \"値\"",
	"x ≠ y → z",
	"}",
	"return err",
	"return nil, err",
	"\tfmt.Println(\"Hello\")",
	"\tfmt.Println(\"Hello, World!\")",
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"getUserName()", []string{"getUserName", "(", ")"}},
		{"", nil},
		{"   \t ", nil},
		{"foo_bar1 + 2", []string{"foo_bar1", "+", "2"}},
		{"a->b", []string{"a", "->", "b"}},
		{"x => y", []string{"x", "=>", "y"}},
		{"std::string", []string{"std", "::", "string"}},
		{"a===b", []string{"a", "==", "=", "b"}},
		{"a <<= b", []string{"a", "<<", "=", "b"}},
		{"i += 1; j -= 2; k *= 3; l /= 4", []string{"i", "+=", "1", ";", "j", "-=", "2", ";", "k", "*=", "3", ";", "l", "/=", "4"}},
		{"a && b || c", []string{"a", "&&", "b", "||", "c"}},
		{"a != b <= c >= d", []string{"a", "!=", "b", "<=", "c", ">=", "d"}},
		{"x = = y", []string{"x", "=", "=", "y"}},
		{"héllo wörld", []string{"héllo", "wörld"}},
		{"日本語 text", []string{"日本語", "text"}},
		{"x≠y", []string{"x", "≠", "y"}},
		{"\u0301x", []string{"\u0301", "x"}},
		{"e\u0301", []string{"e", "\u0301"}},
		{"-→", []string{"-", "→"}},
		{"\"quoted\"", []string{"\"", "quoted", "\""}},
		{"  leading and trailing  ", []string{"leading", "and", "trailing"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestTokenize_Deterministic(t *testing.T) {
	for _, line := range corpus {
		require.Equal(t, Tokenize(line), Tokenize(line), "line %q", line)
	}
}

func TestTokenize_PreservesNonWhitespace(t *testing.T) {
	for _, line := range corpus {
		withoutSpace := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, line)

		tokens := Tokenize(line)
		assert.Equal(t, withoutSpace, strings.Join(tokens, ""), "line %q", line)
		for _, tok := range tokens {
			assert.NotEmpty(t, tok, "line %q", line)
			assert.False(t, strings.ContainsFunc(tok, unicode.IsSpace), "token %q of %q spans whitespace", tok, line)
		}
	}
}

func TestTokenizePositions_SliceRoundTrip(t *testing.T) {
	for _, line := range corpus {
		prevEnd := 0
		for _, tok := range TokenizePositions(line) {
			require.LessOrEqual(t, prevEnd, tok.Start, "line %q", line)
			require.Less(t, tok.Start, tok.End, "line %q", line)
			require.Equal(t, tok.Text, line[tok.Start:tok.End], "line %q", line)
			prevEnd = tok.End
		}
	}
}

func TestTokenizePositions_MultiByte(t *testing.T) {
	toks := TokenizePositions("é = ü")

	require.Len(t, toks, 3)
	assert.Equal(t, Token{Text: "é", Start: 0, End: 2}, toks[0])
	assert.Equal(t, Token{Text: "=", Start: 3, End: 4}, toks[1])
	assert.Equal(t, Token{Text: "ü", Start: 5, End: 7}, toks[2])
}
