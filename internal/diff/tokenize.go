// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"unicode"
	"unicode/utf8"
)

// =============================================================================
// TOKENIZER
// =============================================================================

// Token is a token of a line together with its byte range in that line.
type Token struct {
	Text  string // Slice of the tokenized line
	Start int    // Byte offset of the first byte
	End   int    // Byte offset one past the last byte
}

// operators are the two-character operators kept together as a single token.
var operators = map[string]struct{}{
	"->": {}, "=>": {}, "==": {}, "!=": {}, "<=": {}, ">=": {},
	"+=": {}, "-=": {}, "*=": {}, "/=": {}, "&&": {}, "||": {},
	"<<": {}, ">>": {}, "::": {},
}

// isWordRune reports whether r belongs to a word token. Combining marks are
// not word runes; a decomposed letter splits into the base and the mark.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Tokenize splits line into words, numbers, punctuation characters and
// recognized two-character operators. Whitespace separates tokens and is
// never returned. The returned strings are slices of line.
func Tokenize(line string) []string {
	toks := TokenizePositions(line)
	if len(toks) == 0 {
		return nil
	}
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Text
	}
	return out
}

// TokenizePositions is Tokenize with the byte range of every token.
// Ranges always fall on UTF-8 boundaries.
func TokenizePositions(line string) []Token {
	var tokens []Token
	wordStart := -1

	flush := func(end int) {
		if wordStart >= 0 {
			tokens = append(tokens, Token{Text: line[wordStart:end], Start: wordStart, End: end})
			wordStart = -1
		}
	}

	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])

		switch {
		case unicode.IsSpace(r):
			flush(i)
		case isWordRune(r):
			if wordStart < 0 {
				wordStart = i
			}
		default:
			flush(i)
			if next, nsize := utf8.DecodeRuneInString(line[i+size:]); nsize > 0 && next < utf8.RuneSelf && r < utf8.RuneSelf {
				if _, ok := operators[line[i:i+size+nsize]]; ok {
					tokens = append(tokens, Token{Text: line[i : i+size+nsize], Start: i, End: i + size + nsize})
					i += size + nsize
					continue
				}
			}
			tokens = append(tokens, Token{Text: line[i : i+size], Start: i, End: i + size})
		}
		i += size
	}
	flush(len(line))

	return tokens
}
