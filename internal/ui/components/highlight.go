// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"
)

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// Highlighter colors source lines for the terminal. A nil Highlighter, or
// one without a lexer for the file, returns text unchanged.
type Highlighter struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter
}

// NewHighlighter picks a lexer by file name and a chroma style by name. It
// returns nil when the file type is unknown or the terminal has no colors.
func NewHighlighter(filename, styleName string, profile termenv.Profile) *Highlighter {
	formatter := formatterFor(profile)
	if formatter == nil {
		return nil
	}

	lexer := lexers.Match(filename)
	if lexer == nil {
		return nil
	}

	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	return &Highlighter{
		lexer:     chroma.Coalesce(lexer),
		style:     style,
		formatter: formatter,
	}
}

func formatterFor(profile termenv.Profile) chroma.Formatter {
	switch profile {
	case termenv.TrueColor:
		return formatters.Get("terminal16m")
	case termenv.ANSI256:
		return formatters.Get("terminal256")
	case termenv.ANSI:
		return formatters.Get("terminal16")
	default:
		return nil
	}
}

// Language returns the lexer name, or "" for plain text.
func (h *Highlighter) Language() string {
	if h == nil {
		return ""
	}
	return h.lexer.Config().Name
}

// Line highlights a single line. Constructs spanning lines (block comments,
// raw strings) are not recognized; use Lines for whole files.
func (h *Highlighter) Line(text string) string {
	if h == nil || text == "" {
		return text
	}

	iterator, err := h.lexer.Tokenise(nil, text)
	if err != nil {
		return text // Fallback to plain text
	}

	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return text
	}
	return strings.ReplaceAll(buf.String(), "\n", "")
}

// Lines highlights a whole text and returns one colored string per line.
func (h *Highlighter) Lines(lines []string) []string {
	if h == nil || len(lines) == 0 {
		return lines
	}

	iterator, err := h.lexer.Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		return lines
	}

	split := chroma.SplitTokensIntoLines(iterator.Tokens())
	out := make([]string, len(lines))
	for i := range lines {
		if i >= len(split) {
			out[i] = lines[i]
			continue
		}
		var buf strings.Builder
		if err := h.formatter.Format(&buf, h.style, chroma.Literator(split[i]...)); err != nil {
			out[i] = lines[i]
			continue
		}
		out[i] = strings.ReplaceAll(buf.String(), "\n", "")
	}
	return out
}
