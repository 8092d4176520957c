// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"regexp"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestNewHighlighter(t *testing.T) {
	h := NewHighlighter("main.go", "catppuccin-mocha", termenv.TrueColor)
	if h == nil {
		t.Fatal("Expected a highlighter for Go files")
	}
	if h.Language() != "Go" {
		t.Errorf("Expected Go lexer, got %q", h.Language())
	}

	if NewHighlighter("notes.zzqq", "monokai", termenv.TrueColor) != nil {
		t.Error("Unknown file types should not be highlighted")
	}
	if NewHighlighter("main.go", "monokai", termenv.Ascii) != nil {
		t.Error("Terminals without color should not be highlighted")
	}
}

func TestHighlighter_Line(t *testing.T) {
	h := NewHighlighter("main.go", "no-such-style", termenv.ANSI256)

	out := h.Line(`x := "hi" // greet`)
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("Expected escape sequences in %q", out)
	}
	if strings.Contains(out, "\n") {
		t.Error("A highlighted line must not contain a newline")
	}
	if plain := ansi.ReplaceAllString(out, ""); plain != `x := "hi" // greet` {
		t.Errorf("Highlighting changed the text: %q", plain)
	}
}

func TestHighlighter_Lines(t *testing.T) {
	h := NewHighlighter("main.go", "monokai", termenv.TrueColor)
	lines := []string{"/* a", "b */", "func main() {}"}

	out := h.Lines(lines)
	if len(out) != len(lines) {
		t.Fatalf("Expected %d lines, got %d", len(lines), len(out))
	}
	for i := range lines {
		if plain := ansi.ReplaceAllString(out[i], ""); plain != lines[i] {
			t.Errorf("line %d: expected %q, got %q", i, lines[i], plain)
		}
	}
}

func TestHighlighter_Nil(t *testing.T) {
	var h *Highlighter

	if h.Line("x") != "x" {
		t.Error("A nil highlighter should return the text")
	}
	if got := h.Lines([]string{"a", "b"}); len(got) != 2 || got[1] != "b" {
		t.Errorf("A nil highlighter should return the lines, got %v", got)
	}
	if h.Language() != "" {
		t.Error("A nil highlighter has no language")
	}
}
