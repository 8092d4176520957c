// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package annotation

import (
	"errors"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// Tag marks a comment as a notate annotation.
const Tag = "[ANNOTATION]"

// DefaultMarker is used for files whose language is unknown.
const DefaultMarker = "#"

var (
	// ErrLineOutOfRange is returned for line numbers outside the document
	ErrLineOutOfRange = errors.New("line out of range")
	// ErrEmptyText is returned when annotation text is blank
	ErrEmptyText = errors.New("annotation text is empty")
	// ErrMultiline is returned when annotation text spans several lines
	ErrMultiline = errors.New("annotation text must be a single line")
)

// =============================================================================
// COMMENT MARKERS
// =============================================================================

// markers maps lower-case file extensions to line-comment syntax.
var markers = map[string]string{
	// C family
	".go": "//", ".c": "//", ".h": "//", ".cc": "//", ".cpp": "//", ".hpp": "//",
	".cs": "//", ".java": "//", ".kt": "//", ".kts": "//", ".scala": "//",
	".swift": "//", ".rs": "//", ".js": "//", ".jsx": "//", ".mjs": "//",
	".ts": "//", ".tsx": "//", ".dart": "//", ".php": "//", ".proto": "//",
	".zig": "//", ".v": "//", ".groovy": "//",

	// Hash comments
	".py": "#", ".sh": "#", ".bash": "#", ".zsh": "#", ".fish": "#",
	".rb": "#", ".pl": "#", ".r": "#", ".yaml": "#", ".yml": "#",
	".toml": "#", ".ini": "#", ".conf": "#", ".cfg": "#", ".mk": "#",
	".nix": "#", ".tf": "#", ".ex": "#", ".exs": "#", ".jl": "#",
	".cmake": "#", ".ps1": "#",

	// Double dash
	".sql": "--", ".lua": "--", ".hs": "--", ".elm": "--", ".ada": "--",

	// Semicolon
	".lisp": ";", ".el": ";", ".clj": ";", ".cljs": ";", ".scm": ";",
	".asm": ";", ".s": ";",

	// Percent
	".tex": "%", ".sty": "%", ".erl": "%", ".hrl": "%", ".m": "%",
}

// fileMarkers maps well-known file names without a telling extension.
var fileMarkers = map[string]string{
	"Makefile":       "#",
	"makefile":       "#",
	"GNUmakefile":    "#",
	"Dockerfile":     "#",
	"Gemfile":        "#",
	"Rakefile":       "#",
	"Vagrantfile":    "#",
	"CMakeLists.txt": "#",
}

// MarkerFor returns the line-comment marker for path. Overrides map file
// extensions ("go" or ".go") or base names to markers and win over the
// built-in table. When several keys name the same extension, ".go" beats
// "go", and case variants are tried in sorted key order.
func MarkerFor(path string, overrides map[string]string) string {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))

	if marker := overrides[base]; marker != "" {
		return marker
	}
	if ext != "" {
		if marker := overrides[ext]; marker != "" {
			return marker
		}
		if marker := overrides[ext[1:]]; marker != "" {
			return marker
		}
		for _, key := range slices.Sorted(maps.Keys(overrides)) {
			if marker := overrides[key]; marker != "" && normalizeExt(key) == ext {
				return marker
			}
		}
	}

	if marker, ok := fileMarkers[base]; ok {
		return marker
	}
	if marker, ok := markers[ext]; ok {
		return marker
	}
	return DefaultMarker
}

func normalizeExt(key string) string {
	key = strings.ToLower(key)
	if !strings.HasPrefix(key, ".") {
		key = "." + key
	}
	return key
}

// =============================================================================
// LINE OPERATIONS
// =============================================================================

// Annotation is an annotation found in a document.
type Annotation struct {
	Line int    // 1-based line number
	Text string // Annotation text without marker and tag
}

// prefix is what introduces an annotation on a line.
func prefix(marker string) string {
	return marker + " " + Tag
}

// Strip removes the annotation suffix from line together with the
// whitespace before it. Lines without an annotation are returned unchanged.
func Strip(line, marker string) string {
	idx := strings.Index(line, prefix(marker))
	if idx < 0 {
		return line
	}
	return strings.TrimRightFunc(line[:idx], unicode.IsSpace)
}

// StripAll applies Strip to every line.
func StripAll(lines []string, marker string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Strip(line, marker)
	}
	return out
}

// textOf returns the annotation text of line, if it has one.
func textOf(line, marker string) (string, bool) {
	p := prefix(marker)
	idx := strings.Index(line, p)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(line[idx+len(p):]), true
}

// Extract returns the annotations of lines in line order.
func Extract(lines []string, marker string) []Annotation {
	var out []Annotation
	for i, line := range lines {
		if text, ok := textOf(line, marker); ok {
			out = append(out, Annotation{Line: i + 1, Text: text})
		}
	}
	return out
}

// Add returns a copy of lines with text annotated on the 1-based line,
// replacing any annotation already there.
func Add(lines []string, line int, text, marker string) ([]string, error) {
	if line < 1 || line > len(lines) {
		return nil, ErrLineOutOfRange
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if strings.ContainsAny(text, "\r\n") {
		return nil, ErrMultiline
	}

	out := slices.Clone(lines)
	code := Strip(out[line-1], marker)
	if strings.TrimSpace(code) == "" {
		out[line-1] = code + prefix(marker) + " " + text
	} else {
		out[line-1] = code + " " + prefix(marker) + " " + text
	}
	return out, nil
}

// Remove returns a copy of lines without the annotation on the 1-based
// line. The boolean reports whether there was one; if not, lines is
// returned as is.
func Remove(lines []string, line int, marker string) ([]string, bool) {
	if line < 1 || line > len(lines) {
		return lines, false
	}
	if _, ok := textOf(lines[line-1], marker); !ok {
		return lines, false
	}
	out := slices.Clone(lines)
	out[line-1] = Strip(out[line-1], marker)
	return out, true
}
