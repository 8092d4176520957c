// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended to text cut by TruncateWidth.
const Ellipsis = "…"

// StringWidth returns the display width of s in terminal cells.
// Double-width characters (CJK) count as 2 columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateWidth cuts s to at most maxWidth cells, ending it with an
// ellipsis when something was removed.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= runewidth.StringWidth(Ellipsis) {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// PadWidth pads s with spaces to exactly width cells, truncating first if
// it is wider.
func PadWidth(s string, width int) string {
	s = TruncateWidth(s, width)
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// ExpandTabs replaces tabs in s with spaces up to the next tab stop.
// col is the display column s starts at; the column after s is returned so
// that a line rendered in several segments keeps its tab stops.
func ExpandTabs(s string, col, tabWidth int) (string, int) {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	if !strings.Contains(s, "\t") {
		return s, col + runewidth.StringWidth(s)
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String(), col
}
