// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/notate/internal/annotation"
	"github.com/jeranaias/notate/internal/ui/styles"
	"github.com/jeranaias/notate/internal/util"
)

// =============================================================================
// SOURCE VIEW
// =============================================================================

// SourceView shows an annotated document with a line cursor. Annotations
// are drawn in their own style; code is syntax highlighted.
type SourceView struct {
	theme       *styles.Theme
	highlighter *Highlighter
	doc         *annotation.Document
	colored     []string // highlighted code per line, stripped of annotations

	cursor      int // 0-based
	offset      int
	width       int
	height      int
	tabWidth    int
	lineNumbers bool
}

// NewSourceView creates an empty source view.
func NewSourceView(theme *styles.Theme) *SourceView {
	return &SourceView{theme: theme, width: 80, height: 24, tabWidth: 4, lineNumbers: true}
}

// SetDocument replaces the document. The cursor line is kept when the new
// document is long enough.
func (v *SourceView) SetDocument(doc *annotation.Document, h *Highlighter) {
	v.doc = doc
	v.highlighter = h
	v.colored = nil
	if doc != nil && h != nil {
		v.colored = h.Lines(expandAll(doc.Stripped(), v.tabWidth))
	}
	v.clamp()
}

// Document returns the displayed document.
func (v *SourceView) Document() *annotation.Document {
	return v.doc
}

// SetSize sets the view dimensions.
func (v *SourceView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clamp()
}

// SetTabWidth sets the tab stop distance.
func (v *SourceView) SetTabWidth(n int) {
	if n > 0 {
		v.tabWidth = n
	}
}

// SetLineNumbers shows or hides the line number gutter.
func (v *SourceView) SetLineNumbers(show bool) {
	v.lineNumbers = show
}

// Line returns the 1-based cursor line, or 0 without a document.
func (v *SourceView) Line() int {
	if v.doc == nil || len(v.doc.Lines) == 0 {
		return 0
	}
	return v.cursor + 1
}

// CurrentLine returns the text under the cursor, annotation included.
func (v *SourceView) CurrentLine() string {
	if v.Line() == 0 {
		return ""
	}
	return v.doc.Lines[v.cursor]
}

// GotoLine moves the cursor to a 1-based line.
func (v *SourceView) GotoLine(line int) {
	v.cursor = line - 1
	v.clamp()
}

// MoveUp moves the cursor up by n lines.
func (v *SourceView) MoveUp(n int) {
	v.cursor -= n
	v.clamp()
}

// MoveDown moves the cursor down by n lines.
func (v *SourceView) MoveDown(n int) {
	v.cursor += n
	v.clamp()
}

func (v *SourceView) clamp() {
	n := 0
	if v.doc != nil {
		n = len(v.doc.Lines)
	}
	v.cursor = max(0, min(v.cursor, n-1))

	height := max(1, v.height)
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+height {
		v.offset = v.cursor - height + 1
	}
	v.offset = max(0, min(v.offset, max(0, n-height)))
}

// View renders the visible lines.
func (v *SourceView) View(focused bool) string {
	if v.doc == nil {
		return v.theme.Placeholder.Render("No file selected")
	}
	if len(v.doc.Lines) == 0 {
		return v.theme.Placeholder.Render("Empty file")
	}

	gutter := 0
	if v.lineNumbers {
		gutter = len(fmt.Sprint(len(v.doc.Lines)))
	}
	textWidth := max(1, v.width-gutter-2)

	end := min(len(v.doc.Lines), v.offset+max(1, v.height))
	var rows []string
	for i := v.offset; i < end; i++ {
		rows = append(rows, v.renderLine(i, gutter, textWidth, focused && i == v.cursor))
	}
	return strings.Join(rows, "\n")
}

func (v *SourceView) renderLine(i, gutter, width int, selected bool) string {
	var sb strings.Builder

	if gutter > 0 {
		num := v.theme.LineNumber
		if selected {
			num = v.theme.Selected
		}
		sb.WriteString(num.Render(fmt.Sprintf("%*d", gutter, i+1)))
		sb.WriteString(" ")
	}
	if selected {
		sb.WriteString(v.theme.Selected.Render(">"))
	} else {
		sb.WriteString(" ")
	}

	line := v.doc.Lines[i]
	code := annotation.Strip(line, v.doc.Marker)
	note := strings.TrimPrefix(line, code)

	expanded, col := util.ExpandTabs(code, 0, v.tabWidth)
	noteText, _ := util.ExpandTabs(note, col, v.tabWidth)

	if util.StringWidth(expanded+noteText) > width {
		full := util.TruncateWidth(expanded+noteText, width)
		if util.StringWidth(expanded) >= width {
			sb.WriteString(v.theme.DiffContext.Render(full))
			return sb.String()
		}
		noteText = util.TruncateWidth(noteText, width-util.StringWidth(expanded))
	} else if i < len(v.colored) {
		expanded = v.colored[i]
	}

	sb.WriteString(expanded)
	if noteText != "" {
		sb.WriteString(v.theme.Annotation.Render(noteText))
	}
	return sb.String()
}

func expandAll(lines []string, tabWidth int) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i], _ = util.ExpandTabs(line, 0, tabWidth)
	}
	return out
}
