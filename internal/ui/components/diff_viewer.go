// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/notate/internal/diff"
	"github.com/jeranaias/notate/internal/ui/styles"
	"github.com/jeranaias/notate/internal/util"
)

// =============================================================================
// DIFF VIEWER
// =============================================================================

// DiffViewer displays an aligned diff side by side (baseline left, working
// copy right) or as a single unified column.
type DiffViewer struct {
	theme       *styles.Theme
	highlighter *Highlighter

	path     string
	result   diff.Result
	original []string // working lines as displayed, annotations included
	rows     []diffRow
	hunks    []int

	width       int
	height      int
	offset      int
	unified     bool
	tabWidth    int
	lineNumbers bool
	whitespace  bool
	approved    bool
	rejected    bool
}

// diffRow is one displayed row. Side by side, every DiffLine is one row;
// unified, a Modified line becomes a removal row and an addition row.
type diffRow struct {
	head    *diff.Side
	working *diff.Side
	kind    diff.LineKind
}

// NewDiffViewer creates a new diff viewer.
func NewDiffViewer(theme *styles.Theme) *DiffViewer {
	return &DiffViewer{
		theme:       theme,
		width:       80,
		height:      24,
		tabWidth:    4,
		lineNumbers: true,
	}
}

// SetDiff replaces the displayed diff. original holds the working lines
// exactly as they are shown to the user; word highlights are located in them
// rather than in the stripped lines the diff was computed on. The scroll
// position is kept so a refresh does not jump.
func (dv *DiffViewer) SetDiff(path string, result diff.Result, original []string) {
	if path != dv.path {
		dv.offset = 0
		dv.approved = false
		dv.rejected = false
	}
	dv.path = path
	dv.result = result
	dv.original = original
	dv.layout()
}

// SetHighlighter sets the syntax highlighter for unchanged lines.
func (dv *DiffViewer) SetHighlighter(h *Highlighter) {
	dv.highlighter = h
}

// SetSize sets the viewer dimensions.
func (dv *DiffViewer) SetSize(width, height int) {
	dv.width = width
	dv.height = height
	dv.clampOffset()
}

// SetTabWidth sets the tab stop distance.
func (dv *DiffViewer) SetTabWidth(n int) {
	if n > 0 {
		dv.tabWidth = n
	}
}

// SetLineNumbers shows or hides the line number gutter.
func (dv *DiffViewer) SetLineNumbers(show bool) {
	dv.lineNumbers = show
}

// SetShowWhitespace draws tabs and trailing spaces with visible glyphs.
func (dv *DiffViewer) SetShowWhitespace(show bool) {
	dv.whitespace = show
}

// SetUnified switches between unified and side-by-side layout.
func (dv *DiffViewer) SetUnified(unified bool) {
	if dv.unified == unified {
		return
	}
	dv.unified = unified
	dv.layout()
}

// ToggleUnified flips the layout.
func (dv *DiffViewer) ToggleUnified() {
	dv.SetUnified(!dv.unified)
}

// Unified reports whether the unified layout is active.
func (dv *DiffViewer) Unified() bool {
	return dv.unified
}

// Path returns the path of the displayed file.
func (dv *DiffViewer) Path() string {
	return dv.path
}

// Result returns the displayed diff.
func (dv *DiffViewer) Result() diff.Result {
	return dv.result
}

// Approve marks the diff as approved.
func (dv *DiffViewer) Approve() {
	dv.approved = true
	dv.rejected = false
}

// Reject marks the diff as rejected.
func (dv *DiffViewer) Reject() {
	dv.approved = false
	dv.rejected = true
}

// ClearVerdict forgets an approval or rejection.
func (dv *DiffViewer) ClearVerdict() {
	dv.approved = false
	dv.rejected = false
}

// IsApproved returns whether the diff was approved.
func (dv *DiffViewer) IsApproved() bool {
	return dv.approved
}

// IsRejected returns whether the diff was rejected.
func (dv *DiffViewer) IsRejected() bool {
	return dv.rejected
}

// =============================================================================
// SCROLLING
// =============================================================================

// Offset returns the first displayed row.
func (dv *DiffViewer) Offset() int {
	return dv.offset
}

// ScrollUp scrolls the view up.
func (dv *DiffViewer) ScrollUp(lines int) {
	dv.offset -= lines
	dv.clampOffset()
}

// ScrollDown scrolls the view down.
func (dv *DiffViewer) ScrollDown(lines int) {
	dv.offset += lines
	dv.clampOffset()
}

// NextHunk scrolls to the next block of changes. It reports false when
// there is none below the current position.
func (dv *DiffViewer) NextHunk() bool {
	for _, start := range dv.hunks {
		if start > dv.offset {
			dv.offset = start
			dv.clampOffset()
			return true
		}
	}
	return false
}

// PrevHunk scrolls to the previous block of changes.
func (dv *DiffViewer) PrevHunk() bool {
	for i := len(dv.hunks) - 1; i >= 0; i-- {
		if dv.hunks[i] < dv.offset {
			dv.offset = dv.hunks[i]
			return true
		}
	}
	return false
}

// HunkCount returns the number of change blocks.
func (dv *DiffViewer) HunkCount() int {
	return len(dv.hunks)
}

func (dv *DiffViewer) bodyHeight() int {
	return max(1, dv.height-1)
}

func (dv *DiffViewer) clampOffset() {
	maxOffset := max(0, len(dv.rows)-dv.bodyHeight())
	dv.offset = max(0, min(dv.offset, maxOffset))
}

// layout rebuilds the rows and the hunk start positions.
func (dv *DiffViewer) layout() {
	dv.rows = dv.rows[:0]
	for _, line := range dv.result.Lines {
		kind := line.Kind()
		if dv.unified && kind == diff.LineModified {
			dv.rows = append(dv.rows,
				diffRow{head: line.Head, kind: kind},
				diffRow{working: line.Working, kind: kind})
			continue
		}
		dv.rows = append(dv.rows, diffRow{head: line.Head, working: line.Working, kind: kind})
	}

	dv.hunks = dv.hunks[:0]
	for i, row := range dv.rows {
		if row.kind == diff.LineUnchanged {
			continue
		}
		if i == 0 || dv.rows[i-1].kind == diff.LineUnchanged {
			dv.hunks = append(dv.hunks, i)
		}
	}
	dv.clampOffset()
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the diff viewer.
func (dv *DiffViewer) View() string {
	if dv.path == "" {
		return dv.theme.Placeholder.Render("No file selected")
	}

	var content strings.Builder
	content.WriteString(dv.renderHeader())

	if len(dv.rows) == 0 {
		content.WriteString("\n")
		content.WriteString(dv.theme.Placeholder.Render("Empty file"))
		return content.String()
	}

	end := min(len(dv.rows), dv.offset+dv.bodyHeight())
	for _, row := range dv.rows[dv.offset:end] {
		content.WriteString("\n")
		if dv.unified {
			content.WriteString(dv.renderUnifiedRow(row))
		} else {
			content.WriteString(dv.renderSplitRow(row))
		}
	}
	return content.String()
}

// renderHeader renders the path, the diff statistics and any verdict.
func (dv *DiffViewer) renderHeader() string {
	parts := []string{dv.theme.HeaderTitle.Render(dv.path), dv.renderStats()}

	if dv.approved {
		parts = append(parts, dv.theme.Approved.Render(styles.StatusIndicators.Success+" approved"))
	}
	if dv.rejected {
		parts = append(parts, dv.theme.Rejected.Render(styles.StatusIndicators.Error+" rejected"))
	}

	return lipgloss.NewStyle().MaxWidth(dv.width).Render(strings.Join(parts, "  "))
}

// renderStats renders diff statistics.
func (dv *DiffViewer) renderStats() string {
	stats := dv.result.Stats()
	if !stats.Changed() {
		return dv.theme.Placeholder.Render("No changes")
	}

	var parts []string
	switch stats.FileMode {
	case "new":
		parts = append(parts, dv.theme.Placeholder.Render("New file"))
	case "deleted":
		parts = append(parts, dv.theme.Placeholder.Render("File deleted"))
	default:
		parts = append(parts, dv.theme.Placeholder.Render("Modified"))
	}
	if stats.Added > 0 {
		parts = append(parts, dv.theme.TreeAdded.Render(fmt.Sprintf("+%d", stats.Added)))
	}
	if stats.Removed > 0 {
		parts = append(parts, dv.theme.TreeDeleted.Render(fmt.Sprintf("-%d", stats.Removed)))
	}
	if stats.Modified > 0 {
		parts = append(parts, dv.theme.TreeModified.Render(fmt.Sprintf("~%d", stats.Modified)))
	}
	return strings.Join(parts, " ")
}

// gutterWidth returns the digits needed for the largest line number.
func (dv *DiffViewer) gutterWidth() int {
	if !dv.lineNumbers {
		return 0
	}
	n := max(len(dv.original), 1)
	for _, line := range dv.result.Lines {
		if line.Head != nil {
			n = max(n, line.Head.Number)
		}
	}
	return len(fmt.Sprint(n))
}

func (dv *DiffViewer) lineNumber(side *diff.Side, width int) string {
	if width == 0 {
		return ""
	}
	if side == nil {
		return strings.Repeat(" ", width) + " "
	}
	return dv.theme.LineNumber.Render(fmt.Sprintf("%*d", width, side.Number)) + " "
}

func (dv *DiffViewer) renderSplitRow(row diffRow) string {
	gutter := dv.gutterWidth()
	pane := max(1, (dv.width-3)/2)
	text := max(1, pane-gutter-2)
	if gutter > 0 {
		text = max(1, pane-gutter-3)
	}

	left := dv.lineNumber(row.head, gutter) + dv.renderCell(row.head, diff.PaneOld, row.kind, text)
	right := dv.lineNumber(row.working, gutter) + dv.renderCell(row.working, diff.PaneNew, row.kind, text)
	return left + dv.theme.Separator.Render(" │ ") + right
}

func (dv *DiffViewer) renderUnifiedRow(row diffRow) string {
	gutter := dv.gutterWidth()
	text := max(1, dv.width-2)
	if gutter > 0 {
		text = max(1, dv.width-2*(gutter+1)-2)
	}

	side, pane := row.working, diff.PaneNew
	if side == nil {
		side, pane = row.head, diff.PaneOld
	}

	var numbers string
	if gutter > 0 {
		switch {
		case row.kind == diff.LineUnchanged:
			numbers = dv.lineNumber(row.head, gutter) + dv.lineNumber(row.working, gutter)
		case pane == diff.PaneOld:
			numbers = dv.lineNumber(row.head, gutter) + dv.lineNumber(nil, gutter)
		default:
			numbers = dv.lineNumber(nil, gutter) + dv.lineNumber(row.working, gutter)
		}
	}
	return numbers + dv.renderCell(side, pane, row.kind, text)
}

// segment is a run of a line drawn in one style.
type segment struct {
	text  string
	style lipgloss.Style
	code  bool // plain source text eligible for syntax highlighting
}

// renderCell renders one side of a row as a prefix and exactly width cells.
func (dv *DiffViewer) renderCell(side *diff.Side, pane diff.Pane, kind diff.LineKind, width int) string {
	if side == nil {
		return dv.theme.DiffFiller.Render(strings.Repeat(" ", width+2))
	}

	base := dv.lineStyle(kind, pane)
	prefix := base.Render(dv.prefix(kind, pane) + " ")

	text := side.Content
	codeEnd := len(text)
	if pane == diff.PaneNew && side.Number >= 1 && side.Number <= len(dv.original) {
		// The displayed line may carry an annotation after the code
		text = dv.original[side.Number-1]
		if !strings.HasPrefix(text, side.Content) {
			codeEnd = len(text)
		}
	}

	var ranges []diff.ChangeRange
	if kind == diff.LineModified {
		ranges = diff.MapChanges(text, side.Change.Words, pane)
	}

	segs := dv.segments(text, codeEnd, ranges, base)
	if dv.whitespace {
		markTrailingSpaces(segs)
	}
	segs = clipSegments(expandSegments(segs, dv.tabWidth, dv.whitespace), width)

	var sb strings.Builder
	sb.WriteString(prefix)
	used := 0
	for _, seg := range segs {
		used += util.StringWidth(seg.text)
		if seg.code && kind == diff.LineUnchanged && dv.highlighter != nil {
			sb.WriteString(dv.highlighter.Line(seg.text))
			continue
		}
		sb.WriteString(seg.style.Render(seg.text))
	}
	if used < width {
		sb.WriteString(base.Render(strings.Repeat(" ", width-used)))
	}
	return sb.String()
}

// segments cuts text at change ranges and at the end of the code part.
func (dv *DiffViewer) segments(text string, codeEnd int, ranges []diff.ChangeRange, base lipgloss.Style) []segment {
	var segs []segment
	plain := func(from, to int) {
		if from >= to {
			return
		}
		if from < codeEnd {
			cut := min(to, codeEnd)
			segs = append(segs, segment{text: text[from:cut], style: base, code: true})
			from = cut
		}
		if from < to {
			segs = append(segs, segment{text: text[from:to], style: dv.theme.Annotation})
		}
	}

	pos := 0
	for _, r := range ranges {
		plain(pos, r.Start)
		style := dv.theme.DiffWordAdded
		if r.Type == diff.ChangeRemoved {
			style = dv.theme.DiffWordRemoved
		}
		segs = append(segs, segment{text: text[r.Start:r.End], style: style})
		pos = r.End
	}
	plain(pos, len(text))
	return segs
}

// Glyphs drawn for whitespace when it is shown.
const (
	tabGlyph   = "→"
	spaceGlyph = "·"
)

// expandSegments expands tabs once ranges are applied, keeping tab stops
// continuous across segments. With visible set, each tab starts with
// tabGlyph.
func expandSegments(segs []segment, tabWidth int, visible bool) []segment {
	col := 0
	for i := range segs {
		if visible {
			segs[i].text, col = expandVisibleTabs(segs[i].text, col, tabWidth)
		} else {
			segs[i].text, col = util.ExpandTabs(segs[i].text, col, tabWidth)
		}
	}
	return segs
}

func expandVisibleTabs(s string, col, tabWidth int) (string, int) {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	var sb strings.Builder
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			sb.WriteString(tabGlyph)
			sb.WriteString(strings.Repeat(" ", n-1))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += util.StringWidth(string(r))
	}
	return sb.String(), col
}

// markTrailingSpaces replaces the spaces at the end of the line with
// spaceGlyph. Trailing tabs are left to expandSegments.
func markTrailingSpaces(segs []segment) {
	for i := len(segs) - 1; i >= 0; i-- {
		text := segs[i].text
		code := strings.TrimRight(text, " \t")
		segs[i].text = code + strings.ReplaceAll(text[len(code):], " ", spaceGlyph)
		if code != "" {
			return
		}
	}
}

// clipSegments truncates the segments to width cells, ending with an
// ellipsis when text was cut.
func clipSegments(segs []segment, width int) []segment {
	total := 0
	for _, seg := range segs {
		total += util.StringWidth(seg.text)
	}
	if total <= width {
		return segs
	}

	out := segs[:0]
	left := width
	for _, seg := range segs {
		w := util.StringWidth(seg.text)
		if w < left {
			out = append(out, seg)
			left -= w
			continue
		}
		seg.text = util.TruncateWidth(seg.text+util.Ellipsis, left)
		seg.code = false
		out = append(out, seg)
		break
	}
	return out
}

func (dv *DiffViewer) prefix(kind diff.LineKind, pane diff.Pane) string {
	if kind == diff.LineModified && dv.unified {
		if pane == diff.PaneOld {
			return diff.LineRemoved.Prefix()
		}
		return diff.LineAdded.Prefix()
	}
	return kind.Prefix()
}

func (dv *DiffViewer) lineStyle(kind diff.LineKind, pane diff.Pane) lipgloss.Style {
	switch kind {
	case diff.LineAdded:
		return dv.theme.DiffAdded
	case diff.LineRemoved:
		return dv.theme.DiffRemoved
	case diff.LineModified:
		if dv.unified {
			if pane == diff.PaneOld {
				return dv.theme.DiffRemoved
			}
			return dv.theme.DiffAdded
		}
		return dv.theme.DiffModified
	default:
		return dv.theme.DiffContext
	}
}
