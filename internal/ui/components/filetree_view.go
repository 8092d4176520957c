// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/notate/internal/filetree"
	"github.com/jeranaias/notate/internal/review"
	"github.com/jeranaias/notate/internal/ui/styles"
	"github.com/jeranaias/notate/internal/util"
	"github.com/jeranaias/notate/internal/vcs"
)

// =============================================================================
// FILE TREE VIEW
// =============================================================================

// FileTreeView renders a filetree.Tree with a cursor, git markers and review
// verdicts.
type FileTreeView struct {
	theme    *styles.Theme
	tree     *filetree.Tree
	verdicts map[string]review.Verdict
	cursor   int
	offset   int
	width    int
	height   int
}

// NewFileTreeView creates an empty tree view.
func NewFileTreeView(theme *styles.Theme) *FileTreeView {
	return &FileTreeView{theme: theme, width: 32, height: 20}
}

// SetTree replaces the tree. The cursor stays on the same path when it still
// exists.
func (v *FileTreeView) SetTree(tree *filetree.Tree) {
	var keep string
	if n := v.Selected(); n != nil {
		keep = n.Path
	}
	v.tree = tree
	v.cursor = 0
	if keep != "" {
		v.Select(keep)
	}
	v.clamp()
}

// SetVerdicts sets the review verdicts shown next to file names, keyed by
// absolute path.
func (v *FileTreeView) SetVerdicts(verdicts map[string]review.Verdict) {
	v.verdicts = verdicts
}

// SetSize sets the view dimensions.
func (v *FileTreeView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clamp()
}

// Cursor returns the selected visible index.
func (v *FileTreeView) Cursor() int {
	return v.cursor
}

// Selected returns the node under the cursor.
func (v *FileTreeView) Selected() *filetree.Node {
	if v.tree == nil {
		return nil
	}
	entries := v.tree.Visible()
	if v.cursor < 0 || v.cursor >= len(entries) {
		return nil
	}
	return entries[v.cursor].Node
}

// Select moves the cursor to path, expanding its parents.
func (v *FileTreeView) Select(path string) bool {
	if v.tree == nil {
		return false
	}
	i := v.tree.Find(path)
	if i < 0 {
		return false
	}
	v.cursor = i
	v.clamp()
	return true
}

// MoveUp moves the cursor up.
func (v *FileTreeView) MoveUp() {
	v.cursor--
	v.clamp()
}

// MoveDown moves the cursor down.
func (v *FileTreeView) MoveDown() {
	v.cursor++
	v.clamp()
}

// Toggle expands or collapses the directory under the cursor.
func (v *FileTreeView) Toggle() bool {
	if v.tree == nil {
		return false
	}
	ok := v.tree.Toggle(v.cursor)
	v.clamp()
	return ok
}

func (v *FileTreeView) clamp() {
	n := 0
	if v.tree != nil {
		n = len(v.tree.Visible())
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

// View renders the visible part of the tree.
func (v *FileTreeView) View(focused bool) string {
	if v.tree == nil || len(v.tree.Visible()) == 0 {
		return v.theme.Placeholder.Render(util.TruncateWidth("No files", v.width))
	}

	entries := v.tree.Visible()
	end := min(len(entries), v.offset+max(1, v.height))

	var rows []string
	for i := v.offset; i < end; i++ {
		rows = append(rows, v.renderEntry(entries[i], i == v.cursor && focused))
	}
	return strings.Join(rows, "\n")
}

func (v *FileTreeView) renderEntry(e filetree.Entry, selected bool) string {
	n := e.Node
	indent := strings.Repeat("  ", e.Depth)

	icon := "  "
	if n.IsDir {
		icon = "▸ "
		if n.Expanded {
			icon = "▾ "
		}
	}

	verdict := " "
	switch v.verdicts[n.Path] {
	case review.Approved:
		verdict = v.theme.Approved.Render("✓")
	case review.Rejected:
		verdict = v.theme.Rejected.Render("✗")
	}

	marker := v.statusStyle(n.Status).Render(n.Status.Marker())
	nameWidth := max(1, v.width-util.StringWidth(indent+icon)-4)
	name := util.PadWidth(n.Name, nameWidth)

	style := v.theme.TreeFile
	if n.IsDir {
		style = v.theme.TreeDir
	} else if n.Status != vcs.StatusClean {
		style = v.statusStyle(n.Status)
	}
	if selected {
		style = style.Background(styles.SelectionBg).Bold(true)
	}

	return indent + icon + style.Render(name) + " " + marker + " " + verdict
}

func (v *FileTreeView) statusStyle(s vcs.FileStatus) lipgloss.Style {
	switch s {
	case vcs.StatusModified, vcs.StatusRenamed:
		return v.theme.TreeModified
	case vcs.StatusAdded:
		return v.theme.TreeAdded
	case vcs.StatusDeleted:
		return v.theme.TreeDeleted
	case vcs.StatusUntracked:
		return v.theme.TreeUnknown
	default:
		return v.theme.TreeFile
	}
}
