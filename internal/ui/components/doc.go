// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the panes of the notate TUI.

Components are plain structs with setters and a View method. They hold no
tea.Model state of their own; the app model routes keys to them and owns the
layout.

# Components

DiffViewer (diff_viewer.go) - Side-by-side or unified rendering of a
diff.Result, HEAD on the left and the working copy on the right, with
word-level highlights placed by diff.MapChanges.

SourceView (source_view.go) - The annotated working file with a cursor line.

FileTreeView (filetree_view.go) - The project tree with git status markers.

AnnotationList (annotation_list.go) - The annotations of the open file.

StatusBar (statusbar.go) - Mode, path, diff summary, messages and shortcuts.

Highlighter (highlight.go) - Chroma syntax highlighting of single lines.
A nil Highlighter renders plain text.

# Usage

	theme := styles.NewTheme("auto")
	viewer := components.NewDiffViewer(theme)
	viewer.SetSize(120, 40)
	viewer.SetDiff("main.go", diff.Align(lines, baseline), original)
	view := viewer.View()
*/
package components
