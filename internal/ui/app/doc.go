// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package app is the Bubble Tea model of the notate TUI.

The screen is a file tree on the left and a content pane on the right. The
content pane shows the selected file either as annotated source or as a diff
against HEAD. Loading files, git and database work run in tea.Cmds and
report back with messages. Saving an annotation writes the file directly.

# Modes

	Browse    tree has focus, content shows the selected file
	File      annotated source with a line cursor
	Diff      side-by-side or unified diff against HEAD
	Annotate  text prompt for the annotation of the cursor line
	List      the annotations of the current file
	Help      key reference

A filesystem watcher, when configured, triggers a reload of the current file
(and a re-diff) plus a refresh of the tree and git markers.
*/
package app
