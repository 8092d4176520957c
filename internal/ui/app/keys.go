// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings outside of the annotate prompt.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Enter      key.Binding
	Focus      key.Binding
	Diff       key.Binding
	Annotate   key.Binding
	Unannotate key.Binding
	List       key.Binding
	Approve    key.Binding
	Reject     key.Binding
	Copy       key.Binding
	NextHunk   key.Binding
	PrevHunk   key.Binding
	Unified    key.Binding
	Refresh    key.Binding
	Back       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "move down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/C-u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/C-d", "page down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "open / expand"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "switch pane"),
		),
		Diff: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle diff"),
		),
		Annotate: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "annotate line"),
		),
		Unannotate: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove annotation"),
		),
		List: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "list annotations"),
		),
		Approve: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "approve file"),
		),
		Reject: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reject file"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy line"),
		),
		NextHunk: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next change"),
		),
		PrevHunk: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "previous change"),
		),
		Unified: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unified / split"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q/C-c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Diff, k.Annotate, k.Approve, k.Help, k.Quit}
}

// FullHelp returns the bindings of the help overlay, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Enter, k.Focus, k.Back},
		// Annotations
		{k.Annotate, k.Unannotate, k.List, k.Copy},
		// Review
		{k.Diff, k.NextHunk, k.PrevHunk, k.Unified, k.Approve, k.Reject},
		// General
		{k.Refresh, k.Help, k.Quit},
	}
}
