// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.mode {
	case ModeHelp:
		return m.place(m.renderHelp())
	case ModeAnnotate:
		return m.place(m.renderPrompt())
	case ModeList:
		return m.place(m.list.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderPanes(),
		m.renderStatus(),
	)
}

// renderPanes renders the tree and the content pane side by side.
func (m Model) renderPanes() string {
	paneHeight := max(1, m.height-1-2)

	var content string
	if m.activeContent() == ModeDiff {
		content = m.diffView.View()
	} else {
		content = m.source.View(m.mode == ModeFile)
	}

	treeWidth := 0
	var tree string
	if m.showTree() {
		treeWidth = min(m.cfg.UI.TreeWidth, m.width/2)
		tree = m.paneStyle(m.mode == ModeBrowse).
			Width(max(1, treeWidth-2)).
			Height(paneHeight).
			MaxHeight(paneHeight + 2).
			Render(m.tree.View(m.mode == ModeBrowse))
	}

	contentPane := m.paneStyle(m.mode == ModeFile || m.mode == ModeDiff).
		Width(max(1, m.width-treeWidth-2)).
		Height(paneHeight).
		MaxHeight(paneHeight + 2).
		Render(content)

	if tree == "" {
		return contentPane
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tree, contentPane)
}

// activeContent returns what the content pane shows.
func (m Model) activeContent() Mode {
	switch m.mode {
	case ModeFile, ModeDiff:
		return m.mode
	}
	return m.contentMode
}

func (m Model) paneStyle(focused bool) lipgloss.Style {
	if focused {
		return m.theme.PaneFocused
	}
	return m.theme.Pane
}

func (m Model) renderStatus() string {
	bar := *m.status
	bar.Mode = m.mode.String()
	return bar.View()
}

func (m Model) renderHelp() string {
	title := m.theme.HeaderTitle.Render("Keys")
	body := m.help.FullHelpView(m.keys.FullHelp())
	return m.theme.HelpBox.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body))
}

func (m Model) renderPrompt() string {
	title := m.theme.HeaderTitle.Render(fmt.Sprintf("Annotate %s:%d", m.relPath(m.path), m.promptLine))
	hint := m.theme.Placeholder.Render("Enter to save, Esc to cancel")
	return m.theme.PromptBox.Render(lipgloss.JoinVertical(lipgloss.Left, title, m.prompt.View(), hint))
}

// place centers an overlay on the screen.
func (m Model) place(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
