// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/notate/internal/ui/styles"
	"github.com/jeranaias/notate/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is a key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom line: mode, file, diff summary and a message or
// key hints.
type StatusBar struct {
	Mode      string
	Path      string
	Summary   string
	Message   string
	IsError   bool
	Shortcuts []Shortcut
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetMessage shows a transient message in place of the key hints.
func (s *StatusBar) SetMessage(msg string, isError bool) {
	s.Message = msg
	s.IsError = isError
}

// ClearMessage removes the message.
func (s *StatusBar) ClearMessage() {
	s.Message = ""
	s.IsError = false
}

// View renders the status bar.
func (s *StatusBar) View() string {
	left := s.theme.StatusMode.Render(strings.ToUpper(s.Mode))
	if s.Path != "" {
		left += " " + s.Path
	}
	if s.Summary != "" {
		left += "  " + s.Summary
	}

	var right string
	switch {
	case s.Message != "" && s.IsError:
		right = styles.RenderError(s.Message)
	case s.Message != "":
		right = s.theme.InfoStyle.Render(s.Message)
	case s.Width >= 60:
		right = s.renderShortcuts()
	}

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	if leftWidth+rightWidth+1 > s.Width {
		// Drop the hints first, then cut the path side
		right, rightWidth = "", 0
		if s.Message != "" {
			right = util.TruncateWidth(s.Message, max(0, s.Width/2))
			rightWidth = util.StringWidth(right)
		}
		if leftWidth+rightWidth+1 > s.Width {
			left = lipgloss.NewStyle().MaxWidth(max(0, s.Width-rightWidth-1)).Render(left)
			leftWidth = lipgloss.Width(left)
		}
	}

	gap := max(1, s.Width-leftWidth-rightWidth)
	return s.theme.StatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *StatusBar) renderShortcuts() string {
	var parts []string
	for _, sc := range s.Shortcuts {
		parts = append(parts, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}
