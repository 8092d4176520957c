// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// FRAME STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	Separator   lipgloss.Style
	Selected    lipgloss.Style
	Placeholder lipgloss.Style

	// ==========================================================================
	// DIFF STYLES
	// ==========================================================================

	DiffAdded       lipgloss.Style
	DiffRemoved     lipgloss.Style
	DiffModified    lipgloss.Style
	DiffWordAdded   lipgloss.Style
	DiffWordRemoved lipgloss.Style
	DiffContext     lipgloss.Style
	DiffFiller      lipgloss.Style
	DiffHunkHeader  lipgloss.Style
	LineNumber      lipgloss.Style
	Annotation      lipgloss.Style

	// ==========================================================================
	// FILE TREE STYLES
	// ==========================================================================

	TreeDir      lipgloss.Style
	TreeFile     lipgloss.Style
	TreeModified lipgloss.Style
	TreeAdded    lipgloss.Style
	TreeDeleted  lipgloss.Style
	TreeUnknown  lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusMode   lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Approved     lipgloss.Style
	Rejected     lipgloss.Style

	// ==========================================================================
	// OVERLAY STYLES
	// ==========================================================================

	HelpBox    lipgloss.Style
	PromptBox  lipgloss.Style
	ErrorStyle lipgloss.Style
	InfoStyle  lipgloss.Style
}

// NewTheme creates a new theme with all styles configured. mode is "dark",
// "light" or "auto"; auto asks the terminal.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Frame
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)

	t.PaneFocused = t.Pane.
		BorderForeground(Purple)

	t.Separator = lipgloss.NewStyle().
		Foreground(Overlay)

	t.Selected = lipgloss.NewStyle().
		Background(SelectionBg).
		Bold(true)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Diff
	t.DiffAdded = lipgloss.NewStyle().
		Foreground(DiffAddedFg).
		Background(DiffAddedBg)

	t.DiffRemoved = lipgloss.NewStyle().
		Foreground(DiffRemovedFg).
		Background(DiffRemovedBg)

	t.DiffModified = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(DiffModifiedBg)

	t.DiffWordAdded = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(DiffWordAddedBg).
		Bold(true)

	t.DiffWordRemoved = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(DiffWordRemovedBg).
		Strikethrough(true)

	t.DiffContext = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.DiffFiller = lipgloss.NewStyle().
		Background(DiffFillerBg)

	t.DiffHunkHeader = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.LineNumber = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Annotation = lipgloss.NewStyle().
		Foreground(AnnotationFg).
		Italic(true)

	// File tree
	t.TreeDir = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.TreeFile = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.TreeModified = lipgloss.NewStyle().
		Foreground(Amber)

	t.TreeAdded = lipgloss.NewStyle().
		Foreground(Emerald)

	t.TreeDeleted = lipgloss.NewStyle().
		Foreground(Rose)

	t.TreeUnknown = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary)

	t.StatusMode = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Bold(true).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Approved = lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)

	t.Rejected = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	// Overlays
	t.HelpBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 2)

	t.PromptBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(0, 1)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(InfoHighContrast)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns, no tree pane
	LayoutMedium                   // 60-100 columns, unified diff by default
	LayoutWide                     // > 100 columns
)
