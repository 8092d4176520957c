// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the notate TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection; the [ui] theme setting can force either palette.

# Diff colors

Changed lines get a soft background (DiffAddedBg, DiffRemovedBg,
DiffModifiedBg). Changed words inside a Modified line are drawn on a
stronger background on top of it, so a reader can see both the line and the
exact words that moved.

# Usage

	theme := styles.NewTheme(cfg.UI.Theme)
	theme.SetSize(width, height)
	added := theme.DiffAdded.Render("+ x := 1")
*/
package styles
