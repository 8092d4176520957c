// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestDiffColorsDefined(t *testing.T) {
	colors := []struct {
		name  string
		color lipgloss.AdaptiveColor
	}{
		{"DiffAddedBg", DiffAddedBg},
		{"DiffRemovedBg", DiffRemovedBg},
		{"DiffModifiedBg", DiffModifiedBg},
		{"DiffWordAddedBg", DiffWordAddedBg},
		{"DiffWordRemovedBg", DiffWordRemovedBg},
		{"AnnotationFg", AnnotationFg},
	}

	for _, c := range colors {
		if c.color.Light == "" || c.color.Dark == "" {
			t.Errorf("%s should define both light and dark values", c.name)
		}
		if c.color.Light == c.color.Dark {
			t.Errorf("%s should differ between light and dark", c.name)
		}
	}
}

func TestWordBackgroundsDifferFromLine(t *testing.T) {
	if DiffWordAddedBg == DiffAddedBg {
		t.Error("added words must stand out from added lines")
	}
	if DiffWordRemovedBg == DiffRemovedBg {
		t.Error("removed words must stand out from removed lines")
	}
}

func TestRenderHelpers(t *testing.T) {
	tests := []struct {
		name      string
		render    func(string) string
		indicator string
	}{
		{"success", RenderSuccess, StatusIndicators.Success},
		{"error", RenderError, StatusIndicators.Error},
		{"warning", RenderWarning, StatusIndicators.Warning},
		{"info", RenderInfo, StatusIndicators.Info},
	}

	for _, tt := range tests {
		out := tt.render("saved")
		if !strings.Contains(out, tt.indicator) || !strings.Contains(out, "saved") {
			t.Errorf("%s: expected indicator %q and message, got %q", tt.name, tt.indicator, out)
		}
	}
}
