// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/notate/internal/annotation"
	"github.com/jeranaias/notate/internal/filetree"
	"github.com/jeranaias/notate/internal/review"
	"github.com/jeranaias/notate/internal/ui/styles"
	"github.com/jeranaias/notate/internal/vcs"
)

// =============================================================================
// FILE TREE VIEW TESTS
// =============================================================================

func newTreeView(t *testing.T) (*FileTreeView, string) {
	t.Helper()
	root := t.TempDir()
	for _, f := range []string{"src/app.go", "main.go", "README.md"} {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	node, err := filetree.Build(root, filetree.Options{})
	if err != nil {
		t.Fatal(err)
	}
	view := NewFileTreeView(styles.NewTheme("dark"))
	view.SetSize(30, 10)
	view.SetTree(filetree.NewTree(node))
	return view, root
}

func TestFileTreeView_Navigation(t *testing.T) {
	view, root := newTreeView(t)

	if view.Selected().Name != "src" {
		t.Fatalf("Expected cursor on src, got %s", view.Selected().Name)
	}

	view.MoveUp()
	if view.Cursor() != 0 {
		t.Error("Cursor should not move above the first entry")
	}

	if !view.Toggle() {
		t.Fatal("Toggle on a directory should succeed")
	}
	view.MoveDown()
	if view.Selected().Name != "app.go" {
		t.Errorf("Expected app.go after expanding src, got %s", view.Selected().Name)
	}
	if view.Toggle() {
		t.Error("Toggle on a file should fail")
	}

	for i := 0; i < 10; i++ {
		view.MoveDown()
	}
	if view.Selected().Name != "README.md" && view.Selected().Name != "main.go" {
		t.Errorf("Cursor should stop on the last entry, got %s", view.Selected().Name)
	}

	if !view.Select(filepath.Join(root, "main.go")) || view.Selected().Name != "main.go" {
		t.Error("Select should move to main.go")
	}
}

func TestFileTreeView_View(t *testing.T) {
	view, root := newTreeView(t)

	node := view.tree.Root()
	for _, n := range node.Children {
		if n.Name == "main.go" {
			n.Status = vcs.StatusModified
		}
	}
	view.SetVerdicts(map[string]review.Verdict{filepath.Join(root, "README.md"): review.Approved})

	out := view.View(true)
	rows := strings.Split(out, "\n")
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d:\n%s", len(rows), out)
	}
	for _, row := range rows {
		if w := lipgloss.Width(row); w > 30 {
			t.Errorf("Row wider than the pane (%d): %q", w, row)
		}
	}
	if !strings.Contains(out, "▸ src") {
		t.Errorf("Collapsed directory should show its icon:\n%s", out)
	}
	// main.go sorts before README.md
	if !strings.Contains(rows[1], "main.go") || !strings.Contains(rows[1], "M") {
		t.Errorf("main.go should carry the modified marker: %q", rows[1])
	}
	if !strings.Contains(rows[2], "README.md") || !strings.Contains(rows[2], "✓") {
		t.Errorf("README.md should carry the approval mark: %q", rows[2])
	}
}

func TestFileTreeView_Empty(t *testing.T) {
	view := NewFileTreeView(styles.NewTheme("dark"))

	if view.Selected() != nil {
		t.Error("Empty view has no selection")
	}
	if !strings.Contains(view.View(true), "No files") {
		t.Error("Empty view should show a placeholder")
	}
}

// =============================================================================
// SOURCE VIEW TESTS
// =============================================================================

func newSourceView() *SourceView {
	doc := annotation.Parse("package main\n\tx := 1 # [ANNOTATION] why one\ny := 2\n")
	doc.Marker = "#"

	view := NewSourceView(styles.NewTheme("dark"))
	view.SetSize(60, 10)
	view.SetDocument(doc, nil)
	return view
}

func TestSourceView_Cursor(t *testing.T) {
	view := newSourceView()

	if view.Line() != 1 {
		t.Errorf("Expected line 1, got %d", view.Line())
	}

	view.MoveDown(1)
	if view.CurrentLine() != "\tx := 1 # [ANNOTATION] why one" {
		t.Errorf("Unexpected current line %q", view.CurrentLine())
	}

	view.MoveDown(10)
	if view.Line() != 3 {
		t.Errorf("Cursor should stop on the last line, got %d", view.Line())
	}

	view.GotoLine(0)
	if view.Line() != 1 {
		t.Errorf("GotoLine should clamp, got %d", view.Line())
	}
}

func TestSourceView_View(t *testing.T) {
	view := newSourceView()
	out := view.View(true)

	if strings.Contains(out, "\t") {
		t.Error("Tabs should be expanded")
	}
	if !strings.Contains(out, "x := 1 # [ANNOTATION] why one") {
		t.Errorf("Annotated line should be shown whole:\n%s", out)
	}
	if !strings.Contains(strings.Split(out, "\n")[0], ">") {
		t.Error("Cursor line should be marked")
	}
}

func TestSourceView_Empty(t *testing.T) {
	view := NewSourceView(styles.NewTheme("dark"))

	if view.Line() != 0 || view.CurrentLine() != "" {
		t.Error("No document means no line")
	}
	if !strings.Contains(view.View(true), "No file selected") {
		t.Error("Expected placeholder")
	}
}

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

func TestStatusBar_View(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme("dark"))
	bar.SetWidth(100)
	bar.Mode = "diff"
	bar.Path = "internal/app.go"
	bar.Summary = "Modified +2 ~1"
	bar.Shortcuts = []Shortcut{{Key: "?", Desc: "help"}}

	out := bar.View()
	for _, want := range []string{"DIFF", "internal/app.go", "Modified +2 ~1", "help"} {
		if !strings.Contains(out, want) {
			t.Errorf("Status bar should contain %q: %q", want, out)
		}
	}
	if w := lipgloss.Width(out); w != 100 {
		t.Errorf("Expected width 100, got %d", w)
	}

	bar.SetMessage("saved", false)
	if out := bar.View(); !strings.Contains(out, "saved") || strings.Contains(out, "help") {
		t.Errorf("A message should replace the hints: %q", out)
	}

	bar.ClearMessage()
	if bar.Message != "" || bar.IsError {
		t.Error("ClearMessage should reset the message")
	}
}

func TestStatusBar_Narrow(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme("dark"))
	bar.SetWidth(30)
	bar.Mode = "browse"
	bar.Path = strings.Repeat("very/long/", 10) + "path.go"
	bar.SetMessage("something failed", true)

	if w := lipgloss.Width(bar.View()); w > 30 {
		t.Errorf("Status bar wider than the terminal: %d", w)
	}
}

// =============================================================================
// ANNOTATION LIST TESTS
// =============================================================================

func TestAnnotationList(t *testing.T) {
	list := NewAnnotationList(styles.NewTheme("dark"))

	if _, ok := list.Selected(); ok {
		t.Error("Empty list has no selection")
	}
	if !strings.Contains(list.View(), "No annotations") {
		t.Error("Empty list should show a placeholder")
	}

	list.SetItems([]annotation.Annotation{{Line: 3, Text: "first"}, {Line: 9, Text: "second"}})
	list.MoveDown()
	list.MoveDown()

	a, ok := list.Selected()
	if !ok || a.Line != 9 {
		t.Errorf("Expected the second annotation, got %+v", a)
	}

	list.MoveUp()
	list.MoveUp()
	if a, _ := list.Selected(); a.Line != 3 {
		t.Errorf("Expected the first annotation, got %+v", a)
	}

	out := list.View()
	if !strings.Contains(out, "Annotations (2)") || !strings.Contains(out, "second") {
		t.Errorf("Unexpected list view:\n%s", out)
	}
}
