// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"fmt"
	"strings"
	"testing"
)

// compute aligns two whole file contents.
func compute(oldContent, newContent string) Result {
	return Align(SplitLines(newContent), oldContent)
}

func TestStats_NewFile(t *testing.T) {
	s := compute("", "line1\nline2\nline3").Stats()

	if s.FileMode != "new" {
		t.Errorf("Expected FileMode 'new', got '%s'", s.FileMode)
	}
	if s.Added != 3 {
		t.Errorf("Expected 3 additions, got %d", s.Added)
	}
	if s.Removed != 0 {
		t.Errorf("Expected 0 removals, got %d", s.Removed)
	}
}

func TestStats_DeletedFile(t *testing.T) {
	s := compute("line1\nline2\nline3", "").Stats()

	if s.FileMode != "deleted" {
		t.Errorf("Expected FileMode 'deleted', got '%s'", s.FileMode)
	}
	if s.Added != 0 {
		t.Errorf("Expected 0 additions, got %d", s.Added)
	}
	if s.Removed != 3 {
		t.Errorf("Expected 3 removals, got %d", s.Removed)
	}
}

func TestStats_Modified(t *testing.T) {
	s := compute("line1\nline2\nline3", "line1\nmodified\nline3\nline4").Stats()

	if s.FileMode != "modified" {
		t.Errorf("Expected FileMode 'modified', got '%s'", s.FileMode)
	}
	if s.Added != 2 {
		t.Errorf("Expected 2 additions, got %d", s.Added)
	}
	if s.Removed != 1 {
		t.Errorf("Expected 1 removal, got %d", s.Removed)
	}
	if s.Unchanged != 2 {
		t.Errorf("Expected 2 unchanged lines, got %d", s.Unchanged)
	}
}

func TestStats_NoChanges(t *testing.T) {
	content := "line1\nline2\nline3"
	s := compute(content, content).Stats()

	if s.Changed() {
		t.Errorf("Expected no changes, got %+v", s)
	}
	if s.Unchanged != 3 {
		t.Errorf("Expected 3 unchanged lines, got %d", s.Unchanged)
	}
}

func TestResult_Summary(t *testing.T) {
	tests := []struct {
		name       string
		oldContent string
		newContent string
		expected   string
	}{
		{
			name:       "new file",
			oldContent: "",
			newContent: "line1\nline2",
			expected:   "New file +2",
		},
		{
			name:       "deleted file",
			oldContent: "line1\nline2",
			newContent: "",
			expected:   "File deleted -2",
		},
		{
			name:       "modified file",
			oldContent: "line1\nline2\nline3",
			newContent: "line1\nmodified\nline3\nline4",
			expected:   "Modified +2 -1",
		},
		{
			name:       "word change",
			oldContent: "foo BAR baz",
			newContent: "foo bar baz",
			expected:   "Modified ~1",
		},
		{
			name:       "reindent only",
			oldContent: "\tfoo",
			newContent: "    foo",
			expected:   "No changes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := compute(tt.oldContent, tt.newContent).Summary()
			if summary != tt.expected {
				t.Errorf("Expected summary '%s', got '%s'", tt.expected, summary)
			}
		})
	}
}

// numbered returns "l1".."ln" without the lines listed in skip.
func numbered(n int, skip ...int) string {
	var lines []string
	for i := 1; i <= n; i++ {
		skipped := false
		for _, s := range skip {
			skipped = skipped || s == i
		}
		if !skipped {
			lines = append(lines, fmt.Sprintf("l%d", i))
		}
	}
	return strings.Join(lines, "\n")
}

func TestResult_Hunks(t *testing.T) {
	tests := []struct {
		name     string
		oldText  string
		newText  string
		context  int
		expected []string
	}{
		{
			name:     "separate hunks",
			oldText:  numbered(20),
			newText:  numbered(20, 5, 15),
			context:  3,
			expected: []string{"-2,7 +2,6", "-12,7 +11,6"},
		},
		{
			name:     "overlapping context merges",
			oldText:  numbered(20),
			newText:  numbered(20, 5, 9),
			context:  3,
			expected: []string{"-2,11 +2,9"},
		},
		{
			name:     "touching context merges",
			oldText:  numbered(20),
			newText:  numbered(20, 5, 12),
			context:  3,
			expected: []string{"-2,14 +2,12"},
		},
		{
			name:     "pure insertion without context",
			oldText:  "a\nc",
			newText:  "a\nb\nc",
			context:  0,
			expected: []string{"-1,0 +2,1"},
		},
		{
			name:     "new file",
			oldText:  "",
			newText:  "a\nb\nc",
			context:  3,
			expected: []string{"-0,0 +1,3"},
		},
		{
			name:     "deleted file",
			oldText:  "a\nb\nc",
			newText:  "",
			context:  3,
			expected: []string{"-1,3 +0,0"},
		},
		{
			name:    "no changes",
			oldText: "a\nb",
			newText: "a\nb",
			context: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hunks := compute(tt.oldText, tt.newText).Hunks(tt.context)

			var got []string
			for _, h := range hunks {
				got = append(got, fmt.Sprintf("-%d,%d +%d,%d", h.OldStart, h.OldCount, h.NewStart, h.NewCount))
			}
			if strings.Join(got, " | ") != strings.Join(tt.expected, " | ") {
				t.Errorf("Expected hunks %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestResult_HunksNegativeContext(t *testing.T) {
	hunks := compute("a\nb\nc", "a\nB\nc").Hunks(-1)

	if len(hunks) != 1 {
		t.Fatalf("Expected 1 hunk, got %d", len(hunks))
	}
	if len(hunks[0].Lines) != 2 {
		t.Errorf("Expected only the changed lines, got %d lines", len(hunks[0].Lines))
	}
}

func TestFormatUnified(t *testing.T) {
	r := compute("line1\nline2\nline3", "line1\nmodified\nline3")
	unified := FormatUnified("test.txt", r, 3)

	expected := strings.Join([]string{
		"--- a/test.txt",
		"+++ b/test.txt",
		"@@ -1,3 +1,3 @@",
		" line1",
		"-line2",
		"+modified",
		" line3",
		"",
	}, "\n")

	if unified != expected {
		t.Errorf("Unexpected unified diff:\n%s", unified)
	}
}

func TestFormatUnified_ModifiedLine(t *testing.T) {
	r := compute("x := 1\nfoo BAR baz\ny := 2", "x := 1\nfoo bar baz\ny := 2")
	unified := FormatUnified("m.go", r, 0)

	if !strings.Contains(unified, "@@ -2,1 +2,1 @@\n-foo BAR baz\n+foo bar baz\n") {
		t.Errorf("Modified line not written as removal and addition:\n%s", unified)
	}
}
