// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatch(t *testing.T) {
	patch := Patch("main.go", "a\nb\nc\n", "a\nB\nc\n")

	assert.True(t, strings.HasPrefix(patch, "--- a/main.go\n+++ b/main.go\n"), patch)
	assert.Contains(t, patch, "@@ -1,3 +1,3 @@")
	assert.Contains(t, patch, "-b\n+B\n")
}

func TestPatch_KeepsWhitespaceEdits(t *testing.T) {
	// The aligned view hides this change; the patch must not.
	baseline := "func f() {\n\treturn\n}\n"
	current := "func f() {\n    return\n}\n"

	assert.Equal(t, "No changes", Align(SplitLines(current), baseline).Summary())

	patch := Patch("f.go", baseline, current)
	assert.Contains(t, patch, "-\treturn\n")
	assert.Contains(t, patch, "+    return\n")
}

func TestPatch_Identical(t *testing.T) {
	assert.Empty(t, Patch("same.txt", "x\ny\n", "x\ny\n"))
}
