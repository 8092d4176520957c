// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// =============================================================================
// PATCH EXPORT
// =============================================================================

// Patch returns a byte-exact unified patch from baseline to current, suitable
// for git apply. Unlike FormatUnified it keeps whitespace-only edits and
// annotation suffixes, so callers pass the file content they want to ship.
// Identical inputs produce an empty string.
func Patch(path, baseline, current string) string {
	edits := myers.ComputeEdits(span.URIFromPath(path), baseline, current)
	return fmt.Sprint(gotextdiff.ToUnified("a/"+path, "b/"+path, baseline, edits))
}
