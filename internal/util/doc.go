// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across notate.
//
// # Key Functions
//
// Display Width:
//   - StringWidth: Terminal cell width of a string (CJK aware)
//   - TruncateWidth, PadWidth: Fit text into a column
//   - ExpandTabs: Tab expansion that keeps tab stops across segments
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//   - RewriteFile: Atomic rewrite keeping the existing permissions
//
// # Usage
//
//	// Fit a file name into the tree pane
//	name := util.PadWidth(entry.Name, 24)
//
//	// Save an annotated file without risking a torn write
//	err := util.RewriteFile(path, data)
package util
