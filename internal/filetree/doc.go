// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package filetree builds the browsable file tree of a project and watches
// it for changes.
//
// A Tree flattens the expanded part of the node hierarchy into Visible
// entries for the TUI. The Watcher batches filesystem events so that a burst
// of saves triggers a single re-diff.
package filetree
