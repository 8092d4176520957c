// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package review persists per-file review verdicts in a local SQLite database.
//
// Only the verdict is stored, keyed by absolute path together with a hash of
// the content that was reviewed. Diff results are always recomputed.
package review
