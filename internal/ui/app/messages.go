// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/jeranaias/notate/internal/annotation"
	"github.com/jeranaias/notate/internal/diff"
	"github.com/jeranaias/notate/internal/filetree"
	"github.com/jeranaias/notate/internal/review"
	"github.com/jeranaias/notate/internal/vcs"
)

// fileLoadedMsg carries a document, its baseline and their diff.
type fileLoadedMsg struct {
	path        string
	doc         *annotation.Document
	baseline    string
	tracked     bool // baseline found in HEAD
	result      diff.Result
	verdict     *review.Entry
	err         error
	baselineErr error
}

// treeLoadedMsg carries a rebuilt file tree.
type treeLoadedMsg struct {
	tree *filetree.Tree
	err  error
}

// statusLoadedMsg carries git status for the tree markers.
type statusLoadedMsg struct {
	status map[string]vcs.FileStatus
	err    error
}

// verdictsLoadedMsg carries all stored review verdicts.
type verdictsLoadedMsg struct {
	verdicts map[string]review.Verdict
	err      error
}

// verdictSavedMsg reports the result of approving or rejecting a file.
type verdictSavedMsg struct {
	path    string
	verdict review.Verdict
	err     error
}

// filesChangedMsg is a debounced batch of changed paths from the watcher.
type filesChangedMsg struct {
	paths []string
}

// watcherStartedMsg carries a running watcher.
type watcherStartedMsg struct {
	watcher *filetree.Watcher
	err     error
}

// watcherClosedMsg is sent once the watcher stops.
type watcherClosedMsg struct{}
