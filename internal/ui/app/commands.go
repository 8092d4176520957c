// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rs/zerolog"

	"github.com/jeranaias/notate/internal/annotation"
	"github.com/jeranaias/notate/internal/diff"
	"github.com/jeranaias/notate/internal/filetree"
	"github.com/jeranaias/notate/internal/review"
	"github.com/jeranaias/notate/internal/vcs"
)

// gitTimeout bounds every git invocation made from the UI.
const gitTimeout = 5 * time.Second

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// loadFileCmd reads path, resolves its HEAD baseline and aligns the two.
func loadFileCmd(path string, opts annotation.LoadOptions, provider vcs.Provider, store *review.Store) tea.Cmd {
	return func() tea.Msg {
		msg := fileLoadedMsg{path: path}

		doc, err := annotation.Load(path, opts)
		if err != nil {
			msg.err = err
			return msg
		}
		msg.doc = doc

		if provider != nil {
			ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
			msg.baseline, msg.tracked, msg.baselineErr = vcs.ResolveBaseline(ctx, provider, path)
			cancel()
		}
		msg.result = diff.Align(doc.Stripped(), msg.baseline)

		if store != nil {
			entry, err := store.Get(context.Background(), path)
			if err == nil {
				msg.verdict = &entry
			}
		}
		return msg
	}
}

// buildTreeCmd scans root into a fresh tree.
func buildTreeCmd(root string, opts filetree.Options) tea.Cmd {
	return func() tea.Msg {
		node, err := filetree.Build(root, opts)
		if err != nil {
			return treeLoadedMsg{err: err}
		}
		return treeLoadedMsg{tree: filetree.NewTree(node)}
	}
}

// StatusSource reports the working tree status of a repository.
type StatusSource interface {
	Status(ctx context.Context) (map[string]vcs.FileStatus, error)
}

// loadStatusCmd fetches git status. Outside a repository the result is an
// empty map rather than an error.
func loadStatusCmd(src StatusSource) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
		defer cancel()

		status, err := src.Status(ctx)
		if errors.Is(err, vcs.ErrNoRepository) {
			return statusLoadedMsg{status: map[string]vcs.FileStatus{}}
		}
		return statusLoadedMsg{status: status, err: err}
	}
}

// loadVerdictsCmd reads every stored verdict.
func loadVerdictsCmd(store *review.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := store.List(context.Background())
		if err != nil {
			return verdictsLoadedMsg{err: err}
		}
		verdicts := make(map[string]review.Verdict, len(entries))
		for _, e := range entries {
			verdicts[e.Path] = e.Verdict
		}
		return verdictsLoadedMsg{verdicts: verdicts}
	}
}

// markCmd records a verdict for the content identified by hash.
func markCmd(store *review.Store, path, hash string, verdict review.Verdict) tea.Cmd {
	return func() tea.Msg {
		err := store.Mark(context.Background(), review.Entry{
			Path:        path,
			ContentHash: hash,
			Verdict:     verdict,
		})
		return verdictSavedMsg{path: path, verdict: verdict, err: err}
	}
}

// waitForChangesCmd blocks until the watcher delivers the next batch.
func waitForChangesCmd(w *filetree.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		paths, ok := <-w.Events()
		if !ok {
			return watcherClosedMsg{}
		}
		return filesChangedMsg{paths: paths}
	}
}

// startWatcherCmd starts watching root for changes.
func startWatcherCmd(root string, ignore []string, debounce time.Duration, log zerolog.Logger) tea.Cmd {
	return func() tea.Msg {
		w, err := filetree.NewWatcher(root, ignore, debounce, log)
		return watcherStartedMsg{watcher: w, err: err}
	}
}
