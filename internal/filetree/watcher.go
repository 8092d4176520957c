// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package filetree

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is used when the watcher is created with a zero debounce.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports changed paths below a root in debounced batches.
type Watcher struct {
	root     string
	ignore   []string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	pending map[string]time.Time // path -> last change time

	events chan []string
	ctx    context.Context
	cancel context.CancelFunc
	done   sync.WaitGroup
	once   sync.Once
}

// NewWatcher registers root and every non-ignored directory below it and
// starts delivering batches.
func NewWatcher(root string, ignore []string, debounce time.Duration, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		root:     root,
		ignore:   ignore,
		watcher:  fsw,
		debounce: debounce,
		log:      log,
		pending:  make(map[string]time.Time),
		events:   make(chan []string, 1),
		ctx:      ctx,
		cancel:   cancel,
	}

	if err := w.addRecursive(root); err != nil {
		cancel()
		fsw.Close()
		return nil, err
	}

	w.done.Add(2)
	go w.processEvents()
	go w.processPending()

	return w, nil
}

// Events delivers sorted batches of changed paths. The channel is closed by
// Close.
func (w *Watcher) Events() <-chan []string {
	return w.events
}

// addRecursive adds a directory and all its subdirectories to the watch list.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && Ignored(d.Name(), w.ignore) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.log.Debug().Err(err).Str("dir", path).Msg("watch failed")
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	defer w.done.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if Ignored(filepath.Base(event.Name), w.ignore) {
				continue
			}
			if event.Op == fsnotify.Chmod {
				continue
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.log.Debug().Err(err).Str("dir", event.Name).Msg("watch new directory failed")
					}
				}
			}

			w.mu.Lock()
			w.pending[event.Name] = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// processPending flushes paths that have been quiet for the debounce period.
func (w *Watcher) processPending() {
	defer w.done.Done()

	tick := w.debounce / 3
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			batch := w.flush(time.Now())
			if len(batch) == 0 {
				continue
			}
			select {
			case w.events <- batch:
			case <-w.ctx.Done():
				return
			}
		}
	}
}

// flush removes and returns the settled paths. A path is only settled once
// every pending path is quiet, so a burst becomes one batch.
func (w *Watcher) flush(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, changed := range w.pending {
		if now.Sub(changed) < w.debounce {
			return nil
		}
	}

	batch := make([]string, 0, len(w.pending))
	for path := range w.pending {
		batch = append(batch, path)
	}
	clear(w.pending)
	sort.Strings(batch)
	return batch
}

// Close stops watching and closes the Events channel.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		err = w.watcher.Close()
		w.done.Wait()
		close(w.events)
	})
	return err
}
