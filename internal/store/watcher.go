// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// EXTERNAL CHANGE WATCHER
// =============================================================================

// selfWriteWindow is how long after our own persist a change event on the
// document is attributed to us rather than to another process.
const selfWriteWindow = 500 * time.Millisecond

// debounceDelay batches rapid successive change events (editors and other
// writers often produce several per rewrite).
const debounceDelay = 200 * time.Millisecond

// Watcher reloads the store snapshot when another process rewrites the
// document. The store's write model is last-writer-wins across processes;
// the watcher makes that visible instead of letting the next local write
// silently clobber external changes.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	onReload func()
	done     chan struct{}
}

// Watch starts watching the store document for external rewrites.
// onReload, if non-nil, runs after the in-memory snapshot has been
// replaced. Close the returned watcher to stop.
func (s *Store) Watch(onReload func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: the atomic rename used for
	// persistence replaces the inode, which breaks per-file watches.
	if err := fw.Add(filepath.Dir(s.path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		store:    s,
		watcher:  fw,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	var debounce *time.Timer
	target := filepath.Clean(w.store.path)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if w.isSelfWrite() {
				continue
			}

			// Debounce: reload once after the burst settles
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("store: watch error: %v", err)
		}
	}
}

// isSelfWrite reports whether the latest change is within the window of
// our own most recent persist.
func (w *Watcher) isSelfWrite() bool {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	last := time.Unix(0, w.store.lastPersist)
	return time.Since(last) < selfWriteWindow
}

func (w *Watcher) reload() {
	w.store.mu.Lock()
	err := w.store.reloadLocked()
	w.store.mu.Unlock()

	if err != nil {
		log.Printf("store: reload after external change failed: %v", err)
		return
	}
	log.Printf("store: document changed externally, snapshot reloaded (last writer wins)")

	if w.onReload != nil {
		w.onReload()
	}
}
