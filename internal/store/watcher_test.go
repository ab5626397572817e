// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// EXTERNAL CHANGE WATCHER TESTS
// =============================================================================

func TestWatcher_ReloadsOnExternalWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatlore-db.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.SetRow(TableChats, "chat1", Row{"name": "original"}); err != nil {
		t.Fatalf("SetRow failed: %v", err)
	}

	reloaded := make(chan struct{}, 1)
	w, err := s.Watch(func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	// Wait out the self-write window so the rewrite below is attributed
	// to another process, not to our own SetRow above.
	time.Sleep(selfWriteWindow + 100*time.Millisecond)

	doc := map[string]map[string]Row{
		TableChats: {"chat2": {"name": "written elsewhere"}},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("external write failed: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload after an external write")
	}

	if _, ok := s.Row(TableChats, "chat2"); !ok {
		t.Error("externally written row not visible after reload")
	}
	if _, ok := s.Row(TableChats, "chat1"); ok {
		t.Error("reload should replace the snapshot, old row survived")
	}
}

func TestWatcher_IgnoresOwnWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatlore-db.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	reloaded := make(chan struct{}, 1)
	w, err := s.Watch(func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	if err := s.SetRow(TableChats, "chat1", Row{"name": "ours"}); err != nil {
		t.Fatalf("SetRow failed: %v", err)
	}

	select {
	case <-reloaded:
		t.Fatal("watcher reloaded on the store's own persist")
	case <-time.After(debounceDelay + 300*time.Millisecond):
	}

	if _, ok := s.Row(TableChats, "chat1"); !ok {
		t.Error("own write lost")
	}
}
