// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/chatlore/chatlore-tui/internal/model"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func msg(chatID, sender, content string) *model.Message {
	return model.NewMessage(chatID, sender, content, model.TypeText, time.Now())
}

func TestIndexAndSearch(t *testing.T) {
	idx := newTestIndex(t)

	if err := idx.IndexChat("chat-1", []*model.Message{
		msg("chat-1", "alice", "let's get dinner tonight"),
		msg("chat-1", "bob", "sure, pizza works"),
		msg("chat-1", "alice", "meeting moved to thursday"),
	}); err != nil {
		t.Fatalf("index: %v", err)
	}

	hits, err := idx.Search("dinner", "", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Sender != "alice" {
		t.Fatalf("hits = %+v", hits)
	}
}

func TestSearchScopedToChat(t *testing.T) {
	idx := newTestIndex(t)
	if err := idx.IndexChat("chat-1", []*model.Message{msg("chat-1", "alice", "dinner plans")}); err != nil {
		t.Fatal(err)
	}
	if err := idx.IndexChat("chat-2", []*model.Message{msg("chat-2", "carol", "dinner reservation")}); err != nil {
		t.Fatal(err)
	}

	hits, err := idx.Search("dinner", "chat-2", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].ChatID != "chat-2" {
		t.Fatalf("hits = %+v", hits)
	}

	all, err := idx.Search("dinner", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("unscoped hits = %d", len(all))
	}
}

func TestReindexReplaces(t *testing.T) {
	idx := newTestIndex(t)
	if err := idx.IndexChat("chat-1", []*model.Message{msg("chat-1", "alice", "old content")}); err != nil {
		t.Fatal(err)
	}
	if err := idx.IndexChat("chat-1", []*model.Message{msg("chat-1", "alice", "new content")}); err != nil {
		t.Fatal(err)
	}

	if hits, _ := idx.Search("old", "", 0); len(hits) != 0 {
		t.Errorf("stale rows survived reindex: %+v", hits)
	}
	if hits, _ := idx.Search("new", "", 0); len(hits) != 1 {
		t.Errorf("fresh rows missing: %+v", hits)
	}
}

func TestDeleteChatPrunes(t *testing.T) {
	idx := newTestIndex(t)
	if err := idx.IndexChat("chat-1", []*model.Message{msg("chat-1", "alice", "hello world")}); err != nil {
		t.Fatal(err)
	}
	if err := idx.DeleteChat("chat-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, _ := idx.Count("chat-1"); n != 0 {
		t.Errorf("count = %d after delete", n)
	}
	if hits, _ := idx.Search("hello", "", 0); len(hits) != 0 {
		t.Errorf("hits after delete: %+v", hits)
	}
}

func TestSystemAndEmptyMessagesSkipped(t *testing.T) {
	idx := newTestIndex(t)
	system := msg("chat-1", "system", "Messages and calls are end-to-end encrypted")
	system.IsSystemMessage = true
	empty := msg("chat-1", "alice", "")

	if err := idx.IndexChat("chat-1", []*model.Message{system, empty, msg("chat-1", "bob", "real text")}); err != nil {
		t.Fatal(err)
	}
	n, err := idx.Count("chat-1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("indexed %d messages, want 1", n)
	}
}

func TestQueryOperatorsQuoted(t *testing.T) {
	idx := newTestIndex(t)
	if err := idx.IndexChat("chat-1", []*model.Message{msg("chat-1", "alice", "match AND operators literally")}); err != nil {
		t.Fatal(err)
	}

	// FTS5 syntax in user input must not cause a query error.
	if _, err := idx.Search(`"unbalanced quote`, "", 0); err != nil {
		t.Errorf("quoted input errored: %v", err)
	}
	if _, err := idx.Search("NEAR(x y)", "", 0); err != nil {
		t.Errorf("operator input errored: %v", err)
	}
}

func TestEmptyQuery(t *testing.T) {
	idx := newTestIndex(t)
	hits, err := idx.Search("   ", "", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if hits != nil {
		t.Errorf("hits = %+v", hits)
	}
}

func TestClosedIndex(t *testing.T) {
	idx := newTestIndex(t)
	idx.Close()
	if err := idx.IndexChat("chat-1", nil); err != ErrClosed {
		t.Errorf("err = %v", err)
	}
	if _, err := idx.Search("x", "", 0); err != ErrClosed {
		t.Errorf("err = %v", err)
	}
}
