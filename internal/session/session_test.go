// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/chatlore/chatlore-tui/internal/api"
	"github.com/chatlore/chatlore-tui/internal/model"
	"github.com/chatlore/chatlore-tui/internal/repo"
	"github.com/chatlore/chatlore-tui/internal/store"
)

// =============================================================================
// FAKE BACKEND
// =============================================================================

// fakeBackend records calls and serves canned responses.
type fakeBackend struct {
	processResp   *api.ProcessChatResponse
	processErr    error
	analyzeResp   *api.AnalyzeResponse
	analyzeErr    error
	sensitiveResp api.SensitiveDataResponse
	searchResp    []api.SearchResult

	processCalls   int
	analyzeCalls   int
	sensitiveCalls int
	searchCalls    int
}

func (f *fakeBackend) ProcessChat(ctx context.Context, chatText string) (*api.ProcessChatResponse, error) {
	f.processCalls++
	if f.processErr != nil {
		return nil, f.processErr
	}
	return f.processResp, nil
}

func (f *fakeBackend) AnalyzeSecurity(ctx context.Context, msgs []api.Message) (*api.AnalyzeResponse, error) {
	f.analyzeCalls++
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return f.analyzeResp, nil
}

func (f *fakeBackend) SensitiveData(ctx context.Context, msgs []api.Message) (api.SensitiveDataResponse, error) {
	f.sensitiveCalls++
	return f.sensitiveResp, nil
}

func (f *fakeBackend) SemanticSearch(ctx context.Context, req api.SemanticSearchRequest) ([]api.SearchResult, error) {
	f.searchCalls++
	return f.searchResp, nil
}

func newTestRepo(t *testing.T) *repo.Repository {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "chatlore.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return repo.New(st)
}

func singleMessageBackend() *fakeBackend {
	return &fakeBackend{
		processResp: &api.ProcessChatResponse{
			Messages: []api.Message{
				{Timestamp: "2024-01-01T10:00:00", Sender: "Alice", Content: "hello", MessageType: "text"},
			},
			TotalMessages: 1,
			Statistics:    json.RawMessage(`{"senders":["Alice"]}`),
		},
	}
}

// =============================================================================
// UPLOAD
// =============================================================================

func TestUploadChat(t *testing.T) {
	r := newTestRepo(t)
	backend := singleMessageBackend()
	s, err := New(r, backend, nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	chat, err := s.UploadChat(context.Background(), "family.txt", "[1/1/24, 10:00:00] Alice: hello")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if chat.MessageCount != 1 {
		t.Errorf("messageCount = %d", chat.MessageCount)
	}

	// Persisted state matches.
	stored, err := r.Chat(chat.ID)
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	if stored.MessageCount != 1 {
		t.Errorf("stored count = %d", stored.MessageCount)
	}
	msgs, err := r.Messages(chat.ID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Sender != "Alice" || msgs[0].Content != "hello" {
		t.Fatalf("messages = %+v", msgs)
	}

	// Upload selects the new chat and publishes its messages.
	if sel := s.Selected(); sel == nil || sel.ID != chat.ID {
		t.Error("uploaded chat not selected")
	}
	if got := s.Messages(); len(got) != 1 {
		t.Errorf("session messages = %d", len(got))
	}

	// Parser statistics cached as context.
	data, err := s.ParserContext()
	if err != nil {
		t.Fatalf("parser context: %v", err)
	}
	if data != `{"senders":["Alice"]}` {
		t.Errorf("context = %q", data)
	}
}

func TestUploadEmptyTranscript(t *testing.T) {
	r := newTestRepo(t)
	backend := singleMessageBackend()
	s, _ := New(r, backend, nil)

	if _, err := s.UploadChat(context.Background(), "x.txt", ""); !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("err = %v", err)
	}
	if backend.processCalls != 0 {
		t.Error("network call made for empty transcript")
	}
}

func TestUploadBackendFailureKeepsPlaceholder(t *testing.T) {
	r := newTestRepo(t)
	backend := &fakeBackend{processErr: errors.New("backend down")}
	s, _ := New(r, backend, nil)

	_, err := s.UploadChat(context.Background(), "x.txt", "some text")
	if err == nil {
		t.Fatal("expected error")
	}

	// The placeholder row stays with count 0; no messages were written.
	chats, _ := r.AllChats()
	if len(chats) != 1 || chats[0].MessageCount != 0 {
		t.Fatalf("chats = %+v", chats)
	}

	// In-memory state was not updated with the failed upload.
	if s.Selected() != nil {
		t.Error("failed upload was published")
	}
}

// =============================================================================
// STARTUP AND SELECTION
// =============================================================================

func TestEmptyStartup(t *testing.T) {
	r := newTestRepo(t)
	s, err := New(r, &fakeBackend{}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.Selected() != nil {
		t.Error("expected no selection")
	}
	if len(s.Messages()) != 0 {
		t.Error("expected no messages")
	}
}

func TestStartupSelectsMostRecent(t *testing.T) {
	r := newTestRepo(t)
	older := model.NewChat("older.txt")
	older.UploadDate = time.Now().Add(-time.Hour)
	newer := model.NewChat("newer.txt")
	if err := r.SaveChat(older); err != nil {
		t.Fatal(err)
	}
	if err := r.SaveChat(newer); err != nil {
		t.Fatal(err)
	}

	s, err := New(r, &fakeBackend{}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if sel := s.Selected(); sel == nil || sel.ID != newer.ID {
		t.Errorf("selected = %+v, want most recent", sel)
	}
}

func TestSelectChatLoadsState(t *testing.T) {
	r := newTestRepo(t)
	a := model.NewChat("a.txt")
	b := model.NewChat("b.txt")
	b.UploadDate = a.UploadDate.Add(-time.Hour)
	for _, c := range []*model.Chat{a, b} {
		if err := r.SaveChat(c); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.SaveMessages([]*model.Message{
		model.NewMessage(b.ID, "bob", "in b", model.TypeText, time.Now()),
	}); err != nil {
		t.Fatal(err)
	}
	if err := r.SaveSecurityAnalysis(model.NewSecurityAnalysis(b.ID, 55, nil, nil)); err != nil {
		t.Fatal(err)
	}

	s, _ := New(r, &fakeBackend{}, nil)
	notified := 0
	s.Subscribe(func() { notified++ })

	if err := s.SelectChat(b.ID); err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel := s.Selected(); sel == nil || sel.ID != b.ID {
		t.Error("selection not switched")
	}
	if msgs := s.Messages(); len(msgs) != 1 || msgs[0].Content != "in b" {
		t.Errorf("messages = %+v", msgs)
	}
	if a := s.Analysis(); a == nil || a.SecurityScore != 55 {
		t.Errorf("analysis = %+v", a)
	}
	if notified != 1 {
		t.Errorf("notified %d times", notified)
	}
}

func TestSelectUnknownChat(t *testing.T) {
	r := newTestRepo(t)
	s, _ := New(r, &fakeBackend{}, nil)
	if err := s.SelectChat("missing"); !errors.Is(err, repo.ErrChatNotFound) {
		t.Fatalf("err = %v", err)
	}
}

// =============================================================================
// REFRESH ANALYSIS
// =============================================================================

func TestRefreshAnalysisNoMessages(t *testing.T) {
	r := newTestRepo(t)
	c := model.NewChat("empty.txt")
	if err := r.SaveChat(c); err != nil {
		t.Fatal(err)
	}
	backend := &fakeBackend{}
	s, _ := New(r, backend, nil)

	err := s.RefreshAnalysis(context.Background())
	if !errors.Is(err, ErrNoMessages) {
		t.Fatalf("err = %v, want ErrNoMessages", err)
	}
	if backend.analyzeCalls != 0 || backend.sensitiveCalls != 0 {
		t.Error("network call made despite no cached messages")
	}
}

func TestRefreshAnalysisReplacesCachedResults(t *testing.T) {
	r := newTestRepo(t)
	backend := singleMessageBackend()
	backend.analyzeResp = &api.AnalyzeResponse{
		SecurityScore: 42,
		TotalFindings: 1,
		Findings:      []api.WireFinding{{Type: "phishing_link", RiskLevel: "high"}},
	}
	backend.sensitiveResp = api.SensitiveDataResponse{
		"Phone Numbers": {"+1 555 0100"},
	}
	s, _ := New(r, backend, nil)

	chat, err := s.UploadChat(context.Background(), "x.txt", "text")
	if err != nil {
		t.Fatal(err)
	}

	// Pre-existing items that a refresh must replace, not extend.
	if err := r.ReplaceSensitiveData(chat.ID, []*model.SensitiveDataItem{
		model.NewSensitiveDataItem(chat.ID, "Email Addresses", []string{"old@example.com"}),
	}); err != nil {
		t.Fatal(err)
	}

	if err := s.RefreshAnalysis(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if a := s.Analysis(); a == nil || a.SecurityScore != 42 {
		t.Errorf("analysis = %+v", a)
	}
	items := s.SensitiveItems()
	if len(items) != 1 || items[0].Type != "Phone Numbers" {
		t.Fatalf("items = %+v, want old rows replaced", items)
	}

	// Second refresh stays at one item set.
	if err := s.RefreshAnalysis(context.Background()); err != nil {
		t.Fatal(err)
	}
	stored, _ := r.SensitiveData(chat.ID)
	if len(stored) != 1 {
		t.Errorf("stored items = %d, refresh accumulated", len(stored))
	}
}

func TestRefreshAnalysisBackendFailurePreservesState(t *testing.T) {
	r := newTestRepo(t)
	backend := singleMessageBackend()
	backend.analyzeResp = &api.AnalyzeResponse{SecurityScore: 90}
	backend.sensitiveResp = api.SensitiveDataResponse{}
	s, _ := New(r, backend, nil)

	if _, err := s.UploadChat(context.Background(), "x.txt", "text"); err != nil {
		t.Fatal(err)
	}
	if err := s.RefreshAnalysis(context.Background()); err != nil {
		t.Fatal(err)
	}

	backend.analyzeErr = errors.New("analyzer down")
	if err := s.RefreshAnalysis(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if a := s.Analysis(); a == nil || a.SecurityScore != 90 {
		t.Errorf("published state changed on failure: %+v", a)
	}
}

// =============================================================================
// DELETE
// =============================================================================

func TestDeleteSelectedChatSelectsRemaining(t *testing.T) {
	r := newTestRepo(t)
	backend := singleMessageBackend()
	s, _ := New(r, backend, nil)

	first, err := s.UploadChat(context.Background(), "first.txt", "text")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.UploadChat(context.Background(), "second.txt", "text")
	if err != nil {
		t.Fatal(err)
	}
	if sel := s.Selected(); sel.ID != second.ID {
		t.Fatal("second upload not selected")
	}

	if err := s.DeleteChat(second.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	sel := s.Selected()
	if sel == nil || sel.ID != first.ID {
		t.Errorf("selected = %+v, want remaining chat", sel)
	}
	if msgs := s.Messages(); len(msgs) != 1 {
		t.Errorf("remaining chat messages not loaded: %d", len(msgs))
	}
}

func TestDeleteLastChatClearsState(t *testing.T) {
	r := newTestRepo(t)
	backend := singleMessageBackend()
	s, _ := New(r, backend, nil)

	chat, err := s.UploadChat(context.Background(), "only.txt", "text")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteChat(chat.ID); err != nil {
		t.Fatal(err)
	}
	if s.Selected() != nil {
		t.Error("expected cleared selection")
	}
	if len(s.Messages()) != 0 || s.Analysis() != nil || len(s.SensitiveItems()) != 0 {
		t.Error("expected cleared chat state")
	}
}

func TestDeleteUnselectedChatKeepsSelection(t *testing.T) {
	r := newTestRepo(t)
	backend := singleMessageBackend()
	s, _ := New(r, backend, nil)

	first, _ := s.UploadChat(context.Background(), "first.txt", "text")
	second, _ := s.UploadChat(context.Background(), "second.txt", "text")

	if err := s.DeleteChat(first.ID); err != nil {
		t.Fatal(err)
	}
	if sel := s.Selected(); sel == nil || sel.ID != second.ID {
		t.Errorf("selection moved: %+v", sel)
	}
}

// =============================================================================
// RELOAD
// =============================================================================

func TestReloadPicksUpExternalChats(t *testing.T) {
	r := newTestRepo(t)
	backend := singleMessageBackend()
	s, _ := New(r, backend, nil)

	mine, err := s.UploadChat(context.Background(), "mine.txt", "text")
	if err != nil {
		t.Fatal(err)
	}

	// Another process writes a chat the session has never seen.
	other := model.NewChat("elsewhere.txt")
	other.UploadDate = mine.UploadDate.Add(-time.Hour)
	if err := r.SaveChat(other); err != nil {
		t.Fatal(err)
	}

	notified := 0
	s.Subscribe(func() { notified++ })

	if err := s.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if chats := s.Chats(); len(chats) != 2 {
		t.Errorf("chats = %d, external chat not picked up", len(chats))
	}
	if sel := s.Selected(); sel == nil || sel.ID != mine.ID {
		t.Errorf("selection changed across reload: %+v", sel)
	}
	if notified != 1 {
		t.Errorf("notified %d times", notified)
	}
}

func TestReloadReselectsWhenSelectedChatVanishes(t *testing.T) {
	r := newTestRepo(t)
	backend := singleMessageBackend()
	s, _ := New(r, backend, nil)

	first, _ := s.UploadChat(context.Background(), "first.txt", "text")
	second, _ := s.UploadChat(context.Background(), "second.txt", "text")

	// The selected chat disappears behind the session's back.
	if err := r.DeleteChat(second.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if sel := s.Selected(); sel == nil || sel.ID != first.ID {
		t.Errorf("selected = %+v, want remaining chat", sel)
	}
	if msgs := s.Messages(); len(msgs) != 1 {
		t.Errorf("remaining chat messages not loaded: %d", len(msgs))
	}

	if err := r.DeleteChat(first.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if s.Selected() != nil {
		t.Error("expected cleared selection after all chats vanished")
	}
}

// =============================================================================
// SEARCH AND CONTEXT
// =============================================================================

func TestSearchRequiresMessages(t *testing.T) {
	r := newTestRepo(t)
	backend := &fakeBackend{}
	s, _ := New(r, backend, nil)

	if _, err := s.Search(context.Background(), "hello", 5); !errors.Is(err, ErrNoChatSelected) {
		t.Fatalf("err = %v", err)
	}

	c := model.NewChat("empty.txt")
	if err := r.SaveChat(c); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectChat(c.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Search(context.Background(), "hello", 5); !errors.Is(err, ErrNoMessages) {
		t.Fatalf("err = %v", err)
	}
	if backend.searchCalls != 0 {
		t.Error("network call made with no messages")
	}
}

func TestSearchForwardsResults(t *testing.T) {
	r := newTestRepo(t)
	backend := singleMessageBackend()
	backend.searchResp = []api.SearchResult{
		{Message: api.Message{Sender: "Alice", Content: "hello"}, Similarity: 0.88},
	}
	s, _ := New(r, backend, nil)
	if _, err := s.UploadChat(context.Background(), "x.txt", "text"); err != nil {
		t.Fatal(err)
	}

	results, err := s.Search(context.Background(), "greeting", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Similarity != 0.88 {
		t.Fatalf("results = %+v", results)
	}
}

func TestContextDataIdempotentRead(t *testing.T) {
	r := newTestRepo(t)
	backend := singleMessageBackend()
	s, _ := New(r, backend, nil)
	if _, err := s.UploadChat(context.Background(), "x.txt", "text"); err != nil {
		t.Fatal(err)
	}

	if err := s.SaveContextData("summary", `{"tone":"warm"}`); err != nil {
		t.Fatal(err)
	}
	first, err := s.ContextData("summary")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.ContextData("summary")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("reads differ: %q vs %q", first, second)
	}
}
