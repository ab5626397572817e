// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"

	"github.com/chatlore/chatlore-tui/internal/api"
	"github.com/chatlore/chatlore-tui/internal/model"
	"github.com/chatlore/chatlore-tui/internal/repo"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoChatSelected is returned by operations that need a selected chat.
	ErrNoChatSelected = errors.New("no chat selected")

	// ErrNoMessages is returned by RefreshAnalysis and Search before any
	// network call when the selected chat has no cached messages.
	ErrNoMessages = errors.New("no messages available for analysis")

	// ErrEmptyTranscript is returned by UploadChat for an empty transcript.
	ErrEmptyTranscript = errors.New("transcript is empty")
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Backend is the slice of the api client the session needs. *api.Client
// satisfies it; tests substitute fakes.
type Backend interface {
	ProcessChat(ctx context.Context, chatText string) (*api.ProcessChatResponse, error)
	AnalyzeSecurity(ctx context.Context, msgs []api.Message) (*api.AnalyzeResponse, error)
	SensitiveData(ctx context.Context, msgs []api.Message) (api.SensitiveDataResponse, error)
	SemanticSearch(ctx context.Context, req api.SemanticSearchRequest) ([]api.SearchResult, error)
}

// Indexer receives message sets for local search indexing. Index failures
// are logged, never fatal; the index is a convenience layer.
type Indexer interface {
	IndexChat(chatID string, msgs []*model.Message) error
	DeleteChat(chatID string) error
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the single source of truth for application state.
type Session struct {
	// opMu serializes mutating operations end to end. Held across
	// network calls so two uploads can never interleave their writes.
	opMu sync.Mutex

	// mu guards the state fields below. Held only for field access,
	// never across I/O.
	mu sync.Mutex

	repo    *repo.Repository
	backend Backend
	index   Indexer

	chats      []*model.Chat
	selectedID string
	messages   []*model.Message
	analysis   *model.SecurityAnalysis
	sensitive  []*model.SensitiveDataItem

	onChange func()
}

// Options configures optional session collaborators.
type Options struct {
	// Index enables local search indexing when non-nil.
	Index Indexer
}

// New creates a session, loads the chat list, and auto-selects the most
// recently uploaded chat when one exists.
func New(r *repo.Repository, backend Backend, opts *Options) (*Session, error) {
	s := &Session{
		repo:    r,
		backend: backend,
	}
	if opts != nil {
		s.index = opts.Index
	}

	chats, err := r.AllChats()
	if err != nil {
		return nil, err
	}
	s.chats = chats
	if len(chats) > 0 {
		if err := s.loadChatState(chats[0].ID); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Subscribe registers the change callback. The callback fires after every
// published state change, outside the session locks, so it may call the
// accessors freely. Only one subscriber is supported; the TUI owns it.
func (s *Session) Subscribe(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Chats returns the current chat list, most recent first.
func (s *Session) Chats() []*model.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Chat, len(s.chats))
	copy(out, s.chats)
	return out
}

// Selected returns the selected chat, or nil when none is selected.
func (s *Session) Selected() *model.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findChatLocked(s.selectedID)
}

func (s *Session) findChatLocked(id string) *model.Chat {
	if id == "" {
		return nil
	}
	for _, c := range s.chats {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Messages returns the selected chat's messages in timestamp order.
func (s *Session) Messages() []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Analysis returns the selected chat's cached security analysis, or nil
// when the chat has not been analyzed.
func (s *Session) Analysis() *model.SecurityAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis
}

// SensitiveItems returns the selected chat's cached sensitive data items.
func (s *Session) SensitiveItems() []*model.SensitiveDataItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.SensitiveDataItem, len(s.sensitive))
	copy(out, s.sensitive)
	return out
}

// =============================================================================
// CHAT STATE LOADING
// =============================================================================

// loadChatState reads everything the UI shows for a chat and publishes it
// in one step. Nothing is assigned until every read has succeeded.
func (s *Session) loadChatState(chatID string) error {
	msgs, err := s.repo.Messages(chatID)
	if err != nil {
		return err
	}
	analysis, err := s.repo.SecurityAnalysis(chatID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	sensitive, err := s.repo.SensitiveData(chatID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.selectedID = chatID
	s.messages = msgs
	s.analysis = analysis
	s.sensitive = sensitive
	s.mu.Unlock()
	return nil
}

func (s *Session) clearSelection() {
	s.mu.Lock()
	s.selectedID = ""
	s.messages = nil
	s.analysis = nil
	s.sensitive = nil
	s.mu.Unlock()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// SelectChat loads a chat's cached state and makes it the selection.
// On read failure the previous selection stays published.
func (s *Session) SelectChat(chatID string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if _, err := s.repo.Chat(chatID); err != nil {
		return err
	}
	if err := s.loadChatState(chatID); err != nil {
		return err
	}
	s.notify()
	return nil
}

// UploadChat sends a raw transcript through the parsing backend and
// caches the result as a new chat, which becomes the selection.
//
// The placeholder chat row is written before the network call, matching
// the persisted-first ordering the rest of the app relies on. If the
// backend fails, the placeholder remains with message count 0 and the
// error propagates; no local rollback.
func (s *Session) UploadChat(ctx context.Context, name, chatText string) (*model.Chat, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if chatText == "" {
		return nil, ErrEmptyTranscript
	}

	chat := model.NewChat(name)
	if err := s.repo.SaveChat(chat); err != nil {
		return nil, err
	}

	parsed, err := s.backend.ProcessChat(ctx, chatText)
	if err != nil {
		return nil, err
	}

	msgs := make([]*model.Message, len(parsed.Messages))
	for i, wm := range parsed.Messages {
		msgs[i] = wm.ToModel(chat.ID)
	}
	if err := s.repo.SaveMessages(msgs); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateMessageCount(chat.ID, len(msgs)); err != nil {
		return nil, err
	}
	chat.MessageCount = len(msgs)

	// Parser statistics become the chat's parser context, stored verbatim.
	if len(parsed.Statistics) > 0 {
		cd := model.NewContextData(chat.ID, "parser", string(parsed.Statistics))
		if err := s.repo.SaveContextData(cd); err != nil {
			return nil, err
		}
	}

	s.indexChat(chat.ID, msgs)

	if err := s.reloadChatsLocked(); err != nil {
		return nil, err
	}
	if err := s.loadChatState(chat.ID); err != nil {
		return nil, err
	}
	s.notify()
	return chat, nil
}

// DeleteChat removes a chat and everything cached for it. When the
// selected chat is deleted, the most recent remaining chat is selected,
// or the session returns to its initial empty state.
func (s *Session) DeleteChat(chatID string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.repo.DeleteChat(chatID); err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.DeleteChat(chatID); err != nil {
			log.Printf("warning: failed to prune search index for chat %s: %v", chatID, err)
		}
	}
	if err := s.reloadChatsLocked(); err != nil {
		return err
	}

	s.mu.Lock()
	wasSelected := s.selectedID == chatID
	var next string
	if wasSelected && len(s.chats) > 0 {
		next = s.chats[0].ID
	}
	s.mu.Unlock()

	if wasSelected {
		if next != "" {
			if err := s.loadChatState(next); err != nil {
				return err
			}
		} else {
			s.clearSelection()
		}
	}
	s.notify()
	return nil
}

// Reload re-reads the chat list and the selected chat's state from the
// repository. Called after the store document has been replaced on disk
// by another process; the selection survives when its chat still exists,
// otherwise the most recent remaining chat takes over.
func (s *Session) Reload() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.reloadChatsLocked(); err != nil {
		return err
	}

	s.mu.Lock()
	selected := s.findChatLocked(s.selectedID)
	var next string
	if selected == nil && len(s.chats) > 0 {
		next = s.chats[0].ID
	}
	s.mu.Unlock()

	switch {
	case selected != nil:
		if err := s.loadChatState(selected.ID); err != nil {
			return err
		}
	case next != "":
		if err := s.loadChatState(next); err != nil {
			return err
		}
	default:
		s.clearSelection()
	}
	s.notify()
	return nil
}

// RefreshAnalysis re-runs security analysis and sensitive data extraction
// for the selected chat, replacing the cached results. Fails with
// ErrNoMessages before any network call when nothing is cached.
func (s *Session) RefreshAnalysis(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	chatID := s.selectedID
	msgs := s.messages
	s.mu.Unlock()

	if chatID == "" {
		return ErrNoChatSelected
	}
	if len(msgs) == 0 {
		return ErrNoMessages
	}

	wire := api.FromModels(msgs)

	resp, err := s.backend.AnalyzeSecurity(ctx, wire)
	if err != nil {
		return err
	}
	analysis := resp.ToModel(chatID)

	detected, err := s.backend.SensitiveData(ctx, wire)
	if err != nil {
		return err
	}
	items := sensitiveItems(chatID, detected)

	if err := s.repo.SaveSecurityAnalysis(analysis); err != nil {
		return err
	}
	if err := s.repo.ReplaceSensitiveData(chatID, items); err != nil {
		return err
	}

	s.mu.Lock()
	if s.selectedID == chatID {
		s.analysis = analysis
		s.sensitive = items
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// sensitiveItems converts the backend's category map into stored items,
// in deterministic category order.
func sensitiveItems(chatID string, detected api.SensitiveDataResponse) []*model.SensitiveDataItem {
	categories := make([]string, 0, len(detected))
	for cat := range detected {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	items := make([]*model.SensitiveDataItem, 0, len(categories))
	for _, cat := range categories {
		if len(detected[cat]) == 0 {
			continue
		}
		items = append(items, model.NewSensitiveDataItem(chatID, cat, detected[cat]))
	}
	return items
}

// Search runs a remote semantic search over the selected chat's messages.
func (s *Session) Search(ctx context.Context, query string, limit int) ([]api.SearchResult, error) {
	s.mu.Lock()
	chatID := s.selectedID
	msgs := s.messages
	s.mu.Unlock()

	if chatID == "" {
		return nil, ErrNoChatSelected
	}
	if len(msgs) == 0 {
		return nil, ErrNoMessages
	}

	return s.backend.SemanticSearch(ctx, api.SemanticSearchRequest{
		Query:    query,
		Messages: api.FromModels(msgs),
		Limit:    limit,
	})
}

// =============================================================================
// PARSER CONTEXT
// =============================================================================

// ParserContext returns the raw parser context blob for the selected
// chat, or repo.ErrNotFound when none is cached.
func (s *Session) ParserContext() (string, error) {
	return s.ContextData("parser")
}

// ContextData returns the raw context blob of the given type for the
// selected chat.
func (s *Session) ContextData(typ string) (string, error) {
	s.mu.Lock()
	chatID := s.selectedID
	s.mu.Unlock()
	if chatID == "" {
		return "", ErrNoChatSelected
	}
	cd, err := s.repo.ContextData(chatID, typ)
	if err != nil {
		return "", err
	}
	return cd.Data, nil
}

// SaveContextData upserts a context blob of the given type for the
// selected chat.
func (s *Session) SaveContextData(typ, data string) error {
	s.mu.Lock()
	chatID := s.selectedID
	s.mu.Unlock()
	if chatID == "" {
		return ErrNoChatSelected
	}
	return s.repo.SaveContextData(model.NewContextData(chatID, typ, data))
}

// =============================================================================
// INTERNAL
// =============================================================================

func (s *Session) reloadChatsLocked() error {
	chats, err := s.repo.AllChats()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.chats = chats
	s.mu.Unlock()
	return nil
}

func (s *Session) indexChat(chatID string, msgs []*model.Message) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexChat(chatID, msgs); err != nil {
		log.Printf("warning: failed to index chat %s: %v", chatID, err)
	}
}
