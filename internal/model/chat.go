// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats, messages, and
// security analysis results.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/chatlore/chatlore-tui/internal/util"
)

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat represents one uploaded transcript.
type Chat struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`

	// UploadDate is when the transcript was uploaded.
	UploadDate time.Time `json:"upload_date"`

	// MessageCount is set once parsing completes; it stays 0 for a
	// placeholder row written before the remote parse returns.
	MessageCount int `json:"message_count"`
}

// NewChat creates a chat with a generated ID and the current upload instant.
func NewChat(name string) *Chat {
	return &Chat{
		ID:         NewID(),
		Name:       name,
		UploadDate: time.Now(),
	}
}

// DisplayName returns the chat name truncated for list display.
func (c *Chat) DisplayName(maxLen int) string {
	if c.Name == "" {
		return "Untitled chat"
	}
	return util.TruncateRunes(c.Name, maxLen)
}

// =============================================================================
// CONTEXT DATA TYPE
// =============================================================================

// ContextData is a generic auxiliary cache entry keyed by (chat, type).
// The payload is an opaque JSON document stored verbatim; callers own its
// shape. The parser context from the processing backend is the main user.
type ContextData struct {
	ID          string    `json:"id"`
	ChatID      string    `json:"chat_id"`
	Type        string    `json:"type"` // "parser", "embeddings", ...
	Data        string    `json:"data"` // raw JSON payload
	LastUpdated time.Time `json:"last_updated"`
}

// NewContextData creates a context entry with a generated ID and the
// current instant.
func NewContextData(chatID, typ, data string) *ContextData {
	return &ContextData{
		ID:          NewID(),
		ChatID:      chatID,
		Type:        typ,
		Data:        data,
		LastUpdated: time.Now(),
	}
}

// =============================================================================
// ID GENERATION
// =============================================================================

// NewID generates an opaque entity identifier.
// UUIDv4, matching the IDs produced by earlier clients so stores written by
// them remain readable.
func NewID() string {
	return uuid.NewString()
}
