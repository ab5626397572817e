// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sort"
	"time"

	"github.com/chatlore/chatlore-tui/internal/util"
)

// =============================================================================
// MESSAGE TYPE ENUM
// =============================================================================

// MessageType classifies a transcript message.
type MessageType string

const (
	TypeText      MessageType = "text"
	TypeImage     MessageType = "image"
	TypeVideo     MessageType = "video"
	TypeSticker   MessageType = "sticker"
	TypeVoiceCall MessageType = "voice_call"
	TypeVideoCall MessageType = "video_call"
	TypeDocument  MessageType = "document"
	TypeGIF       MessageType = "gif"
	TypeSystem    MessageType = "system"
)

// String returns the string representation of the message type.
func (t MessageType) String() string {
	return string(t)
}

// IsMedia reports whether the message carries media rather than text.
func (t MessageType) IsMedia() bool {
	switch t {
	case TypeImage, TypeVideo, TypeSticker, TypeDocument, TypeGIF:
		return true
	}
	return false
}

// IsCall reports whether the message records a voice or video call.
func (t MessageType) IsCall() bool {
	return t == TypeVoiceCall || t == TypeVideoCall
}

// DisplayLabel returns a human-readable label for non-text messages.
func (t MessageType) DisplayLabel() string {
	switch t {
	case TypeImage:
		return "[image]"
	case TypeVideo:
		return "[video]"
	case TypeSticker:
		return "[sticker]"
	case TypeVoiceCall:
		return "[voice call]"
	case TypeVideoCall:
		return "[video call]"
	case TypeDocument:
		return "[document]"
	case TypeGIF:
		return "[GIF]"
	case TypeSystem:
		return "[system]"
	default:
		return ""
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single transcript message. Messages are created in
// bulk when the remote parse response returns and are immutable afterwards.
type Message struct {
	// Identity
	ID     string `json:"id"`
	ChatID string `json:"chat_id"`

	// Content
	Timestamp time.Time   `json:"timestamp"`
	Sender    string      `json:"sender"`
	Content   string      `json:"content"`
	Type      MessageType `json:"message_type"`

	// Optional attributes
	Duration string `json:"duration,omitempty"` // calls and voice messages
	URL      string `json:"url,omitempty"`
	Language string `json:"language,omitempty"`

	IsSystemMessage bool `json:"is_system_message"`
}

// NewMessage creates a message with a generated ID.
func NewMessage(chatID, sender, content string, typ MessageType, ts time.Time) *Message {
	return &Message{
		ID:        NewID(),
		ChatID:    chatID,
		Timestamp: ts,
		Sender:    sender,
		Content:   content,
		Type:      typ,
	}
}

// Preview returns a truncated preview of the message content.
// Media messages without content fall back to the type label.
func (m *Message) Preview(maxLen int) string {
	if m.Content == "" && m.Type != TypeText {
		return m.Type.DisplayLabel()
	}
	return util.TruncateRunes(m.Content, maxLen)
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// =============================================================================
// MESSAGE ORDERING
// =============================================================================

// SortMessages orders messages by ascending timestamp in place.
// Transcripts carry second-granularity stamps, so ties are common; the
// ID tie-break keeps the order stable across reads from the store, whose
// scans have no inherent order.
func SortMessages(msgs []*Message) {
	sort.Slice(msgs, func(i, j int) bool {
		if !msgs[i].Timestamp.Equal(msgs[j].Timestamp) {
			return msgs[i].Timestamp.Before(msgs[j].Timestamp)
		}
		return msgs[i].ID < msgs[j].ID
	})
}
