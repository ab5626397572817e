// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package repo

import (
	"github.com/chatlore/chatlore-tui/internal/model"
	"github.com/chatlore/chatlore-tui/internal/store"
)

// ============================================================================
// MESSAGES
// ============================================================================

func messageToRow(m *model.Message) store.Row {
	row := store.Row{
		"chatId":          m.ChatID,
		"sender":          m.Sender,
		"content":         m.Content,
		"messageType":     string(m.Type),
		"isSystemMessage": m.IsSystemMessage,
	}
	putTime(row, "timestamp", m.Timestamp)
	// Optional columns are written only when set so rows stay close to
	// what the original parser emitted.
	if m.Duration != "" {
		row["duration"] = m.Duration
	}
	if m.URL != "" {
		row["url"] = m.URL
	}
	if m.Language != "" {
		row["language"] = m.Language
	}
	return row
}

func rowToMessage(id string, row store.Row) *model.Message {
	return &model.Message{
		ID:              id,
		ChatID:          rowString(row, "chatId"),
		Timestamp:       rowTime(row, "timestamp"),
		Sender:          rowString(row, "sender"),
		Content:         rowString(row, "content"),
		Type:            model.MessageType(rowString(row, "messageType")),
		Duration:        rowString(row, "duration"),
		URL:             rowString(row, "url"),
		Language:        rowString(row, "language"),
		IsSystemMessage: rowBool(row, "isSystemMessage"),
	}
}

// SaveMessages bulk-upserts messages for a chat in one persist. Messages
// without an ID are assigned a fresh one, visible to the caller through
// the shared pointers.
func (r *Repository) SaveMessages(msgs []*model.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	rows := make(map[string]store.Row, len(msgs))
	for _, m := range msgs {
		if m.ID == "" {
			m.ID = model.NewID()
		}
		rows[m.ID] = messageToRow(m)
	}
	return r.st.SetRows(store.TableMessages, rows)
}

// Messages returns every message of a chat in ascending timestamp order.
func (r *Repository) Messages(chatID string) ([]*model.Message, error) {
	rows := r.st.Table(store.TableMessages)
	msgs := make([]*model.Message, 0)
	for id, row := range rows {
		if rowString(row, "chatId") != chatID {
			continue
		}
		msgs = append(msgs, rowToMessage(id, row))
	}
	model.SortMessages(msgs)
	return msgs, nil
}

// MessageCount reports how many messages a chat has stored, without
// decoding the rows.
func (r *Repository) MessageCount(chatID string) int {
	n := 0
	for _, row := range r.st.Table(store.TableMessages) {
		if rowString(row, "chatId") == chatID {
			n++
		}
	}
	return n
}
