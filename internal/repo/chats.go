// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package repo

import (
	"sort"

	"github.com/chatlore/chatlore-tui/internal/model"
	"github.com/chatlore/chatlore-tui/internal/store"
)

// ============================================================================
// CHATS
// ============================================================================

func chatToRow(c *model.Chat) store.Row {
	row := store.Row{
		"name":         c.Name,
		"messageCount": c.MessageCount,
	}
	putTime(row, "uploadDate", c.UploadDate)
	return row
}

func rowToChat(id string, row store.Row) *model.Chat {
	return &model.Chat{
		ID:           id,
		Name:         rowString(row, "name"),
		UploadDate:   rowTime(row, "uploadDate"),
		MessageCount: rowInt(row, "messageCount"),
	}
}

// SaveChat inserts or fully replaces a chat row. The chat must carry an ID;
// callers mint one with model.NewChat.
func (r *Repository) SaveChat(c *model.Chat) error {
	return r.st.SetRow(store.TableChats, c.ID, chatToRow(c))
}

// Chat returns a single chat by ID.
func (r *Repository) Chat(id string) (*model.Chat, error) {
	row, ok := r.st.Row(store.TableChats, id)
	if !ok {
		return nil, ErrChatNotFound
	}
	return rowToChat(id, row), nil
}

// AllChats returns every stored chat, most recently uploaded first. Chats
// with equal upload instants fall back to ID order so the listing is
// stable across calls.
func (r *Repository) AllChats() ([]*model.Chat, error) {
	rows := r.st.Table(store.TableChats)
	chats := make([]*model.Chat, 0, len(rows))
	for id, row := range rows {
		chats = append(chats, rowToChat(id, row))
	}
	sort.Slice(chats, func(i, j int) bool {
		if !chats[i].UploadDate.Equal(chats[j].UploadDate) {
			return chats[i].UploadDate.After(chats[j].UploadDate)
		}
		return chats[i].ID < chats[j].ID
	})
	return chats, nil
}

// UpdateMessageCount rewrites only the messageCount field of an existing
// chat, preserving the rest of the row.
func (r *Repository) UpdateMessageCount(chatID string, count int) error {
	row, ok := r.st.Row(store.TableChats, chatID)
	if !ok {
		return ErrChatNotFound
	}
	row["messageCount"] = count
	return r.st.SetRow(store.TableChats, chatID, row)
}

// DeleteChat removes a chat and cascades over every dependent table:
// messages, sensitive data, security analysis, and context entries.
// Deleting an absent chat is a no-op success, matching the store's
// delete semantics.
func (r *Repository) DeleteChat(chatID string) error {
	byChat := func(id string, row store.Row) bool {
		return rowString(row, "chatId") == chatID
	}
	if _, err := r.st.DeleteWhere(store.TableMessages, byChat); err != nil {
		return err
	}
	if _, err := r.st.DeleteWhere(store.TableSensitiveData, byChat); err != nil {
		return err
	}
	if _, err := r.st.DeleteWhere(store.TableSecurityAnalysis, byChat); err != nil {
		return err
	}
	if _, err := r.st.DeleteWhere(store.TableContextData, byChat); err != nil {
		return err
	}
	return r.st.DeleteRow(store.TableChats, chatID)
}
