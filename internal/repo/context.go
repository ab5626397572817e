// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package repo

import (
	"github.com/chatlore/chatlore-tui/internal/model"
	"github.com/chatlore/chatlore-tui/internal/store"
)

// ============================================================================
// CONTEXT DATA
// ============================================================================
//
// Context entries are keyed by (chat ID, type); one row per pair. Saving
// the same type again for a chat overwrites the previous entry.

func contextKey(chatID, typ string) string {
	return chatID + "/" + typ
}

// SaveContextData upserts a context entry for its (chat, type) pair.
func (r *Repository) SaveContextData(cd *model.ContextData) error {
	row := store.Row{
		"id":     cd.ID,
		"chatId": cd.ChatID,
		"type":   cd.Type,
		"data":   cd.Data,
	}
	putTime(row, "lastUpdated", cd.LastUpdated)
	return r.st.SetRow(store.TableContextData, contextKey(cd.ChatID, cd.Type), row)
}

// ContextData returns the entry of the given type for a chat, or
// ErrNotFound when none has been stored.
func (r *Repository) ContextData(chatID, typ string) (*model.ContextData, error) {
	row, ok := r.st.Row(store.TableContextData, contextKey(chatID, typ))
	if !ok {
		return nil, ErrNotFound
	}
	return &model.ContextData{
		ID:          rowString(row, "id"),
		ChatID:      rowString(row, "chatId"),
		Type:        rowString(row, "type"),
		Data:        rowString(row, "data"),
		LastUpdated: rowTime(row, "lastUpdated"),
	}, nil
}
