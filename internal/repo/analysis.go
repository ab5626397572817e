// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package repo

import (
	"sort"

	"github.com/chatlore/chatlore-tui/internal/model"
	"github.com/chatlore/chatlore-tui/internal/store"
)

// ============================================================================
// SECURITY ANALYSIS
// ============================================================================
//
// A chat has at most one analysis. The row is keyed by the chat ID itself,
// so a refresh overwrites in place and lookups never depend on scan order.
// The record's own ID is kept as a field for round-tripping.

// SaveSecurityAnalysis upserts the analysis for its chat. Findings and
// recommendations are JSON-encoded into string fields.
func (r *Repository) SaveSecurityAnalysis(a *model.SecurityAnalysis) error {
	findings, err := encodeJSONField(a.Findings)
	if err != nil {
		return err
	}
	recs, err := encodeJSONField(a.Recommendations)
	if err != nil {
		return err
	}
	row := store.Row{
		"id":              a.ID,
		"chatId":          a.ChatID,
		"securityScore":   a.SecurityScore,
		"findings":        findings,
		"recommendations": recs,
	}
	putTime(row, "timestamp", a.Timestamp)
	return r.st.SetRow(store.TableSecurityAnalysis, a.ChatID, row)
}

// SecurityAnalysis returns the stored analysis for a chat, or ErrNotFound
// when the chat has never been analyzed. Malformed nested JSON fails with
// a *CorruptRowError instead of returning partial data.
func (r *Repository) SecurityAnalysis(chatID string) (*model.SecurityAnalysis, error) {
	row, ok := r.st.Row(store.TableSecurityAnalysis, chatID)
	if !ok {
		return nil, ErrNotFound
	}
	a := &model.SecurityAnalysis{
		ID:            rowString(row, "id"),
		ChatID:        rowString(row, "chatId"),
		Timestamp:     rowTime(row, "timestamp"),
		SecurityScore: rowInt(row, "securityScore"),
	}
	if err := decodeJSONField(store.TableSecurityAnalysis, chatID, "findings",
		rowString(row, "findings"), &a.Findings); err != nil {
		return nil, err
	}
	if err := decodeJSONField(store.TableSecurityAnalysis, chatID, "recommendations",
		rowString(row, "recommendations"), &a.Recommendations); err != nil {
		return nil, err
	}
	return a, nil
}

// ============================================================================
// SENSITIVE DATA
// ============================================================================

func sensitiveToRow(item *model.SensitiveDataItem) store.Row {
	row := store.Row{
		"chatId": item.ChatID,
		"type":   item.Type,
		"value":  item.Value,
	}
	if len(item.MessageIDs) > 0 {
		// Stored JSON-encoded like the other nested lists.
		if enc, err := encodeJSONField(item.MessageIDs); err == nil {
			row["messageIds"] = enc
		}
	}
	return row
}

func rowToSensitive(id string, row store.Row) (*model.SensitiveDataItem, error) {
	item := &model.SensitiveDataItem{
		ID:     id,
		ChatID: rowString(row, "chatId"),
		Type:   rowString(row, "type"),
		Value:  rowString(row, "value"),
	}
	if err := decodeJSONField(store.TableSensitiveData, id, "messageIds",
		rowString(row, "messageIds"), &item.MessageIDs); err != nil {
		return nil, err
	}
	return item, nil
}

// ReplaceSensitiveData swaps a chat's sensitive data items wholesale:
// existing rows for the chat are deleted, then the fresh set is inserted.
// Re-running an analysis therefore never accumulates duplicates.
func (r *Repository) ReplaceSensitiveData(chatID string, items []*model.SensitiveDataItem) error {
	if _, err := r.st.DeleteWhere(store.TableSensitiveData, func(id string, row store.Row) bool {
		return rowString(row, "chatId") == chatID
	}); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	rows := make(map[string]store.Row, len(items))
	for _, item := range items {
		if item.ID == "" {
			item.ID = model.NewID()
		}
		item.ChatID = chatID
		rows[item.ID] = sensitiveToRow(item)
	}
	return r.st.SetRows(store.TableSensitiveData, rows)
}

// SensitiveData returns every stored item for a chat, grouped by type in
// lexical order so output is stable.
func (r *Repository) SensitiveData(chatID string) ([]*model.SensitiveDataItem, error) {
	var items []*model.SensitiveDataItem
	for id, row := range r.st.Table(store.TableSensitiveData) {
		if rowString(row, "chatId") != chatID {
			continue
		}
		item, err := rowToSensitive(id, row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Type != items[j].Type {
			return items[i].Type < items[j].Type
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}
