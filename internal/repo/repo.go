// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chatlore/chatlore-tui/internal/store"
)

// ============================================================================
// ERRORS
// ============================================================================

var (
	// ErrChatNotFound is returned when an operation names a chat ID that
	// has no row in the chats table.
	ErrChatNotFound = errors.New("chat not found")

	// ErrNotFound is returned by single-row lookups (analysis, context)
	// that have no stored entry for the given key.
	ErrNotFound = errors.New("record not found")
)

// CorruptRowError reports a stored row whose fields cannot be decoded
// back into a typed entity. The row stays on disk untouched; the read
// fails loudly instead of silently dropping or zeroing fields.
type CorruptRowError struct {
	Table string
	ID    string
	Field string
	Cause error
}

func (e *CorruptRowError) Error() string {
	return fmt.Sprintf("corrupt row %s/%s: field %q: %v", e.Table, e.ID, e.Field, e.Cause)
}

func (e *CorruptRowError) Unwrap() error { return e.Cause }

// ============================================================================
// REPOSITORY
// ============================================================================

// Repository is a typed facade over a *store.Store. It is safe for
// concurrent use to the extent the underlying store is; callers that need
// multi-call atomicity (cascade delete aside, which is internal) should
// serialize at the session layer.
type Repository struct {
	st *store.Store
}

// New wraps an open store.
func New(st *store.Store) *Repository {
	return &Repository{st: st}
}

// ============================================================================
// ROW FIELD HELPERS
// ============================================================================

func rowString(row store.Row, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

func rowBool(row store.Row, key string) bool {
	if v, ok := row[key].(bool); ok {
		return v
	}
	return false
}

// rowInt tolerates both int (fresh in-memory rows) and float64 (rows that
// round-tripped through the JSON document).
func rowInt(row store.Row, key string) int {
	switch v := row[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func rowInt64(row store.Row, key string) int64 {
	switch v := row[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// rowTime reads a Unix-milliseconds field. A missing or zero field yields
// the zero time.
func rowTime(row store.Row, key string) time.Time {
	ms := rowInt64(row, key)
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func putTime(row store.Row, key string, t time.Time) {
	if t.IsZero() {
		row[key] = int64(0)
		return
	}
	row[key] = t.UnixMilli()
}

// encodeJSONField serializes a nested value into its string column. The
// store keeps every table in one flat document, so lists live as JSON
// text inside a string field, same layout the browser client wrote.
func encodeJSONField(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeJSONField parses a nested string column into out. Decoding is
// idempotent with respect to the value already being typed text: an empty
// field decodes to the zero value of out without error.
func decodeJSONField(table, id, field, raw string, out any) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &CorruptRowError{Table: table, ID: id, Field: field, Cause: err}
	}
	return nil
}
