// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/chatlore/chatlore-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed        = errors.New("index is closed")
	ErrDatabaseError = errors.New("index database error")
)

// =============================================================================
// INDEX
// =============================================================================

// Index is a local FTS5 message index. Safe for concurrent use; SQLite
// write serialization is handled by the single-connection pool.
type Index struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// Open opens (creating if needed) the index database at path.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Index{db: db}, nil
}

// Close closes the underlying database.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return nil
	}
	idx.closed = true
	return idx.db.Close()
}

// =============================================================================
// INDEXING
// =============================================================================

// IndexChat replaces a chat's indexed messages with the given set in one
// transaction. System messages and empty contents are skipped; they only
// add noise to search results.
func (idx *Index) IndexChat(chatID string, msgs []*model.Message) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return ErrClosed
	}

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE chat_id = ?", chatID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO messages (message_id, chat_id, sender, content, ts)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer stmt.Close()

	for _, m := range msgs {
		if m.IsSystemMessage || m.Content == "" {
			continue
		}
		if _, err := stmt.Exec(m.ID, chatID, m.Sender, m.Content, m.Timestamp.UnixMilli()); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// DeleteChat prunes a chat's messages from the index.
func (idx *Index) DeleteChat(chatID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return ErrClosed
	}
	if _, err := idx.db.Exec("DELETE FROM messages WHERE chat_id = ?", chatID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Count reports how many messages are indexed for a chat.
func (idx *Index) Count(chatID string) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return 0, ErrClosed
	}
	var n int
	err := idx.db.QueryRow("SELECT COUNT(*) FROM messages WHERE chat_id = ?", chatID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// =============================================================================
// SEARCH
// =============================================================================

// Hit is one local search result.
type Hit struct {
	MessageID string
	ChatID    string
	Sender    string
	Content   string
	Timestamp time.Time
}

// Search runs a full-text query. chatID narrows results to one chat when
// non-empty; limit caps results (0 = 50). Results come best match first.
func (idx *Index) Search(query, chatID string, limit int) ([]Hit, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return nil, ErrClosed
	}

	ftsQuery := buildFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	sqlQuery := `
		SELECT m.message_id, m.chat_id, m.sender, m.content, m.ts
		FROM messages_fts fts
		JOIN messages m ON m.id = fts.rowid
		WHERE messages_fts MATCH ?
	`
	args := []any{ftsQuery}
	if chatID != "" {
		sqlQuery += " AND m.chat_id = ?"
		args = append(args, chatID)
	}
	sqlQuery += " ORDER BY fts.rank LIMIT ?"
	args = append(args, limit)

	rows, err := idx.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var ts int64
		if err := rows.Scan(&h.MessageID, &h.ChatID, &h.Sender, &h.Content, &ts); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		h.Timestamp = time.UnixMilli(ts)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// buildFTSQuery normalizes the query and quotes each term so user input
// cannot inject FTS5 operators. Terms are ANDed.
// UNICODE: NFKC folds width and compatibility variants so queries typed
// with alternate forms still match.
func buildFTSQuery(query string) string {
	normalized := norm.NFKC.String(query)
	fields := strings.Fields(normalized)
	if len(fields) == 0 {
		return ""
	}
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, `""`)
		terms = append(terms, `"`+f+`"`)
	}
	return strings.Join(terms, " ")
}
