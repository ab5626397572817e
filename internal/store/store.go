// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store implements the local table store backing the chatlore cache.
package store

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/chatlore/chatlore-tui/internal/util"
)

// =============================================================================
// TABLE NAMES
// =============================================================================

// Well-known table names. The set is fixed; the store itself does not care,
// but keeping the constants here prevents typo'd table names from silently
// creating a sixth table.
const (
	TableChats            = "chats"
	TableMessages         = "messages"
	TableSensitiveData    = "sensitiveData"
	TableSecurityAnalysis = "securityAnalysis"
	TableContextData      = "contextData"
)

// Tables lists every table a fresh store starts with.
var Tables = []string{
	TableChats,
	TableMessages,
	TableSensitiveData,
	TableSecurityAnalysis,
	TableContextData,
}

// =============================================================================
// ROW TYPE
// =============================================================================

// Row is a flat mapping of field name to primitive value (string, float64,
// bool). Nested structures are the repository's problem: it serializes them
// to strings before they reach the store.
type Row map[string]any

// clone copies a row so callers can't mutate store internals.
func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEncrypted is returned when opening a sealed store without a passphrase.
	ErrEncrypted = errors.New("store is encrypted: passphrase required")
)

// =============================================================================
// STORE
// =============================================================================

// Store is the durable, synchronous table store. Every mutating call
// persists the full snapshot before returning.
type Store struct {
	mu     sync.Mutex
	path   string
	sealer *Sealer // nil for plaintext stores
	tables map[string]map[string]Row

	// lastPersist tracks the instant of our own most recent write so the
	// file watcher can tell self-writes from external ones.
	lastPersist int64
}

// Open loads the store at path, creating an empty one if the file does not
// exist. A corrupt document degrades to an empty store: the error is logged
// and the previous content is abandoned, not propagated.
func Open(path string) (*Store, error) {
	return open(path, nil)
}

// OpenSealed is like Open but encrypts the document at rest using a key
// derived from passphrase. Opening a plaintext store with a passphrase
// seals it on the next write; opening a sealed store without one fails
// with ErrEncrypted.
func OpenSealed(path, passphrase string) (*Store, error) {
	sealer, err := NewSealer(passphrase)
	if err != nil {
		return nil, err
	}
	return open(path, sealer)
}

func open(path string, sealer *Sealer) (*Store, error) {
	s := &Store{
		path:   path,
		sealer: sealer,
		tables: emptyTables(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	if IsSealed(data) {
		if sealer == nil {
			return nil, ErrEncrypted
		}
		data, err = sealer.Open(data)
		if err != nil {
			// Wrong passphrase is not a corrupt store; surface it.
			return nil, err
		}
	}

	var tables map[string]map[string]Row
	if err := json.Unmarshal(data, &tables); err != nil {
		// Fail safe to empty rather than failing open.
		log.Printf("store: corrupt document at %s, starting empty: %v", path, err)
		return s, nil
	}

	for name, rows := range tables {
		if rows == nil {
			rows = make(map[string]Row)
		}
		s.tables[name] = rows
	}
	return s, nil
}

func emptyTables() map[string]map[string]Row {
	tables := make(map[string]map[string]Row, len(Tables))
	for _, name := range Tables {
		tables[name] = make(map[string]Row)
	}
	return tables
}

// Path returns the on-disk location of the store document.
func (s *Store) Path() string {
	return s.path
}

// =============================================================================
// ROW OPERATIONS
// =============================================================================

// SetRow inserts or fully replaces a row, then persists the snapshot.
func (s *Store) SetRow(table, id string, fields Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.tables[table]
	if !ok {
		rows = make(map[string]Row)
		s.tables[table] = rows
	}
	rows[id] = fields.clone()

	return s.persistLocked()
}

// SetRows inserts or replaces several rows of one table in a single
// persisted snapshot. Bulk message saves and cascade-adjacent writes use
// this so a crash can never leave half a batch on disk.
func (s *Store) SetRows(table string, batch map[string]Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.tables[table]
	if !ok {
		rows = make(map[string]Row)
		s.tables[table] = rows
	}
	for id, fields := range batch {
		rows[id] = fields.clone()
	}

	return s.persistLocked()
}

// Row returns a copy of the row, or ok=false when absent.
func (s *Store) Row(table, id string) (Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.tables[table]
	if !ok {
		return nil, false
	}
	row, ok := rows[id]
	if !ok {
		return nil, false
	}
	return row.clone(), true
}

// Table returns a copy of the full table (id to row), for scans.
func (s *Store) Table(table string) map[string]Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.tables[table]
	out := make(map[string]Row, len(rows))
	for id, row := range rows {
		out[id] = row.clone()
	}
	return out
}

// DeleteRow removes a row if present, then persists the snapshot.
// Deleting an absent row is a no-op and still succeeds.
func (s *Store) DeleteRow(table, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.tables[table]
	if !ok {
		return nil
	}
	if _, ok := rows[id]; !ok {
		return nil
	}
	delete(rows, id)

	return s.persistLocked()
}

// DeleteWhere removes every row of the table for which pred returns true,
// in one persisted snapshot. Returns the number of rows removed.
func (s *Store) DeleteWhere(table string, pred func(id string, row Row) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.tables[table]
	if !ok {
		return 0, nil
	}

	removed := 0
	for id, row := range rows {
		if pred(id, row) {
			delete(rows, id)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}

	return removed, s.persistLocked()
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// persistLocked serializes the whole store and rewrites the document.
// Must be called with the mutex held.
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.tables, "", "  ")
	if err != nil {
		return err
	}

	if s.sealer != nil {
		data, err = s.sealer.Seal(data)
		if err != nil {
			return err
		}
	}

	s.lastPersist = time.Now().UnixNano()
	return util.AtomicWriteFile(s.path, data, 0600)
}

// reloadLocked re-reads the document from disk, replacing the in-memory
// snapshot. Used by the watcher after an external write.
func (s *Store) reloadLocked() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.tables = emptyTables()
			return nil
		}
		return err
	}

	if IsSealed(data) {
		if s.sealer == nil {
			return ErrEncrypted
		}
		data, err = s.sealer.Open(data)
		if err != nil {
			return err
		}
	}

	var tables map[string]map[string]Row
	if err := json.Unmarshal(data, &tables); err != nil {
		log.Printf("store: corrupt document on reload, keeping in-memory snapshot: %v", err)
		return nil
	}

	fresh := emptyTables()
	for name, rows := range tables {
		if rows == nil {
			rows = make(map[string]Row)
		}
		fresh[name] = rows
	}
	s.tables = fresh
	return nil
}
