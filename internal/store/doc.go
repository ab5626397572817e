// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store implements the local table store backing the chatlore cache.
//
// The store holds named tables, each a mapping from row ID to a flat map of
// primitive field values. The whole store persists as a single JSON document
// under one well-known path; every mutating call synchronously rewrites the
// document with an atomic write-temp/fsync/rename, so after any crash either
// the previous snapshot or the new complete snapshot is on disk.
//
// The layout mirrors the browser client's localStorage blob, table names and
// all, so a row written here reads back the same way everywhere:
//
//	{
//	  "chats":            { "<id>": { "name": ..., "uploadDate": ... } },
//	  "messages":         { ... },
//	  "sensitiveData":    { ... },
//	  "securityAnalysis": { ... },
//	  "contextData":      { ... }
//	}
//
// A corrupt document on open degrades to an empty store (logged, never
// raised): losing the cache is recoverable, refusing to start is not.
//
// The store is safe for concurrent use within one process. Multiple
// processes writing the same path are last-writer-wins, exactly as
// concurrent browser tabs were; Watch can at least detect that happening.
//
// Optionally the on-disk document is sealed with AES-256-GCM, key derived
// from a passphrase via PBKDF2-SHA-256 (see crypto.go).
package store
