// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the ChatLore processing backend.
//
// The client is stateless: every call sends the full message set and
// returns the decoded response. It does not retry and does not cache;
// callers own persistence. All calls take a context and respect its
// cancellation. A politeness rate limiter spaces requests so bulk
// operations do not hammer the backend.
package api
