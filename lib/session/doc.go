// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

// Package session owns the client's authentication session: the live
// access/refresh token pair, its durable on-disk copy, and the refresh
// lifecycle.
//
// The Manager guarantees at most one refresh call is in flight at a
// time. Concurrent callers of EnsureFresh or Refresh share the same
// outstanding operation and receive the same resulting session — this
// prevents refresh-token reuse races against servers that rotate the
// refresh token on every exchange.
//
// Refresh failure is terminal for the session: the manager clears both
// the live session and the session file, then signals the registered
// invalid-session handler so the application can fall back to the
// unauthenticated state.
package session
