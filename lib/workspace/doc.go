// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

// Package workspace owns the client's canonical entity collections
// (projects, members, tickets) and every path that mutates them.
//
// Collections change in exactly two ways: a full reload replaces them
// wholesale with the server's view, and the optimistic status path
// patches a single ticket ahead of server confirmation, rolling back
// to the pre-mutation snapshot if persistence fails. Every other
// mutation is request-then-reload: issue the call, then pull fresh
// state, keeping the local shape server-authoritative.
//
// Readers get an immutable Snapshot; the view layer derives board
// columns, filters, and exports from it without ever touching the
// collections directly.
package workspace
