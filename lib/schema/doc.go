// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the wire-level data model shared between the
// Jira-Lite client and the remote API: team members, projects, tickets,
// submissions, and the authentication session.
//
// All types here are plain data with JSON tags matching the server's
// payloads. Member references embedded in tickets, projects, and
// submissions are relations by ID — display data (name, role) is
// resolved by lookup against the member collection, never by mutating
// an embedded copy. The one exception is the submitter snapshot carried
// on a Submission, which is frozen at submission time.
//
// This package has no dependencies beyond the standard library and no
// behavior beyond parsing and labeling of the enumerated fields.
package schema
