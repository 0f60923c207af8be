// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

// Package boardview computes the read-side projections of the
// workspace: board columns grouped by status, per-member task lists,
// filtered entity sets, weekly submission counts, and the CSV export.
//
// Everything here is a pure function over the canonical collections.
// No I/O, no mutable state, deterministic for identical inputs — the
// sync controller feeds it snapshots and the rendering layer displays
// whatever comes back.
//
// Filters are modeled as tagged predicate lists combined by logical
// AND: each active criterion contributes one predicate, each predicate
// is independently testable, and an entity passes iff every predicate
// accepts it.
package boardview
