// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

// Package boardtui implements the terminal board view. Built on
// bubbletea (Elm architecture), it renders the four status columns
// side by side, routes keyboard column moves through the optimistic
// status path, and shows transient failures in the status bar.
//
// The package holds no domain logic: grouping, filtering, and the
// optimistic transaction all live in the state packages, reached
// through the [Store] interface so tests can substitute a fake.
package boardtui
