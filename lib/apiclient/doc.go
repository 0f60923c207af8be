// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

// Package apiclient is the typed HTTP client for the Jira-Lite remote
// API. It owns the request gateway: every authenticated call attaches
// the current access token as a bearer credential and, on a 401
// response, refreshes the session and retries exactly once. A second
// 401 is surfaced as an authorization failure — the retry guard is a
// boolean in the call path, so an unbounded retry loop is impossible
// by construction.
//
// The gateway deliberately attaches whatever token is currently live
// without checking its expiry first: the token manager's proactive
// refresh keeps the token fresh in normal operation, and the reactive
// 401 path here covers clock drift and server-side revocation.
//
// Unrecoverable failures are reported to an optional failure observer
// exactly once per logical call. The first 401 of a call that is about
// to be retried is not a failure and is never reported.
package apiclient
