// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the remote API. Message carries
// the response body verbatim — the server's validation messages are
// meant for direct display.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("apiclient: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("apiclient: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 that survived the
// gateway's single refresh-and-retry. Callers seeing this should treat
// the session as unusable.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsValidation reports whether err is a client-side request problem
// (4xx other than 401) whose message should be shown to the user
// verbatim.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 &&
		apiErr.StatusCode != http.StatusUnauthorized
}
