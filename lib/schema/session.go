// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "time"

// Session is the client's authentication state: a short-lived access
// token with its expiry, a longer-lived refresh token, and the
// authenticated user. Exactly one Session is live per client process;
// it is replaced wholesale on login and refresh and cleared on logout.
type Session struct {
	AccessToken          string     `json:"accessToken"`
	AccessTokenExpiresAt time.Time  `json:"accessTokenExpiresAt"`
	RefreshToken         string     `json:"refreshToken,omitempty"`
	User                 TeamMember `json:"user"`
}

// ExpiresWithin reports whether the access token expires before
// now+skew. A session that expires within the skew window is treated
// as stale and refreshed before use.
func (s *Session) ExpiresWithin(now time.Time, skew time.Duration) bool {
	return !s.AccessTokenExpiresAt.After(now.Add(skew))
}
