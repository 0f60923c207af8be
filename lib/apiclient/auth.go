// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

// loginRequest is the JSON body for POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// refreshRequest is the JSON body for POST /auth/refresh.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates with email and password and returns the new
// session. Unauthenticated: a 401 here means wrong credentials, not a
// stale token, so the gateway's refresh-retry does not apply.
func (c *Client) Login(ctx context.Context, email, password string) (*schema.Session, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{
		Email:    email,
		Password: password,
	}, false)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	var session schema.Session
	if err := decode(body, &session); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	c.logger.Info("logged in", "user", session.User.Email, "role", session.User.Role)
	return &session, nil
}

// RefreshSession exchanges a refresh token for a new session. This is
// the session manager's Refresher; application code goes through the
// manager, which single-flights concurrent exchanges. The exchange is
// an internal leg of whatever call triggered it, so its own failure
// never reaches the failure observer: the outer call (or the
// manager's invalid-session handler) surfaces it exactly once.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*schema.Session, error) {
	body, err := c.doUnobserved(ctx, http.MethodPost, "/auth/refresh", refreshRequest{
		RefreshToken: refreshToken,
	})
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	var session schema.Session
	if err := decode(body, &session); err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return &session, nil
}

// Logout invalidates the session server-side. Best-effort: the caller
// clears local state regardless of the outcome, so a failure here is
// logged but never surfaced to the failure observer and never triggers
// a refresh retry.
func (c *Client) Logout(ctx context.Context) {
	token := ""
	if c.tokens != nil {
		if current := c.tokens.Current(); current != nil {
			token = current.AccessToken
		}
	}
	_, statusCode, err := c.send(ctx, http.MethodPost, "/auth/logout", nil, nil, "", token)
	if err != nil {
		c.logger.Debug("server-side logout failed", "error", err)
		return
	}
	if statusCode < 200 || statusCode >= 300 {
		c.logger.Debug("server-side logout rejected", "status", statusCode)
	}
}
