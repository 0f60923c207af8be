// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/session"
)

// writeAppFixture lays out a config file and a persisted session in a
// temp dir, pointing at the given server.
func writeAppFixture(t *testing.T, serverURL string, expiresIn time.Duration) string {
	t.Helper()
	dir := t.TempDir()

	configPath := filepath.Join(dir, "jiralite.yaml")
	config := fmt.Sprintf(
		"server: %s\npaths:\n  session_file: %s\n  state_cache: %s\n",
		serverURL,
		filepath.Join(dir, "session.json"),
		filepath.Join(dir, "statecache.bin"),
	)
	if err := os.WriteFile(configPath, []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}

	err := session.NewStore(filepath.Join(dir, "session.json")).Save(&schema.Session{
		AccessToken:          "token-stale",
		AccessTokenExpiresAt: time.Now().Add(expiresIn),
		RefreshToken:         "refresh",
		User:                 schema.TeamMember{ID: "m1", Name: "Ada", Role: schema.RoleCaptain},
	})
	if err != nil {
		t.Fatal(err)
	}
	return configPath
}

func TestOpenAuthenticatedFreshensNearExpirySession(t *testing.T) {
	var refreshes atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(schema.Session{
			AccessToken:          "token-fresh",
			AccessTokenExpiresAt: time.Now().Add(time.Hour),
			RefreshToken:         "refresh-fresh",
			User:                 schema.TeamMember{ID: "m1", Name: "Ada", Role: schema.RoleCaptain},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	// Expires inside the default 60s skew window: the command must
	// not start with a token about to go stale mid-request.
	configPath := writeAppFixture(t, server.URL, 10*time.Second)

	app, err := openAuthenticated(configPath)
	if err != nil {
		t.Fatalf("openAuthenticated: %v", err)
	}
	if got := refreshes.Load(); got != 1 {
		t.Fatalf("refresh calls = %d, want 1", got)
	}
	if got := app.Sessions.Current().AccessToken; got != "token-fresh" {
		t.Errorf("access token = %q, want the rotated token", got)
	}
}

func TestOpenAuthenticatedKeepsFreshSession(t *testing.T) {
	var refreshes atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		http.Error(w, `{"message":"unexpected refresh"}`, http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	configPath := writeAppFixture(t, server.URL, time.Hour)

	app, err := openAuthenticated(configPath)
	if err != nil {
		t.Fatalf("openAuthenticated: %v", err)
	}
	if got := refreshes.Load(); got != 0 {
		t.Fatalf("refresh calls = %d, want 0 for a fresh session", got)
	}
	if got := app.Sessions.Current().AccessToken; got != "token-stale" {
		t.Errorf("access token = %q, want the persisted token untouched", got)
	}
}

func TestOpenAuthenticatedRejectsRevokedSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"refresh token revoked"}`, http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	configPath := writeAppFixture(t, server.URL, 10*time.Second)

	if _, err := openAuthenticated(configPath); err == nil {
		t.Fatal("openAuthenticated succeeded with a revoked session")
	}
}
