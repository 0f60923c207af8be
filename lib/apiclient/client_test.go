// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/session"
)

// fakeTokens is a Tokens source with a fixed current token and a
// counted refresh that rotates to "token-fresh".
type fakeTokens struct {
	current    atomic.Pointer[schema.Session]
	refreshes  atomic.Int64
	refreshErr error
}

func newFakeTokens(accessToken string) *fakeTokens {
	tokens := &fakeTokens{}
	tokens.current.Store(&schema.Session{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: time.Now().Add(time.Hour),
		RefreshToken:         "refresh",
	})
	return tokens
}

func (f *fakeTokens) Current() *schema.Session { return f.current.Load() }

func (f *fakeTokens) Refresh(ctx context.Context) (*schema.Session, error) {
	f.refreshes.Add(1)
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	fresh := &schema.Session{
		AccessToken:          "token-fresh",
		AccessTokenExpiresAt: time.Now().Add(time.Hour),
		RefreshToken:         "refresh-fresh",
	}
	f.current.Store(fresh)
	return fresh, nil
}

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func bearer(request *http.Request) string {
	return strings.TrimPrefix(request.Header.Get("Authorization"), "Bearer ")
}

func TestRetriesOnceWithRefreshedToken(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tickets", func(writer http.ResponseWriter, request *http.Request) {
		attempts.Add(1)
		if bearer(request) != "token-fresh" {
			writer.WriteHeader(http.StatusUnauthorized)
			return
		}
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode([]schema.Ticket{{ID: "t1", Title: "fix it"}})
	})

	client := testClient(t, mux)
	tokens := newFakeTokens("token-stale")
	client.SetTokens(tokens)

	failures := 0
	client.SetFailureObserver(func(error) { failures++ })

	tickets, err := client.ListTickets(context.Background(), "")
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != "t1" {
		t.Errorf("tickets = %+v, want the retried response", tickets)
	}
	if got := attempts.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2 (original + one retry)", got)
	}
	if got := tokens.refreshes.Load(); got != 1 {
		t.Errorf("refreshes = %d, want 1", got)
	}
	if failures != 0 {
		t.Errorf("failure observer fired %d times for a recovered call, want 0", failures)
	}
}

func TestSecondUnauthorizedIsTerminal(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tickets", func(writer http.ResponseWriter, request *http.Request) {
		attempts.Add(1)
		writer.WriteHeader(http.StatusUnauthorized)
	})

	client := testClient(t, mux)
	client.SetTokens(newFakeTokens("token-stale"))

	failures := 0
	client.SetFailureObserver(func(error) { failures++ })

	_, err := client.ListTickets(context.Background(), "")
	if !IsUnauthorized(err) {
		t.Fatalf("ListTickets = %v, want an unauthorized APIError", err)
	}
	if got := attempts.Load(); got != 2 {
		t.Errorf("attempts = %d, want exactly 2 (never a third)", got)
	}
	if failures != 1 {
		t.Errorf("failure observer fired %d times, want exactly 1", failures)
	}
}

func TestRefreshFailureSurfacesWithoutRetry(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects", func(writer http.ResponseWriter, request *http.Request) {
		attempts.Add(1)
		writer.WriteHeader(http.StatusUnauthorized)
	})

	client := testClient(t, mux)
	tokens := newFakeTokens("token-stale")
	tokens.refreshErr = errors.New("session cleared")
	client.SetTokens(tokens)

	failures := 0
	client.SetFailureObserver(func(error) { failures++ })

	_, err := client.ListProjects(context.Background())
	if err == nil {
		t.Fatal("expected error when refresh fails")
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1 (no retry without a fresh token)", got)
	}
	if failures != 1 {
		t.Errorf("failure observer fired %d times, want 1", failures)
	}
}

func TestInvalidatedSessionNotReportedTwice(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
	})

	client := testClient(t, mux)
	tokens := newFakeTokens("token-stale")
	tokens.refreshErr = fmt.Errorf("%w: refresh token revoked", session.ErrSessionInvalid)
	client.SetTokens(tokens)

	failures := 0
	client.SetFailureObserver(func(error) { failures++ })

	_, err := client.ListProjects(context.Background())
	if !errors.Is(err, session.ErrSessionInvalid) {
		t.Fatalf("err = %v, want session.ErrSessionInvalid", err)
	}
	// The token source has already cleared the session and signalled
	// its invalid-session handler; the gateway must not add a second
	// report for the same failure.
	if failures != 0 {
		t.Errorf("failure observer fired %d times, want 0", failures)
	}
}

func TestValidationMessageSurfacedVerbatim(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /projects", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnprocessableEntity)
		writer.Write([]byte("project key must be uppercase"))
	})

	client := testClient(t, mux)
	client.SetTokens(newFakeTokens("token"))

	_, err := client.CreateProject(context.Background(), CreateProjectRequest{Key: "bad"})
	if !IsValidation(err) {
		t.Fatalf("CreateProject = %v, want a validation APIError", err)
	}
	var apiErr *APIError
	errors.As(err, &apiErr)
	if apiErr.Message != "project key must be uppercase" {
		t.Errorf("Message = %q, want the server body verbatim", apiErr.Message)
	}
}

func TestNoContentYieldsNoPayload(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /tickets/t1", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})

	client := testClient(t, mux)
	client.SetTokens(newFakeTokens("token"))

	if err := client.DeleteTicket(context.Background(), "t1"); err != nil {
		t.Fatalf("DeleteTicket: %v", err)
	}
}

func TestNetworkFailureNotifiesOnce(t *testing.T) {
	t.Parallel()

	client, err := New(ClientConfig{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	client.SetTokens(newFakeTokens("token"))

	failures := 0
	client.SetFailureObserver(func(error) { failures++ })

	if _, err := client.ListProjects(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
	if failures != 1 {
		t.Errorf("failure observer fired %d times, want 1", failures)
	}
}

func TestLoginDoesNotTriggerRefresh(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(writer http.ResponseWriter, request *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(request.Body).Decode(&body)
		if body.Password != "sesame" {
			writer.WriteHeader(http.StatusUnauthorized)
			writer.Write([]byte("invalid credentials"))
			return
		}
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(schema.Session{
			AccessToken:          "access",
			AccessTokenExpiresAt: time.Now().Add(15 * time.Minute),
			RefreshToken:         "refresh",
			User:                 schema.TeamMember{ID: "m1", Email: "ada@example.com"},
		})
	})

	client := testClient(t, mux)
	tokens := newFakeTokens("ignored")
	client.SetTokens(tokens)

	session, err := client.Login(context.Background(), "ada@example.com", "sesame")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.AccessToken != "access" {
		t.Errorf("AccessToken = %q, want access", session.AccessToken)
	}

	// Wrong password: a 401 on the unauthenticated path must surface
	// directly, never entering the refresh-retry protocol.
	_, err = client.Login(context.Background(), "ada@example.com", "wrong")
	if !IsUnauthorized(err) {
		t.Fatalf("Login with bad password = %v, want unauthorized", err)
	}
	if got := tokens.refreshes.Load(); got != 0 {
		t.Errorf("refreshes = %d, want 0 for unauthenticated calls", got)
	}
}

func TestUploadSubmissionForm(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /tickets/t1/submissions", func(writer http.ResponseWriter, request *http.Request) {
		if err := request.ParseMultipartForm(1 << 20); err != nil {
			writer.WriteHeader(http.StatusBadRequest)
			return
		}
		if got := request.FormValue("submittedById"); got != "m1" {
			writer.WriteHeader(http.StatusBadRequest)
			writer.Write([]byte("bad submittedById " + got))
			return
		}
		if got := request.FormValue("note"); got != "final draft" {
			writer.WriteHeader(http.StatusBadRequest)
			writer.Write([]byte("bad note " + got))
			return
		}
		if request.FormValue("checksum") == "" {
			writer.WriteHeader(http.StatusBadRequest)
			writer.Write([]byte("missing checksum"))
			return
		}
		file, header, err := request.FormFile("file")
		if err != nil {
			writer.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "report.pdf" {
			writer.WriteHeader(http.StatusBadRequest)
			writer.Write([]byte("bad filename " + header.Filename))
			return
		}
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(schema.Submission{
			ID:            "s1",
			FileName:      "report.pdf",
			Note:          "final draft",
			CreatedAt:     time.Now().UTC(),
			SubmittedByID: "m1",
		})
	})

	client := testClient(t, mux)
	client.SetTokens(newFakeTokens("token"))

	submission, err := client.UploadSubmission(context.Background(), "t1", UploadRequest{
		SubmittedByID: "m1",
		Note:          "final draft",
		FileName:      "report.pdf",
		File:          strings.NewReader("%PDF-1.7 content"),
	})
	if err != nil {
		t.Fatalf("UploadSubmission: %v", err)
	}
	if submission.ID != "s1" {
		t.Errorf("submission ID = %q, want s1", submission.ID)
	}
}

func TestDownloadSubmissionReturnsBinary(t *testing.T) {
	t.Parallel()

	payload := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xFF}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tickets/submissions/s1/download", func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/octet-stream")
		writer.Write(payload)
	})

	client := testClient(t, mux)
	client.SetTokens(newFakeTokens("token"))

	content, err := client.DownloadSubmission(context.Background(), "s1")
	if err != nil {
		t.Fatalf("DownloadSubmission: %v", err)
	}
	if string(content) != string(payload) {
		t.Errorf("content = %v, want %v", content, payload)
	}
}
