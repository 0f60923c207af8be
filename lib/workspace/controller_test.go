// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/apiclient"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/session"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/statecache"
)

// fakeServer is an in-memory remote: list endpoints serve its
// collections, mutation endpoints record calls and mutate them.
type fakeServer struct {
	mu       sync.Mutex
	projects []schema.Project
	members  []schema.TeamMember
	tickets  []schema.Ticket

	statusCalls  int
	failStatus   bool
	failAuth     bool
	refreshCalls int

	// Optional rendezvous for the status endpoint: the handler sends
	// on statusStarted when a request arrives, then waits for
	// statusRelease before answering.
	statusStarted chan struct{}
	statusRelease chan struct{}

	server *httptest.Server
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	fake := &fakeServer{
		projects: []schema.Project{{ID: "p1", Key: "CORE", Name: "Core"}},
		members:  []schema.TeamMember{{ID: "m1", Name: "Ada", Role: schema.RoleCaptain, Active: true}},
		tickets: []schema.Ticket{{
			ID: "t1", ProjectID: "p1", Title: "Wire login form",
			Status: schema.StatusTodo, Priority: schema.PriorityHigh,
		}},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects", func(w http.ResponseWriter, r *http.Request) {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		if fake.failAuth {
			http.Error(w, `{"message":"access token expired"}`, http.StatusUnauthorized)
			return
		}
		writeJSON(w, fake.projects)
	})
	mux.HandleFunc("GET /team-members", func(w http.ResponseWriter, r *http.Request) {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		writeJSON(w, fake.members)
	})
	mux.HandleFunc("GET /tickets", func(w http.ResponseWriter, r *http.Request) {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		writeJSON(w, fake.tickets)
	})
	mux.HandleFunc("PATCH /tickets/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		fake.mu.Lock()
		started, release := fake.statusStarted, fake.statusRelease
		fake.mu.Unlock()
		if started != nil {
			started <- struct{}{}
		}
		if release != nil {
			<-release
		}

		fake.mu.Lock()
		defer fake.mu.Unlock()
		fake.statusCalls++
		if fake.failStatus {
			http.Error(w, `{"message":"status change rejected"}`, http.StatusUnprocessableEntity)
			return
		}
		var body struct {
			Status schema.TicketStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for i := range fake.tickets {
			if fake.tickets[i].ID == r.PathValue("id") {
				fake.tickets[i].Status = body.Status
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PATCH /tickets/{id}/assignee", func(w http.ResponseWriter, r *http.Request) {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		var body struct {
			AssigneeIDs []string `json:"assigneeIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for i := range fake.tickets {
			if fake.tickets[i].ID == r.PathValue("id") {
				fake.tickets[i].Assignees = body.AssigneeIDs
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /tickets", func(w http.ResponseWriter, r *http.Request) {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		var request apiclient.CreateTicketRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ticket := schema.Ticket{
			ID: "t-new", ProjectID: request.ProjectID, Title: request.Title,
			Status: schema.StatusTodo, Priority: request.Priority,
		}
		fake.tickets = append(fake.tickets, ticket)
		writeJSON(w, ticket)
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		fake.refreshCalls++
		http.Error(w, `{"message":"refresh token revoked"}`, http.StatusUnauthorized)
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	fake.server = httptest.NewServer(mux)
	t.Cleanup(fake.server.Close)
	return fake
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		panic(err)
	}
}

type testHarness struct {
	fake       *fakeServer
	controller *Controller
	sessions   *session.Manager
	notices    *[]Notice
	logouts    *int
}

func newHarness(t *testing.T, cache *statecache.Store) *testHarness {
	t.Helper()

	fake := newFakeServer(t)
	client, err := apiclient.New(apiclient.ClientConfig{BaseURL: fake.server.URL})
	if err != nil {
		t.Fatal(err)
	}

	sessions, err := session.NewManager(session.ManagerConfig{
		Store:     session.NewStore(filepath.Join(t.TempDir(), "session.json")),
		Refresher: client,
	})
	if err != nil {
		t.Fatal(err)
	}
	client.SetTokens(sessions)
	err = sessions.Set(&schema.Session{
		AccessToken:          "token",
		AccessTokenExpiresAt: time.Now().Add(time.Hour),
		RefreshToken:         "refresh",
		User:                 schema.TeamMember{ID: "m1", Name: "Ada", Role: schema.RoleCaptain},
	})
	if err != nil {
		t.Fatal(err)
	}

	var notices []Notice
	logouts := 0
	controller, err := NewController(ControllerConfig{
		Client:   client,
		Sessions: sessions,
		Cache:    cache,
		OnNotice: func(n Notice) { notices = append(notices, n) },
		OnLogout: func() { logouts++ },
	})
	if err != nil {
		t.Fatal(err)
	}
	return &testHarness{fake: fake, controller: controller, sessions: sessions, notices: &notices, logouts: &logouts}
}

func TestReloadPopulatesSnapshot(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.controller.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	snapshot := h.controller.Snapshot()
	if len(snapshot.Projects) != 1 || len(snapshot.Members) != 1 || len(snapshot.Tickets) != 1 {
		t.Fatalf("snapshot = %d projects, %d members, %d tickets", len(snapshot.Projects), len(snapshot.Members), len(snapshot.Tickets))
	}
	if snapshot.LoadedAt.IsZero() {
		t.Fatal("LoadedAt not set after reload")
	}
}

func TestSetTicketStatusKeepsOptimisticValueOnSuccess(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.controller.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	err := h.controller.SetTicketStatus(context.Background(), "t1", schema.StatusInProgress, MoveInteractive)
	if err != nil {
		t.Fatalf("SetTicketStatus: %v", err)
	}

	snapshot := h.controller.Snapshot()
	if got := snapshot.Tickets[0].Status; got != schema.StatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS", got)
	}
	if snapshot.Confirm == nil || snapshot.Confirm.TicketID != "t1" {
		t.Fatalf("Confirm = %+v, want pulse for t1", snapshot.Confirm)
	}
	if h.fake.statusCalls != 1 {
		t.Fatalf("statusCalls = %d, want 1", h.fake.statusCalls)
	}

	h.controller.ClearConfirm()
	if h.controller.Snapshot().Confirm != nil {
		t.Fatal("Confirm survived ClearConfirm")
	}
}

func TestSetTicketStatusRollsBackExactlyOnFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.controller.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	h.fake.failStatus = true

	before := h.controller.Snapshot()
	err := h.controller.SetTicketStatus(context.Background(), "t1", schema.StatusDone, MoveInteractive)
	if err == nil {
		t.Fatal("SetTicketStatus succeeded against a failing server")
	}
	if !strings.Contains(err.Error(), "status change rejected") {
		t.Fatalf("error does not carry the server message: %v", err)
	}

	after := h.controller.Snapshot()
	if got := after.Tickets[0].Status; got != schema.StatusTodo {
		t.Fatalf("status after rollback = %s, want TODO", got)
	}
	if after.Confirm != nil {
		t.Fatal("failed move left a confirmation pulse")
	}
	// The pre-mutation snapshot a reader took is untouched too.
	if got := before.Tickets[0].Status; got != schema.StatusTodo {
		t.Fatalf("reader snapshot mutated to %s", got)
	}
	// The gateway failure reached the notice observer exactly once.
	if len(*h.notices) != 1 {
		t.Fatalf("notices = %d, want 1", len(*h.notices))
	}
}

func TestSetTicketStatusEqualStatusIsLocalNoOp(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.controller.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	err := h.controller.SetTicketStatus(context.Background(), "t1", schema.StatusTodo, MoveInteractive)
	if err != nil {
		t.Fatalf("no-op SetTicketStatus: %v", err)
	}
	if h.fake.statusCalls != 0 {
		t.Fatalf("statusCalls = %d, want 0 for a no-op", h.fake.statusCalls)
	}
	if h.controller.Snapshot().Confirm != nil {
		t.Fatal("no-op produced a confirmation pulse")
	}
}

func TestSetTicketStatusUnknownTicketIsNotReady(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	err := h.controller.SetTicketStatus(context.Background(), "nope", schema.StatusDone, MoveProgrammatic)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
	if h.fake.statusCalls != 0 {
		t.Fatalf("statusCalls = %d, want 0", h.fake.statusCalls)
	}
}

func TestCreateTicketRequestsThenReloads(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.controller.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	err := h.controller.CreateTicket(context.Background(), apiclient.CreateTicketRequest{
		ProjectID: "p1", Title: "Export report", Priority: schema.PriorityLow,
	})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	snapshot := h.controller.Snapshot()
	if len(snapshot.Tickets) != 2 {
		t.Fatalf("tickets = %d, want 2 after reload", len(snapshot.Tickets))
	}
	if snapshot.Tickets[1].ID != "t-new" {
		t.Fatalf("new ticket not mirrored from server: %+v", snapshot.Tickets[1])
	}
}

func TestUploadWithoutFileIsNotReady(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.controller.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	_, err := h.controller.UploadSubmission(context.Background(), "t1", apiclient.UploadRequest{
		SubmittedByID: "m1",
	})
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
}

func TestRollbackYieldsToInterleavedReload(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.controller.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	h.fake.mu.Lock()
	h.fake.failStatus = true
	h.fake.statusStarted = started
	h.fake.statusRelease = release
	h.fake.mu.Unlock()

	moveErr := make(chan error, 1)
	go func() {
		moveErr <- h.controller.SetTicketStatus(context.Background(), "t1", schema.StatusInProgress, MoveProgrammatic)
	}()
	<-started

	// While the rejection is in flight, the ticket moves remotely and
	// a reload picks that up. The later rollback must not reinstall
	// its stale pre-mutation snapshot over the fresh state.
	h.fake.mu.Lock()
	h.fake.tickets[0].Status = schema.StatusDone
	h.fake.mu.Unlock()
	if err := h.controller.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	close(release)
	if err := <-moveErr; err == nil {
		t.Fatal("SetTicketStatus succeeded against a rejecting server")
	}

	if got := h.controller.Snapshot().Tickets[0].Status; got != schema.StatusDone {
		t.Fatalf("status = %s after obsolete rollback, want DONE from the reload", got)
	}
}

func TestAssignmentsRejectNonAssignableMembers(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.fake.mu.Lock()
	h.fake.members = append(h.fake.members, schema.TeamMember{
		ID: "m2", Name: "Grace", Role: schema.RoleMember, Active: false,
	})
	h.fake.mu.Unlock()
	if err := h.controller.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	err := h.controller.SetTicketAssignees(context.Background(), "t1", []string{"m2"})
	if !errors.Is(err, ErrBadAssignee) {
		t.Fatalf("assigning an inactive member: err = %v, want ErrBadAssignee", err)
	}

	err = h.controller.CreateTicket(context.Background(), apiclient.CreateTicketRequest{
		ProjectID: "p1", Title: "Audit log retention",
		Priority: schema.PriorityLow, AssigneeIDs: []string{"m1", "m2"},
	})
	if !errors.Is(err, ErrBadAssignee) {
		t.Fatalf("creating with an inactive assignee: err = %v, want ErrBadAssignee", err)
	}
	if tickets := h.controller.Snapshot().Tickets; len(tickets) != 1 {
		t.Fatalf("tickets = %d after rejected create, want 1", len(tickets))
	}

	err = h.controller.SetProjectAssignees(context.Background(), "p1", []string{"ghost"})
	if !errors.Is(err, ErrBadAssignee) {
		t.Fatalf("assigning an unknown member: err = %v, want ErrBadAssignee", err)
	}

	// Active members pass the guard and reach the server.
	if err := h.controller.SetTicketAssignees(context.Background(), "t1", []string{"m1"}); err != nil {
		t.Fatalf("SetTicketAssignees with an active member: %v", err)
	}
	tickets := h.controller.Snapshot().Tickets
	if len(tickets[0].Assignees) != 1 || tickets[0].Assignees[0] != "m1" {
		t.Fatalf("assignees = %v, want [m1]", tickets[0].Assignees)
	}
}

func TestFailedRefreshForcesLogout(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.controller.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := h.sessions.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh succeeded against a revoking server")
	}

	if h.sessions.Current() != nil {
		t.Fatal("session survived a failed refresh")
	}
	snapshot := h.controller.Snapshot()
	if snapshot.Tickets != nil || snapshot.Projects != nil || snapshot.Members != nil {
		t.Fatal("canonical state survived a forced logout")
	}
	if *h.logouts != 1 {
		t.Fatalf("logouts = %d, want 1", *h.logouts)
	}
	if len(*h.notices) == 0 {
		t.Fatal("forced logout produced no notice")
	}
}

func TestRevokedRefreshNoticesExactlyOnce(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.controller.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	// An expired access token draws a 401, the refresh exchange is
	// rejected, and the forced logout runs. One failed logical call,
	// so the user sees exactly one notice.
	h.fake.mu.Lock()
	h.fake.failAuth = true
	h.fake.mu.Unlock()

	if err := h.controller.Reload(context.Background()); err == nil {
		t.Fatal("Reload succeeded against a revoking server")
	}

	if got := len(*h.notices); got != 1 {
		for i, notice := range *h.notices {
			t.Logf("notice %d: %q", i, notice.Message)
		}
		t.Fatalf("notices = %d, want exactly 1", got)
	}
	if (*h.notices)[0].Level != NoticeError {
		t.Errorf("notice level = %v, want NoticeError", (*h.notices)[0].Level)
	}
	if *h.logouts != 1 {
		t.Errorf("logouts = %d, want 1", *h.logouts)
	}
	if h.sessions.Current() != nil {
		t.Error("session survived a revoked refresh")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	t.Parallel()

	cache := statecache.NewStore(filepath.Join(t.TempDir(), "statecache.bin"))
	h := newHarness(t, cache)
	if err := h.controller.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := h.controller.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if h.sessions.Current() != nil {
		t.Fatal("session survived logout")
	}
	if h.controller.Snapshot().Tickets != nil {
		t.Fatal("state survived logout")
	}
	if state, err := cache.Load(); err != nil || state != nil {
		t.Fatalf("cache after logout = (%v, %v), want (nil, nil)", state, err)
	}
	if *h.logouts != 1 {
		t.Fatalf("logouts = %d, want 1", *h.logouts)
	}
}

func TestWarmStartRestoresCachedState(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cache := statecache.NewStore(filepath.Join(dir, "statecache.bin"))

	first := newHarness(t, cache)
	if err := first.controller.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	second := newHarness(t, cache)
	if !second.controller.WarmStart() {
		t.Fatal("WarmStart found no cached state")
	}
	snapshot := second.controller.Snapshot()
	if len(snapshot.Tickets) != 1 || snapshot.Tickets[0].ID != "t1" {
		t.Fatalf("warm-start tickets = %+v", snapshot.Tickets)
	}
	if snapshot.LoadedAt.IsZero() {
		t.Fatal("warm start left LoadedAt zero")
	}

	// After a real reload the cached copy is stale and ignored.
	if err := second.controller.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	if second.controller.WarmStart() {
		t.Fatal("WarmStart overwrote freshly reloaded state")
	}
}
