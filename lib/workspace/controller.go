// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/apiclient"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/session"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/statecache"
)

// ErrBadAssignee reports an assignment naming a member that cannot
// receive new work: unknown, or marked inactive. Inactive members
// keep their historical assignments but are never offered new ones.
var ErrBadAssignee = errors.New("workspace: member cannot be assigned")

// ErrNotReady reports a command attempted without its local
// precondition (no such ticket, no file selected). Nothing was sent
// to the server.
var ErrNotReady = errors.New("workspace: not ready")

// NoticeLevel classifies a transient user-facing notification.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// Notice is a transient, non-blocking notification: the status bar or
// toast line, never a modal.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	// Client is the authenticated API client. Required.
	Client *apiclient.Client

	// Sessions is the session manager. Required. The controller
	// registers itself as its invalid-session handler: a failed
	// refresh forces a logout.
	Sessions *session.Manager

	// Cache, if non-nil, persists the entity state between runs so
	// the next start can render before its first reload completes.
	Cache *statecache.Store

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// OnNotice, if non-nil, receives transient notifications:
	// request failures, forced logout. Called from whichever
	// goroutine hit the failure.
	OnNotice func(Notice)

	// OnLogout, if non-nil, is called after the session and all
	// local state have been cleared, both for user-initiated and
	// forced logouts.
	OnLogout func()
}

// Controller owns the canonical entity collections and coordinates
// reloads, mutations, and logout.
type Controller struct {
	client   *apiclient.Client
	sessions *session.Manager
	cache    *statecache.Store
	logger   *slog.Logger
	onNotice func(Notice)
	onLogout func()

	mu       sync.RWMutex
	projects []schema.Project
	members  []schema.TeamMember
	tickets  []schema.Ticket
	loadedAt time.Time
	confirm  *StatusConfirm

	// generation counts collection swaps (reload, warm start,
	// optimistic apply, clear). An optimistic rollback only fires if
	// the generation still matches its own apply, so it never stomps
	// state installed after it.
	generation uint64
}

// NewController creates a Controller and wires it to the client's
// failure observer and the session manager's invalid-session handler.
func NewController(config ControllerConfig) (*Controller, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("workspace: Client is required")
	}
	if config.Sessions == nil {
		return nil, fmt.Errorf("workspace: Sessions is required")
	}

	controller := &Controller{
		client:   config.Client,
		sessions: config.Sessions,
		cache:    config.Cache,
		logger:   config.Logger,
		onNotice: config.OnNotice,
		onLogout: config.OnLogout,
	}
	if controller.logger == nil {
		controller.logger = slog.Default()
	}

	config.Client.SetFailureObserver(func(err error) {
		controller.notify(Notice{Level: NoticeError, Message: err.Error()})
	})
	config.Sessions.SetOnInvalid(controller.forceLogout)

	return controller, nil
}

func (c *Controller) notify(notice Notice) {
	if c.onNotice != nil {
		c.onNotice(notice)
	}
}

// Snapshot is an immutable read model of the canonical collections.
// The slices are never mutated after a Snapshot is taken: reload
// replaces them wholesale and the optimistic path patches a cloned
// slice, so holding a Snapshot across either is safe.
type Snapshot struct {
	Projects []schema.Project
	Members  []schema.TeamMember
	Tickets  []schema.Ticket

	// LoadedAt is when this state was fetched, or the cache's save
	// time when it came from a warm start. Zero before either.
	LoadedAt time.Time

	// Confirm is the most recent confirmed optimistic move, for the
	// transient confirmation pulse. Nil when none is pending.
	Confirm *StatusConfirm
}

// Snapshot returns the current read model.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Projects: c.projects,
		Members:  c.members,
		Tickets:  c.tickets,
		LoadedAt: c.loadedAt,
		Confirm:  c.confirm,
	}
}

// Reload replaces the canonical collections with the server's current
// view. On success the state is also written to the cache (best
// effort) for the next warm start.
func (c *Controller) Reload(ctx context.Context) error {
	projects, err := c.client.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("workspace: reload: %w", err)
	}
	members, err := c.client.ListMembers(ctx, false)
	if err != nil {
		return fmt.Errorf("workspace: reload: %w", err)
	}
	tickets, err := c.client.ListTickets(ctx, "")
	if err != nil {
		return fmt.Errorf("workspace: reload: %w", err)
	}

	now := time.Now()
	c.mu.Lock()
	c.projects = projects
	c.members = members
	c.tickets = tickets
	c.loadedAt = now
	c.generation++
	c.mu.Unlock()

	c.saveCache()
	return nil
}

// WarmStart populates the collections from the local cache, if one
// exists and validates. Reports whether any state was restored. A
// corrupt cache is discarded silently: the first reload rewrites it.
func (c *Controller) WarmStart() bool {
	if c.cache == nil {
		return false
	}
	state, err := c.cache.Load()
	if err != nil {
		c.logger.Warn("discarding unreadable state cache", "error", err)
		return false
	}
	if state == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loadedAt.IsZero() {
		// A real reload already happened; the cache is stale.
		return false
	}
	c.projects = state.Projects
	c.members = state.Members
	c.tickets = state.Tickets
	c.loadedAt = state.SavedAt
	c.generation++
	return true
}

func (c *Controller) saveCache() {
	if c.cache == nil {
		return
	}
	snapshot := c.Snapshot()
	err := c.cache.Save(&statecache.State{
		Projects: snapshot.Projects,
		Members:  snapshot.Members,
		Tickets:  snapshot.Tickets,
		SavedAt:  snapshot.LoadedAt,
	})
	if err != nil {
		c.logger.Warn("writing state cache failed", "error", err)
	}
}

// Login exchanges credentials for a session, persists it, and pulls
// the initial state. A failed login leaves no session behind.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	authenticated, err := c.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := c.sessions.Set(authenticated); err != nil {
		return err
	}
	return c.Reload(ctx)
}

// Logout is the user-initiated logout: tell the server (best effort),
// then clear the session and all local state.
func (c *Controller) Logout(ctx context.Context) error {
	c.client.Logout(ctx)
	err := c.sessions.Clear()
	c.clearState()
	if c.onLogout != nil {
		c.onLogout()
	}
	return err
}

// forceLogout runs when the session manager declares the session
// invalid: the session itself is already cleared, so only local state
// remains to drop.
func (c *Controller) forceLogout() {
	c.clearState()
	c.notify(Notice{Level: NoticeError, Message: "session expired, please log in again"})
	if c.onLogout != nil {
		c.onLogout()
	}
}

func (c *Controller) clearState() {
	c.mu.Lock()
	c.projects = nil
	c.members = nil
	c.tickets = nil
	c.loadedAt = time.Time{}
	c.confirm = nil
	c.generation++
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.Remove(); err != nil {
			c.logger.Warn("removing state cache failed", "error", err)
		}
	}
}

// findTicket returns the index of a ticket in the canonical slice, or
// -1. Callers hold c.mu.
func (c *Controller) findTicket(ticketID string) int {
	return slices.IndexFunc(c.tickets, func(t schema.Ticket) bool { return t.ID == ticketID })
}
