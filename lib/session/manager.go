// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/clock"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

// DefaultExpirySkew is how close to its expiry an access token may get
// before EnsureFresh refreshes it instead of returning it.
const DefaultExpirySkew = 60 * time.Second

// DefaultPollInterval is how often AutoRefresh checks whether the live
// session has entered the skew window.
const DefaultPollInterval = 20 * time.Second

// ErrNoSession is returned when an operation requires a session and
// none is live.
var ErrNoSession = errors.New("session: not logged in")

// ErrSessionInvalid is returned when a refresh fails and the session
// has been cleared. The application must treat this as a forced
// logout.
var ErrSessionInvalid = errors.New("session: refresh failed, session cleared")

// Refresher exchanges a refresh token for a new session. Implemented
// by the API client's unauthenticated refresh call.
type Refresher interface {
	RefreshSession(ctx context.Context, refreshToken string) (*schema.Session, error)
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// Store persists the session across process restarts. Required.
	Store *Store

	// Refresher performs the token exchange. Required.
	Refresher Refresher

	// Clock drives expiry checks and the AutoRefresh poll. If nil,
	// clock.Real() is used.
	Clock clock.Clock

	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger

	// ExpirySkew overrides DefaultExpirySkew when positive.
	ExpirySkew time.Duration

	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration

	// OnInvalid is called (if non-nil) after a failed refresh has
	// cleared the session. The callback runs on the goroutine that
	// observed the failure; it must not call back into the Manager's
	// refresh path.
	OnInvalid func()
}

// Manager owns the live session and its refresh lifecycle.
//
// All methods are safe for concurrent use. The refresh path is
// single-flight: while a refresh is outstanding, additional callers
// wait for it and share its result rather than issuing parallel
// exchanges.
type Manager struct {
	store        *Store
	refresher    Refresher
	clock        clock.Clock
	logger       *slog.Logger
	expirySkew   time.Duration
	pollInterval time.Duration
	onInvalid    func()

	group singleflight.Group

	mu      sync.RWMutex
	current *schema.Session
}

// NewManager creates a Manager and loads any persisted session from
// the store, so a restarted client resumes without re-login.
func NewManager(config ManagerConfig) (*Manager, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("session: Store is required")
	}
	if config.Refresher == nil {
		return nil, fmt.Errorf("session: Refresher is required")
	}

	manager := &Manager{
		store:        config.Store,
		refresher:    config.Refresher,
		clock:        config.Clock,
		logger:       config.Logger,
		expirySkew:   config.ExpirySkew,
		pollInterval: config.PollInterval,
		onInvalid:    config.OnInvalid,
	}
	if manager.clock == nil {
		manager.clock = clock.Real()
	}
	if manager.logger == nil {
		manager.logger = slog.Default()
	}
	if manager.expirySkew <= 0 {
		manager.expirySkew = DefaultExpirySkew
	}
	if manager.pollInterval <= 0 {
		manager.pollInterval = DefaultPollInterval
	}

	persisted, err := config.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("session: loading persisted session: %w", err)
	}
	manager.current = persisted

	return manager, nil
}

// Current returns the live session, or nil when logged out. The
// returned session must be treated as read-only.
func (m *Manager) Current() *schema.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set replaces the live session wholesale (login) and persists it.
func (m *Manager) Set(session *schema.Session) error {
	if err := m.store.Save(session); err != nil {
		return err
	}
	m.mu.Lock()
	m.current = session
	m.mu.Unlock()
	return nil
}

// Clear drops the live session and removes the persisted copy
// (logout).
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	return m.store.Remove()
}

// EnsureFresh returns the current session, refreshing it first if its
// expiry is within the skew window. Returns ErrNoSession when logged
// out.
func (m *Manager) EnsureFresh(ctx context.Context) (*schema.Session, error) {
	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()

	if current == nil {
		return nil, ErrNoSession
	}
	if !current.ExpiresWithin(m.clock.Now(), m.expirySkew) {
		return current, nil
	}
	return m.Refresh(ctx)
}

// Refresh exchanges the refresh token for a new session, persists it,
// and replaces the live session atomically. Concurrent calls share a
// single outstanding exchange. On failure the session is cleared and
// ErrSessionInvalid is returned (wrapping the underlying cause).
func (m *Manager) Refresh(ctx context.Context) (*schema.Session, error) {
	result, err, _ := m.group.Do("refresh", func() (any, error) {
		return m.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*schema.Session), nil
}

// refresh is the single-flighted body of Refresh.
func (m *Manager) refresh(ctx context.Context) (*schema.Session, error) {
	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()

	if current == nil {
		return nil, ErrNoSession
	}
	if current.RefreshToken == "" {
		m.invalidate()
		return nil, fmt.Errorf("%w: no refresh token", ErrSessionInvalid)
	}

	fresh, err := m.refresher.RefreshSession(ctx, current.RefreshToken)
	if err != nil {
		m.logger.Warn("session refresh failed", "error", err)
		m.invalidate()
		return nil, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}

	if err := m.store.Save(fresh); err != nil {
		// The exchange succeeded; a persistence failure must not
		// discard the only copy of the rotated refresh token.
		m.logger.Warn("persisting refreshed session failed", "error", err)
	}

	m.mu.Lock()
	m.current = fresh
	m.mu.Unlock()

	m.logger.Debug("session refreshed",
		"user", fresh.User.Email,
		"expires_at", fresh.AccessTokenExpiresAt,
	)
	return fresh, nil
}

// SetOnInvalid replaces the invalid-session handler. The session
// manager and its consumers are constructed in dependency order, so
// the component that reacts to a forced logout often does not exist
// yet when NewManager runs.
func (m *Manager) SetOnInvalid(handler func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onInvalid = handler
}

// invalidate clears the live and persisted session and signals the
// invalid-session handler.
func (m *Manager) invalidate() {
	m.mu.Lock()
	m.current = nil
	handler := m.onInvalid
	m.mu.Unlock()

	if err := m.store.Remove(); err != nil {
		m.logger.Warn("removing session file failed", "error", err)
	}
	if handler != nil {
		handler()
	}
}

// AutoRefresh proactively refreshes the session whenever its expiry
// enters the skew window, checking every poll interval. Blocks until
// ctx is cancelled; run it in its own goroutine. With proactive
// refresh active, the gateway's reactive 401 path is a fallback for
// clock drift and revocation, not the normal flow.
func (m *Manager) AutoRefresh(ctx context.Context) {
	ticker := m.clock.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.RLock()
			current := m.current
			m.mu.RUnlock()

			if current == nil || !current.ExpiresWithin(m.clock.Now(), m.expirySkew) {
				continue
			}
			if _, err := m.Refresh(ctx); err != nil {
				// Refresh already cleared the session and
				// signalled OnInvalid; keep polling in case a
				// new login arrives.
				m.logger.Debug("proactive refresh failed", "error", err)
			}
		}
	}
}
