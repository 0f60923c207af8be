// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/cmd/jiralite/cli"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/apiclient"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/config"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/session"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/statecache"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/workspace"
)

// App bundles the wired client stack for one command invocation.
type App struct {
	Config     *config.Config
	Client     *apiclient.Client
	Sessions   *session.Manager
	Controller *workspace.Controller
	Logger     *slog.Logger
}

// openApp loads the config (from --config or JIRALITE_CONFIG) and
// wires client, session manager, state cache, and controller. Every
// command goes through here so the wiring exists in exactly one
// place.
func openApp(configPath string) (*App, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	logger := cli.NewCommandLogger()

	client, err := apiclient.New(apiclient.ClientConfig{
		BaseURL: cfg.Server,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	sessionPath := cfg.Paths.SessionFile
	if sessionPath == "" {
		sessionPath = session.FilePath()
	}
	sessions, err := session.NewManager(session.ManagerConfig{
		Store:        session.NewStore(sessionPath),
		Refresher:    client,
		Logger:       logger,
		ExpirySkew:   cfg.Session.ExpirySkew.Std(),
		PollInterval: cfg.Session.PollInterval.Std(),
	})
	if err != nil {
		return nil, err
	}
	client.SetTokens(sessions)

	cachePath := cfg.Paths.StateCache
	if cachePath == "" {
		cachePath, err = statecache.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	controller, err := workspace.NewController(workspace.ControllerConfig{
		Client:   client,
		Sessions: sessions,
		Cache:    statecache.NewStore(cachePath),
		Logger:   logger,
		OnNotice: func(notice workspace.Notice) {
			if notice.Level == workspace.NoticeError {
				fmt.Fprintf(os.Stderr, "! %s\n", notice.Message)
			}
		},
	})
	if err != nil {
		return nil, err
	}

	return &App{
		Config:     cfg,
		Client:     client,
		Sessions:   sessions,
		Controller: controller,
		Logger:     logger,
	}, nil
}

// requireSession fails fast when no session is persisted, before any
// request goes out.
func (a *App) requireSession() error {
	if a.Sessions.Current() == nil {
		return fmt.Errorf("not logged in; run 'jiralite login <email>' first")
	}
	return nil
}

// openAuthenticated is openApp plus the session check every workspace
// command needs. One-shot commands have no background poller, so the
// session is proactively freshened here; the gateway's 401 retry
// stays the fallback for tokens revoked mid-command.
func openAuthenticated(configPath string) (*App, error) {
	app, err := openApp(configPath)
	if err != nil {
		return nil, err
	}
	if err := app.requireSession(); err != nil {
		return nil, err
	}
	if _, err := app.Sessions.EnsureFresh(context.Background()); err != nil {
		if errors.Is(err, session.ErrSessionInvalid) || errors.Is(err, session.ErrNoSession) {
			return nil, fmt.Errorf("session expired; run 'jiralite login <email>' again")
		}
		return nil, err
	}
	return app, nil
}
