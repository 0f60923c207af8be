// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/cmd/jiralite/cli"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/boardtui"
)

func boardCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:        "board",
		Summary:     "Open the interactive ticket board",
		Description: "A full-screen four-column board. Status moves apply immediately on screen and roll back if the server rejects them.",
		Usage:       "jiralite board [flags]",
		Flags: func() *pflag.FlagSet {
			return newFlagSet("board", &configPath)
		},
		Run: func(args []string) error {
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}

			// Cached state makes the first frame instant; the model's
			// Init reload replaces it with fresh data.
			app.Controller.WarmStart()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go app.Sessions.AutoRefresh(ctx)

			program := tea.NewProgram(boardtui.New(app.Controller), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return err
			}
			return nil
		},
	}
}
