// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the jiralite command tree.
package commands

import (
	"github.com/spf13/pflag"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/cmd/jiralite/cli"
)

// Root returns the root of the jiralite command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "jiralite",
		Summary: "Team task tracker client",
		Description: `jiralite is the command-line client for the Jira-Lite task tracker.

Configuration is read from the file named by the JIRALITE_CONFIG
environment variable or the --config flag on each command; there is
no automatic discovery. Log in once with 'jiralite login'; the session
is persisted and refreshed transparently afterwards.`,
		Subcommands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			projectCommand(),
			memberCommand(),
			ticketCommand(),
			submissionCommand(),
			exportCommand(),
			statsCommand(),
			boardCommand(),
		},
	}
}

// newFlagSet creates a FlagSet carrying the flags every command
// shares and returns the bound --config value.
func newFlagSet(name string, configPath *string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.StringVar(configPath, "config", "", "path to jiralite.yaml (overrides JIRALITE_CONFIG)")
	return flags
}
