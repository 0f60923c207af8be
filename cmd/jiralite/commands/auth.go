// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/cmd/jiralite/cli"
)

func loginCommand() *cli.Command {
	var configPath string
	var passwordFile string

	return &cli.Command{
		Name:    "login",
		Summary: "Authenticate and save the session",
		Description: `Log in to the tracker and save the session locally.

After login, every other command uses the saved session transparently
and refreshes the access token in the background when it nears expiry.
The session file is written with mode 0600 since it contains tokens.

The password is prompted interactively, or read from --password-file
(use - to force the prompt).`,
		Usage: "jiralite login <email> [flags]",
		Examples: []cli.Example{
			{Description: "Log in interactively", Command: "jiralite login ada@example.com"},
			{Description: "Log in from a script", Command: "jiralite login ada@example.com --password-file ~/.jiralite-pass"},
		},
		Flags: func() *pflag.FlagSet {
			flags := newFlagSet("login", &configPath)
			flags.StringVar(&passwordFile, "password-file", "", "path to file containing the password, or - to prompt")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: jiralite login <email>")
			}
			app, err := openApp(configPath)
			if err != nil {
				return err
			}

			password, err := cli.ReadPassword(passwordFile)
			if err != nil {
				return err
			}

			if err := app.Controller.Login(context.Background(), args[0], password); err != nil {
				return err
			}
			current := app.Sessions.Current()
			fmt.Printf("logged in as %s (%s)\n", current.User.Name, current.User.Role.Label())
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "logout",
		Summary: "Clear the saved session",
		Description: `Log out: tell the server (best effort) and remove the local session
and cached state. Safe to run when already logged out.`,
		Usage: "jiralite logout [flags]",
		Flags: func() *pflag.FlagSet {
			return newFlagSet("logout", &configPath)
		},
		Run: func(args []string) error {
			app, err := openApp(configPath)
			if err != nil {
				return err
			}
			if err := app.Controller.Logout(context.Background()); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

func whoamiCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the authenticated user",
		Usage:   "jiralite whoami [flags]",
		Flags: func() *pflag.FlagSet {
			return newFlagSet("whoami", &configPath)
		},
		Run: func(args []string) error {
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}
			user := app.Sessions.Current().User
			fmt.Printf("%s <%s> — %s\n", user.Name, user.Email, user.Role.Label())
			return nil
		},
	}
}
