// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/cmd/jiralite/cli"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/apiclient"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

func memberCommand() *cli.Command {
	return &cli.Command{
		Name:    "member",
		Summary: "Manage team members",
		Subcommands: []*cli.Command{
			memberListCommand(),
			memberCreateCommand(),
			memberDeleteCommand(),
		},
	}
}

func memberListCommand() *cli.Command {
	var configPath string
	var activeOnly, asJSON bool

	return &cli.Command{
		Name:    "list",
		Summary: "List team members",
		Usage:   "jiralite member list [flags]",
		Flags: func() *pflag.FlagSet {
			flags := newFlagSet("list", &configPath)
			flags.BoolVar(&activeOnly, "active", false, "only active members")
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
			return flags
		},
		Run: func(args []string) error {
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}
			members, err := app.Client.ListMembers(context.Background(), activeOnly)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.WriteJSON(members)
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "NAME\tEMAIL\tROLE\tACTIVE\tID")
			for _, member := range members {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n",
					member.Name, member.Email, member.Role.Label(), member.Active, member.ID)
			}
			return tw.Flush()
		},
	}
}

func memberCreateCommand() *cli.Command {
	var configPath string
	var name, email, role string

	return &cli.Command{
		Name:    "create",
		Summary: "Create a team member",
		Usage:   "jiralite member create --name NAME --email EMAIL [flags]",
		Examples: []cli.Example{
			{Command: "jiralite member create --name 'Ada Lovelace' --email ada@example.com --role CAPTAIN"},
		},
		Flags: func() *pflag.FlagSet {
			flags := newFlagSet("create", &configPath)
			flags.StringVar(&name, "name", "", "member name")
			flags.StringVar(&email, "email", "", "member email")
			flags.StringVar(&role, "role", string(schema.RoleMember), "role: MEMBER, BOARD, or CAPTAIN")
			return flags
		},
		Run: func(args []string) error {
			if name == "" || email == "" {
				return fmt.Errorf("--name and --email are required")
			}
			parsedRole, err := schema.ParseRole(role)
			if err != nil {
				return err
			}
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}
			if err := app.Controller.Reload(context.Background()); err != nil {
				return err
			}
			return app.Controller.CreateMember(context.Background(), apiclient.CreateMemberRequest{
				Name:  name,
				Email: email,
				Role:  parsedRole,
			})
		},
	}
}

func memberDeleteCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a team member",
		Usage:   "jiralite member delete <member-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return newFlagSet("delete", &configPath)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: jiralite member delete <member-id>")
			}
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}
			if err := app.Controller.Reload(context.Background()); err != nil {
				return err
			}
			return app.Controller.DeleteMember(context.Background(), args[0])
		},
	}
}
