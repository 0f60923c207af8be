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
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/workspace"
)

func ticketCommand() *cli.Command {
	return &cli.Command{
		Name:    "ticket",
		Summary: "Manage tickets",
		Subcommands: []*cli.Command{
			ticketListCommand(),
			ticketCreateCommand(),
			ticketMoveCommand(),
			ticketAssignCommand(),
			ticketDeleteCommand(),
		},
	}
}

func ticketListCommand() *cli.Command {
	var configPath string
	var projectID string
	var asJSON bool

	return &cli.Command{
		Name:    "list",
		Summary: "List tickets",
		Usage:   "jiralite ticket list [flags]",
		Flags: func() *pflag.FlagSet {
			flags := newFlagSet("list", &configPath)
			flags.StringVar(&projectID, "project", "", "restrict to one project by ID")
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
			return flags
		},
		Run: func(args []string) error {
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}
			tickets, err := app.Client.ListTickets(context.Background(), projectID)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.WriteJSON(tickets)
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "STATUS\tPRIORITY\tTITLE\tSUBMISSIONS\tID")
			for _, ticket := range tickets {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
					ticket.Status.Label(), ticket.Priority, ticket.Title, len(ticket.Submissions), ticket.ID)
			}
			return tw.Flush()
		},
	}
}

func ticketCreateCommand() *cli.Command {
	var configPath string
	var projectID, title, description, priority string
	var assignees []string

	return &cli.Command{
		Name:    "create",
		Summary: "Create a ticket",
		Usage:   "jiralite ticket create --project ID --title TITLE [flags]",
		Examples: []cli.Example{
			{Command: "jiralite ticket create --project p1 --title 'Wire login form' --priority HIGH"},
		},
		Flags: func() *pflag.FlagSet {
			flags := newFlagSet("create", &configPath)
			flags.StringVar(&projectID, "project", "", "owning project ID")
			flags.StringVar(&title, "title", "", "ticket title")
			flags.StringVar(&description, "description", "", "optional markdown description")
			flags.StringVar(&priority, "priority", string(schema.PriorityMedium), "LOW, MEDIUM, HIGH, or CRITICAL")
			flags.StringSliceVar(&assignees, "assignees", nil, "member IDs to assign")
			return flags
		},
		Run: func(args []string) error {
			if projectID == "" || title == "" {
				return fmt.Errorf("--project and --title are required")
			}
			parsedPriority, err := schema.ParseTicketPriority(priority)
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
			return app.Controller.CreateTicket(context.Background(), apiclient.CreateTicketRequest{
				ProjectID:   projectID,
				Title:       title,
				Description: description,
				Priority:    parsedPriority,
				AssigneeIDs: assignees,
			})
		},
	}
}

func ticketMoveCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "move",
		Summary: "Change a ticket's status",
		Description: `Move a ticket to a new status. The change is applied optimistically:
the local state shows the new status immediately, and is rolled back
if the server rejects the change. Any status can move to any other.`,
		Usage: "jiralite ticket move <ticket-id> <status> [flags]",
		Examples: []cli.Example{
			{Command: "jiralite ticket move t1 IN_REVIEW"},
		},
		Flags: func() *pflag.FlagSet {
			return newFlagSet("move", &configPath)
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: jiralite ticket move <ticket-id> <status>")
			}
			status, err := schema.ParseTicketStatus(args[1])
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
			return app.Controller.SetTicketStatus(context.Background(), args[0], status, workspace.MoveProgrammatic)
		},
	}
}

func ticketAssignCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "assign",
		Summary: "Replace a ticket's assignee set",
		Usage:   "jiralite ticket assign <ticket-id> [member-id...] [flags]",
		Flags: func() *pflag.FlagSet {
			return newFlagSet("assign", &configPath)
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("usage: jiralite ticket assign <ticket-id> [member-id...]")
			}
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}
			if err := app.Controller.Reload(context.Background()); err != nil {
				return err
			}
			return app.Controller.SetTicketAssignees(context.Background(), args[0], args[1:])
		},
	}
}

func ticketDeleteCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a ticket",
		Usage:   "jiralite ticket delete <ticket-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return newFlagSet("delete", &configPath)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: jiralite ticket delete <ticket-id>")
			}
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}
			if err := app.Controller.Reload(context.Background()); err != nil {
				return err
			}
			return app.Controller.DeleteTicket(context.Background(), args[0])
		},
	}
}
