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
)

func projectCommand() *cli.Command {
	return &cli.Command{
		Name:    "project",
		Summary: "Manage projects",
		Subcommands: []*cli.Command{
			projectListCommand(),
			projectCreateCommand(),
			projectDeleteCommand(),
			projectAssignCommand(),
		},
	}
}

func projectListCommand() *cli.Command {
	var configPath string
	var asJSON bool

	return &cli.Command{
		Name:    "list",
		Summary: "List projects",
		Usage:   "jiralite project list [flags]",
		Flags: func() *pflag.FlagSet {
			flags := newFlagSet("list", &configPath)
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
			return flags
		},
		Run: func(args []string) error {
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}
			projects, err := app.Client.ListProjects(context.Background())
			if err != nil {
				return err
			}
			if asJSON {
				return cli.WriteJSON(projects)
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "KEY\tNAME\tASSIGNEES\tID")
			for _, project := range projects {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", project.Key, project.Name, len(project.Assignments), project.ID)
			}
			return tw.Flush()
		},
	}
}

func projectCreateCommand() *cli.Command {
	var configPath string
	var key, name, description string
	var assignees []string

	return &cli.Command{
		Name:    "create",
		Summary: "Create a project",
		Usage:   "jiralite project create --key KEY --name NAME [flags]",
		Examples: []cli.Example{
			{Command: "jiralite project create --key CORE --name 'Core platform'"},
		},
		Flags: func() *pflag.FlagSet {
			flags := newFlagSet("create", &configPath)
			flags.StringVar(&key, "key", "", "unique uppercase short code")
			flags.StringVar(&name, "name", "", "project name")
			flags.StringVar(&description, "description", "", "optional description")
			flags.StringSliceVar(&assignees, "assignees", nil, "member IDs to assign")
			return flags
		},
		Run: func(args []string) error {
			if key == "" || name == "" {
				return fmt.Errorf("--key and --name are required")
			}
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}
			if err := app.Controller.Reload(context.Background()); err != nil {
				return err
			}
			return app.Controller.CreateProject(context.Background(), apiclient.CreateProjectRequest{
				Key:         key,
				Name:        name,
				Description: description,
				AssigneeIDs: assignees,
			})
		},
	}
}

func projectDeleteCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a project",
		Usage:   "jiralite project delete <project-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return newFlagSet("delete", &configPath)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: jiralite project delete <project-id>")
			}
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}
			if err := app.Controller.Reload(context.Background()); err != nil {
				return err
			}
			return app.Controller.DeleteProject(context.Background(), args[0])
		},
	}
}

func projectAssignCommand() *cli.Command {
	var configPath string

	return &cli.Command{
		Name:    "assign",
		Summary: "Replace a project's assignee set",
		Usage:   "jiralite project assign <project-id> [member-id...] [flags]",
		Examples: []cli.Example{
			{Description: "Assign two members", Command: "jiralite project assign p1 m1 m2"},
			{Description: "Clear all assignees", Command: "jiralite project assign p1"},
		},
		Flags: func() *pflag.FlagSet {
			return newFlagSet("assign", &configPath)
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("usage: jiralite project assign <project-id> [member-id...]")
			}
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}
			if err := app.Controller.Reload(context.Background()); err != nil {
				return err
			}
			return app.Controller.SetProjectAssignees(context.Background(), args[0], args[1:])
		},
	}
}
