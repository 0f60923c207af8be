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
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/boardview"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

const statsWeeks = 8

func statsCommand() *cli.Command {
	var configPath string
	var asJSON bool
	var projectID string

	return &cli.Command{
		Name:    "stats",
		Summary: "Show ticket counts and weekly submission volume",
		Usage:   "jiralite stats [flags]",
		Flags: func() *pflag.FlagSet {
			flags := newFlagSet("stats", &configPath)
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
			flags.StringVar(&projectID, "project", "", "restrict to one project by ID")
			return flags
		},
		Run: func(args []string) error {
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}
			if err := app.Controller.Reload(context.Background()); err != nil {
				return err
			}
			snapshot := app.Controller.Snapshot()

			tickets := snapshot.Tickets
			if projectID != "" {
				filtered := tickets[:0:0]
				for _, ticket := range tickets {
					if ticket.ProjectID == projectID {
						filtered = append(filtered, ticket)
					}
				}
				tickets = filtered
			}

			stats := boardview.Count(tickets)
			entries := boardview.FlattenSubmissions(tickets, snapshot.Projects)
			weeks := boardview.WeeklyCounts(entries, statsWeeks)

			if asJSON {
				return cli.WriteJSON(struct {
					Tickets boardview.Stats        `json:"tickets"`
					Weekly  []boardview.WeekBucket `json:"weekly_submissions"`
				}{stats, weeks})
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(tw, "tickets\t%d\n", stats.Total)
			for _, status := range schema.Statuses() {
				fmt.Fprintf(tw, "  %s\t%d\n", status.Label(), stats.ByStatus[status])
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "WEEK\tSUBMISSIONS")
			for _, bucket := range weeks {
				fmt.Fprintf(tw, "%s\t%d\n", bucket.Key, bucket.Count)
			}
			return tw.Flush()
		},
	}
}
