// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/cmd/jiralite/cli"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/boardview"
)

func exportCommand() *cli.Command {
	var configPath string
	var output string
	var filters submissionFilterFlags

	return &cli.Command{
		Name:        "export",
		Summary:     "Export filtered submissions as CSV",
		Description: "Writes a UTF-8 CSV (with byte-order mark, for spreadsheet imports) of the submissions matching the given filters.",
		Usage:       "jiralite export [flags]",
		Examples: []cli.Example{
			{Description: "This quarter's hand-ins for one project", Command: "jiralite export --project p1 --from 2026-01-01"},
		},
		Flags: func() *pflag.FlagSet {
			flags := newFlagSet("export", &configPath)
			flags.StringVarP(&output, "output", "o", "", "output path (default: export dir with a dated name)")
			filters.bind(flags)
			return flags
		},
		Run: func(args []string) error {
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}
			entries, err := loadSubmissionEntries(app, &filters)
			if err != nil {
				return err
			}

			document := boardview.ExportCSV(entries, app.Controller.Snapshot().Members)

			if output == "" {
				output = app.Config.ExportPath(boardview.ExportFileName(time.Now()))
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(output, []byte(document), 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %d submissions to %s\n", len(entries), output)
			return nil
		},
	}
}
