// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/cmd/jiralite/cli"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/apiclient"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/boardview"
)

func submissionCommand() *cli.Command {
	return &cli.Command{
		Name:    "submission",
		Summary: "Manage ticket submissions",
		Subcommands: []*cli.Command{
			submissionListCommand(),
			submissionUploadCommand(),
			submissionDownloadCommand(),
		},
	}
}

// submissionFilterFlags binds the flags shared by 'submission list'
// and 'export' and converts them into predicates.
type submissionFilterFlags struct {
	text      string
	projectID string
	memberID  string
	from      string
	to        string
	preset    string
}

func (f *submissionFilterFlags) bind(flags *pflag.FlagSet) {
	flags.StringVar(&f.text, "text", "", "substring match over file name, note, and ticket title")
	flags.StringVar(&f.projectID, "project", "", "restrict to one project by ID")
	flags.StringVar(&f.memberID, "member", "", "restrict to one submitter by member ID")
	flags.StringVar(&f.from, "from", "", "first day, inclusive (2026-02-09)")
	flags.StringVar(&f.to, "to", "", "last day, inclusive")
	flags.StringVar(&f.preset, "preset", "", "named preset from the filter presets file")
}

func (f *submissionFilterFlags) predicates(app *App) ([]boardview.SubmissionPredicate, error) {
	if f.preset != "" {
		presets, err := boardview.LoadPresets(app.Config.Paths.FilterPresets)
		if err != nil {
			return nil, err
		}
		preset, err := boardview.FindPreset(presets, f.preset)
		if err != nil {
			return nil, err
		}
		return preset.Predicates(app.Controller.Snapshot().Projects)
	}

	var predicates []boardview.SubmissionPredicate
	if f.text != "" {
		predicates = append(predicates, boardview.SubmissionText(f.text))
	}
	if f.projectID != "" {
		predicates = append(predicates, boardview.SubmissionInProject(f.projectID))
	}
	if f.memberID != "" {
		predicates = append(predicates, boardview.SubmissionBy(f.memberID))
	}

	var from, to time.Time
	var err error
	if f.from != "" {
		if from, err = time.ParseInLocation(time.DateOnly, f.from, time.Local); err != nil {
			return nil, fmt.Errorf("invalid --from date: %w", err)
		}
	}
	if f.to != "" {
		if to, err = time.ParseInLocation(time.DateOnly, f.to, time.Local); err != nil {
			return nil, fmt.Errorf("invalid --to date: %w", err)
		}
	}
	if !from.IsZero() || !to.IsZero() {
		predicates = append(predicates, boardview.SubmissionBetween(from, to))
	}
	return predicates, nil
}

// loadSubmissionEntries reloads the workspace and returns the
// filtered, flattened submission list.
func loadSubmissionEntries(app *App, filters *submissionFilterFlags) ([]boardview.SubmissionEntry, error) {
	if err := app.Controller.Reload(context.Background()); err != nil {
		return nil, err
	}
	snapshot := app.Controller.Snapshot()
	entries := boardview.FlattenSubmissions(snapshot.Tickets, snapshot.Projects)

	predicates, err := filters.predicates(app)
	if err != nil {
		return nil, err
	}
	return boardview.FilterSubmissions(entries, predicates...), nil
}

func submissionListCommand() *cli.Command {
	var configPath string
	var asJSON bool
	var filters submissionFilterFlags

	return &cli.Command{
		Name:    "list",
		Summary: "List submissions across tickets",
		Usage:   "jiralite submission list [flags]",
		Examples: []cli.Example{
			{Description: "Everything Ada handed in this week", Command: "jiralite submission list --member m1 --from 2026-02-09"},
		},
		Flags: func() *pflag.FlagSet {
			flags := newFlagSet("list", &configPath)
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
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
			if asJSON {
				return cli.WriteJSON(entries)
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tPROJECT\tTICKET\tFILE\tTYPE\tBY\tID")
			for _, entry := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					entry.Submission.CreatedAt.Local().Format("2006-01-02 15:04"),
					entry.ProjectKey,
					entry.Ticket.Title,
					entry.Submission.FileName,
					boardview.FileTypeLabel(entry.Submission.FileName),
					entry.Submission.SubmittedByName,
					entry.Submission.ID)
			}
			return tw.Flush()
		},
	}
}

func submissionUploadCommand() *cli.Command {
	var configPath string
	var note string

	return &cli.Command{
		Name:    "upload",
		Summary: "Hand in a file against a ticket",
		Usage:   "jiralite submission upload <ticket-id> <file> [flags]",
		Examples: []cli.Example{
			{Command: "jiralite submission upload t1 report.pdf --note 'first pass'"},
		},
		Flags: func() *pflag.FlagSet {
			flags := newFlagSet("upload", &configPath)
			flags.StringVar(&note, "note", "", "optional note")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: jiralite submission upload <ticket-id> <file>")
			}
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}
			if err := app.Controller.Reload(context.Background()); err != nil {
				return err
			}

			file, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer file.Close()

			submission, err := app.Controller.UploadSubmission(context.Background(), args[0], apiclient.UploadRequest{
				SubmittedByID: app.Sessions.Current().User.ID,
				Note:          note,
				FileName:      filepath.Base(args[1]),
				File:          file,
			})
			if err != nil {
				return err
			}
			fmt.Printf("uploaded %s as submission %s\n", submission.FileName, submission.ID)
			return nil
		},
	}
}

func submissionDownloadCommand() *cli.Command {
	var configPath string
	var output string

	return &cli.Command{
		Name:    "download",
		Summary: "Download a submission's file",
		Usage:   "jiralite submission download <submission-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := newFlagSet("download", &configPath)
			flags.StringVarP(&output, "output", "o", "", "output path (default: the submission's file name)")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: jiralite submission download <submission-id>")
			}
			app, err := openAuthenticated(configPath)
			if err != nil {
				return err
			}

			if output == "" {
				if err := app.Controller.Reload(context.Background()); err != nil {
					return err
				}
				snapshot := app.Controller.Snapshot()
				for _, entry := range boardview.FlattenSubmissions(snapshot.Tickets, snapshot.Projects) {
					if entry.Submission.ID == args[0] {
						output = entry.Submission.FileName
						break
					}
				}
				if output == "" {
					output = args[0] + ".bin"
				}
			}

			file, err := os.Create(output)
			if err != nil {
				return err
			}
			defer file.Close()

			if err := app.Controller.DownloadSubmission(context.Background(), args[0], file); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", output)
			return nil
		},
	}
}
