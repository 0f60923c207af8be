// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package boardview

import (
	"strings"
	"time"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

// csvHeader lists the export columns in order.
var csvHeader = []string{
	"created_at", "project_key", "ticket_title", "file_name",
	"submitted_by_name", "role_label", "note",
}

// ExportCSV serializes submission entries as the spreadsheet export:
// one row per entry, every field double-quoted with internal quotes
// doubled, rows joined by \n, and the whole document prefixed with a
// UTF-8 byte-order mark so spreadsheet tools pick the right encoding.
//
// The submitter name is the snapshot frozen at submission time; the
// role label is re-resolved against the current member set (a missing
// member — deleted since — yields an empty label). This is a bespoke
// writer rather than encoding/csv because the format quotes every
// field unconditionally, which encoding/csv cannot be made to do.
func ExportCSV(entries []SubmissionEntry, members []schema.TeamMember) string {
	roles := make(map[string]schema.Role, len(members))
	for _, member := range members {
		roles[member.ID] = member.Role
	}

	var document strings.Builder
	document.WriteString("\uFEFF")
	writeCSVRow(&document, csvHeader)

	for i := range entries {
		entry := &entries[i]
		roleLabel := ""
		if role, known := roles[entry.Submission.SubmittedByID]; known {
			roleLabel = role.Label()
		}
		name := entry.Submission.SubmittedByName
		writeCSVRow(&document, []string{
			entry.Submission.CreatedAt.UTC().Format(time.RFC3339),
			entry.ProjectKey,
			entry.Ticket.Title,
			entry.Submission.FileName,
			name,
			roleLabel,
			entry.Submission.Note,
		})
	}

	// Rows are joined by \n: no trailing newline after the last row.
	return strings.TrimSuffix(document.String(), "\n")
}

// ExportFileName returns the artifact name for an export generated on
// the given day: "submissions-<ISO date>.csv".
func ExportFileName(now time.Time) string {
	return "submissions-" + now.Format(time.DateOnly) + ".csv"
}

// writeCSVRow appends one quoted row and a trailing newline.
func writeCSVRow(document *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			document.WriteByte(',')
		}
		document.WriteByte('"')
		document.WriteString(strings.ReplaceAll(field, `"`, `""`))
		document.WriteByte('"')
	}
	document.WriteByte('\n')
}
