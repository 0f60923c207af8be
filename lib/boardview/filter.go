// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package boardview

import (
	"slices"
	"strings"
	"time"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

// TicketPredicate accepts or rejects one ticket.
type TicketPredicate func(*schema.Ticket) bool

// FilterTickets returns the tickets accepted by every predicate, in
// input order. No predicates means the full input.
func FilterTickets(tickets []schema.Ticket, predicates ...TicketPredicate) []schema.Ticket {
	var result []schema.Ticket
	for i := range tickets {
		if acceptsTicket(&tickets[i], predicates) {
			result = append(result, tickets[i])
		}
	}
	return result
}

func acceptsTicket(ticket *schema.Ticket, predicates []TicketPredicate) bool {
	for _, predicate := range predicates {
		if !predicate(ticket) {
			return false
		}
	}
	return true
}

// TicketText matches tickets whose title or description contains the
// query, case-insensitively.
func TicketText(query string) TicketPredicate {
	query = strings.ToLower(query)
	return func(ticket *schema.Ticket) bool {
		return strings.Contains(strings.ToLower(ticket.Title), query) ||
			strings.Contains(strings.ToLower(ticket.Description), query)
	}
}

// TicketStatusIs matches tickets with exactly this status.
func TicketStatusIs(status schema.TicketStatus) TicketPredicate {
	return func(ticket *schema.Ticket) bool { return ticket.Status == status }
}

// TicketPriorityIs matches tickets with exactly this priority.
func TicketPriorityIs(priority schema.TicketPriority) TicketPredicate {
	return func(ticket *schema.Ticket) bool { return ticket.Priority == priority }
}

// TicketInProject matches tickets owned by the given project.
func TicketInProject(projectID string) TicketPredicate {
	return func(ticket *schema.Ticket) bool { return ticket.ProjectID == projectID }
}

// TicketAssignedTo matches tickets whose assignee set contains the
// member.
func TicketAssignedTo(memberID string) TicketPredicate {
	return func(ticket *schema.Ticket) bool {
		return slices.Contains(ticket.Assignees, memberID)
	}
}

// TicketFilter is the filter bar's state: zero-valued fields are
// inactive ("all"). Predicates converts the active fields into the
// predicate list FilterTickets combines by AND.
type TicketFilter struct {
	Text       string
	Status     schema.TicketStatus
	Priority   schema.TicketPriority
	ProjectID  string
	AssigneeID string
}

// Predicates returns one predicate per active field.
func (f TicketFilter) Predicates() []TicketPredicate {
	var predicates []TicketPredicate
	if f.Text != "" {
		predicates = append(predicates, TicketText(f.Text))
	}
	if f.Status != "" {
		predicates = append(predicates, TicketStatusIs(f.Status))
	}
	if f.Priority != "" {
		predicates = append(predicates, TicketPriorityIs(f.Priority))
	}
	if f.ProjectID != "" {
		predicates = append(predicates, TicketInProject(f.ProjectID))
	}
	if f.AssigneeID != "" {
		predicates = append(predicates, TicketAssignedTo(f.AssigneeID))
	}
	return predicates
}

// Apply filters tickets by this filter's active fields.
func (f TicketFilter) Apply(tickets []schema.Ticket) []schema.Ticket {
	return FilterTickets(tickets, f.Predicates()...)
}

// MemberPredicate accepts or rejects one team member.
type MemberPredicate func(*schema.TeamMember) bool

// FilterMembers returns the members accepted by every predicate, in
// input order.
func FilterMembers(members []schema.TeamMember, predicates ...MemberPredicate) []schema.TeamMember {
	var result []schema.TeamMember
	for i := range members {
		accepted := true
		for _, predicate := range predicates {
			if !predicate(&members[i]) {
				accepted = false
				break
			}
		}
		if accepted {
			result = append(result, members[i])
		}
	}
	return result
}

// MemberText matches members whose name or email contains the query,
// case-insensitively.
func MemberText(query string) MemberPredicate {
	query = strings.ToLower(query)
	return func(member *schema.TeamMember) bool {
		return strings.Contains(strings.ToLower(member.Name), query) ||
			strings.Contains(strings.ToLower(member.Email), query)
	}
}

// MemberRoleIs matches members with exactly this role.
func MemberRoleIs(role schema.Role) MemberPredicate {
	return func(member *schema.TeamMember) bool { return member.Role == role }
}

// MemberIsActive matches members that may receive new assignments.
func MemberIsActive() MemberPredicate {
	return func(member *schema.TeamMember) bool { return member.Active }
}

// SubmissionEntry is a submission joined with its owning ticket and
// project, the shape the list, export, and aggregation views consume.
type SubmissionEntry struct {
	Submission schema.Submission
	Ticket     schema.Ticket
	ProjectKey string
}

// FlattenSubmissions joins every ticket's submissions with their
// owning ticket and project key, preserving ticket order and the
// per-ticket submission order.
func FlattenSubmissions(tickets []schema.Ticket, projects []schema.Project) []SubmissionEntry {
	keys := make(map[string]string, len(projects))
	for _, project := range projects {
		keys[project.ID] = project.Key
	}

	var entries []SubmissionEntry
	for _, ticket := range tickets {
		for _, submission := range ticket.Submissions {
			entries = append(entries, SubmissionEntry{
				Submission: submission,
				Ticket:     ticket,
				ProjectKey: keys[ticket.ProjectID],
			})
		}
	}
	return entries
}

// SubmissionPredicate accepts or rejects one submission entry.
type SubmissionPredicate func(*SubmissionEntry) bool

// FilterSubmissions returns the entries accepted by every predicate,
// in input order.
func FilterSubmissions(entries []SubmissionEntry, predicates ...SubmissionPredicate) []SubmissionEntry {
	var result []SubmissionEntry
	for i := range entries {
		accepted := true
		for _, predicate := range predicates {
			if !predicate(&entries[i]) {
				accepted = false
				break
			}
		}
		if accepted {
			result = append(result, entries[i])
		}
	}
	return result
}

// SubmissionText matches entries whose file name, note, or ticket
// title contains the query, case-insensitively.
func SubmissionText(query string) SubmissionPredicate {
	query = strings.ToLower(query)
	return func(entry *SubmissionEntry) bool {
		return strings.Contains(strings.ToLower(entry.Submission.FileName), query) ||
			strings.Contains(strings.ToLower(entry.Submission.Note), query) ||
			strings.Contains(strings.ToLower(entry.Ticket.Title), query)
	}
}

// SubmissionInProject matches entries whose ticket belongs to the
// project.
func SubmissionInProject(projectID string) SubmissionPredicate {
	return func(entry *SubmissionEntry) bool { return entry.Ticket.ProjectID == projectID }
}

// SubmissionBy matches entries submitted by the member.
func SubmissionBy(memberID string) SubmissionPredicate {
	return func(entry *SubmissionEntry) bool { return entry.Submission.SubmittedByID == memberID }
}

// SubmissionBetween matches entries created within [start, end] in
// day granularity: the range covers start 00:00:00 through end
// 23:59:59.999999999 in each bound's own location. A zero bound
// imposes no constraint on that side.
func SubmissionBetween(start, end time.Time) SubmissionPredicate {
	var lower, upper time.Time
	if !start.IsZero() {
		lower = dayStart(start)
	}
	if !end.IsZero() {
		upper = dayStart(end).AddDate(0, 0, 1)
	}
	return func(entry *SubmissionEntry) bool {
		created := entry.Submission.CreatedAt
		if !lower.IsZero() && created.Before(lower) {
			return false
		}
		if !upper.IsZero() && !created.Before(upper) {
			return false
		}
		return true
	}
}

// dayStart truncates a time to midnight in its own location.
func dayStart(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
