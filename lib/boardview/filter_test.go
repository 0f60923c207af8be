// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package boardview

import (
	"testing"
	"time"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

func TestFilterTicketsCombinesByAND(t *testing.T) {
	t.Parallel()

	tickets := sampleTickets()
	got := FilterTickets(tickets,
		TicketText("e"),
		TicketStatusIs(schema.StatusTodo),
		TicketInProject("p2"),
	)
	if len(got) != 1 || got[0].ID != "t3" {
		t.Fatalf("got %v, want exactly t3", got)
	}
}

func TestFilterTicketsNoPredicatesReturnsAll(t *testing.T) {
	t.Parallel()

	tickets := sampleTickets()
	got := FilterTickets(tickets)
	if len(got) != len(tickets) {
		t.Fatalf("got %d tickets, want %d", len(got), len(tickets))
	}
}

func TestTicketFilterZeroValueIsInactive(t *testing.T) {
	t.Parallel()

	var filter TicketFilter
	if n := len(filter.Predicates()); n != 0 {
		t.Fatalf("zero filter has %d predicates, want 0", n)
	}

	filter.Status = schema.StatusTodo
	filter.AssigneeID = "m1"
	got := filter.Apply(sampleTickets())
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("got %v, want exactly t1", got)
	}

	// Clearing the fields clears the filter entirely.
	filter = TicketFilter{}
	if got := filter.Apply(sampleTickets()); len(got) != 4 {
		t.Fatalf("cleared filter kept %d of 4 tickets", len(got))
	}
}

func TestTicketTextMatchesTitleAndDescription(t *testing.T) {
	t.Parallel()

	tickets := []schema.Ticket{
		{ID: "a", Title: "Deploy pipeline"},
		{ID: "b", Title: "Misc", Description: "waiting on DEPLOY window"},
		{ID: "c", Title: "Unrelated"},
	}
	got := FilterTickets(tickets, TicketText("deploy"))
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2 (title and description, case-insensitive)", len(got))
	}
}

func TestFilterMembers(t *testing.T) {
	t.Parallel()

	members := []schema.TeamMember{
		{ID: "m1", Name: "Ada Lovelace", Role: schema.RoleCaptain, Active: true},
		{ID: "m2", Name: "Grace Hopper", Role: schema.RoleMember, Active: true},
		{ID: "m3", Name: "Alan Turing", Role: schema.RoleMember, Active: false},
	}
	got := FilterMembers(members, MemberRoleIs(schema.RoleMember), MemberIsActive())
	if len(got) != 1 || got[0].ID != "m2" {
		t.Fatalf("got %v, want exactly m2", got)
	}
	got = FilterMembers(members, MemberText("ada"))
	if len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("got %v, want exactly m1", got)
	}
}

func sampleEntries() []SubmissionEntry {
	stamp := func(day string) time.Time {
		ts, err := time.Parse(time.RFC3339, day)
		if err != nil {
			panic(err)
		}
		return ts
	}
	tickets := []schema.Ticket{
		{ID: "t1", ProjectID: "p1", Title: "Wire login form", Submissions: []schema.Submission{
			{ID: "s1", FileName: "draft.pdf", Note: "first pass", CreatedAt: stamp("2026-02-09T10:00:00Z"), SubmittedByID: "m1", SubmittedByName: "Ada Lovelace"},
			{ID: "s2", FileName: "final.docx", Note: "ready", CreatedAt: stamp("2026-02-12T18:30:00Z"), SubmittedByID: "m2", SubmittedByName: "Grace Hopper"},
		}},
		{ID: "t2", ProjectID: "p2", Title: "Export report", Submissions: []schema.Submission{
			{ID: "s3", FileName: "slides.pptx", CreatedAt: stamp("2026-02-16T00:00:00Z"), SubmittedByID: "m1", SubmittedByName: "Ada Lovelace"},
		}},
	}
	projects := []schema.Project{
		{ID: "p1", Key: "CORE"},
		{ID: "p2", Key: "OPS"},
	}
	return FlattenSubmissions(tickets, projects)
}

func TestFlattenSubmissionsJoinsProjectKey(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if entries[0].ProjectKey != "CORE" || entries[2].ProjectKey != "OPS" {
		t.Fatalf("project keys not joined: %q, %q", entries[0].ProjectKey, entries[2].ProjectKey)
	}
	if entries[1].Ticket.ID != "t1" {
		t.Fatalf("owning ticket not joined: %q", entries[1].Ticket.ID)
	}
}

func TestSubmissionBetweenBoundsAreInclusiveDays(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	day := func(value string) time.Time {
		ts, err := time.Parse(time.DateOnly, value)
		if err != nil {
			t.Fatal(err)
		}
		return ts
	}

	// The end day is inclusive: a submission late on Feb 12 is kept by
	// an end bound of Feb 12.
	got := FilterSubmissions(entries, SubmissionBetween(day("2026-02-09"), day("2026-02-12")))
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}

	// Start bound is inclusive too.
	got = FilterSubmissions(entries, SubmissionBetween(day("2026-02-16"), time.Time{}))
	if len(got) != 1 || got[0].Submission.ID != "s3" {
		t.Fatalf("got %v, want exactly s3", got)
	}

	// Zero bounds mean unset.
	got = FilterSubmissions(entries, SubmissionBetween(time.Time{}, time.Time{}))
	if len(got) != 3 {
		t.Fatalf("got %d entries, want all 3", len(got))
	}
}

func TestSubmissionTextAndBy(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	got := FilterSubmissions(entries, SubmissionText("FINAL"))
	if len(got) != 1 || got[0].Submission.ID != "s2" {
		t.Fatalf("got %v, want exactly s2", got)
	}
	got = FilterSubmissions(entries, SubmissionBy("m1"), SubmissionInProject("p2"))
	if len(got) != 1 || got[0].Submission.ID != "s3" {
		t.Fatalf("got %v, want exactly s3", got)
	}
}
