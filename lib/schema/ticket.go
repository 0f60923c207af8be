// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"time"
)

// TicketStatus is a ticket's board column. Statuses are free-form
// labels, not a workflow graph: any status may transition to any other.
type TicketStatus string

const (
	StatusTodo       TicketStatus = "TODO"
	StatusInProgress TicketStatus = "IN_PROGRESS"
	StatusInReview   TicketStatus = "IN_REVIEW"
	StatusDone       TicketStatus = "DONE"
)

// Statuses lists all ticket statuses in board-column order. The
// ordering here defines the column layout everywhere tickets are
// grouped.
func Statuses() []TicketStatus {
	return []TicketStatus{StatusTodo, StatusInProgress, StatusInReview, StatusDone}
}

// ParseTicketStatus validates a status string received from user input.
func ParseTicketStatus(value string) (TicketStatus, error) {
	switch TicketStatus(value) {
	case StatusTodo, StatusInProgress, StatusInReview, StatusDone:
		return TicketStatus(value), nil
	}
	return "", fmt.Errorf("unknown status %q (want TODO, IN_PROGRESS, IN_REVIEW, or DONE)", value)
}

// Label returns the display name of a status.
func (s TicketStatus) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusInReview:
		return "In Review"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// TicketPriority orders tickets by urgency.
type TicketPriority string

const (
	PriorityLow      TicketPriority = "LOW"
	PriorityMedium   TicketPriority = "MEDIUM"
	PriorityHigh     TicketPriority = "HIGH"
	PriorityCritical TicketPriority = "CRITICAL"
)

// ParseTicketPriority validates a priority string received from user input.
func ParseTicketPriority(value string) (TicketPriority, error) {
	switch TicketPriority(value) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return TicketPriority(value), nil
	}
	return "", fmt.Errorf("unknown priority %q (want LOW, MEDIUM, HIGH, or CRITICAL)", value)
}

// Rank returns a sort key for the priority: lower is more urgent.
// Unknown priorities rank last.
func (p TicketPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Project is a container for tickets, identified by a unique uppercase
// key (e.g., "INFRA"). Assignments is the set of member IDs working on
// the project.
type Project struct {
	ID          string   `json:"id"`
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Assignments []string `json:"assigneeIds,omitempty"`
}

// Ticket is a work item. It belongs to exactly one project; ProjectID
// never changes after creation.
type Ticket struct {
	ID          string         `json:"id"`
	ProjectID   string         `json:"projectId"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority"`
	Assignees   []string       `json:"assigneeIds,omitempty"`
	Submissions []Submission   `json:"submissions,omitempty"`
}

// Submission is a file handed in against a ticket. Immutable once
// created. SubmittedByName is the submitter's name frozen at submission
// time, so the record stays displayable after the member is deactivated
// or renamed.
type Submission struct {
	ID              string    `json:"id"`
	FileName        string    `json:"fileName"`
	Note            string    `json:"note,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	SubmittedByID   string    `json:"submittedById"`
	SubmittedByName string    `json:"submittedByName,omitempty"`
}
