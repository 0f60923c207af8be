// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package boardview

import (
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

// Column is one board column: a status bucket and the tickets in it,
// in the same relative order they had in the input.
type Column struct {
	Status  schema.TicketStatus
	Tickets []schema.Ticket
}

// Board is the four-column status grouping of a ticket set.
type Board struct {
	Columns []Column
}

// TotalTickets returns the ticket count summed across columns. Since
// every ticket lands in exactly one bucket, this equals the input
// length.
func (b Board) TotalTickets() int {
	total := 0
	for _, column := range b.Columns {
		total += len(column.Tickets)
	}
	return total
}

// Group partitions tickets into the four status columns, preserving
// relative order within each column. Tickets with a status outside the
// known four (a newer server's addition) fall into no column; the
// caller filtered them out or accepts their absence from the board.
func Group(tickets []schema.Ticket) Board {
	board := Board{Columns: make([]Column, 0, 4)}
	byStatus := make(map[schema.TicketStatus]int, 4)
	for i, status := range schema.Statuses() {
		board.Columns = append(board.Columns, Column{Status: status})
		byStatus[status] = i
	}
	for _, ticket := range tickets {
		index, known := byStatus[ticket.Status]
		if !known {
			continue
		}
		board.Columns[index].Tickets = append(board.Columns[index].Tickets, ticket)
	}
	return board
}

// MemberTasks pairs a member with the tickets assigned to them.
type MemberTasks struct {
	Member  schema.TeamMember
	Tickets []schema.Ticket
}

// TasksByMember builds the per-member task list: for each member, in
// input order, the tickets (in input order) whose assignee set
// contains them. Members with no assigned tickets get an empty list
// rather than being dropped, so the view renders idle members too.
func TasksByMember(members []schema.TeamMember, tickets []schema.Ticket) []MemberTasks {
	result := make([]MemberTasks, len(members))
	index := make(map[string]int, len(members))
	for i, member := range members {
		result[i] = MemberTasks{Member: member}
		index[member.ID] = i
	}
	for _, ticket := range tickets {
		for _, assigneeID := range ticket.Assignees {
			if i, known := index[assigneeID]; known {
				result[i].Tickets = append(result[i].Tickets, ticket)
			}
		}
	}
	return result
}

// Stats holds aggregate counts across a ticket set.
type Stats struct {
	Total      int                           `json:"total"`
	ByStatus   map[schema.TicketStatus]int   `json:"by_status"`
	ByPriority map[schema.TicketPriority]int `json:"by_priority"`
	ByAssignee map[string]int                `json:"by_assignee"`
}

// Count returns aggregate counts for the given tickets.
func Count(tickets []schema.Ticket) Stats {
	stats := Stats{
		Total:      len(tickets),
		ByStatus:   make(map[schema.TicketStatus]int),
		ByPriority: make(map[schema.TicketPriority]int),
		ByAssignee: make(map[string]int),
	}
	for _, ticket := range tickets {
		stats.ByStatus[ticket.Status]++
		stats.ByPriority[ticket.Priority]++
		for _, assigneeID := range ticket.Assignees {
			stats.ByAssignee[assigneeID]++
		}
	}
	return stats
}
