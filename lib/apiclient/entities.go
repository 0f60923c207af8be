// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

// ListProjects returns all projects visible to the session.
func (c *Client) ListProjects(ctx context.Context) ([]schema.Project, error) {
	body, err := c.do(ctx, http.MethodGet, "/projects", nil, nil, true)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	var projects []schema.Project
	if err := decode(body, &projects); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// ListMembers returns team members. With activeOnly, deactivated
// members are excluded — use this for assignment pickers; full lists
// (for resolving historical member refs) pass false.
func (c *Client) ListMembers(ctx context.Context, activeOnly bool) ([]schema.TeamMember, error) {
	var query url.Values
	if activeOnly {
		query = url.Values{"activeOnly": {"true"}}
	}
	body, err := c.do(ctx, http.MethodGet, "/team-members", query, nil, true)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	var members []schema.TeamMember
	if err := decode(body, &members); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// ListTickets returns tickets, optionally restricted to one project.
func (c *Client) ListTickets(ctx context.Context, projectID string) ([]schema.Ticket, error) {
	var query url.Values
	if projectID != "" {
		query = url.Values{"projectId": {projectID}}
	}
	body, err := c.do(ctx, http.MethodGet, "/tickets", query, nil, true)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	var tickets []schema.Ticket
	if err := decode(body, &tickets); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

// CreateMemberRequest is the JSON body for POST /team-members.
type CreateMemberRequest struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  schema.Role `json:"role"`
}

// CreateMember creates a team member. Privileged.
func (c *Client) CreateMember(ctx context.Context, request CreateMemberRequest) (*schema.TeamMember, error) {
	body, err := c.do(ctx, http.MethodPost, "/team-members", nil, request, true)
	if err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	var member schema.TeamMember
	if err := decode(body, &member); err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	return &member, nil
}

// DeleteMember deletes a team member by ID. Privileged.
func (c *Client) DeleteMember(ctx context.Context, memberID string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/team-members/"+url.PathEscape(memberID), nil, nil, true); err != nil {
		return fmt.Errorf("delete member %s: %w", memberID, err)
	}
	return nil
}

// CreateProjectRequest is the JSON body for POST /projects.
type CreateProjectRequest struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	AssigneeIDs []string `json:"assigneeIds,omitempty"`
}

// CreateProject creates a project. Privileged.
func (c *Client) CreateProject(ctx context.Context, request CreateProjectRequest) (*schema.Project, error) {
	body, err := c.do(ctx, http.MethodPost, "/projects", nil, request, true)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	var project schema.Project
	if err := decode(body, &project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &project, nil
}

// DeleteProject deletes a project by ID. Privileged.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(projectID), nil, nil, true); err != nil {
		return fmt.Errorf("delete project %s: %w", projectID, err)
	}
	return nil
}

// assigneesRequest is the JSON body for the assignee PATCH endpoints.
type assigneesRequest struct {
	AssigneeIDs []string `json:"assigneeIds"`
}

// UpdateProjectAssignees replaces a project's assignment set.
func (c *Client) UpdateProjectAssignees(ctx context.Context, projectID string, assigneeIDs []string) error {
	path := "/projects/" + url.PathEscape(projectID) + "/assignees"
	if _, err := c.do(ctx, http.MethodPatch, path, nil, assigneesRequest{AssigneeIDs: assigneeIDs}, true); err != nil {
		return fmt.Errorf("update project %s assignees: %w", projectID, err)
	}
	return nil
}

// CreateTicketRequest is the JSON body for POST /tickets.
type CreateTicketRequest struct {
	ProjectID   string                `json:"projectId"`
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	Priority    schema.TicketPriority `json:"priority"`
	AssigneeIDs []string              `json:"assigneeIds,omitempty"`
}

// CreateTicket creates a ticket. Privileged.
func (c *Client) CreateTicket(ctx context.Context, request CreateTicketRequest) (*schema.Ticket, error) {
	body, err := c.do(ctx, http.MethodPost, "/tickets", nil, request, true)
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	var ticket schema.Ticket
	if err := decode(body, &ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return &ticket, nil
}

// DeleteTicket deletes a ticket by ID. Privileged.
func (c *Client) DeleteTicket(ctx context.Context, ticketID string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/tickets/"+url.PathEscape(ticketID), nil, nil, true); err != nil {
		return fmt.Errorf("delete ticket %s: %w", ticketID, err)
	}
	return nil
}

// statusRequest is the JSON body for PATCH /tickets/{id}/status.
type statusRequest struct {
	Status schema.TicketStatus `json:"status"`
}

// UpdateTicketStatus persists a status transition. This is the
// endpoint behind the optimistic mutation path.
func (c *Client) UpdateTicketStatus(ctx context.Context, ticketID string, status schema.TicketStatus) error {
	path := "/tickets/" + url.PathEscape(ticketID) + "/status"
	if _, err := c.do(ctx, http.MethodPatch, path, nil, statusRequest{Status: status}, true); err != nil {
		return fmt.Errorf("update ticket %s status: %w", ticketID, err)
	}
	return nil
}

// UpdateTicketAssignees replaces a ticket's assignee set.
func (c *Client) UpdateTicketAssignees(ctx context.Context, ticketID string, assigneeIDs []string) error {
	path := "/tickets/" + url.PathEscape(ticketID) + "/assignee"
	if _, err := c.do(ctx, http.MethodPatch, path, nil, assigneesRequest{AssigneeIDs: assigneeIDs}, true); err != nil {
		return fmt.Errorf("update ticket %s assignees: %w", ticketID, err)
	}
	return nil
}
