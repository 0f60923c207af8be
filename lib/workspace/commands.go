// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/apiclient"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/boardview"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

// The commands below are deliberately not optimistic: they issue the
// mutation and then pull a full reload, so server-generated state
// (ids, cascades) is never guessed locally.

// requireAssignable rejects assignee sets naming members outside the
// assignable pool (the active members). ErrBadAssignee before any
// request goes out.
func (c *Controller) requireAssignable(assigneeIDs []string) error {
	c.mu.RLock()
	assignable := boardview.FilterMembers(c.members, boardview.MemberIsActive())
	members := c.members
	c.mu.RUnlock()

	for _, id := range assigneeIDs {
		if slices.ContainsFunc(assignable, func(m schema.TeamMember) bool { return m.ID == id }) {
			continue
		}
		index := slices.IndexFunc(members, func(m schema.TeamMember) bool { return m.ID == id })
		if index < 0 {
			return fmt.Errorf("%w: unknown member %s", ErrBadAssignee, id)
		}
		return fmt.Errorf("%w: %s is inactive", ErrBadAssignee, members[index].Name)
	}
	return nil
}

func (c *Controller) requestThenReload(ctx context.Context, request func() error) error {
	if err := request(); err != nil {
		return err
	}
	return c.Reload(ctx)
}

// CreateMember creates a team member and reloads.
func (c *Controller) CreateMember(ctx context.Context, request apiclient.CreateMemberRequest) error {
	return c.requestThenReload(ctx, func() error {
		_, err := c.client.CreateMember(ctx, request)
		return err
	})
}

// DeleteMember deletes a team member and reloads.
func (c *Controller) DeleteMember(ctx context.Context, memberID string) error {
	return c.requestThenReload(ctx, func() error {
		return c.client.DeleteMember(ctx, memberID)
	})
}

// CreateProject creates a project and reloads.
func (c *Controller) CreateProject(ctx context.Context, request apiclient.CreateProjectRequest) error {
	if err := c.requireAssignable(request.AssigneeIDs); err != nil {
		return err
	}
	return c.requestThenReload(ctx, func() error {
		_, err := c.client.CreateProject(ctx, request)
		return err
	})
}

// DeleteProject deletes a project and reloads.
func (c *Controller) DeleteProject(ctx context.Context, projectID string) error {
	return c.requestThenReload(ctx, func() error {
		return c.client.DeleteProject(ctx, projectID)
	})
}

// SetProjectAssignees replaces a project's assignee set and reloads.
func (c *Controller) SetProjectAssignees(ctx context.Context, projectID string, assigneeIDs []string) error {
	if err := c.requireAssignable(assigneeIDs); err != nil {
		return err
	}
	return c.requestThenReload(ctx, func() error {
		return c.client.UpdateProjectAssignees(ctx, projectID, assigneeIDs)
	})
}

// CreateTicket creates a ticket and reloads.
func (c *Controller) CreateTicket(ctx context.Context, request apiclient.CreateTicketRequest) error {
	if err := c.requireAssignable(request.AssigneeIDs); err != nil {
		return err
	}
	return c.requestThenReload(ctx, func() error {
		_, err := c.client.CreateTicket(ctx, request)
		return err
	})
}

// DeleteTicket deletes a ticket and reloads.
func (c *Controller) DeleteTicket(ctx context.Context, ticketID string) error {
	return c.requestThenReload(ctx, func() error {
		return c.client.DeleteTicket(ctx, ticketID)
	})
}

// SetTicketAssignees replaces a ticket's assignee set and reloads.
func (c *Controller) SetTicketAssignees(ctx context.Context, ticketID string, assigneeIDs []string) error {
	if err := c.requireAssignable(assigneeIDs); err != nil {
		return err
	}
	return c.requestThenReload(ctx, func() error {
		return c.client.UpdateTicketAssignees(ctx, ticketID, assigneeIDs)
	})
}

// UploadSubmission hands in a file against a ticket and reloads. The
// local preconditions (known ticket, a file, a submitter) are checked
// before anything goes out; a violation is ErrNotReady.
func (c *Controller) UploadSubmission(ctx context.Context, ticketID string, request apiclient.UploadRequest) (*schema.Submission, error) {
	c.mu.RLock()
	known := c.findTicket(ticketID) >= 0
	c.mu.RUnlock()
	if !known {
		return nil, fmt.Errorf("%w: unknown ticket %s", ErrNotReady, ticketID)
	}
	if request.File == nil || request.FileName == "" {
		return nil, fmt.Errorf("%w: no file selected", ErrNotReady)
	}
	if request.SubmittedByID == "" {
		return nil, fmt.Errorf("%w: no submitting member", ErrNotReady)
	}

	submission, err := c.client.UploadSubmission(ctx, ticketID, request)
	if err != nil {
		return nil, err
	}
	if err := c.Reload(ctx); err != nil {
		return submission, err
	}
	return submission, nil
}

// DownloadSubmission streams a submission's file content to the
// writer.
func (c *Controller) DownloadSubmission(ctx context.Context, submissionID string, destination io.Writer) error {
	content, err := c.client.DownloadSubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if _, err := destination.Write(content); err != nil {
		return fmt.Errorf("workspace: writing submission %s: %w", submissionID, err)
	}
	return nil
}
