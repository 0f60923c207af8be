// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

// MoveOrigin records what triggered a status change, so the board can
// decide whether a confirmation pulse is wanted.
type MoveOrigin int

const (
	// MoveProgrammatic is a change from a command or menu; no pulse.
	MoveProgrammatic MoveOrigin = iota
	// MoveInteractive is a drag or keyboard column move on the
	// board; confirmation gets a transient visual pulse.
	MoveInteractive
)

// StatusConfirm describes a confirmed interactive status move.
type StatusConfirm struct {
	TicketID string
	Status   schema.TicketStatus
	At       time.Time
}

// SetTicketStatus moves a ticket to a new status optimistically: the
// local collection shows the new status immediately, the change is
// persisted in the background of the caller's perception, and a
// persistence failure restores the exact pre-mutation state. Equal
// status is a no-op with no network call. Rollback replaces the whole
// ticket collection with the pre-mutation snapshot rather than
// patching the one field back, so it is correct even if the apply
// step ever grows beyond a single field.
func (c *Controller) SetTicketStatus(ctx context.Context, ticketID string, status schema.TicketStatus, origin MoveOrigin) error {
	c.mu.Lock()
	index := c.findTicket(ticketID)
	if index < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: unknown ticket %s", ErrNotReady, ticketID)
	}
	if c.tickets[index].Status == status {
		c.mu.Unlock()
		return nil
	}
	restore := c.patchTicketsLocked(func(tickets []schema.Ticket) {
		tickets[index].Status = status
	})
	c.mu.Unlock()

	if err := c.client.UpdateTicketStatus(ctx, ticketID, status); err != nil {
		c.mu.Lock()
		restore()
		c.mu.Unlock()
		return fmt.Errorf("workspace: set status of %s: %w", ticketID, err)
	}

	if origin == MoveInteractive {
		c.mu.Lock()
		c.confirm = &StatusConfirm{TicketID: ticketID, Status: status, At: time.Now()}
		c.mu.Unlock()
	}
	c.saveCache()
	return nil
}

// ClearConfirm drops the pending confirmation pulse once the view has
// shown it.
func (c *Controller) ClearConfirm() {
	c.mu.Lock()
	c.confirm = nil
	c.mu.Unlock()
}

// patchTicketsLocked is the optimistic-mutation primitive: it snapshots
// the ticket collection, applies the mutation to a clone (so snapshots
// handed to readers are never written through), installs the clone,
// and returns a restore function that reinstates the full snapshot.
// Caller holds c.mu for both the call and any later restore.
//
// The restore is generation-guarded: if the collections were swapped
// again between apply and restore (a reload finishing, a forced
// logout), the rollback is obsolete and does nothing — the later swap
// already holds the authoritative state.
func (c *Controller) patchTicketsLocked(apply func([]schema.Ticket)) (restore func()) {
	snapshot := c.tickets
	updated := slices.Clone(c.tickets)
	apply(updated)
	c.tickets = updated
	c.generation++
	applied := c.generation
	return func() {
		if c.generation != applied {
			return
		}
		c.tickets = snapshot
		c.generation++
	}
}
