// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package boardtui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

// Theme defines the color palette for the board. All colors are
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// ConfirmBackground tints a card whose status move was just
	// confirmed by the server.
	ConfirmBackground lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	ErrorText        lipgloss.Color

	priorityColors map[schema.TicketPriority]lipgloss.Color
	statusColors   map[schema.TicketStatus]lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("24"),
	SelectedForeground: lipgloss.Color("231"),
	ConfirmBackground:  lipgloss.Color("22"),
	HeaderForeground:   lipgloss.Color("81"),
	BorderColor:        lipgloss.Color("238"),
	HelpText:           lipgloss.Color("243"),
	ErrorText:          lipgloss.Color("203"),
	priorityColors: map[schema.TicketPriority]lipgloss.Color{
		schema.PriorityCritical: lipgloss.Color("196"),
		schema.PriorityHigh:     lipgloss.Color("208"),
		schema.PriorityMedium:   lipgloss.Color("220"),
		schema.PriorityLow:      lipgloss.Color("116"),
	},
	statusColors: map[schema.TicketStatus]lipgloss.Color{
		schema.StatusTodo:       lipgloss.Color("250"),
		schema.StatusInProgress: lipgloss.Color("214"),
		schema.StatusInReview:   lipgloss.Color("135"),
		schema.StatusDone:       lipgloss.Color("77"),
	},
}

// PriorityColor returns the color for a ticket priority. Unknown
// priorities render as normal text.
func (theme Theme) PriorityColor(priority schema.TicketPriority) lipgloss.Color {
	if color, known := theme.priorityColors[priority]; known {
		return color
	}
	return theme.NormalText
}

// StatusColor returns the color for a ticket status. Unknown statuses
// render faint.
func (theme Theme) StatusColor(status schema.TicketStatus) lipgloss.Color {
	if color, known := theme.statusColors[status]; known {
		return color
	}
	return theme.FaintText
}
