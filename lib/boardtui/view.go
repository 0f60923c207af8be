// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package boardtui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/workspace"
)

// View implements tea.Model.
func (m Model) View() string {
	board := m.board()
	snapshot := m.store.Snapshot()

	columnWidth := m.width/len(board.Columns) - 2
	if columnWidth < 16 {
		columnWidth = 16
	}

	columns := make([]string, 0, len(board.Columns))
	for columnIndex, column := range board.Columns {
		columns = append(columns, m.renderColumn(columnIndex, column.Status, column.Tickets, columnWidth, snapshot))
	}

	var view strings.Builder
	view.WriteString(m.renderHeader(board.TotalTickets()))
	view.WriteByte('\n')
	view.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	view.WriteByte('\n')

	if m.showDetail {
		detailStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(m.theme.BorderColor).
			Padding(0, 1)
		view.WriteString(detailStyle.Render(m.detail.View()))
		view.WriteByte('\n')
	}
	if m.filtering || m.filter.Value() != "" {
		view.WriteString(m.filter.View())
		view.WriteByte('\n')
	}
	view.WriteString(m.renderStatusBar())
	return view.String()
}

func (m Model) renderHeader(total int) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(m.theme.HeaderForeground).Render("jiralite board")
	count := lipgloss.NewStyle().Foreground(m.theme.FaintText).Render(fmt.Sprintf(" %d tickets", total))
	if m.loading {
		return title + count + " " + m.spin.View()
	}
	return title + count
}

func (m Model) renderColumn(columnIndex int, status schema.TicketStatus, tickets []schema.Ticket, width int, snapshot workspace.Snapshot) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.theme.StatusColor(status)).
		Width(width)
	lines := []string{titleStyle.Render(fmt.Sprintf("%s (%d)", status.Label(), len(tickets)))}

	for rowIndex, ticket := range tickets {
		marker := lipgloss.NewStyle().Foreground(m.theme.PriorityColor(ticket.Priority)).Render("▪")
		title := ansi.Truncate(ticket.Title, width-3, "…")

		cardStyle := lipgloss.NewStyle().Foreground(m.theme.NormalText).Width(width)
		switch {
		case columnIndex == m.cursorColumn && rowIndex == m.cursorRow:
			cardStyle = cardStyle.
				Background(m.theme.SelectedBackground).
				Foreground(m.theme.SelectedForeground)
		case snapshot.Confirm != nil && snapshot.Confirm.TicketID == ticket.ID:
			cardStyle = cardStyle.Background(m.theme.ConfirmBackground)
		}
		lines = append(lines, cardStyle.Render(marker+" "+title))
	}

	columnStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(m.theme.BorderColor).
		PaddingRight(1).
		Width(width + 2)
	return columnStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatusBar() string {
	if m.notice != "" {
		style := lipgloss.NewStyle().Foreground(m.theme.HelpText)
		if m.noticeError {
			style = lipgloss.NewStyle().Foreground(m.theme.ErrorText)
		}
		return style.Render(ansi.Truncate(m.notice, m.width, "…"))
	}
	help := []string{}
	for _, binding := range []struct{ keys, action string }{
		{"h/l", "column"}, {"j/k", "card"}, {"H/L", "move"},
		{"/", "filter"}, {"Enter", "details"}, {"r", "reload"}, {"q", "quit"},
	} {
		help = append(help, binding.keys+" "+binding.action)
	}
	return lipgloss.NewStyle().Foreground(m.theme.HelpText).Render(strings.Join(help, " · "))
}
