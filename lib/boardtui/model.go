// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package boardtui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/boardview"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/workspace"
)

// Store is the slice of the workspace controller the board needs.
// *workspace.Controller satisfies it.
type Store interface {
	Snapshot() workspace.Snapshot
	Reload(ctx context.Context) error
	SetTicketStatus(ctx context.Context, ticketID string, status schema.TicketStatus, origin workspace.MoveOrigin) error
	ClearConfirm()
}

// confirmPulseDuration is how long a confirmed move stays tinted.
const confirmPulseDuration = 1200 * time.Millisecond

// noticeFadeDelay is how long a status-bar notice stays visible.
const noticeFadeDelay = 4 * time.Second

// Messages delivered through the bubbletea loop.
type (
	reloadedMsg    struct{ err error }
	movedMsg       struct{ err error }
	noticeFadeMsg  struct{}
	pulseExpireMsg struct{}
)

// Model is the bubbletea model for the board.
type Model struct {
	store Store
	keys  KeyMap
	theme Theme

	cursorColumn int
	cursorRow    int

	filter    textinput.Model
	filtering bool

	spin    spinner.Model
	loading bool

	detail     viewport.Model
	showDetail bool

	notice      string
	noticeError bool

	width  int
	height int
}

// New creates a board model over a store. The first reload is issued
// from Init.
func New(store Store) Model {
	filter := textinput.New()
	filter.Placeholder = "filter tickets"
	filter.Prompt = "/ "
	filter.CharLimit = 80

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		store:  store,
		keys:   DefaultKeyMap,
		theme:  DefaultTheme,
		filter: filter,
		spin:   spin,
		detail: viewport.New(0, 0),
		width:  80,
		height: 24,
	}
}

// Init starts the spinner and the first reload.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.reloadCmd())
}

func (m Model) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		return reloadedMsg{err: m.store.Reload(context.Background())}
	}
}

func (m Model) moveCmd(ticketID string, status schema.TicketStatus) tea.Cmd {
	return func() tea.Msg {
		return movedMsg{err: m.store.SetTicketStatus(context.Background(), ticketID, status, workspace.MoveInteractive)}
	}
}

// board returns the grouped view of the current snapshot with the
// filter applied.
func (m Model) board() boardview.Board {
	snapshot := m.store.Snapshot()
	tickets := snapshot.Tickets
	if query := m.filter.Value(); query != "" {
		tickets = boardview.FilterTickets(tickets, boardview.TicketText(query))
	}
	return boardview.Group(tickets)
}

// selected returns the ticket under the cursor, or nil.
func (m Model) selected() *schema.Ticket {
	board := m.board()
	if m.cursorColumn >= len(board.Columns) {
		return nil
	}
	column := board.Columns[m.cursorColumn]
	if m.cursorRow >= len(column.Tickets) {
		return nil
	}
	return &column.Tickets[m.cursorRow]
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail.Width = msg.Width - 4
		m.detail.Height = msg.Height / 2
		return m, nil

	case reloadedMsg:
		m.loading = false
		if msg.err != nil {
			return m.withNotice(msg.err.Error(), true)
		}
		m.clampCursor()
		return m, nil

	case movedMsg:
		if msg.err != nil {
			return m.withNotice(msg.err.Error(), true)
		}
		m.clampCursor()
		return m, tea.Tick(confirmPulseDuration, func(time.Time) tea.Msg { return pulseExpireMsg{} })

	case pulseExpireMsg:
		m.store.ClearConfirm()
		return m, nil

	case noticeFadeMsg:
		m.notice = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.showDetail {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch {
		case key.Matches(msg, m.keys.FilterClear):
			m.filter.SetValue("")
			m.filter.Blur()
			m.filtering = false
			m.clampCursor()
			return m, nil
		case msg.Type == tea.KeyEnter:
			m.filter.Blur()
			m.filtering = false
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.clampCursor()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursorRow > 0 {
			m.cursorRow--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.cursorRow++
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.cursorColumn > 0 {
			m.cursorColumn--
			m.clampCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.cursorColumn < len(schema.Statuses())-1 {
			m.cursorColumn++
			m.clampCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.MoveLeft):
		return m.moveSelected(-1)

	case key.Matches(msg, m.keys.MoveRight):
		return m.moveSelected(+1)

	case key.Matches(msg, m.keys.FilterActivate):
		m.filtering = true
		return m, m.filter.Focus()

	case key.Matches(msg, m.keys.FilterClear):
		if m.showDetail {
			m.showDetail = false
			return m, nil
		}
		m.filter.SetValue("")
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		return m.toggleDetail()

	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.reloadCmd())
	}

	if m.showDetail {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

// moveSelected pushes the selected ticket delta columns through the
// optimistic status path.
func (m Model) moveSelected(delta int) (tea.Model, tea.Cmd) {
	ticket := m.selected()
	if ticket == nil {
		return m, nil
	}
	statuses := schema.Statuses()
	target := m.cursorColumn + delta
	if target < 0 || target >= len(statuses) {
		return m, nil
	}
	// Follow the card into its new column.
	m.cursorColumn = target
	cmd := m.moveCmd(ticket.ID, statuses[target])
	m.clampCursor()
	return m, cmd
}

func (m Model) toggleDetail() (tea.Model, tea.Cmd) {
	if m.showDetail {
		m.showDetail = false
		return m, nil
	}
	ticket := m.selected()
	if ticket == nil {
		return m, nil
	}
	m.showDetail = true
	m.detail.SetContent(renderMarkdown(ticket.Description, m.theme, m.detail.Width))
	m.detail.GotoTop()
	return m, nil
}

func (m Model) withNotice(message string, isError bool) (tea.Model, tea.Cmd) {
	m.notice = message
	m.noticeError = isError
	return m, tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg { return noticeFadeMsg{} })
}

// clampCursor keeps the cursor on an existing card after the board
// shape changed under it.
func (m *Model) clampCursor() {
	board := m.board()
	if m.cursorColumn >= len(board.Columns) {
		m.cursorColumn = len(board.Columns) - 1
	}
	if m.cursorColumn < 0 {
		m.cursorColumn = 0
	}
	rows := len(board.Columns[m.cursorColumn].Tickets)
	if m.cursorRow >= rows {
		m.cursorRow = rows - 1
	}
	if m.cursorRow < 0 {
		m.cursorRow = 0
	}
}
