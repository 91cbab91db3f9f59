// Package watchtui renders the terminal dashboard for a live agent stream.
package watchtui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"swarmview/internal/agentmeta"
	"swarmview/internal/theme"
	"swarmview/internal/viewer"
	"swarmview/pkg/protocol"
)

const (
	refreshInterval = 250 * time.Millisecond
	feedLines       = 12
	overlayLogLines = 8
)

// DetailClient is the slice of the connection the view needs: connectivity
// for the header badge and the detail request for the overlay.
type DetailClient interface {
	Connected() bool
	RequestDetails(ctx context.Context, agentID string) (protocol.AgentDetails, error)
}

// tickMsg drives the periodic snapshot refresh.
type tickMsg struct{}

type detailsMsg struct {
	details protocol.AgentDetails
	err     error
}

// Model is the bubbletea model for the watch view.
type Model struct {
	width  int
	height int

	state  *viewer.SessionState
	client DetailClient
	keys   KeyMap

	agents   []viewer.Agent
	feed     []viewer.FeedEntry
	selected int

	overlay    *protocol.AgentDetails
	overlayErr string
	loading    bool
}

// NewModel returns a watch model reading from the given session state.
func NewModel(state *viewer.SessionState, client DetailClient) Model {
	return Model{
		state:  state,
		client: client,
		keys:   DefaultKeyMap(),
		width:  80,
		height: 24,
	}
}

func (m Model) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.agents = m.state.Snapshot()
		m.feed = m.state.Feed()
		if m.selected >= len(m.agents) {
			m.selected = len(m.agents) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		return m, tickEvery()

	case detailsMsg:
		m.loading = false
		if msg.err != nil {
			m.overlay = nil
			m.overlayErr = msg.err.Error()
			return m, nil
		}
		details := msg.details
		m.overlay = &details
		m.overlayErr = ""
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Escape):
			m.overlay = nil
			m.overlayErr = ""
			return m, nil
		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.selected < len(m.agents)-1 {
				m.selected++
			}
			return m, nil
		case key.Matches(msg, m.keys.Details):
			if m.selected < len(m.agents) {
				m.loading = true
				m.overlayErr = ""
				return m, requestDetailsCmd(m.client, m.agents[m.selected].ID)
			}
			return m, nil
		}
	}
	return m, nil
}

func requestDetailsCmd(client DetailClient, agentID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), viewer.DefaultDetailTimeout)
		defer cancel()
		details, err := client.RequestDetails(ctx, agentID)
		return detailsMsg{details: details, err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder

	active := 0
	for _, a := range m.agents {
		if a.Status != viewer.StatusCompleted {
			active++
		}
	}
	header := titleStyle.Render("swarmview") + "  " +
		theme.ConnIndicator(m.client.Connected()) + "  " +
		headerStyle.Render(fmt.Sprintf("%d active / %d shown", active, len(m.agents)))
	b.WriteString(header + "\n")

	b.WriteString(m.renderAgents() + "\n")
	b.WriteString(m.renderFeed() + "\n")

	if m.overlayErr != "" {
		b.WriteString(errorStyle.Render("details: "+m.overlayErr) + "\n")
	}
	if m.overlay != nil {
		b.WriteString(m.renderOverlay() + "\n")
	}
	if m.loading {
		b.WriteString(headerStyle.Render("fetching details...") + "\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ select · enter details · esc close · q quit"))
	return b.String()
}

func (m Model) renderAgents() string {
	inner := m.width - 4
	if inner < 20 {
		inner = 20
	}

	var rows []string
	rows = append(rows, panelTitleStyle.Render("Agents"))
	if len(m.agents) == 0 {
		rows = append(rows, descStyle.Render("waiting for agents..."))
	}
	for i, a := range m.agents {
		rows = append(rows, m.agentRow(a, i == m.selected, inner))
	}
	return panelStyle.Width(inner + 2).Render(strings.Join(rows, "\n"))
}

func (m Model) agentRow(a viewer.Agent, selected bool, width int) string {
	indicator := theme.AgentStatusIndicator(string(a.Status))

	var status string
	switch {
	case a.Status == viewer.StatusCompleted && a.Duration > 0:
		status = descStyle.Render("done in " + formatDuration(a.Duration))
	case a.Status == viewer.StatusCompleted:
		status = descStyle.Render("done")
	case a.Current != nil:
		status = actionStyle.Render(agentmeta.ActionFor(a.Current.Type).Label)
	default:
		status = descStyle.Render("idle " + formatDuration(time.Since(a.SpawnedAt)))
	}

	name := a.Info.Icon + " " + agentNameStyle.Render(a.Info.Name)
	if a.ParentID != "" {
		name = "  └ " + name
	}

	line := indicator + name + " " + descStyle.Render(a.Description) + " " + status
	line = ansi.Truncate(line, width, "…")
	if selected {
		return selectedStyle.Render(line)
	}
	return line
}

func (m Model) renderFeed() string {
	inner := m.width - 4
	if inner < 20 {
		inner = 20
	}

	var rows []string
	rows = append(rows, panelTitleStyle.Render("Activity"))
	feed := m.feed
	if len(feed) > feedLines {
		feed = feed[len(feed)-feedLines:]
	}
	for _, entry := range feed {
		line := feedTimeStyle.Render(entry.At.Format("15:04:05")) + " " +
			feedTextStyle.Render(entry.Text)
		rows = append(rows, ansi.Truncate(line, inner, "…"))
	}
	return panelStyle.Width(inner + 2).Render(strings.Join(rows, "\n"))
}

func (m Model) renderOverlay() string {
	d := m.overlay

	var rows []string
	rows = append(rows, panelTitleStyle.Render("Agent "+d.ID))
	rows = append(rows, headerStyle.Render(fmt.Sprintf("tokens %d · subagents %d", d.TokensUsed, d.SubagentsSpawned)))
	if len(d.ToolsUsed) > 0 {
		rows = append(rows, headerStyle.Render("tools: "+strings.Join(d.ToolsUsed, ", ")))
	}
	if len(d.FilesTouched) > 0 {
		rows = append(rows, headerStyle.Render("files: "+strings.Join(d.FilesTouched, ", ")))
	}

	log := d.SessionLog
	if len(log) > overlayLogLines {
		log = log[len(log)-overlayLogLines:]
	}
	for _, entry := range log {
		at := time.UnixMilli(entry.Time).Format("15:04:05")
		rows = append(rows, feedTextStyle.Render(at+" "+entry.Content))
	}

	width := m.width - 8
	if width < 30 {
		width = 30
	}
	for i := range rows {
		rows[i] = ansi.Truncate(rows[i], width, "…")
	}
	return overlayStyle.Render(strings.Join(rows, "\n"))
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
