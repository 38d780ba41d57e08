package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"wdp.dev/cli/internal/application/services"
	"wdp.dev/cli/internal/core/command"
	configdomain "wdp.dev/cli/internal/core/domain/config"
	"wdp.dev/cli/internal/jsonrpc"
)

// NewDashboardCommand creates the dashboard command
func NewDashboardCommand(container *CLIContainer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Run the command queue in a live terminal view",
		Long: `Run the same session as plain 'wdp' but show the transcript in a
full-screen terminal view instead of printing lines.

Controls: [Space] freeze/follow, [↑↓] navigate, [q] quit (closes the connection).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, container)
			if err != nil {
				return err
			}
			return runDashboard(cmd, container, cfg)
		},
	}
	return cmd
}

// runDashboard starts the session in the background and the Bubble Tea program in front
func runDashboard(cmd *cobra.Command, container *CLIContainer, cfg configdomain.Config) error {
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	endpoint, err := cfg.Endpoint()
	if err != nil {
		return err
	}

	feed := newFeedObserver(ctx)
	logger := newLogger(cmd, cfg, container.Err)
	logger.SetLogLevel("error")

	start := func() tea.Msg {
		result, err := container.SessionService.Run(ctx, cfg, feed, logger)
		feed.finish()
		return sessionDoneMsg{result: result, err: err}
	}

	model := newDashboardModel(endpoint.URL(), feed.entries, start, cancel)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(container.Out))

	final, err := program.Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	if m, ok := final.(dashboardModel); ok && m.err != nil {
		return m.err
	}
	return nil
}

// transcriptEntry is one step of a session as shown by the dashboard
type transcriptEntry struct {
	at      time.Time
	kind    string
	payload string
}

// feedObserver forwards runner notifications to the dashboard
type feedObserver struct {
	ctx     context.Context
	entries chan transcriptEntry
}

func newFeedObserver(ctx context.Context) *feedObserver {
	return &feedObserver{ctx: ctx, entries: make(chan transcriptEntry, 256)}
}

func (f *feedObserver) push(kind, payload string) {
	select {
	case f.entries <- transcriptEntry{at: time.Now(), kind: kind, payload: payload}:
	case <-f.ctx.Done():
	}
}

func (f *feedObserver) finish() { close(f.entries) }

func (f *feedObserver) Opening(url string)       { f.push("open", url) }
func (f *feedObserver) Connected()               { f.push("connected", "") }
func (f *feedObserver) Sent(cmd command.Command) { f.push("send", cmd.Payload) }
func (f *feedObserver) Received(text string)     { f.push("recv", text) }
func (f *feedObserver) Disconnected(err error) {
	if err != nil {
		f.push("disconnected", err.Error())
		return
	}
	f.push("disconnected", "")
}

// EventDisplayItem represents a transcript entry for display in the dashboard
type EventDisplayItem struct {
	Timestamp string
	Direction string
	Summary   string
	Size      string
	Preview   string
	Color     lipgloss.Color
}

// dashboardModel holds the state for the Bubble Tea dashboard
type dashboardModel struct {
	url          string
	entries      <-chan transcriptEntry
	start        tea.Cmd
	cancel       context.CancelFunc
	events       []EventDisplayItem
	state        string
	sent         int
	received     int
	selectedRow  int
	frozen       bool
	done         bool
	startedAt    time.Time
	windowWidth  int
	windowHeight int
	err          error
}

// newDashboardModel creates a new dashboard model
func newDashboardModel(url string, entries <-chan transcriptEntry, start tea.Cmd, cancel context.CancelFunc) dashboardModel {
	return dashboardModel{
		url:          url,
		entries:      entries,
		start:        start,
		cancel:       cancel,
		events:       []EventDisplayItem{},
		state:        "disconnected",
		startedAt:    time.Now(),
		windowHeight: 24,
	}
}

// entryMsg carries the next transcript entry
type entryMsg struct {
	entry transcriptEntry
}

// feedClosedMsg is sent once the entry channel is drained
type feedClosedMsg struct{}

// sessionDoneMsg is sent when the session returns
type sessionDoneMsg struct {
	result *services.SessionResult
	err    error
}

// waitForEntry reads the next transcript entry
func (m dashboardModel) waitForEntry() tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-m.entries
		if !ok {
			return feedClosedMsg{}
		}
		return entryMsg{entry: entry}
	}
}

// Init implements the Bubble Tea init method
func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.start, m.waitForEntry())
}

// Update implements the Bubble Tea update method
func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit

		case " ":
			m.frozen = !m.frozen
			return m, nil

		case "up", "k":
			if m.selectedRow > 0 {
				m.selectedRow--
			}
			return m, nil

		case "down", "j":
			if m.selectedRow < len(m.events)-1 {
				m.selectedRow++
			}
			return m, nil
		}

	case entryMsg:
		m.apply(msg.entry)
		return m, m.waitForEntry()

	case feedClosedMsg:
		return m, nil

	case sessionDoneMsg:
		m.done = true
		m.state = "closed"
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil
	}

	return m, nil
}

// apply folds one transcript entry into the model
func (m *dashboardModel) apply(e transcriptEntry) {
	switch e.kind {
	case "connected":
		m.state = "connected"
	case "send":
		m.sent++
		m.state = "draining"
	case "recv":
		m.received++
	case "disconnected":
		m.state = "closed"
	}

	m.events = append(m.events, toDisplayItem(e))
	if !m.frozen {
		m.selectedRow = 0
	}
}

// View implements the Bubble Tea view method
func (m dashboardModel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.renderEventTable(), m.renderFooter())
}

// renderHeader renders the dashboard header
func (m dashboardModel) renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Render("wdp dashboard")

	info := fmt.Sprintf("%s | Sent: %d | Received: %d | %s",
		m.url, m.sent, m.received, time.Since(m.startedAt).Round(time.Second))

	stateStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	if m.state == "closed" {
		stateStyle = stateStyle.Foreground(lipgloss.Color("196"))
	}
	state := strings.ToUpper(m.state)
	if m.frozen {
		state += " (FROZEN)"
	}

	line1 := lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", info, "  ", stateStyle.Render(state))

	line2 := ""
	if m.err != nil {
		line2 = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Error: " + m.err.Error())
	}

	divider := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Render(strings.Repeat("─", max(m.windowWidth, 40)))

	return lipgloss.JoinVertical(lipgloss.Left, line1, line2, divider)
}

// renderEventTable renders the main transcript table, newest first
func (m dashboardModel) renderEventTable() string {
	if len(m.events) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Render("\n  Waiting for the connection...\n")
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Render(fmt.Sprintf("%-12s │ %-3s │ %-32s │ %-6s │ %s",
			"TIME", "DIR", "SUMMARY", "SIZE", "PREVIEW"))

	rows := []string{header}

	startIdx := 0
	maxRows := m.windowHeight - 8
	if maxRows < 1 {
		maxRows = 1
	}
	if len(m.events) > maxRows {
		startIdx = len(m.events) - maxRows
	}

	for i := len(m.events) - 1; i >= startIdx; i-- {
		event := m.events[i]

		rowStyle := lipgloss.NewStyle().Foreground(event.Color)
		if len(m.events)-1-i == m.selectedRow {
			rowStyle = rowStyle.Background(lipgloss.Color("236"))
		}

		row := fmt.Sprintf("%-12s │ %-3s │ %-32s │ %-6s │ %s",
			event.Timestamp,
			event.Direction,
			truncateString(event.Summary, 32),
			event.Size,
			truncateString(event.Preview, 60),
		)

		rows = append(rows, rowStyle.Render(row))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderFooter renders the control instructions footer
func (m dashboardModel) renderFooter() string {
	controls := "Controls: [Space] Freeze/Follow | [↑↓] Navigate | [q] Quit"
	if m.done {
		controls = "Session finished. " + controls
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render(controls)
}

// toDisplayItem converts a transcript entry to a display row
func toDisplayItem(e transcriptEntry) EventDisplayItem {
	item := EventDisplayItem{
		Timestamp: e.at.Format("15:04:05.000"),
		Direction: "•",
		Summary:   e.kind,
		Preview:   createPayloadPreview(e.payload),
		Color:     lipgloss.Color("245"),
	}

	var direction jsonrpc.Direction
	switch e.kind {
	case "send":
		item.Direction = "→"
		item.Color = lipgloss.Color("86")
		direction = jsonrpc.DirectionOutbound
	case "recv":
		item.Direction = "←"
		item.Color = lipgloss.Color("214")
		direction = jsonrpc.DirectionInbound
	default:
		return item
	}

	item.Size = formatSize(len(e.payload))
	if msg, err := jsonrpc.Parse([]byte(e.payload), direction); err == nil {
		item.Summary = msg.Summary()
		if msg.IsError() {
			item.Color = lipgloss.Color("196")
		}
	}
	return item
}

// formatSize formats a payload size for display
func formatSize(size int) string {
	if size < 1024 {
		return fmt.Sprintf("%dB", size)
	} else if size < 1024*1024 {
		return fmt.Sprintf("%.1fK", float64(size)/1024)
	}
	return fmt.Sprintf("%.1fM", float64(size)/(1024*1024))
}

// createPayloadPreview flattens a payload onto one line
func createPayloadPreview(payload string) string {
	preview := strings.ReplaceAll(payload, "\n", " ")
	preview = strings.ReplaceAll(preview, "\t", " ")

	for strings.Contains(preview, "  ") {
		preview = strings.ReplaceAll(preview, "  ", " ")
	}

	return strings.TrimSpace(preview)
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
