package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wdp.dev/cli/internal/core/command"
)

func newTestModel() (dashboardModel, *bool) {
	cancelled := false
	entries := make(chan transcriptEntry)
	m := newDashboardModel("ws://localhost:9222/devtools/page/1", entries, nil, func() { cancelled = true })
	return m, &cancelled
}

func update(t *testing.T, m dashboardModel, msg tea.Msg) dashboardModel {
	t.Helper()
	next, _ := m.Update(msg)
	updated, ok := next.(dashboardModel)
	require.True(t, ok)
	return updated
}

func TestDashboardModel_FoldsTranscript(t *testing.T) {
	m, _ := newTestModel()
	now := time.Now()

	for _, e := range []transcriptEntry{
		{at: now, kind: "open", payload: "ws://localhost:9222/devtools/page/1"},
		{at: now, kind: "connected"},
		{at: now, kind: "send", payload: `{"id":1,"method":"Page.navigate","params":{"url":"http://www.google.com"}}`},
		{at: now, kind: "recv", payload: `{"id":1,"result":{"frameId":"F1"}}`},
	} {
		m = update(t, m, entryMsg{entry: e})
	}

	assert.Equal(t, 1, m.sent)
	assert.Equal(t, 1, m.received)
	assert.Equal(t, "draining", m.state)
	require.Len(t, m.events, 4)
	assert.Equal(t, "request Page.navigate #1", m.events[2].Summary)
	assert.Equal(t, "→", m.events[2].Direction)
	assert.Equal(t, "response #1", m.events[3].Summary)
	assert.Equal(t, "←", m.events[3].Direction)

	view := m.View()
	assert.Contains(t, view, "ws://localhost:9222/devtools/page/1")
	assert.Contains(t, view, "response #1")
	assert.Contains(t, view, "DRAINING")

	m = update(t, m, entryMsg{entry: transcriptEntry{at: now, kind: "disconnected"}})
	m = update(t, m, sessionDoneMsg{})
	assert.Equal(t, "closed", m.state)
	assert.True(t, m.done)
	assert.Contains(t, m.View(), "Session finished.")
}

func TestDashboardModel_SessionError(t *testing.T) {
	m, _ := newTestModel()

	m = update(t, m, sessionDoneMsg{err: errors.New("failed to connect to ws://localhost:9222/devtools/page/1: refused")})

	assert.Error(t, m.err)
	assert.Contains(t, m.View(), "Error: failed to connect")
}

func TestDashboardModel_Keys(t *testing.T) {
	m, cancelled := newTestModel()
	for i := 0; i < 3; i++ {
		m = update(t, m, entryMsg{entry: transcriptEntry{at: time.Now(), kind: "recv", payload: `{"method":"Page.frameNavigated"}`}})
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	assert.True(t, m.frozen)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.selectedRow, "selection should stop at the last row")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.selectedRow)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.True(t, *cancelled, "quitting should cancel the session")
	_ = next
}

func TestDashboardModel_WaitForEntry(t *testing.T) {
	entries := make(chan transcriptEntry, 1)
	m := newDashboardModel("ws://localhost:9222/devtools/page/1", entries, nil, nil)

	entries <- transcriptEntry{kind: "connected"}
	msg := m.waitForEntry()()
	assert.Equal(t, entryMsg{entry: transcriptEntry{kind: "connected"}}, msg)

	close(entries)
	assert.Equal(t, feedClosedMsg{}, m.waitForEntry()())
}

func TestFeedObserver_ForwardsNotifications(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := newFeedObserver(ctx)
	feed.Opening("ws://localhost:9222/devtools/page/1")
	feed.Connected()
	feed.Sent(command.Command{ID: 1, Payload: "A"})
	feed.Received("R")
	feed.Disconnected(errors.New("boom"))
	feed.finish()

	var kinds, payloads []string
	for e := range feed.entries {
		kinds = append(kinds, e.kind)
		payloads = append(payloads, e.payload)
	}
	assert.Equal(t, []string{"open", "connected", "send", "recv", "disconnected"}, kinds)
	assert.Equal(t, []string{"ws://localhost:9222/devtools/page/1", "", "A", "R", "boom"}, payloads)
}

func TestFeedObserver_DoesNotBlockAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	feed := &feedObserver{ctx: ctx, entries: make(chan transcriptEntry)}
	cancel()

	done := make(chan struct{})
	go func() {
		feed.Received("ignored")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("observer blocked after cancellation")
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "512B", formatSize(512))
	assert.Equal(t, "2.0K", formatSize(2048))
	assert.Equal(t, "1.5M", formatSize(1536*1024))
	assert.Equal(t, "a b c", createPayloadPreview("a\n\tb   c"))
	assert.Equal(t, "abcd...", truncateString("abcdefghij", 7))
	assert.Equal(t, "short", truncateString("short", 10))
}
