package logging

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"wdp.dev/cli/internal/core/command"
	"wdp.dev/cli/internal/core/ports"
	"wdp.dev/cli/internal/jsonrpc"
)

// ConsoleLogger prints the session transcript, one line per step:
//
//	open ws://localhost:9222/devtools/page/1
//	connected
//	send {"id":1,...}
//	recv {"id":1,"result":{}}
//	disconnected
//
// Labels are styled only when out is a terminal. Parsed summaries of each
// message go to the diagnostic logger at debug level.
type ConsoleLogger struct {
	mu     sync.Mutex
	out    io.Writer
	diag   ports.LoggingGateway
	styles consoleStyles
}

type consoleStyles struct {
	open         lipgloss.Style
	connected    lipgloss.Style
	send         lipgloss.Style
	recv         lipgloss.Style
	disconnected lipgloss.Style
}

// NewConsoleLogger creates a transcript printer. diag may be nil.
func NewConsoleLogger(out io.Writer, diag ports.LoggingGateway) *ConsoleLogger {
	r := lipgloss.NewRenderer(out)
	return &ConsoleLogger{
		out:  out,
		diag: diag,
		styles: consoleStyles{
			open:         r.NewStyle().Foreground(lipgloss.Color("245")),
			connected:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("46")),
			send:         r.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
			recv:         r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
			disconnected: r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		},
	}
}

// Opening prints the URL being opened
func (l *ConsoleLogger) Opening(url string) {
	l.printf("%s %s\n", l.styles.open.Render("open"), url)
}

// Connected prints the connection notice
func (l *ConsoleLogger) Connected() {
	l.printf("%s\n", l.styles.connected.Render("connected"))
}

// Sent prints an outbound payload verbatim
func (l *ConsoleLogger) Sent(cmd command.Command) {
	l.printf("%s %s\n", l.styles.send.Render("send"), cmd.Payload)
	l.debug(cmd.Payload, jsonrpc.DirectionOutbound, map[string]interface{}{"command": cmd.ID})
}

// Received prints an inbound payload verbatim
func (l *ConsoleLogger) Received(text string) {
	l.printf("%s %s\n", l.styles.recv.Render("recv"), text)
	l.debug(text, jsonrpc.DirectionInbound, nil)
}

// Disconnected prints the disconnection notice
func (l *ConsoleLogger) Disconnected(err error) {
	if err != nil {
		l.printf("%s: %v\n", l.styles.disconnected.Render("disconnected"), err)
		return
	}
	l.printf("%s\n", l.styles.disconnected.Render("disconnected"))
}

func (l *ConsoleLogger) printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, format, args...)
}

func (l *ConsoleLogger) debug(payload string, direction jsonrpc.Direction, fields map[string]interface{}) {
	if l.diag == nil || l.diag.GetLogLevel() != ports.LogLevelDebug {
		return
	}
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["direction"] = string(direction)
	fields["bytes"] = len(payload)

	msg, err := jsonrpc.Parse([]byte(payload), direction)
	if err != nil {
		fields["parse_error"] = err.Error()
	}
	l.diag.Log(ports.LogLevelDebug, msg.Summary(), fields)
}
