package command

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"wdp.dev/cli/internal/jsonrpc"
)

// Command is one pre-serialized request payload. ID is its 1-based
// position in the queue.
type Command struct {
	ID      int
	Payload string
}

// Queue is an ordered, read-only list of commands consumed through a
// single cursor. It is not safe for concurrent use; the runner owns it.
type Queue struct {
	commands []Command
	cursor   int
}

// NewQueue builds a queue from raw payloads, assigning IDs by position
func NewQueue(payloads ...string) *Queue {
	commands := make([]Command, 0, len(payloads))
	for i, p := range payloads {
		commands = append(commands, Command{ID: i + 1, Payload: p})
	}
	return &Queue{commands: commands}
}

// NavigateQueue returns the default one-command queue navigating to url
func NavigateQueue(url string) (*Queue, error) {
	payload, err := jsonrpc.NavigateRequest(1, url)
	if err != nil {
		return nil, err
	}
	return NewQueue(payload), nil
}

// ReadScript reads one payload per line. Blank lines and lines starting
// with '#' are skipped.
func ReadScript(r io.Reader) (*Queue, error) {
	var payloads []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		payloads = append(payloads, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return NewQueue(payloads...), nil
}

// Len returns the total number of commands
func (q *Queue) Len() int {
	return len(q.commands)
}

// Remaining returns how many commands have not been sent yet
func (q *Queue) Remaining() int {
	return len(q.commands) - q.cursor
}

// HasNext reports whether the cursor has not reached the end
func (q *Queue) HasNext() bool {
	return q.cursor < len(q.commands)
}

// Next returns the command at the cursor and advances it
func (q *Queue) Next() (Command, bool) {
	if !q.HasNext() {
		return Command{}, false
	}
	cmd := q.commands[q.cursor]
	q.cursor++
	return cmd, true
}

// Commands returns a copy of all commands in order
func (q *Queue) Commands() []Command {
	return append([]Command(nil), q.commands...)
}
