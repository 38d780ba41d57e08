package runner

import (
	"context"
	"errors"
	"fmt"

	"wdp.dev/cli/internal/core/command"
	"wdp.dev/cli/internal/core/ports"
)

// ErrAlreadyStarted is returned when Run is called more than once
var ErrAlreadyStarted = errors.New("runner already started")

// State is the connection state of a Runner
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateDraining
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stats counts traffic of one run. Pending is the number of queued
// commands that were never sent.
type Stats struct {
	Sent     int
	Received int
	Pending  int
}

// Runner drives a strict request/reply exchange over one transport: a
// command is sent on open and after every inbound message until the queue
// is exhausted, then the connection is closed. Replies are not matched
// against request ids and are not inspected for errors.
//
// The Handle* methods are not safe for concurrent use. Run calls them from
// a single goroutine in event arrival order.
type Runner struct {
	queue    *command.Queue
	conn     ports.Transport
	observer Observer

	state        State
	stats        Stats
	started      bool
	closing      bool
	disconnected bool
}

// New creates a runner. A nil observer discards all notifications.
func New(queue *command.Queue, conn ports.Transport, observer Observer) *Runner {
	if queue == nil {
		queue = command.NewQueue()
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Runner{
		queue:    queue,
		conn:     conn,
		observer: observer,
		state:    StateDisconnected,
	}
}

// State returns the current state
func (r *Runner) State() State {
	return r.state
}

// Stats returns sent, received and pending counts
func (r *Runner) Stats() Stats {
	stats := r.stats
	stats.Pending = r.queue.Remaining()
	return stats
}

// Run connects to url and processes transport events until the
// connection closes. It never reconnects. Cancelling ctx closes the
// connection and Run returns ctx.Err() once the close has been observed.
func (r *Runner) Run(ctx context.Context, url string) error {
	if r.started {
		return ErrAlreadyStarted
	}
	r.started = true

	r.observer.Opening(url)
	if err := r.conn.Connect(ctx, url); err != nil {
		r.state = StateClosed
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	var (
		sendErr  error
		closeErr error
		ctxErr   error
	)
	done := ctx.Done()
	events := r.conn.Events()

	for {
		select {
		case <-done:
			done = nil
			ctxErr = ctx.Err()
			r.closeLocal()

		case ev, ok := <-events:
			if !ok {
				r.HandleClose(nil)
				switch {
				case sendErr != nil:
					return sendErr
				case closeErr != nil:
					return fmt.Errorf("connection to %s failed: %w", url, closeErr)
				default:
					return ctxErr
				}
			}

			switch ev.Kind {
			case ports.TransportOpen:
				if err := r.HandleOpen(); err != nil && sendErr == nil {
					sendErr = err
					r.closeLocal()
				}
			case ports.TransportMessage:
				if err := r.HandleMessage(ev.Data); err != nil && sendErr == nil {
					sendErr = err
					r.closeLocal()
				}
			case ports.TransportClose:
				if ev.Err != nil && closeErr == nil {
					closeErr = ev.Err
				}
				r.HandleClose(ev.Err)
			}
		}
	}
}

// HandleOpen reacts to a successful connection by sending the first command
func (r *Runner) HandleOpen() error {
	if r.state != StateDisconnected {
		return nil
	}
	r.state = StateConnected
	r.observer.Connected()
	return r.sendNext()
}

// HandleMessage reacts to any inbound message by sending the next command,
// or closing the connection when none remain.
func (r *Runner) HandleMessage(text string) error {
	r.stats.Received++
	r.observer.Received(text)

	if r.state == StateClosed || r.closing {
		return nil
	}
	if r.queue.HasNext() {
		return r.sendNext()
	}
	r.closeLocal()
	return nil
}

// HandleClose records the end of the connection. It is idempotent.
func (r *Runner) HandleClose(err error) {
	r.state = StateClosed
	if r.disconnected {
		return
	}
	r.disconnected = true
	r.observer.Disconnected(err)
	r.closing = true
	_ = r.conn.Close()
}

func (r *Runner) sendNext() error {
	cmd, ok := r.queue.Next()
	if !ok {
		return nil
	}
	r.observer.Sent(cmd)
	if err := r.conn.Send(cmd.Payload); err != nil {
		return fmt.Errorf("failed to send command %d: %w", cmd.ID, err)
	}
	r.stats.Sent++
	r.state = StateDraining
	return nil
}

func (r *Runner) closeLocal() {
	r.state = StateClosed
	if r.closing {
		return
	}
	r.closing = true
	_ = r.conn.Close()
}
