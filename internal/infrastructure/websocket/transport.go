package websocket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"wdp.dev/cli/internal/core/ports"
)

const (
	DefaultHandshakeTimeout = 10 * time.Second

	closeWriteWait = time.Second
	eventBuffer    = 64
)

// Transport implements ports.Transport over a single gorilla/websocket
// connection. One reader goroutine turns frames into events; writes are
// serialized by a mutex.
type Transport struct {
	dialer *websocket.Dialer
	header http.Header
	events chan ports.TransportEvent

	mu      sync.Mutex
	conn    *websocket.Conn
	closing bool
}

// Option configures a Transport
type Option func(*Transport)

// WithHandshakeTimeout sets the opening handshake timeout
func WithHandshakeTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.dialer.HandshakeTimeout = d
		}
	}
}

// WithHeader adds request headers to the opening handshake
func WithHeader(header http.Header) Option {
	return func(t *Transport) {
		t.header = header.Clone()
	}
}

// NewTransport creates an unconnected transport
func NewTransport(opts ...Option) *Transport {
	t := &Transport{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: DefaultHandshakeTimeout,
		},
		events: make(chan ports.TransportEvent, eventBuffer),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Events returns the notification channel
func (t *Transport) Events() <-chan ports.TransportEvent {
	return t.events
}

// Connect dials url and, on success, queues the open notification and
// starts reading.
func (t *Transport) Connect(ctx context.Context, url string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil || t.closing {
		return fmt.Errorf("transport already used")
	}

	conn, resp, err := t.dialer.DialContext(ctx, url, t.header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("%w (handshake status %s)", err, resp.Status)
		}
		return err
	}

	t.conn = conn
	t.events <- ports.TransportEvent{Kind: ports.TransportOpen}
	go t.readLoop(conn)

	return nil
}

// Send writes text as a single text frame
func (t *Transport) Send(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil || t.closing {
		return ports.ErrNotConnected
	}
	return t.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// Close sends a normal close frame and releases the connection. It is
// safe to call more than once.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil || t.closing {
		t.closing = true
		return nil
	}
	t.closing = true

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteWait))
	return t.conn.Close()
}

func (t *Transport) readLoop(conn *websocket.Conn) {
	defer close(t.events)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.events <- ports.TransportEvent{Kind: ports.TransportClose, Err: t.closeError(err)}
			_ = t.Close()
			return
		}
		t.events <- ports.TransportEvent{Kind: ports.TransportMessage, Data: string(data)}
	}
}

// closeError maps a read error to the error reported with the close
// notification: nil for local or orderly closes.
func (t *Transport) closeError(err error) error {
	t.mu.Lock()
	closing := t.closing
	t.mu.Unlock()

	if closing {
		return nil
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		return nil
	}
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return fmt.Errorf("closed by peer: %w", closeErr)
	}
	return err
}

// Factory returns a ports.TransportFactory. extra options are applied
// after the ones derived from ports.TransportOptions.
func Factory(extra ...Option) ports.TransportFactory {
	return func(o ports.TransportOptions) ports.Transport {
		opts := append([]Option{WithHandshakeTimeout(o.HandshakeTimeout)}, extra...)
		return NewTransport(opts...)
	}
}

var _ ports.Transport = (*Transport)(nil)
