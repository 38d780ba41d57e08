package ports

import (
	"context"
	"errors"
	"time"
)

// ErrNotConnected is returned by Send when no connection is open
var ErrNotConnected = errors.New("transport not connected")

// TransportEventKind identifies one of the three transport notifications
type TransportEventKind int

const (
	TransportOpen TransportEventKind = iota
	TransportMessage
	TransportClose
)

func (k TransportEventKind) String() string {
	switch k {
	case TransportOpen:
		return "open"
	case TransportMessage:
		return "message"
	case TransportClose:
		return "close"
	default:
		return "unknown"
	}
}

// TransportEvent is delivered on Transport.Events. Data is set for
// TransportMessage; Err is set for a TransportClose caused by a failure.
type TransportEvent struct {
	Kind TransportEventKind
	Data string
	Err  error
}

// Transport is a message-oriented full-duplex text channel.
//
// After a successful Connect the transport delivers exactly one
// TransportOpen, any number of TransportMessage, and exactly one
// TransportClose, then closes the Events channel.
type Transport interface {
	Connect(ctx context.Context, url string) error
	Send(text string) error
	Close() error
	Events() <-chan TransportEvent
}

// TransportOptions carries the connection settings taken from config
type TransportOptions struct {
	HandshakeTimeout time.Duration
}

// TransportFactory creates a fresh, unconnected transport
type TransportFactory func(opts TransportOptions) Transport
