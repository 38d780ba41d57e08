package domain

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

const (
	DefaultHost = "localhost"
	DefaultPort = 9222
	DefaultPage = 1

	// devtoolsPagePath is the only endpoint shape the debug proxy serves for
	// page sessions.
	devtoolsPagePath = "/devtools/page/"
)

// ErrInvalidEndpoint is returned when an endpoint fails validation
var ErrInvalidEndpoint = errors.New("invalid endpoint")

// Endpoint identifies one remote debugging page session
type Endpoint struct {
	host string
	port int
	page int
}

// NewEndpoint creates a validated Endpoint
func NewEndpoint(host string, port, page int) (Endpoint, error) {
	if host == "" {
		return Endpoint{}, fmt.Errorf("%w: host cannot be empty", ErrInvalidEndpoint)
	}
	if port < 1 || port > 65535 {
		return Endpoint{}, fmt.Errorf("%w: port must be between 1 and 65535, got %d", ErrInvalidEndpoint, port)
	}
	if page < 0 {
		return Endpoint{}, fmt.Errorf("%w: page must not be negative, got %d", ErrInvalidEndpoint, page)
	}
	return Endpoint{host: host, port: port, page: page}, nil
}

// DefaultEndpoint returns ws://localhost:9222/devtools/page/1
func DefaultEndpoint() Endpoint {
	return Endpoint{host: DefaultHost, port: DefaultPort, page: DefaultPage}
}

// Host returns the target host
func (e Endpoint) Host() string {
	return e.host
}

// Port returns the target port
func (e Endpoint) Port() int {
	return e.port
}

// Page returns the page index
func (e Endpoint) Page() int {
	return e.page
}

// Address returns host:port
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.host, strconv.Itoa(e.port))
}

// URL returns the WebSocket URL of the page session
func (e Endpoint) URL() string {
	return "ws://" + e.Address() + devtoolsPagePath + strconv.Itoa(e.page)
}

// ListingURL returns the HTTP URL of the proxy's page listing
func (e Endpoint) ListingURL() string {
	return "http://" + e.Address() + "/json"
}

// String implements the Stringer interface
func (e Endpoint) String() string {
	return e.URL()
}
