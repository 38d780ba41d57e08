package testfixtures

import (
	"context"
	"fmt"
	"sync"
	"time"

	configdomain "wdp.dev/cli/internal/core/domain/config"
	"wdp.dev/cli/internal/core/ports"
)

// ScriptedTransport is an in-memory ports.Transport standing in for a
// debug target. By default every sent payload is answered with
// {"id":<n>,"result":{}} where n counts sends.
type ScriptedTransport struct {
	mu       sync.Mutex
	events   chan ports.TransportEvent
	closed   bool
	url      string
	connects int
	sent     []string
	opts     ports.TransportOptions

	connectErr error
	sendErr    error
	silent     bool
	greeting   []string
}

// NewScriptedTransport creates a transport that answers every command
func NewScriptedTransport() *ScriptedTransport {
	return &ScriptedTransport{events: make(chan ports.TransportEvent, 1024)}
}

// FailConnect makes Connect return err
func (t *ScriptedTransport) FailConnect(err error) *ScriptedTransport {
	t.connectErr = err
	return t
}

// FailSend makes every Send return err
func (t *ScriptedTransport) FailSend(err error) *ScriptedTransport {
	t.sendErr = err
	return t
}

// Silent stops automatic replies
func (t *ScriptedTransport) Silent() *ScriptedTransport {
	t.silent = true
	return t
}

// WithGreeting queues inbound messages delivered right after open
func (t *ScriptedTransport) WithGreeting(messages ...string) *ScriptedTransport {
	t.greeting = append(t.greeting, messages...)
	return t
}

// Factory returns a ports.TransportFactory that always hands out t
func (t *ScriptedTransport) Factory() ports.TransportFactory {
	return func(opts ports.TransportOptions) ports.Transport {
		t.mu.Lock()
		t.opts = opts
		t.mu.Unlock()
		return t
	}
}

func (t *ScriptedTransport) Connect(ctx context.Context, url string) error {
	t.mu.Lock()
	t.url = url
	t.connects++
	t.mu.Unlock()

	if t.connectErr != nil {
		return t.connectErr
	}
	t.Push(ports.TransportEvent{Kind: ports.TransportOpen})
	for _, m := range t.greeting {
		t.Push(ports.TransportEvent{Kind: ports.TransportMessage, Data: m})
	}
	return nil
}

func (t *ScriptedTransport) Send(text string) error {
	if t.sendErr != nil {
		return t.sendErr
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ports.ErrNotConnected
	}
	t.sent = append(t.sent, text)
	n := len(t.sent)
	t.mu.Unlock()

	if !t.silent {
		t.Push(ports.TransportEvent{Kind: ports.TransportMessage, Data: fmt.Sprintf(`{"id":%d,"result":{}}`, n)})
	}
	return nil
}

// Close ends the connection locally. It is idempotent.
func (t *ScriptedTransport) Close() error {
	t.finish(nil)
	return nil
}

// PeerClose simulates the remote end closing with err
func (t *ScriptedTransport) PeerClose(err error) {
	t.finish(err)
}

func (t *ScriptedTransport) Events() <-chan ports.TransportEvent {
	return t.events
}

// Push delivers an event unless the transport is closed
func (t *ScriptedTransport) Push(ev ports.TransportEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.events <- ev
	}
}

func (t *ScriptedTransport) finish(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.events <- ports.TransportEvent{Kind: ports.TransportClose, Err: err}
	close(t.events)
}

// URL returns the URL passed to Connect
func (t *ScriptedTransport) URL() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.url
}

// Connects returns how many times Connect was called
func (t *ScriptedTransport) Connects() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connects
}

// Sent returns the payloads written so far
func (t *ScriptedTransport) Sent() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.sent...)
}

// Options returns the options the transport was created with
func (t *ScriptedTransport) Options() ports.TransportOptions {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opts
}

// ConfigBuilder provides a builder pattern for test configurations
type ConfigBuilder struct {
	cfg configdomain.Config
}

// NewConfigBuilder starts from the built-in defaults
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: configdomain.Default()}
}

// WithEndpoint sets host, port and page
func (b *ConfigBuilder) WithEndpoint(host string, port, page int) *ConfigBuilder {
	b.cfg.Host = host
	b.cfg.Port = port
	b.cfg.Page = page
	return b
}

// WithURL sets the default navigation URL
func (b *ConfigBuilder) WithURL(url string) *ConfigBuilder {
	b.cfg.URL = url
	return b
}

// WithCommands sets explicit command payloads
func (b *ConfigBuilder) WithCommands(payloads ...string) *ConfigBuilder {
	b.cfg.Commands = payloads
	return b
}

// WithScript sets the script path
func (b *ConfigBuilder) WithScript(path string) *ConfigBuilder {
	b.cfg.Script = path
	return b
}

// WithHandshakeTimeout sets the handshake timeout
func (b *ConfigBuilder) WithHandshakeTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.HandshakeTimeout = d
	return b
}

// Build returns the configuration
func (b *ConfigBuilder) Build() configdomain.Config {
	return b.cfg
}

// RequestPayloads returns n Runtime.evaluate payloads with ids 1..n
func RequestPayloads(n int) []string {
	payloads := make([]string, n)
	for i := range payloads {
		payloads[i] = fmt.Sprintf(`{"id":%d,"method":"Runtime.evaluate","params":{"expression":"%d"}}`, i+1, i)
	}
	return payloads
}
