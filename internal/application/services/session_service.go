package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"wdp.dev/cli/internal/core/command"
	"wdp.dev/cli/internal/core/domain"
	configdomain "wdp.dev/cli/internal/core/domain/config"
	"wdp.dev/cli/internal/core/ports"
	"wdp.dev/cli/internal/core/runner"
)

// SessionResult describes a finished run
type SessionResult struct {
	Session *domain.Session
	Stats   runner.Stats
	Queued  int
}

// SessionService runs one command queue against one endpoint
type SessionService struct {
	newTransport ports.TransportFactory
}

// NewSessionService creates a new session service
func NewSessionService(newTransport ports.TransportFactory) *SessionService {
	return &SessionService{newTransport: newTransport}
}

// BuildQueue returns the command queue selected by the configuration:
// explicit commands, then a script file, then the default navigate command.
func BuildQueue(cfg configdomain.Config) (*command.Queue, error) {
	switch {
	case len(cfg.Commands) > 0:
		return command.NewQueue(cfg.Commands...), nil
	case cfg.Script != "":
		f, err := os.Open(cfg.Script)
		if err != nil {
			return nil, fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		return command.ReadScript(f)
	default:
		return command.NavigateQueue(cfg.URL)
	}
}

// Run connects to the configured endpoint and drives the queue to
// completion. Cancellation of ctx ends the session as cancelled and is
// not reported as an error.
func (s *SessionService) Run(ctx context.Context, cfg configdomain.Config, observer runner.Observer, logger ports.LoggingGateway) (*SessionResult, error) {
	endpoint, err := cfg.Endpoint()
	if err != nil {
		return nil, err
	}
	queue, err := BuildQueue(cfg)
	if err != nil {
		return nil, err
	}
	return s.RunQueue(ctx, endpoint, queue, cfg.HandshakeTimeout, observer, logger)
}

// RunQueue drives an already built queue against endpoint
func (s *SessionService) RunQueue(
	ctx context.Context,
	endpoint domain.Endpoint,
	queue *command.Queue,
	handshakeTimeout time.Duration,
	observer runner.Observer,
	logger ports.LoggingGateway,
) (*SessionResult, error) {
	session := domain.NewSession(endpoint)
	result := &SessionResult{Session: session, Queued: queue.Len()}

	fields := map[string]interface{}{
		"session":  string(session.ID()),
		"endpoint": endpoint.URL(),
		"commands": queue.Len(),
		"started":  session.StartTime().Format(time.RFC3339Nano),
	}
	logger.Log(ports.LogLevelDebug, "Starting session", fields)

	transport := s.newTransport(ports.TransportOptions{HandshakeTimeout: handshakeTimeout})
	r := runner.New(queue, transport, observer)

	session.Start()
	runErr := r.Run(ctx, endpoint.URL())
	result.Stats = r.Stats()

	fields["sent"] = result.Stats.Sent
	fields["received"] = result.Stats.Received
	fields["pending"] = result.Stats.Pending

	switch {
	case runErr == nil:
		session.Complete()
	case ctx.Err() != nil:
		session.Cancel()
		logger.Log(ports.LogLevelInfo, "Session cancelled", fields)
		return result, nil
	default:
		session.Fail(runErr)
		logger.LogError(runErr, "Session failed", fields)
		return result, runErr
	}

	fields["duration"] = session.Duration().String()
	logger.Log(ports.LogLevelDebug, "Session completed", fields)
	return result, nil
}
