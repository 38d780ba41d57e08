package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionID represents a unique command-run session identifier
type SessionID string

// SessionStatus represents the outcome of a command-run session
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusRunning   SessionStatus = "running"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFailed    SessionStatus = "failed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// Session records one connection lifetime against an Endpoint
type Session struct {
	id           SessionID
	endpoint     Endpoint
	startTime    time.Time
	endTime      *time.Time
	status       SessionStatus
	errorMessage string
}

// NewSession creates a pending session for the given endpoint
func NewSession(endpoint Endpoint) *Session {
	return &Session{
		id:        SessionID(uuid.NewString()),
		endpoint:  endpoint,
		startTime: time.Now(),
		status:    SessionStatusPending,
	}
}

// ID returns the session identifier
func (s *Session) ID() SessionID {
	return s.id
}

// Endpoint returns the target endpoint
func (s *Session) Endpoint() Endpoint {
	return s.endpoint
}

// StartTime returns when the session was created
func (s *Session) StartTime() time.Time {
	return s.startTime
}

// EndTime returns when the session ended (nil if still running)
func (s *Session) EndTime() *time.Time {
	return s.endTime
}

// Status returns the current session status
func (s *Session) Status() SessionStatus {
	return s.status
}

// ErrorMessage returns the failure reason, if any
func (s *Session) ErrorMessage() string {
	return s.errorMessage
}

// Start marks the session as running
func (s *Session) Start() {
	if s.status == SessionStatusPending {
		s.status = SessionStatusRunning
	}
}

// Complete marks the session as completed
func (s *Session) Complete() {
	s.end(SessionStatusCompleted)
}

// Cancel marks the session as cancelled
func (s *Session) Cancel() {
	s.end(SessionStatusCancelled)
}

// Fail marks the session as failed with the given error
func (s *Session) Fail(err error) {
	if s.IsEnded() {
		return
	}
	if err != nil {
		s.errorMessage = err.Error()
	}
	s.end(SessionStatusFailed)
}

// IsEnded reports whether the session reached a terminal status
func (s *Session) IsEnded() bool {
	return s.endTime != nil
}

// Duration returns how long the session ran
func (s *Session) Duration() time.Duration {
	if s.endTime != nil {
		return s.endTime.Sub(s.startTime)
	}
	return time.Since(s.startTime)
}

func (s *Session) end(status SessionStatus) {
	if s.IsEnded() {
		return
	}
	now := time.Now()
	s.endTime = &now
	s.status = status
}
