package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MessageType represents the type of a debugging protocol message
type MessageType string

const (
	MessageTypeRequest  MessageType = "request"
	MessageTypeResponse MessageType = "response"
	MessageTypeEvent    MessageType = "event"
	MessageTypeError    MessageType = "error"
	MessageTypeUnknown  MessageType = "unknown"
)

// Direction represents the direction of message flow
type Direction string

const (
	DirectionOutbound Direction = "outbound" // Sent to the debug target
	DirectionInbound  Direction = "inbound"  // Received from the debug target
)

// Request is the wire envelope of a command: {"id":1,"method":"Page.navigate","params":{...}}
type Request struct {
	ID     int64  `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params"`
}

// ErrorInfo contains details about an error reply
type ErrorInfo struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NewRequest serializes a command envelope. Nil params are sent as {}.
func NewRequest(id int64, method string, params any) (string, error) {
	if method == "" {
		return "", fmt.Errorf("method cannot be empty")
	}
	if params == nil {
		params = struct{}{}
	}
	data, err := json.Marshal(Request{ID: id, Method: method, Params: params})
	if err != nil {
		return "", fmt.Errorf("failed to encode %s request: %w", method, err)
	}
	return string(data), nil
}

// NavigateRequest builds a Page.navigate command for the given URL
func NavigateRequest(id int64, url string) (string, error) {
	return NewRequest(id, "Page.navigate", map[string]string{"url": url})
}

// Message is a parsed view over one raw protocol message. It is used for
// display only; the raw payload is always what goes over the wire.
type Message struct {
	msgType   MessageType
	method    string
	requestID *int64
	errorInfo *ErrorInfo
	payload   json.RawMessage
	timestamp time.Time
	direction Direction
}

// Parse classifies a raw message. Payloads that are not JSON objects are
// kept as MessageTypeUnknown together with the returned error.
func Parse(raw []byte, direction Direction) (*Message, error) {
	msg := &Message{
		msgType:   MessageTypeUnknown,
		payload:   append(json.RawMessage(nil), raw...),
		timestamp: time.Now(),
		direction: direction,
	}

	var base struct {
		ID     *int64          `json:"id,omitempty"`
		Method string          `json:"method,omitempty"`
		Result json.RawMessage `json:"result,omitempty"`
		Error  *ErrorInfo      `json:"error,omitempty"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(raw), &base); err != nil {
		return msg, fmt.Errorf("invalid protocol message: %w", err)
	}

	msg.requestID = base.ID
	msg.method = base.Method

	switch {
	case base.Error != nil:
		msg.msgType = MessageTypeError
		msg.errorInfo = base.Error
	case base.Method != "" && base.ID != nil:
		msg.msgType = MessageTypeRequest
	case base.Method != "":
		msg.msgType = MessageTypeEvent
	case base.ID != nil || base.Result != nil:
		msg.msgType = MessageTypeResponse
	default:
		return msg, fmt.Errorf("cannot determine protocol message type")
	}

	return msg, nil
}

// Type returns the message type
func (m *Message) Type() MessageType {
	return m.msgType
}

// Method returns the method name (requests and events)
func (m *Message) Method() string {
	return m.method
}

// RequestID returns the numeric id, if present
func (m *Message) RequestID() (int64, bool) {
	if m.requestID == nil {
		return 0, false
	}
	return *m.requestID, true
}

// ErrorInfo returns error details for error replies
func (m *Message) ErrorInfo() *ErrorInfo {
	return m.errorInfo
}

// Size returns the size of the raw payload in bytes
func (m *Message) Size() int {
	return len(m.payload)
}

// IsError returns true for error replies
func (m *Message) IsError() bool {
	return m.msgType == MessageTypeError
}

// Summary returns a short description such as "response #1" or "event Page.loadEventFired"
func (m *Message) Summary() string {
	var b strings.Builder
	b.WriteString(string(m.msgType))
	if m.method != "" {
		b.WriteString(" ")
		b.WriteString(m.method)
	}
	if id, ok := m.RequestID(); ok {
		fmt.Fprintf(&b, " #%d", id)
	}
	if m.errorInfo != nil {
		fmt.Fprintf(&b, " (%d: %s)", m.errorInfo.Code, m.errorInfo.Message)
	}
	return b.String()
}

// String returns a human-readable representation of the message
func (m *Message) String() string {
	arrow := "→"
	if m.direction == DirectionInbound {
		arrow = "←"
	}
	return fmt.Sprintf("[%s] %s %s", m.timestamp.Format("15:04:05.000"), arrow, m.Summary())
}
