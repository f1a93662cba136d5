package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound = errors.New("call session not found")
	ErrSessionExists   = errors.New("call session already exists")
)

// UpstreamError marks a failure returned by an external collaborator
// (synthesis engine, automation target, messaging provider). It is
// surfaced to the immediate caller and never terminates the session.
type UpstreamError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s unreachable: %s", e.Service, e.Message)
}

// ProtocolViolation is raised when a transport event arrives in a state
// that forbids it; the offending connection is closed.
type ProtocolViolation struct {
	CallID string
	Event  string
	State  CallState
}

func (e *ProtocolViolation) Error() string {
	return fmt.Sprintf("protocol violation on call %s: event %q in state %q", e.CallID, e.Event, e.State)
}
