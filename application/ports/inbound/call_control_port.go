package inbound

import (
	"context"
	"voice-call-relay/domain"
)

type SpeakParams struct {
	CallID  string
	Text    string
	VoiceID string
}

type TriggerWorkflowParams struct {
	CallID     string
	WorkflowID string
	Data       map[string]interface{}
}

type SendTextMessageParams struct {
	CallID      string
	Destination string
	Message     string
}

type InjectVariablesParams struct {
	CallID    string
	Variables map[string]interface{}
}

// CallControlPort is the mid-call control plane. Every operation
// addresses a live session by call ID and fails with
// domain.ErrSessionNotFound once the call has stopped.
type CallControlPort interface {
	Speak(ctx context.Context, params SpeakParams) error
	TriggerWorkflow(ctx context.Context, params TriggerWorkflowParams) (domain.SessionSnapshot, error)
	SendTextMessage(ctx context.Context, params SendTextMessageParams) (domain.SessionSnapshot, error)
	UpdateScript(ctx context.Context, callID string, script string) (domain.SessionSnapshot, error)
	InjectVariables(ctx context.Context, params InjectVariablesParams) (domain.SessionSnapshot, error)
	GetSessionSnapshot(callID string) (domain.SessionSnapshot, error)
}
