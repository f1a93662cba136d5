package domain

import "time"

type CallState string

const (
	CallStateConnecting CallState = "connecting"
	CallStateStreaming  CallState = "streaming"
	CallStateStopped    CallState = "stopped"
)

const (
	CallStatusCompleted = "completed"
	CallStatusFailed    = "failed"
	CallStatusNoAnswer  = "no-answer"
	CallStatusBusy      = "busy"
)

type CallSession struct {
	CallID          string
	StreamID        string
	State           CallState
	From            string
	To              string
	WorkflowID      string
	CurrentScript   string
	WorkflowContext map[string]interface{}
	InboundAudio    []byte
	SendSequence    uint64
	StartedAt       time.Time
}

func NewCallSession(callID string) *CallSession {
	return &CallSession{
		CallID:          callID,
		State:           CallStateConnecting,
		WorkflowContext: make(map[string]interface{}),
		StartedAt:       time.Now(),
	}
}

// BufferInbound appends raw audio to the capture buffer, discarding the
// oldest bytes once maxBytes is exceeded.
func (s *CallSession) BufferInbound(data []byte, maxBytes int) {
	s.InboundAudio = append(s.InboundAudio, data...)
	if maxBytes > 0 && len(s.InboundAudio) > maxBytes {
		s.InboundAudio = s.InboundAudio[len(s.InboundAudio)-maxBytes:]
	}
}

// SessionSnapshot is the read-only projection served to status queries.
type SessionSnapshot struct {
	CallID          string                 `json:"call_id"`
	StreamID        string                 `json:"stream_id"`
	State           CallState              `json:"state"`
	From            string                 `json:"from"`
	To              string                 `json:"to"`
	WorkflowID      string                 `json:"workflow_id,omitempty"`
	CurrentScript   string                 `json:"current_script"`
	WorkflowContext map[string]interface{} `json:"workflow_context"`
	InboundBytes    int                    `json:"inbound_bytes"`
	StartedAt       time.Time              `json:"started_at"`
}

// Snapshot deep-copies the workflow context, nested maps included:
// the control plane merges into inner maps in place, so a snapshot
// holding a shared reference would be read while the live session
// mutates it.
func (s *CallSession) Snapshot() SessionSnapshot {
	return SessionSnapshot{
		CallID:          s.CallID,
		StreamID:        s.StreamID,
		State:           s.State,
		From:            s.From,
		To:              s.To,
		WorkflowID:      s.WorkflowID,
		CurrentScript:   s.CurrentScript,
		WorkflowContext: copyContext(s.WorkflowContext),
		InboundBytes:    len(s.InboundAudio),
		StartedAt:       s.StartedAt,
	}
}

func copyContext(src map[string]interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		if nested, ok := v.(map[string]interface{}); ok {
			dst[k] = copyContext(nested)
			continue
		}
		dst[k] = v
	}
	return dst
}

// CallRecord is the finalized call metadata handed to the persistence
// collaborator after teardown.
type CallRecord struct {
	CallID          string
	StreamID        string
	From            string
	To              string
	WorkflowID      string
	Status          string
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds float64
	WorkflowContext map[string]interface{}
}

type CallEvent struct {
	CallID          string
	From            string
	To              string
	AgentCategory   string
	Status          string
	Qualification   string
	DurationSeconds float64
	WorkflowContext map[string]interface{}
}

// WorkflowTrigger holds the configured match conditions. A nil slice or
// nil pointer means the condition is not configured and always matches.
type WorkflowTrigger struct {
	AgentCategories []string
	CallStatuses    []string
	Qualification   *string
}

type Workflow struct {
	ID             string
	Name           string
	Enabled        bool
	TargetURL      string
	Trigger        WorkflowTrigger
	ExecutionCount int64
	SuccessCount   int64
	FailureCount   int64
}

func (w *Workflow) Matches(event CallEvent) bool {
	if len(w.Trigger.AgentCategories) > 0 && !contains(w.Trigger.AgentCategories, event.AgentCategory) {
		return false
	}
	if len(w.Trigger.CallStatuses) > 0 && !contains(w.Trigger.CallStatuses, event.Status) {
		return false
	}
	if w.Trigger.Qualification != nil && *w.Trigger.Qualification != event.Qualification {
		return false
	}
	return true
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

type DispatchOutcome struct {
	WorkflowID string
	Matched    bool
	Dispatched bool
	Err        error
}
