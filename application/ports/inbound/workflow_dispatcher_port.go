package inbound

import (
	"context"
	"voice-call-relay/domain"
)

// WorkflowDispatcherPort evaluates trigger conditions for a finished
// call and dispatches every matching workflow independently.
type WorkflowDispatcherPort interface {
	Dispatch(ctx context.Context, event domain.CallEvent, workflows []*domain.Workflow) []domain.DispatchOutcome
	DispatchForEvent(ctx context.Context, event domain.CallEvent) ([]domain.DispatchOutcome, error)
}
