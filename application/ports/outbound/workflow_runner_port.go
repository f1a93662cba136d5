package outbound

import (
	"context"
	"voice-call-relay/domain"
)

type RunWorkflowParams struct {
	WorkflowID string
	TargetURL  string
	Payload    map[string]interface{}
}

// WorkflowRunnerPort is the external automation collaborator: deliver a
// payload to a workflow target and report success or failure.
type WorkflowRunnerPort interface {
	Run(ctx context.Context, params RunWorkflowParams) error
	FetchEnabled(ctx context.Context) ([]*domain.Workflow, error)
}
