package services

import (
	"context"
	"sync"
	"sync/atomic"

	"voice-call-relay/application/ports/inbound"
	"voice-call-relay/application/ports/outbound"
	"voice-call-relay/domain"
)

type workflowDispatcher struct {
	logger     outbound.LoggerPort
	runner     outbound.WorkflowRunnerPort
	workerPool outbound.TaskDispatcher
}

func NewWorkflowDispatcher(logger outbound.LoggerPort, runner outbound.WorkflowRunnerPort,
	workerPool outbound.TaskDispatcher) inbound.WorkflowDispatcherPort {
	return &workflowDispatcher{
		logger:     logger,
		runner:     runner,
		workerPool: workerPool,
	}
}

// Dispatch runs every matching workflow independently: one target's
// failure never blocks or rolls back another's delivery. Counters are
// bumped exactly once per attempt.
func (d *workflowDispatcher) Dispatch(ctx context.Context, event domain.CallEvent, workflows []*domain.Workflow) []domain.DispatchOutcome {
	outcomes := make([]domain.DispatchOutcome, len(workflows))
	var wg sync.WaitGroup

	for i, workflow := range workflows {
		outcomes[i] = domain.DispatchOutcome{WorkflowID: workflow.ID}
		if !workflow.Enabled || !workflow.Matches(event) {
			continue
		}
		outcomes[i].Matched = true

		i, workflow := i, workflow
		wg.Add(1)
		err := d.workerPool.Submit(func() {
			defer wg.Done()
			atomic.AddInt64(&workflow.ExecutionCount, 1)
			runErr := d.runner.Run(ctx, outbound.RunWorkflowParams{
				WorkflowID: workflow.ID,
				TargetURL:  workflow.TargetURL,
				Payload:    eventPayload(event),
			})
			outcomes[i].Dispatched = true
			if runErr != nil {
				atomic.AddInt64(&workflow.FailureCount, 1)
				outcomes[i].Err = runErr
				d.logger.ErrorWithFields(runErr, "workflow dispatch failed", map[string]interface{}{
					"workflow_id": workflow.ID,
					"call_id":     event.CallID,
				})
				return
			}
			atomic.AddInt64(&workflow.SuccessCount, 1)
		})
		if err != nil {
			wg.Done()
			outcomes[i].Err = err
			d.logger.Error(err, "failed to submit workflow dispatch")
		}
	}

	wg.Wait()
	return outcomes
}

func (d *workflowDispatcher) DispatchForEvent(ctx context.Context, event domain.CallEvent) ([]domain.DispatchOutcome, error) {
	workflows, err := d.runner.FetchEnabled(ctx)
	if err != nil {
		d.logger.ErrorWithFields(err, "failed to fetch enabled workflows", map[string]interface{}{
			"call_id": event.CallID,
		})
		return nil, err
	}
	return d.Dispatch(ctx, event, workflows), nil
}

func eventPayload(event domain.CallEvent) map[string]interface{} {
	return map[string]interface{}{
		"call_id":          event.CallID,
		"from":             event.From,
		"to":               event.To,
		"agent_category":   event.AgentCategory,
		"status":           event.Status,
		"qualification":    event.Qualification,
		"duration_seconds": event.DurationSeconds,
		"workflow_context": event.WorkflowContext,
	}
}
