package adapters

import (
	"context"
	"encoding/json"
	"net/http"

	"voice-call-relay/application/ports/outbound"
	"voice-call-relay/config"
	"voice-call-relay/domain"
)

type workflowRunRequest struct {
	WorkflowID string                 `json:"workflow_id"`
	Payload    map[string]interface{} `json:"payload"`
}

type workflowListResponse struct {
	Workflows []workflowItem `json:"workflows"`
}

type workflowItem struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Enabled         bool     `json:"enabled"`
	TargetURL       string   `json:"target_url"`
	AgentCategories []string `json:"agent_categories"`
	CallStatuses    []string `json:"call_statuses"`
	Qualification   *string  `json:"qualification"`
}

// workflowClient talks to the external automation collaborator: run a
// workflow with a payload, and list the enabled automations.
type workflowClient struct {
	apiUrl string
	http   *collaboratorHTTP
	logger outbound.LoggerPort
}

func NewWorkflowClient(collaborators *config.CollaboratorsConfig, authorizer Authorizer,
	logger outbound.LoggerPort) outbound.WorkflowRunnerPort {
	return &workflowClient{
		apiUrl: collaborators.WorkflowApiUrl,
		http:   newCollaboratorHTTP(authorizer, logger),
		logger: logger,
	}
}

func (c *workflowClient) Run(ctx context.Context, params outbound.RunWorkflowParams) error {
	payload, err := json.Marshal(workflowRunRequest{
		WorkflowID: params.WorkflowID,
		Payload:    params.Payload,
	})
	if err != nil {
		c.logger.Error(err, "failed to marshal workflow run request")
		return err
	}

	targetURL := params.TargetURL
	if targetURL == "" {
		targetURL = c.apiUrl + "/workflows/" + params.WorkflowID + "/run"
	}

	_, err = c.http.doJSON(ctx, "workflow", http.MethodPost, targetURL, payload)
	return err
}

func (c *workflowClient) FetchEnabled(ctx context.Context) ([]*domain.Workflow, error) {
	body, err := c.http.doJSON(ctx, "workflow", http.MethodGet, c.apiUrl+"/workflows?enabled=true", nil)
	if err != nil {
		return nil, err
	}

	var listResponse workflowListResponse
	if err := json.Unmarshal(body, &listResponse); err != nil {
		c.logger.Error(err, "failed to decode workflow list")
		return nil, err
	}

	workflows := make([]*domain.Workflow, 0, len(listResponse.Workflows))
	for _, item := range listResponse.Workflows {
		workflows = append(workflows, &domain.Workflow{
			ID:        item.ID,
			Name:      item.Name,
			Enabled:   item.Enabled,
			TargetURL: item.TargetURL,
			Trigger: domain.WorkflowTrigger{
				AgentCategories: item.AgentCategories,
				CallStatuses:    item.CallStatuses,
				Qualification:   item.Qualification,
			},
		})
	}
	return workflows, nil
}
