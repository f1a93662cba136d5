package config

import (
	"fmt"
	"os"
)

type CollaboratorsConfig struct {
	WorkflowApiUrl string
	SmsApiUrl      string
}

func GetCollaboratorsConfig() (*CollaboratorsConfig, error) {
	workflowApiUrl := os.Getenv("WORKFLOW_API_URL")
	if workflowApiUrl == "" {
		return nil, fmt.Errorf("WORKFLOW_API_URL must be set")
	}

	smsApiUrl := os.Getenv("SMS_API_URL")
	if smsApiUrl == "" {
		return nil, fmt.Errorf("SMS_API_URL must be set")
	}

	return &CollaboratorsConfig{
		WorkflowApiUrl: workflowApiUrl,
		SmsApiUrl:      smsApiUrl,
	}, nil
}
