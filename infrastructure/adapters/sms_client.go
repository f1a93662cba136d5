package adapters

import (
	"context"
	"encoding/json"
	"net/http"

	"voice-call-relay/application/ports/outbound"
	"voice-call-relay/config"
)

type smsSendRequest struct {
	CallID      string `json:"call_id"`
	Destination string `json:"destination"`
	Message     string `json:"message"`
}

type smsClient struct {
	apiUrl string
	http   *collaboratorHTTP
	logger outbound.LoggerPort
}

func NewSmsClient(collaborators *config.CollaboratorsConfig, authorizer Authorizer,
	logger outbound.LoggerPort) outbound.SmsSenderPort {
	return &smsClient{
		apiUrl: collaborators.SmsApiUrl,
		http:   newCollaboratorHTTP(authorizer, logger),
		logger: logger,
	}
}

func (c *smsClient) Send(ctx context.Context, params outbound.SendSmsParams) error {
	payload, err := json.Marshal(smsSendRequest{
		CallID:      params.CallID,
		Destination: params.Destination,
		Message:     params.Message,
	})
	if err != nil {
		c.logger.Error(err, "failed to marshal sms request")
		return err
	}

	_, err = c.http.doJSON(ctx, "sms", http.MethodPost, c.apiUrl+"/messages", payload)
	return err
}
