package adapters

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"voice-call-relay/application/ports/outbound"
	"voice-call-relay/domain"
)

const maxCollaboratorBody = 1 << 20

// collaboratorHTTP issues authorized JSON requests to the external
// collaborators and maps transport failures and non-success responses
// to UpstreamError so callers never have to inspect raw responses.
type collaboratorHTTP struct {
	authorizer Authorizer
	logger     outbound.LoggerPort
	client     *http.Client
}

func newCollaboratorHTTP(authorizer Authorizer, logger outbound.LoggerPort) *collaboratorHTTP {
	return &collaboratorHTTP{
		authorizer: authorizer,
		logger:     logger,
		client:     &http.Client{},
	}
}

func (h *collaboratorHTTP) doJSON(ctx context.Context, service, method, url string, payload []byte) ([]byte, error) {
	token, err := h.authorizer.Authorize(ctx)
	if err != nil {
		h.logger.ErrorWithFields(err, "failed to authorize collaborator request", map[string]interface{}{
			"service": service,
		})
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Service: service, Message: err.Error()}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			h.logger.Error(closeErr, "failed to close response body")
		}
	}()

	responseBody, err := io.ReadAll(io.LimitReader(resp.Body, maxCollaboratorBody))
	if err != nil {
		return nil, &domain.UpstreamError{Service: service, StatusCode: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UpstreamError{Service: service, StatusCode: resp.StatusCode, Message: string(responseBody)}
	}
	return responseBody, nil
}
