package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"voice-call-relay/application/ports/outbound"
	"voice-call-relay/config"
	"voice-call-relay/domain"
)

type Authorizer interface {
	Authorize(ctx context.Context) (string, error)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// cognitoAuthorizer obtains a client-credentials token for the
// collaborator APIs.
type cognitoAuthorizer struct {
	logger outbound.LoggerPort
	conf   *config.AuthorizerConfig
	client *http.Client
}

func NewCognitoAuthorizer(logger outbound.LoggerPort, conf *config.AuthorizerConfig) Authorizer {
	return &cognitoAuthorizer{
		logger: logger,
		conf:   conf,
		client: &http.Client{},
	}
}

func (a *cognitoAuthorizer) Authorize(ctx context.Context) (string, error) {
	clientCredentials := base64.StdEncoding.EncodeToString([]byte(a.conf.ClientID + ":" + a.conf.ClientSecret))

	requestBody := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.conf.TokenEndpoint, requestBody)
	if err != nil {
		a.logger.Error(err, "failed to build token request")
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+clientCredentials)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error(err, "token request failed")
		return "", &domain.UpstreamError{Service: "auth", Message: err.Error()}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			a.logger.Error(closeErr, "failed to close response body")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCollaboratorBody))
	if err != nil {
		a.logger.Error(err, "failed to read token response")
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.UpstreamError{Service: "auth", StatusCode: resp.StatusCode, Message: string(body)}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		a.logger.Error(err, "failed to decode token response")
		return "", err
	}
	return token.AccessToken, nil
}
