package adapters

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"voice-call-relay/config"
	"voice-call-relay/domain"
)

func TestCognitoAuthorizer_ReturnsAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
			t.Error("unexpected content type")
		}
		if r.Header.Get("Authorization") == "" {
			t.Error("missing basic credentials")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token-1","expires_in":3600,"token_type":"Bearer"}`))
	}))
	defer server.Close()

	authorizer := NewCognitoAuthorizer(NewZerologWrapper(), &config.AuthorizerConfig{
		TokenEndpoint: server.URL,
		ClientID:      "client",
		ClientSecret:  "secret",
	})

	token, err := authorizer.Authorize(context.Background())
	if err != nil {
		t.Fatal("authorize failed:", err)
	}
	if token != "token-1" {
		t.Errorf("unexpected token %q", token)
	}
}

func TestCognitoAuthorizer_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_client", http.StatusUnauthorized)
	}))
	defer server.Close()

	authorizer := NewCognitoAuthorizer(NewZerologWrapper(), &config.AuthorizerConfig{
		TokenEndpoint: server.URL,
		ClientID:      "client",
		ClientSecret:  "wrong",
	})

	_, err := authorizer.Authorize(context.Background())

	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", upstream.StatusCode)
	}
}
