package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"voice-call-relay/application/ports/outbound"
	"voice-call-relay/config"
	"voice-call-relay/domain"
)

func TestSmsClient_SendSuccess(t *testing.T) {
	var received smsSendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer static-token" {
			t.Error("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Error("failed to decode request:", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewSmsClient(&config.CollaboratorsConfig{SmsApiUrl: server.URL},
		staticAuthorizer{}, NewZerologWrapper())

	err := client.Send(context.Background(), outbound.SendSmsParams{
		CallID:      "call-1",
		Destination: "+15550001111",
		Message:     "thanks for calling",
	})
	if err != nil {
		t.Fatal("send failed:", err)
	}
	if received.Destination != "+15550001111" || received.CallID != "call-1" {
		t.Errorf("unexpected request %+v", received)
	}
}

func TestSmsClient_SendUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "carrier rejected", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewSmsClient(&config.CollaboratorsConfig{SmsApiUrl: server.URL},
		staticAuthorizer{}, NewZerologWrapper())

	err := client.Send(context.Background(), outbound.SendSmsParams{CallID: "call-1"})

	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", upstream.StatusCode)
	}
}
