package adapters

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voice-call-relay/application/ports/outbound"
	"voice-call-relay/config"
	"voice-call-relay/domain"
)

func testElevenLabsConfig(apiUrl string) *config.ElevenLabsConfig {
	return &config.ElevenLabsConfig{
		ApiUrl:          apiUrl,
		ApiKey:          "test-key",
		ModelId:         "eleven_turbo_v2",
		OutputFormat:    "ulaw_8000",
		DefaultVoiceID:  "voice-default",
		Stability:       0.5,
		SimilarityBoost: 0.75,
	}
}

func TestSpeechSynthesizer_StreamsAudio(t *testing.T) {
	audio := []byte("raw-mulaw-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Error("missing api key header")
		}
		if !strings.Contains(r.URL.Path, "/v1/text-to-speech/voice-1/stream") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("output_format") != "ulaw_8000" {
			t.Errorf("unexpected output format %s", r.URL.RawQuery)
		}
		_, _ = w.Write(audio)
	}))
	defer server.Close()

	synthesizer := NewSpeechSynthesizer(NewZerologWrapper(), testElevenLabsConfig(server.URL))

	stream, err := synthesizer.Synthesize(context.Background(), outbound.SynthesizeSpeechRequest{
		Text:    "hello caller",
		VoiceID: "voice-1",
	})
	if err != nil {
		t.Fatal("synthesize failed:", err)
	}
	defer stream.Close()

	got, err := io.ReadAll(stream)
	if err != nil {
		t.Fatal("failed to read stream:", err)
	}
	if string(got) != string(audio) {
		t.Errorf("unexpected audio %q", got)
	}
}

func TestSpeechSynthesizer_DefaultVoice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "voice-default") {
			t.Errorf("expected default voice in path, got %s", r.URL.Path)
		}
	}))
	defer server.Close()

	synthesizer := NewSpeechSynthesizer(NewZerologWrapper(), testElevenLabsConfig(server.URL))

	stream, err := synthesizer.Synthesize(context.Background(), outbound.SynthesizeSpeechRequest{Text: "hi"})
	if err != nil {
		t.Fatal("synthesize failed:", err)
	}
	_ = stream.Close()
}

func TestSpeechSynthesizer_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "voice not found", http.StatusNotFound)
	}))
	defer server.Close()

	synthesizer := NewSpeechSynthesizer(NewZerologWrapper(), testElevenLabsConfig(server.URL))

	_, err := synthesizer.Synthesize(context.Background(), outbound.SynthesizeSpeechRequest{
		Text:    "hello",
		VoiceID: "missing-voice",
	})
	if err == nil {
		t.Fatal("expected error for non-success status")
	}

	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %T", err)
	}
	if upstream.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", upstream.StatusCode)
	}
}
