package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"voice-call-relay/application/ports/outbound"
	"voice-call-relay/config"
	"voice-call-relay/domain"
)

type elevenLabsStreamRequest struct {
	Text          string        `json:"text"`
	ModelId       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type speechSynthesizer struct {
	logger           outbound.LoggerPort
	client           *http.Client
	elevenLabsConfig *config.ElevenLabsConfig
}

func NewSpeechSynthesizer(logger outbound.LoggerPort, elevenLabsConfig *config.ElevenLabsConfig) outbound.SpeechSynthesizerPort {
	return &speechSynthesizer{
		logger:           logger,
		client:           &http.Client{},
		elevenLabsConfig: elevenLabsConfig,
	}
}

// Synthesize streams speech from the ElevenLabs streaming endpoint.
// output_format is pinned to the telephony wire format so the bytes go
// straight onto the media stream without transcoding.
func (a *speechSynthesizer) Synthesize(ctx context.Context, req outbound.SynthesizeSpeechRequest) (io.ReadCloser, error) {
	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = a.elevenLabsConfig.DefaultVoiceID
	}

	httpReq, err := a.buildRequest(ctx, req.Text, voiceID)
	if err != nil {
		a.logger.ErrorWithFields(err, "failed to build synthesis request", map[string]interface{}{
			"voice_id": voiceID,
		})
		return nil, err
	}

	res, err := a.client.Do(httpReq)
	if err != nil {
		a.logger.Error(err, "synthesis request failed")
		return nil, &domain.UpstreamError{Service: "elevenlabs", Message: err.Error()}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, readErr := io.ReadAll(io.LimitReader(res.Body, 2048))
		if closeErr := res.Body.Close(); closeErr != nil {
			a.logger.Error(closeErr, "failed to close synthesis error body")
		}
		message := string(body)
		if readErr != nil {
			message = readErr.Error()
		}
		a.logger.ErrorWithFields(nil, "synthesis returned non-success status", map[string]interface{}{
			"status":  res.StatusCode,
			"message": message,
		})
		return nil, &domain.UpstreamError{Service: "elevenlabs", StatusCode: res.StatusCode, Message: message}
	}

	return res.Body, nil
}

func (a *speechSynthesizer) buildRequest(ctx context.Context, text string, voiceID string) (*http.Request, error) {
	reqBody := elevenLabsStreamRequest{
		Text:    text,
		ModelId: a.elevenLabsConfig.ModelId,
		VoiceSettings: voiceSettings{
			Stability:       a.elevenLabsConfig.Stability,
			SimilarityBoost: a.elevenLabsConfig.SimilarityBoost,
		},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := a.elevenLabsConfig.ApiUrl + "/v1/text-to-speech/" + voiceID + "/stream?output_format=" + a.elevenLabsConfig.OutputFormat
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, err
	}

	req.Header.Add("Accept", "audio/basic")
	req.Header.Add("xi-api-key", a.elevenLabsConfig.ApiKey)
	req.Header.Add("Content-Type", "application/json")

	return req, nil
}
