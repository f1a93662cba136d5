package outbound

import (
	"context"
	"io"
)

type SynthesizeSpeechRequest struct {
	Text    string
	VoiceID string
}

// SpeechSynthesizerPort streams synthesized speech in the telephony
// wire format, so no transcoding happens downstream. The caller owns
// closing the returned reader.
type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, req SynthesizeSpeechRequest) (io.ReadCloser, error)
}
