package media_stream

import (
	"context"
	"sync"

	"voice-call-relay/application/ports/outbound"
	"voice-call-relay/domain"
)

// TransmitterRegistry maps live calls to their writers. It implements
// the control plane's transmitter port so Speak can queue audio
// without knowing about websockets.
type TransmitterRegistry struct {
	mu      sync.RWMutex
	writers map[string]*callWriter
}

func NewTransmitterRegistry() *TransmitterRegistry {
	return &TransmitterRegistry{writers: make(map[string]*callWriter)}
}

var _ outbound.FrameTransmitterPort = (*TransmitterRegistry)(nil)

func (r *TransmitterRegistry) Transmit(ctx context.Context, callID string, frames <-chan []byte) error {
	r.mu.RLock()
	writer, ok := r.writers[callID]
	r.mu.RUnlock()
	if !ok {
		return domain.ErrSessionNotFound
	}

	select {
	case writer.utterances <- utterance{frames: frames}:
	case <-writer.done:
		return domain.ErrSessionNotFound
	case <-ctx.Done():
		return ctx.Err()
	}

	// Both select cases are ready when the writer stopped between the
	// lookup and the enqueue; if that happened nothing will ever drain
	// the queue, so release the producers here.
	select {
	case <-writer.done:
		writer.drainQueued()
		return domain.ErrSessionNotFound
	default:
	}
	return nil
}

func (r *TransmitterRegistry) register(callID string, writer *callWriter) {
	r.mu.Lock()
	r.writers[callID] = writer
	r.mu.Unlock()
}

// unregister stops the call's writer and forgets it. Safe to call for
// unknown calls.
func (r *TransmitterRegistry) unregister(callID string) {
	r.mu.Lock()
	writer, ok := r.writers[callID]
	if ok {
		delete(r.writers, callID)
	}
	r.mu.Unlock()
	if ok {
		writer.close()
	}
}
