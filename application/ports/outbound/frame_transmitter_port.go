package outbound

import "context"

// FrameTransmitterPort hands an ordered stream of fixed-size audio
// frames to a call's live connection. Utterances queued for the same
// call are sent one at a time, so frames from two Speak requests are
// never interleaved. Transmit returns once the utterance is queued.
type FrameTransmitterPort interface {
	Transmit(ctx context.Context, callID string, frames <-chan []byte) error
}
