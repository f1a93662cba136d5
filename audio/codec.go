// Package audio slices raw telephony audio into fixed-duration frames.
// The telephony transport delivers and accepts mulaw at 8 kHz, one
// byte per sample, so a 20 ms frame is exactly 160 bytes.
package audio

const (
	SampleRate      = 8000
	FrameBytes      = 160
	FrameDurationMs = 20
)

// Frame splits raw into frames of frameBytes; the last frame may be
// shorter. An empty input yields no frames.
func Frame(raw []byte, frameBytes int) [][]byte {
	if frameBytes <= 0 {
		frameBytes = FrameBytes
	}
	frames := make([][]byte, 0, (len(raw)+frameBytes-1)/frameBytes)
	for start := 0; start < len(raw); start += frameBytes {
		end := start + frameBytes
		if end > len(raw) {
			end = len(raw)
		}
		frames = append(frames, raw[start:end])
	}
	return frames
}

// Framer cuts an incrementally arriving byte stream into fixed-size
// frames, carrying the remainder between pushes.
type Framer struct {
	frameBytes int
	rest       []byte
}

func NewFramer(frameBytes int) *Framer {
	if frameBytes <= 0 {
		frameBytes = FrameBytes
	}
	return &Framer{frameBytes: frameBytes}
}

// Push appends chunk to the pending bytes and returns every complete
// frame now available, in order.
func (f *Framer) Push(chunk []byte) [][]byte {
	f.rest = append(f.rest, chunk...)
	var frames [][]byte
	for len(f.rest) >= f.frameBytes {
		frame := make([]byte, f.frameBytes)
		copy(frame, f.rest[:f.frameBytes])
		frames = append(frames, frame)
		f.rest = f.rest[f.frameBytes:]
	}
	return frames
}

// Flush returns the trailing partial frame, if any, and resets the
// framer.
func (f *Framer) Flush() []byte {
	if len(f.rest) == 0 {
		return nil
	}
	tail := make([]byte, len(f.rest))
	copy(tail, f.rest)
	f.rest = nil
	return tail
}
