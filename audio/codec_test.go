package audio

import (
	"bytes"
	"testing"
)

func TestFrame_SplitsWithShortTail(t *testing.T) {
	raw := make([]byte, 350)
	frames := Frame(raw, 160)

	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if len(frames[0]) != 160 || len(frames[1]) != 160 {
		t.Error("expected full frames of 160 bytes")
	}
	if len(frames[2]) != 30 {
		t.Errorf("expected 30 byte tail frame, got %d", len(frames[2]))
	}
}

func TestFrame_EmptyInput(t *testing.T) {
	if frames := Frame(nil, 160); len(frames) != 0 {
		t.Errorf("expected no frames for empty input, got %d", len(frames))
	}
}

func TestFramer_CarriesRemainderAcrossPushes(t *testing.T) {
	framer := NewFramer(4)

	frames := framer.Push([]byte{1, 2, 3})
	if len(frames) != 0 {
		t.Fatalf("expected no complete frame yet, got %d", len(frames))
	}

	frames = framer.Push([]byte{4, 5, 6, 7, 8, 9})
	if len(frames) != 2 {
		t.Fatalf("expected 2 complete frames, got %d", len(frames))
	}
	if !bytes.Equal(frames[0], []byte{1, 2, 3, 4}) {
		t.Errorf("unexpected first frame %v", frames[0])
	}
	if !bytes.Equal(frames[1], []byte{5, 6, 7, 8}) {
		t.Errorf("unexpected second frame %v", frames[1])
	}

	tail := framer.Flush()
	if !bytes.Equal(tail, []byte{9}) {
		t.Errorf("unexpected tail %v", tail)
	}
	if framer.Flush() != nil {
		t.Error("expected flush to reset the framer")
	}
}

func TestFramer_OrderPreserved(t *testing.T) {
	framer := NewFramer(2)
	var got []byte
	for i := 0; i < 10; i++ {
		for _, frame := range framer.Push([]byte{byte(i)}) {
			got = append(got, frame...)
		}
	}
	got = append(got, framer.Flush()...)

	for i := 0; i < 10; i++ {
		if got[i] != byte(i) {
			t.Fatalf("byte %d out of order: %v", i, got)
		}
	}
}
