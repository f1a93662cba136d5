package media_stream

import (
	"encoding/base64"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"voice-call-relay/application/ports/outbound"
)

type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type utterance struct {
	frames <-chan []byte
}

// callWriter is the single writer for one call's connection. It drains
// queued utterances one at a time and paces frames at the transport's
// real-time rate so long utterances cannot overrun the playback
// buffer.
type callWriter struct {
	callID        string
	streamID      string
	conn          wsConn
	logger        outbound.LoggerPort
	frameInterval time.Duration
	writeTimeout  time.Duration

	utterances chan utterance
	done       chan struct{}
	closeOnce  sync.Once
	sequence   uint64
}

func newCallWriter(callID, streamID string, conn wsConn, logger outbound.LoggerPort,
	frameInterval, writeTimeout time.Duration) *callWriter {
	if frameInterval <= 0 {
		frameInterval = 20 * time.Millisecond
	}
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &callWriter{
		callID:        callID,
		streamID:      streamID,
		conn:          conn,
		logger:        logger,
		frameInterval: frameInterval,
		writeTimeout:  writeTimeout,
		utterances:    make(chan utterance, 8),
		done:          make(chan struct{}),
	}
}

func (w *callWriter) Run() {
	for {
		select {
		case <-w.done:
			w.drainQueued()
			return
		case utt := <-w.utterances:
			w.sendUtterance(utt)
		}
	}
}

func (w *callWriter) sendUtterance(utt utterance) {
	ticker := time.NewTicker(w.frameInterval)
	defer ticker.Stop()

	for frame := range utt.frames {
		select {
		case <-w.done:
			drainFrames(utt.frames)
			return
		default:
		}

		if err := w.writeFrame(frame); err != nil {
			w.logger.ErrorWithFields(err, "frame write failed", map[string]interface{}{
				"call_id": w.callID,
			})
			w.close()
			drainFrames(utt.frames)
			return
		}

		select {
		case <-ticker.C:
		case <-w.done:
			drainFrames(utt.frames)
			return
		}
	}
}

func (w *callWriter) writeFrame(frame []byte) error {
	msg := outboundMediaMessage{
		Event:    eventMedia,
		StreamID: w.streamID,
		Media:    mediaPayload{Payload: base64.StdEncoding.EncodeToString(frame)},
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := w.conn.SetWriteDeadline(time.Now().Add(w.writeTimeout)); err != nil {
		return err
	}
	if err := w.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	atomic.AddUint64(&w.sequence, 1)
	return nil
}

// Sequence is the count of frames written so far; strictly increasing
// for the lifetime of the connection.
func (w *callWriter) Sequence() uint64 {
	return atomic.LoadUint64(&w.sequence)
}

// close stops the writer. No frame write is attempted after it
// returns; queued producers are drained so their goroutines finish.
func (w *callWriter) close() {
	w.closeOnce.Do(func() {
		close(w.done)
	})
}

func (w *callWriter) drainQueued() {
	for {
		select {
		case utt := <-w.utterances:
			drainFrames(utt.frames)
		default:
			return
		}
	}
}

func drainFrames(frames <-chan []byte) {
	for range frames {
	}
}
