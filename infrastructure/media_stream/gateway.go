package media_stream

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"voice-call-relay/application/ports/inbound"
	"voice-call-relay/application/ports/outbound"
	"voice-call-relay/domain"
)

type mediaConn interface {
	wsConn
	ReadMessage() (int, []byte, error)
}

type GatewayConfig struct {
	FrameInterval   time.Duration
	WriteTimeout    time.Duration
	InboundBufferMax int
	DefaultVoiceID  string
}

// Gateway owns the per-call media connection: it drives the call's
// state machine from inbound protocol events and converges every exit
// path (stop, close, transport error, protocol violation) on one
// teardown.
type Gateway struct {
	logger     outbound.LoggerPort
	store      outbound.SessionStorePort
	control    inbound.CallControlPort
	registry   *TransmitterRegistry
	recorder   outbound.CallRecorderPort
	dispatcher inbound.WorkflowDispatcherPort
	workerPool outbound.TaskDispatcher
	cfg        GatewayConfig
}

func NewGateway(logger outbound.LoggerPort, store outbound.SessionStorePort,
	control inbound.CallControlPort, registry *TransmitterRegistry,
	recorder outbound.CallRecorderPort, dispatcher inbound.WorkflowDispatcherPort,
	workerPool outbound.TaskDispatcher, cfg GatewayConfig) *Gateway {
	return &Gateway{
		logger:     logger,
		store:      store,
		control:    control,
		registry:   registry,
		recorder:   recorder,
		dispatcher: dispatcher,
		workerPool: workerPool,
		cfg:        cfg,
	}
}

// HandleConnection reads the connection until it stops, closes, or
// errors. It is the call's single worker; any number of control-plane
// requests may mutate the same session concurrently through the store.
func (g *Gateway) HandleConnection(conn mediaConn) {
	var callID string

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			g.teardown(conn, callID, domain.CallStatusFailed)
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			g.logger.Warn("discarding malformed media stream message")
			continue
		}

		switch msg.Event {
		case eventConnected:
			// Transport handshake, nothing to do yet.
		case eventStart:
			id, err := g.handleStart(conn, msg.Start)
			if err != nil {
				var violation *domain.ProtocolViolation
				if errors.As(err, &violation) {
					g.logger.Error(violation, "closing connection after protocol violation")
					g.teardown(conn, callID, domain.CallStatusFailed)
					return
				}
				// No session for this stream: nothing to relay to.
				g.logger.ErrorWithFields(err, "rejecting unknown stream", map[string]interface{}{
					"call_id": startCallID(msg.Start),
				})
				_ = conn.Close()
				return
			}
			callID = id
		case eventMedia:
			g.handleMedia(callID, msg.Media)
		case eventStop:
			g.teardown(conn, callID, domain.CallStatusCompleted)
			return
		default:
			g.logger.DebugWithFields("ignoring unknown media stream event", map[string]interface{}{
				"event": msg.Event,
			})
		}
	}
}

func startCallID(start *startPayload) string {
	if start == nil {
		return ""
	}
	if id, ok := start.CustomParameters["callId"]; ok && id != "" {
		return id
	}
	return start.CallSid
}

func (g *Gateway) handleStart(conn mediaConn, start *startPayload) (string, error) {
	callID := startCallID(start)
	if callID == "" {
		return "", domain.ErrSessionNotFound
	}

	_, err := g.store.Mutate(callID, func(s *domain.CallSession) error {
		if s.State == domain.CallStateStreaming {
			return &domain.ProtocolViolation{CallID: callID, Event: eventStart, State: s.State}
		}
		s.State = domain.CallStateStreaming
		if s.StreamID == "" {
			s.StreamID = start.StreamSid
		}
		if from, ok := start.CustomParameters["from"]; ok && s.From == "" {
			s.From = from
		}
		if to, ok := start.CustomParameters["to"]; ok && s.To == "" {
			s.To = to
		}
		if workflowID, ok := start.CustomParameters["workflowId"]; ok && s.WorkflowID == "" {
			s.WorkflowID = workflowID
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	writer := newCallWriter(callID, start.StreamSid, conn, g.logger, g.cfg.FrameInterval, g.cfg.WriteTimeout)
	g.registry.register(callID, writer)
	if err := g.workerPool.Submit(writer.Run); err != nil {
		g.registry.unregister(callID)
		return "", err
	}

	g.speakOpeningLine(callID)

	g.logger.InfoWithFields("media stream started", map[string]interface{}{
		"call_id":   callID,
		"stream_id": start.StreamSid,
	})
	return callID, nil
}

// speakOpeningLine issues the initial scripted utterance. A synthesis
// failure here is contained exactly like a failing control-plane
// Speak: logged, call stays up.
func (g *Gateway) speakOpeningLine(callID string) {
	snapshot, err := g.store.Get(callID)
	if err != nil || snapshot.CurrentScript == "" {
		return
	}
	err = g.workerPool.Submit(func() {
		speakErr := g.control.Speak(context.Background(), inbound.SpeakParams{
			CallID:  callID,
			Text:    snapshot.CurrentScript,
			VoiceID: g.cfg.DefaultVoiceID,
		})
		if speakErr != nil {
			g.logger.ErrorWithFields(speakErr, "opening utterance failed", map[string]interface{}{
				"call_id": callID,
			})
		}
	})
	if err != nil {
		g.logger.Error(err, "failed to submit opening utterance")
	}
}

// handleMedia appends inbound audio to the session's bounded capture
// buffer. Late frames for torn-down calls are dropped silently; the
// transport may deliver them after close.
func (g *Gateway) handleMedia(callID string, media *mediaPayload) {
	if callID == "" || media == nil {
		return
	}
	raw, err := base64.StdEncoding.DecodeString(media.Payload)
	if err != nil {
		g.logger.WarnWithFields("discarding undecodable media payload", map[string]interface{}{
			"call_id": callID,
		})
		return
	}
	_, err = g.store.Mutate(callID, func(s *domain.CallSession) error {
		s.BufferInbound(raw, g.cfg.InboundBufferMax)
		return nil
	})
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		g.logger.Error(err, "failed to buffer inbound audio")
	}
}

// teardown is the single cleanup path for every way a call can end.
func (g *Gateway) teardown(conn mediaConn, callID string, status string) {
	defer func() {
		if err := conn.Close(); err != nil {
			g.logger.Debug("media connection already closed")
		}
	}()

	if callID == "" {
		return
	}

	snapshot, err := g.store.Get(callID)
	if err != nil {
		// A racing teardown already ran; deletion is idempotent.
		g.registry.unregister(callID)
		return
	}

	g.store.Delete(callID)
	g.registry.unregister(callID)

	endedAt := time.Now()
	record := domain.CallRecord{
		CallID:          snapshot.CallID,
		StreamID:        snapshot.StreamID,
		From:            snapshot.From,
		To:              snapshot.To,
		WorkflowID:      snapshot.WorkflowID,
		Status:          status,
		StartedAt:       snapshot.StartedAt,
		EndedAt:         endedAt,
		DurationSeconds: endedAt.Sub(snapshot.StartedAt).Seconds(),
		WorkflowContext: snapshot.WorkflowContext,
	}

	err = g.workerPool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if saveErr := g.recorder.Save(ctx, record); saveErr != nil {
			g.logger.ErrorWithFields(saveErr, "failed to persist call record", map[string]interface{}{
				"call_id": record.CallID,
			})
		}

		event := domain.CallEvent{
			CallID:          record.CallID,
			From:            record.From,
			To:              record.To,
			Status:          record.Status,
			DurationSeconds: record.DurationSeconds,
			WorkflowContext: record.WorkflowContext,
		}
		if qualification, ok := record.WorkflowContext["qualification"].(string); ok {
			event.Qualification = qualification
		}
		if category, ok := record.WorkflowContext["agent_category"].(string); ok {
			event.AgentCategory = category
		}
		if _, dispatchErr := g.dispatcher.DispatchForEvent(ctx, event); dispatchErr != nil {
			g.logger.ErrorWithFields(dispatchErr, "post-call workflow dispatch failed", map[string]interface{}{
				"call_id": record.CallID,
			})
		}
	})
	if err != nil {
		g.logger.Error(err, "failed to submit post-call processing")
	}

	g.logger.InfoWithFields("media stream torn down", map[string]interface{}{
		"call_id": callID,
		"status":  status,
	})
}
