package services

import (
	"context"
	"io"
	"time"

	"voice-call-relay/application/ports/inbound"
	"voice-call-relay/application/ports/outbound"
	"voice-call-relay/audio"
	"voice-call-relay/domain"
)

const synthesisReadChunk = 4096

type callControl struct {
	logger         outbound.LoggerPort
	store          outbound.SessionStorePort
	synthesizer    outbound.SpeechSynthesizerPort
	transmitter    outbound.FrameTransmitterPort
	workflowRunner outbound.WorkflowRunnerPort
	smsSender      outbound.SmsSenderPort
	workerPool     outbound.TaskDispatcher
	frameBytes     int
}

func NewCallControl(logger outbound.LoggerPort, store outbound.SessionStorePort,
	synthesizer outbound.SpeechSynthesizerPort, transmitter outbound.FrameTransmitterPort,
	workflowRunner outbound.WorkflowRunnerPort, smsSender outbound.SmsSenderPort,
	workerPool outbound.TaskDispatcher, frameBytes int) inbound.CallControlPort {
	if frameBytes <= 0 {
		frameBytes = audio.FrameBytes
	}
	return &callControl{
		logger:         logger,
		store:          store,
		synthesizer:    synthesizer,
		transmitter:    transmitter,
		workflowRunner: workflowRunner,
		smsSender:      smsSender,
		workerPool:     workerPool,
		frameBytes:     frameBytes,
	}
}

// Speak synthesizes text and queues its frames on the session's live
// connection. The synthesis stream is consumed outside any session
// lock; queuing through the transmitter keeps utterances for one call
// from interleaving.
func (c *callControl) Speak(ctx context.Context, params inbound.SpeakParams) error {
	if _, err := c.store.Get(params.CallID); err != nil {
		return err
	}

	stream, err := c.synthesizer.Synthesize(ctx, outbound.SynthesizeSpeechRequest{
		Text:    params.Text,
		VoiceID: params.VoiceID,
	})
	if err != nil {
		c.logger.ErrorWithFields(err, "speech synthesis failed", map[string]interface{}{
			"call_id": params.CallID,
		})
		return err
	}

	// The stream must keep draining after the HTTP request that
	// triggered Speak returns.
	streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	frames := make(chan []byte, 32)
	err = c.workerPool.Submit(func() {
		// The producer owns the context once the utterance is queued;
		// releasing it here covers the success path.
		defer cancel()
		defer close(frames)
		defer func() {
			if closeErr := stream.Close(); closeErr != nil {
				c.logger.Error(closeErr, "failed to close synthesis stream")
			}
		}()

		framer := audio.NewFramer(c.frameBytes)
		buf := make([]byte, synthesisReadChunk)
		for {
			n, readErr := stream.Read(buf)
			if n > 0 {
				for _, frame := range framer.Push(buf[:n]) {
					select {
					case frames <- frame:
					case <-streamCtx.Done():
						return
					}
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				c.logger.ErrorWithFields(readErr, "synthesis stream read failed", map[string]interface{}{
					"call_id": params.CallID,
				})
				return
			}
		}
		if tail := framer.Flush(); tail != nil {
			select {
			case frames <- tail:
			case <-streamCtx.Done():
			}
		}
	})
	if err != nil {
		cancel()
		if closeErr := stream.Close(); closeErr != nil {
			c.logger.Error(closeErr, "failed to close synthesis stream")
		}
		return err
	}

	if err := c.transmitter.Transmit(ctx, params.CallID, frames); err != nil {
		cancel()
		return err
	}
	return nil
}

func (c *callControl) TriggerWorkflow(ctx context.Context, params inbound.TriggerWorkflowParams) (domain.SessionSnapshot, error) {
	snapshot, err := c.store.Mutate(params.CallID, func(s *domain.CallSession) error {
		s.WorkflowContext["last_triggered_workflow"] = map[string]interface{}{
			"workflow_id":  params.WorkflowID,
			"data":         params.Data,
			"triggered_at": time.Now().UTC().Format(time.RFC3339),
		}
		return nil
	})
	if err != nil {
		return domain.SessionSnapshot{}, err
	}

	if err := c.workflowRunner.Run(ctx, outbound.RunWorkflowParams{
		WorkflowID: params.WorkflowID,
		Payload:    params.Data,
	}); err != nil {
		c.logger.ErrorWithFields(err, "workflow dispatch failed", map[string]interface{}{
			"call_id":     params.CallID,
			"workflow_id": params.WorkflowID,
		})
		return snapshot, err
	}
	return snapshot, nil
}

func (c *callControl) SendTextMessage(ctx context.Context, params inbound.SendTextMessageParams) (domain.SessionSnapshot, error) {
	if _, err := c.store.Get(params.CallID); err != nil {
		return domain.SessionSnapshot{}, err
	}

	sendErr := c.smsSender.Send(ctx, outbound.SendSmsParams{
		CallID:      params.CallID,
		Destination: params.Destination,
		Message:     params.Message,
	})
	if sendErr != nil {
		c.logger.ErrorWithFields(sendErr, "sms send failed", map[string]interface{}{
			"call_id":     params.CallID,
			"destination": params.Destination,
		})
	}

	snapshot, err := c.store.Mutate(params.CallID, func(s *domain.CallSession) error {
		s.WorkflowContext["last_sms"] = map[string]interface{}{
			"destination": params.Destination,
			"message":     params.Message,
			"sent_at":     time.Now().UTC().Format(time.RFC3339),
			"delivered":   sendErr == nil,
		}
		return nil
	})
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	if sendErr != nil {
		return snapshot, sendErr
	}
	return snapshot, nil
}

func (c *callControl) UpdateScript(ctx context.Context, callID string, script string) (domain.SessionSnapshot, error) {
	return c.store.Mutate(callID, func(s *domain.CallSession) error {
		s.CurrentScript = script
		return nil
	})
}

// InjectVariables merges into the existing variables map so a
// concurrent write to an unrelated key is never dropped.
func (c *callControl) InjectVariables(ctx context.Context, params inbound.InjectVariablesParams) (domain.SessionSnapshot, error) {
	return c.store.Mutate(params.CallID, func(s *domain.CallSession) error {
		variables, ok := s.WorkflowContext["variables"].(map[string]interface{})
		if !ok {
			variables = make(map[string]interface{})
			s.WorkflowContext["variables"] = variables
		}
		for k, v := range params.Variables {
			variables[k] = v
		}
		s.WorkflowContext["variables_updated_at"] = time.Now().UTC().Format(time.RFC3339)
		return nil
	})
}

func (c *callControl) GetSessionSnapshot(callID string) (domain.SessionSnapshot, error) {
	return c.store.Get(callID)
}
