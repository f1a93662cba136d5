package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"voice-call-relay/application/ports/inbound"
	"voice-call-relay/application/ports/outbound"
	"voice-call-relay/domain"
	"voice-call-relay/infrastructure/gin_interface/dto"
)

// StreamController is the mid-call control surface: every route
// addresses an already-live session by call ID.
type StreamController interface {
	RegisterRoutes(g *gin.Engine)
}

type streamController struct {
	logger      outbound.LoggerPort
	callControl inbound.CallControlPort
}

func NewStreamController(logger outbound.LoggerPort, callControl inbound.CallControlPort) StreamController {
	return &streamController{
		logger:      logger,
		callControl: callControl,
	}
}

func (s *streamController) RegisterRoutes(g *gin.Engine) {
	g.POST("/stream/speak", s.Speak)
	g.POST("/stream/trigger-workflow", s.TriggerWorkflow)
	g.POST("/stream/send-sms", s.SendSms)
	g.POST("/stream/update-script", s.UpdateScript)
	g.POST("/stream/inject-variables", s.InjectVariables)
	g.GET("/stream/call/:callId", s.GetCall)
}

func (s *streamController) Speak(c *gin.Context) {
	var req dto.SpeakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.callControl.Speak(c.Request.Context(), inbound.SpeakParams{
		CallID:  req.CallID,
		Text:    req.Text,
		VoiceID: req.VoiceID,
	})
	if err != nil {
		s.abortWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"call_id": req.CallID, "queued": true})
}

func (s *streamController) TriggerWorkflow(c *gin.Context) {
	var req dto.TriggerWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := s.callControl.TriggerWorkflow(c.Request.Context(), inbound.TriggerWorkflowParams{
		CallID:     req.CallID,
		WorkflowID: req.WorkflowID,
		Data:       req.Data,
	})
	if err != nil {
		s.abortWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workflow_context": snapshot.WorkflowContext})
}

func (s *streamController) SendSms(c *gin.Context) {
	var req dto.SendSmsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := s.callControl.SendTextMessage(c.Request.Context(), inbound.SendTextMessageParams{
		CallID:      req.CallID,
		Destination: req.Destination,
		Message:     req.Message,
	})
	if err != nil {
		s.abortWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workflow_context": snapshot.WorkflowContext})
}

func (s *streamController) UpdateScript(c *gin.Context) {
	var req dto.UpdateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := s.callControl.UpdateScript(c.Request.Context(), req.CallID, req.Script)
	if err != nil {
		s.abortWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"call_id": snapshot.CallID, "current_script": snapshot.CurrentScript})
}

func (s *streamController) InjectVariables(c *gin.Context) {
	var req dto.InjectVariablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := s.callControl.InjectVariables(c.Request.Context(), inbound.InjectVariablesParams{
		CallID:    req.CallID,
		Variables: req.Variables,
	})
	if err != nil {
		s.abortWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workflow_context": snapshot.WorkflowContext})
}

func (s *streamController) GetCall(c *gin.Context) {
	snapshot, err := s.callControl.GetSessionSnapshot(c.Param("callId"))
	if err != nil {
		s.abortWithMappedError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *streamController) abortWithMappedError(c *gin.Context, err error) {
	var upstream *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no live session for call"})
	case errors.As(err, &upstream):
		s.logger.Error(err, "collaborator call failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": upstream.Error()})
	default:
		s.logger.Error(err, "control plane operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
