package mock_collaborators

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"voice-call-relay/application/ports/outbound"
)

type MockCollaboratorController interface {
	RegisterRoutes(g *gin.Engine)
}

type mockCollaboratorController struct {
	logger       outbound.LoggerPort
	runCount     int64
	messageCount int64
}

func NewMockCollaboratorController(logger outbound.LoggerPort) MockCollaboratorController {
	return &mockCollaboratorController{logger: logger}
}

func (m *mockCollaboratorController) RegisterRoutes(g *gin.Engine) {
	g.POST("/mock/oauth/token", m.Token)
	g.GET("/mock/workflows", m.ListWorkflows)
	g.POST("/mock/workflows/:workflowId/run", m.RunWorkflow)
	g.POST("/mock/messages", m.SendMessage)
}

func (m *mockCollaboratorController) Token(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"access_token": uuid.NewString(),
		"expires_in":   3600,
		"token_type":   "Bearer",
	})
}

func (m *mockCollaboratorController) ListWorkflows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"workflows": []gin.H{
			{
				"id":            "wf-completed-calls",
				"name":          "Completed call follow-up",
				"enabled":       true,
				"call_statuses": []string{"completed"},
			},
			{
				"id":      "wf-all-calls",
				"name":    "Log every call",
				"enabled": true,
			},
		},
	})
}

func (m *mockCollaboratorController) RunWorkflow(c *gin.Context) {
	count := atomic.AddInt64(&m.runCount, 1)
	m.logger.InfoWithFields("mock workflow run", map[string]interface{}{
		"workflow_id": c.Param("workflowId"),
		"total_runs":  count,
	})
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

func (m *mockCollaboratorController) SendMessage(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	count := atomic.AddInt64(&m.messageCount, 1)
	m.logger.InfoWithFields("mock sms sent", map[string]interface{}{
		"total_messages": count,
	})
	c.JSON(http.StatusOK, gin.H{"status": "sent", "message_id": uuid.NewString()})
}
