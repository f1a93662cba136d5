// Package mock_collaborators mounts stand-ins for the external
// automation, messaging, and token collaborators so the relay can run
// locally without live downstream services.
package mock_collaborators

import (
	"github.com/gin-gonic/gin"

	"voice-call-relay/application/ports/outbound"
)

func Init(g *gin.Engine, logger outbound.LoggerPort) {
	controller := NewMockCollaboratorController(logger)
	controller.RegisterRoutes(g)
}
