package controllers

import (
	"encoding/xml"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"voice-call-relay/application/ports/outbound"
	"voice-call-relay/config"
	"voice-call-relay/domain"
	"voice-call-relay/infrastructure/media_stream"
)

type connectResponse struct {
	XMLName xml.Name       `xml:"Response"`
	Connect connectElement `xml:"Connect"`
}

type connectElement struct {
	Stream streamElement `xml:"Stream"`
}

type streamElement struct {
	URL        string             `xml:"url,attr"`
	Parameters []parameterElement `xml:"Parameter"`
}

type parameterElement struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// VoiceController answers the telephony platform: the call-setup
// webhook returns a markup document pointing the platform at the media
// socket, and /media upgrades that connection.
type VoiceController interface {
	RegisterRoutes(g *gin.Engine)
}

type voiceController struct {
	logger          outbound.LoggerPort
	store           outbound.SessionStorePort
	gateway         *media_stream.Gateway
	mediaStreamConf *config.MediaStreamConfig
	upgrader        websocket.Upgrader
}

func NewVoiceController(logger outbound.LoggerPort, store outbound.SessionStorePort,
	gateway *media_stream.Gateway, mediaStreamConf *config.MediaStreamConfig) VoiceController {
	return &voiceController{
		logger:          logger,
		store:           store,
		gateway:         gateway,
		mediaStreamConf: mediaStreamConf,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (v *voiceController) RegisterRoutes(g *gin.Engine) {
	g.POST("/voice/inbound", v.InboundCall)
	g.GET("/media", v.MediaStream)
}

// InboundCall creates the session in Connecting state and instructs
// the platform to open the media connection, carrying call metadata as
// stream parameters.
func (v *voiceController) InboundCall(c *gin.Context) {
	callID := c.PostForm("CallSid")
	if callID == "" {
		callID = uuid.NewString()
	}
	from := c.PostForm("From")
	to := c.PostForm("To")
	workflowID := c.Query("workflowId")

	if _, err := v.store.Create(callID); err != nil {
		if errors.Is(err, domain.ErrSessionExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "call already in progress"})
			return
		}
		v.logger.Error(err, "failed to create call session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	_, err := v.store.Mutate(callID, func(s *domain.CallSession) error {
		s.From = from
		s.To = to
		s.WorkflowID = workflowID
		s.CurrentScript = v.mediaStreamConf.OpeningScript
		return nil
	})
	if err != nil {
		v.logger.Error(err, "failed to initialize call session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	parameters := []parameterElement{
		{Name: "callId", Value: callID},
		{Name: "from", Value: from},
		{Name: "to", Value: to},
	}
	if workflowID != "" {
		parameters = append(parameters, parameterElement{Name: "workflowId", Value: workflowID})
	}

	response := connectResponse{
		Connect: connectElement{
			Stream: streamElement{
				URL:        "wss://" + v.mediaStreamConf.PublicHost + "/media",
				Parameters: parameters,
			},
		},
	}

	payload, err := xml.Marshal(response)
	if err != nil {
		v.logger.Error(err, "failed to marshal call-setup response")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Data(http.StatusOK, "application/xml", append([]byte(xml.Header), payload...))
}

// MediaStream upgrades the connection and hands it to the gateway; the
// handler goroutine is the call's worker for the connection lifetime.
func (v *voiceController) MediaStream(c *gin.Context) {
	conn, err := v.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		v.logger.Error(err, "websocket upgrade failed")
		return
	}
	v.gateway.HandleConnection(conn)
}
