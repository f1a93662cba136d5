package media_stream

// Wire protocol of the telephony media stream: one JSON message per
// event over a per-call websocket.

const (
	eventConnected = "connected"
	eventStart     = "start"
	eventMedia     = "media"
	eventStop      = "stop"
)

type inboundMessage struct {
	Event string        `json:"event"`
	Start *startPayload `json:"start,omitempty"`
	Media *mediaPayload `json:"media,omitempty"`
}

type startPayload struct {
	StreamSid        string            `json:"streamSid"`
	CallSid          string            `json:"callSid"`
	CustomParameters map[string]string `json:"customParameters"`
}

type mediaPayload struct {
	Payload string `json:"payload"`
}

type outboundMediaMessage struct {
	Event    string       `json:"event"`
	StreamID string       `json:"streamId"`
	Media    mediaPayload `json:"media"`
}
