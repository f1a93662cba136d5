package dto

type SpeakRequest struct {
	CallID  string `json:"callId" binding:"required"`
	Text    string `json:"text" binding:"required"`
	VoiceID string `json:"voiceId"`
}

type TriggerWorkflowRequest struct {
	CallID     string                 `json:"callId" binding:"required"`
	WorkflowID string                 `json:"workflowId" binding:"required"`
	Data       map[string]interface{} `json:"data"`
}

type SendSmsRequest struct {
	CallID      string `json:"callId" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Message     string `json:"message" binding:"required"`
}

type UpdateScriptRequest struct {
	CallID string `json:"callId" binding:"required"`
	Script string `json:"script" binding:"required"`
}

type InjectVariablesRequest struct {
	CallID    string                 `json:"callId" binding:"required"`
	Variables map[string]interface{} `json:"variables" binding:"required"`
}
