package outbound

import "context"

type SendSmsParams struct {
	CallID      string
	Destination string
	Message     string
}

type SmsSenderPort interface {
	Send(ctx context.Context, params SendSmsParams) error
}
