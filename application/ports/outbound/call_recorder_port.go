package outbound

import (
	"context"
	"voice-call-relay/domain"
)

type CallRecorderPort interface {
	Save(ctx context.Context, record domain.CallRecord) error
}
