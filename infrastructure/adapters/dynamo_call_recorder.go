package adapters

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"voice-call-relay/application/ports/outbound"
	"voice-call-relay/config"
	"voice-call-relay/domain"
)

type dynamoCallItem struct {
	CallID          string  `dynamodbav:"call_id"`
	StreamID        string  `dynamodbav:"stream_id"`
	From            string  `dynamodbav:"from_number"`
	To              string  `dynamodbav:"to_number"`
	WorkflowID      string  `dynamodbav:"workflow_id"`
	Status          string  `dynamodbav:"status"`
	StartedAt       string  `dynamodbav:"started_at"`
	EndedAt         string  `dynamodbav:"ended_at"`
	DurationSeconds float64 `dynamodbav:"duration_seconds"`
	WorkflowContext string  `dynamodbav:"workflow_context"`
	TTL             int64   `dynamodbav:"ttl"`
}

type dynamoCallRecorder struct {
	logger       outbound.LoggerPort
	dynamoSvc    *dynamodb.DynamoDB
	dynamoConfig *config.DynamoConfig
}

func NewDynamoCallRecorder(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB,
	dynamoConfig *config.DynamoConfig) outbound.CallRecorderPort {
	return &dynamoCallRecorder{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (r *dynamoCallRecorder) Save(ctx context.Context, record domain.CallRecord) error {
	contextJSON, err := json.Marshal(record.WorkflowContext)
	if err != nil {
		r.logger.ErrorWithFields(err, "failed to marshal workflow context", map[string]interface{}{
			"call_id": record.CallID,
		})
		return err
	}

	item := dynamoCallItem{
		CallID:          record.CallID,
		StreamID:        record.StreamID,
		From:            record.From,
		To:              record.To,
		WorkflowID:      record.WorkflowID,
		Status:          record.Status,
		StartedAt:       record.StartedAt.UTC().Format(time.RFC3339),
		EndedAt:         record.EndedAt.UTC().Format(time.RFC3339),
		DurationSeconds: record.DurationSeconds,
		WorkflowContext: string(contextJSON),
		TTL:             time.Now().Add(time.Duration(r.dynamoConfig.TtlMinutes) * time.Minute).Unix(),
	}

	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		r.logger.ErrorWithFields(err, "failed to marshal call record item", map[string]interface{}{
			"call_id": record.CallID,
		})
		return err
	}

	input := &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(r.dynamoConfig.TableName),
	}

	_, err = r.dynamoSvc.PutItemWithContext(ctx, input)
	if err != nil {
		r.logger.ErrorWithFields(err, "failed to save call record", map[string]interface{}{
			"call_id": record.CallID,
		})
		return err
	}

	return nil
}
