package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/smithy-go"
)

// EventSurveySubmitted is the event_type attribute of submission messages.
const EventSurveySubmitted = "survey.submitted"

// SubmissionMessage is the body published after a response is stored.
type SubmissionMessage struct {
	ResponseID  string `json:"response_id"`
	SubmittedAt string `json:"submitted_at"`
}

// Publisher wraps an SQS client and a queue URL.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
	nowFunc  func() time.Time
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
		nowFunc:  time.Now,
	}
}

// PublishSubmission announces a stored response. correlationID may be empty.
func (p *Publisher) PublishSubmission(ctx context.Context, responseID, correlationID string) error {
	body, err := json.Marshal(SubmissionMessage{
		ResponseID:  responseID,
		SubmittedAt: p.nowFunc().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal submission message: %w", err)
	}

	attrs := map[string]string{
		"event_type":  EventSurveySubmitted,
		"response_id": responseID,
	}
	if correlationID != "" {
		attrs["correlation_id"] = correlationID
	}
	return p.send(ctx, string(body), attrs)
}

func (p *Publisher) send(ctx context.Context, messageBody string, attributes map[string]string) error {
	input := &sqs.SendMessageInput{
		QueueUrl:    &p.QueueURL,
		MessageBody: &messageBody,
	}
	if len(attributes) > 0 {
		msgAttrs := make(map[string]sqstypes.MessageAttributeValue, len(attributes))
		for k, v := range attributes {
			msgAttrs[k] = sqstypes.MessageAttributeValue{
				DataType:    awsString("String"),
				StringValue: awsString(v),
			}
		}
		input.MessageAttributes = msgAttrs
	}

	if _, err := p.SQS.SendMessage(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("send message (%s): %w", apiErr.ErrorCode(), err)
		}
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
