package aws

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/smithy-go"
)

// mockSQS records every SendMessage call.
type mockSQS struct {
	mu   sync.Mutex
	sent []*sqs.SendMessageInput
	err  error
}

func (m *mockSQS) SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, in)
	return &sqs.SendMessageOutput{}, nil
}

func TestPublishSubmission_SendsBodyAndAttributes(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "https://sqs.local/queue")
	p.nowFunc = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	if err := p.PublishSubmission(context.Background(), "resp-1", "req-9"); err != nil {
		t.Fatalf("PublishSubmission error: %v", err)
	}
	if len(mock.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mock.sent))
	}
	in := mock.sent[0]
	if *in.QueueUrl != "https://sqs.local/queue" {
		t.Fatalf("queue url mismatch: %s", *in.QueueUrl)
	}

	var msg SubmissionMessage
	if err := json.Unmarshal([]byte(*in.MessageBody), &msg); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if msg.ResponseID != "resp-1" || msg.SubmittedAt != "2026-03-01T12:00:00Z" {
		t.Fatalf("unexpected body: %+v", msg)
	}

	want := map[string]string{
		"event_type":     EventSurveySubmitted,
		"response_id":    "resp-1",
		"correlation_id": "req-9",
	}
	for k, v := range want {
		attr, ok := in.MessageAttributes[k]
		if !ok || attr.StringValue == nil || *attr.StringValue != v {
			t.Fatalf("attribute %s: want %q, got %+v", k, v, attr)
		}
	}
}

func TestPublishSubmission_OmitsEmptyCorrelationID(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "q")

	if err := p.PublishSubmission(context.Background(), "resp-2", ""); err != nil {
		t.Fatalf("PublishSubmission error: %v", err)
	}
	if _, ok := mock.sent[0].MessageAttributes["correlation_id"]; ok {
		t.Fatalf("correlation_id should be omitted when empty")
	}
}

func TestPublishSubmission_WrapsAPIErrorCode(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "AWS.SimpleQueueService.NonExistentQueue", Message: "no queue"}
	p := NewPublisher(&mockSQS{err: apiErr}, "q")

	err := p.PublishSubmission(context.Background(), "resp-3", "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, apiErr) {
		t.Fatalf("expected wrapped api error, got %v", err)
	}
	if !strings.Contains(err.Error(), "NonExistentQueue") {
		t.Fatalf("expected error code in message, got %v", err)
	}
}
