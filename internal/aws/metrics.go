package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricSurveySubmissions counts submissions by outcome.
const MetricSurveySubmissions = "SurveySubmissions"

// Submission outcomes.
const (
	OutcomeSaved  = "saved"
	OutcomeFailed = "failed"
)

// Metrics emits submission counters to CloudWatch.
type Metrics struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	nowFunc    func() time.Time
}

// NewMetrics returns a Metrics bound to a namespace.
func NewMetrics(cw CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{
		CloudWatch: cw,
		Namespace:  namespace,
		nowFunc:    time.Now,
	}
}

// RecordSubmission adds 1 to SurveySubmissions{Outcome=outcome}.
func (m *Metrics) RecordSubmission(ctx context.Context, outcome string) error {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: &m.Namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String(MetricSurveySubmissions),
				Timestamp:  sdkaws.Time(m.nowFunc().UTC()),
				Unit:       cwtypes.StandardUnitCount,
				Value:      sdkaws.Float64(1),
				Dimensions: []cwtypes.Dimension{
					{Name: sdkaws.String("Outcome"), Value: sdkaws.String(outcome)},
				},
			},
		},
	}
	if _, err := m.CloudWatch.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
