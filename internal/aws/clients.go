package aws

import (
	"context"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Services selects which clients NewAWSClients builds.
type Services struct {
	DynamoDB   bool
	SQS        bool
	CloudWatch bool
}

// Any reports whether at least one service is enabled.
func (s Services) Any() bool {
	return s.DynamoDB || s.SQS || s.CloudWatch
}

// AWSClients holds the enabled service clients. Disabled ones are nil.
type AWSClients struct {
	DynamoDB   DynamoDBAPI
	SQS        SQSAPI
	CloudWatch CloudWatchAPI
}

// NewAWSClients loads AWS config once and builds the clients in svc.
func NewAWSClients(ctx context.Context, svc Services) (*AWSClients, error) {
	cfg, err := LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return newClients(cfg, svc), nil
}

func newClients(cfg sdkaws.Config, svc Services) *AWSClients {
	c := &AWSClients{}
	if svc.DynamoDB {
		c.DynamoDB = dynamodb.NewFromConfig(cfg)
	}
	if svc.SQS {
		c.SQS = sqs.NewFromConfig(cfg)
	}
	if svc.CloudWatch {
		c.CloudWatch = cloudwatch.NewFromConfig(cfg)
	}
	return c
}
