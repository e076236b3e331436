package survey

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/imrishuroy/go-survey-intake/internal/aws"
)

// DynamoStore writes responses as items of a DynamoDB table keyed on response_id.
type DynamoStore struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewDynamoStore creates a DynamoDB-backed store.
func NewDynamoStore(client aws.DynamoDBAPI, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
	}
}

// Insert puts one item; it never overwrites an existing response_id.
func (s *DynamoStore) Insert(ctx context.Context, resp Response) error {
	item, err := attributevalue.MarshalMap(resp.Record())
	if err != nil {
		return fmt.Errorf("marshal response %s: %w", resp.ResponseID, err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(" + KeyColumn + ")"),
	}
	if _, err := s.client.PutItem(ctx, input); err != nil {
		var cf *types.ConditionalCheckFailedException
		if errors.As(err, &cf) {
			return fmt.Errorf("put item %s: %w", resp.ResponseID, ErrDuplicateResponseID)
		}
		return fmt.Errorf("put item %s: %w", resp.ResponseID, err)
	}
	return nil
}

func awsString(s string) *string { return &s }
