package adapters

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/sachanayush47/bolna/internal/agent/ports"
)

// DynamoRunStore implements ports.RunStore on a DynamoDB table keyed by
// user_id (partition) and run_id (sort). PutItem overwrites, which gives the
// store the write-once-with-overwrite semantics cost accounting requires.
type DynamoRunStore struct {
	client *dynamodb.Client
	table  string
}

// NewDynamoRunStore loads the default AWS credential chain for the region.
func NewDynamoRunStore(ctx context.Context, region, table string) (*DynamoRunStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &DynamoRunStore{client: dynamodb.NewFromConfig(cfg), table: table}, nil
}

// NewDynamoRunStoreFromClient wraps an existing client, mainly for tests.
func NewDynamoRunStoreFromClient(client *dynamodb.Client, table string) *DynamoRunStore {
	return &DynamoRunStore{client: client, table: table}
}

// StoreRun persists one cost record under (userID, assistantID, runID).
func (d *DynamoRunStore) StoreRun(ctx context.Context, userID, assistantID, runID string, record ports.CostRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal cost record: %w", err)
	}
	item["user_id"] = &types.AttributeValueMemberS{Value: userID}
	item["assistant_id"] = &types.AttributeValueMemberS{Value: assistantID}
	item["run_id"] = &types.AttributeValueMemberS{Value: runID}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put run %s: %w", runID, err)
	}
	return nil
}
