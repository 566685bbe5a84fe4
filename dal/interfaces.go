package dal

import (
	"context"
	"movehub-backend/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DatabaseClientInterface defines the contract for database operations
type DatabaseClientInterface interface {
	GetItem(ctx context.Context, q models.QueryConfig, result interface{}) error
	PutItem(ctx context.Context, tableName string, item interface{}) error
	PutItemIf(ctx context.Context, tableName string, item interface{}, cond *models.Condition) error
	DeleteItem(ctx context.Context, tableName, key, value string, cond *models.Condition) error

	QueryByIndex(ctx context.Context, tableName, indexName, keyName, keyValue string, results interface{}) error
	Scan(ctx context.Context, tableName string, filter *models.Condition, results interface{}) error

	CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error
	DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error)
}

var _ DatabaseClientInterface = (*DynamoDBClient)(nil)
