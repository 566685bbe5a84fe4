package dal

import (
	"context"
	"errors"
	"fmt"
	"movehub-backend/models"

	"movehub-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	// ErrItemNotFound is returned by GetItem when the key does not exist
	ErrItemNotFound = errors.New("item not found")
	// ErrConditionFailed is returned when a write condition does not hold
	ErrConditionFailed = errors.New("condition check failed")
)

// dynamoAPI is the part of *dynamodb.Client the DAL calls
type dynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type DynamoDBClient struct {
	client dynamoAPI
	config *models.Config
	logger logger.Logger
}

// NewDynamoDBClient creates a new DynamoDB client
func NewDynamoDBClient(ctx context.Context, cfg *models.Config, log logger.Logger) (*DynamoDBClient, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}

	// Use static credentials if provided
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		// local DynamoDB
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})

	log.Infof("DynamoDB client initialized (region=%s, endpoint=%q)", cfg.AWSRegion, cfg.DynamoDBEndpoint)
	return newWithAPI(client, cfg, log), nil
}

func newWithAPI(api dynamoAPI, cfg *models.Config, log logger.Logger) *DynamoDBClient {
	return &DynamoDBClient{client: api, config: cfg, logger: log}
}

func keyAttribute(keyType models.AttributeType, value string) types.AttributeValue {
	if keyType == models.NumberType {
		return &types.AttributeValueMemberN{Value: value}
	}
	return &types.AttributeValueMemberS{Value: value}
}

func conditionValues(cond *models.Condition) (map[string]types.AttributeValue, error) {
	if cond == nil || len(cond.Values) == 0 {
		return nil, nil
	}
	values := make(map[string]types.AttributeValue, len(cond.Values))
	for k, v := range cond.Values {
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal condition value %s: %w", k, err)
		}
		values[k] = av
	}
	return values, nil
}

func translateWriteError(err error) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return ErrConditionFailed
	}
	return err
}

// GetItem loads one item by primary key into result
func (db *DynamoDBClient) GetItem(ctx context.Context, q models.QueryConfig, result interface{}) error {
	input := &dynamodb.GetItemInput{
		TableName:      aws.String(q.TableName),
		ConsistentRead: aws.Bool(true),
		Key: map[string]types.AttributeValue{
			q.KeyName: keyAttribute(q.KeyType, q.KeyValue),
		},
	}

	output, err := db.client.GetItem(ctx, input)
	if err != nil {
		db.logger.Errorf("Failed to get item from %s: %v", q.TableName, err)
		return err
	}

	if output.Item == nil {
		return ErrItemNotFound
	}

	return attributevalue.UnmarshalMap(output.Item, result)
}

// PutItem stores an item unconditionally
func (db *DynamoDBClient) PutItem(ctx context.Context, tableName string, item interface{}) error {
	return db.PutItemIf(ctx, tableName, item, nil)
}

// PutItemIf stores an item when cond holds. A nil cond writes unconditionally.
func (db *DynamoDBClient) PutItemIf(ctx context.Context, tableName string, item interface{}, cond *models.Condition) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      av,
	}

	if cond != nil {
		values, err := conditionValues(cond)
		if err != nil {
			return err
		}
		input.ConditionExpression = aws.String(cond.Expression)
		if len(cond.Names) > 0 {
			input.ExpressionAttributeNames = cond.Names
		}
		input.ExpressionAttributeValues = values
	}

	_, err = db.client.PutItem(ctx, input)
	return translateWriteError(err)
}

// DeleteItem deletes an item by primary key when cond holds
func (db *DynamoDBClient) DeleteItem(ctx context.Context, tableName, key, value string, cond *models.Condition) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			key: &types.AttributeValueMemberS{Value: value},
		},
	}

	if cond != nil {
		values, err := conditionValues(cond)
		if err != nil {
			return err
		}
		input.ConditionExpression = aws.String(cond.Expression)
		if len(cond.Names) > 0 {
			input.ExpressionAttributeNames = cond.Names
		}
		input.ExpressionAttributeValues = values
	}

	_, err := db.client.DeleteItem(ctx, input)
	return translateWriteError(err)
}

// QueryByIndex queries a global secondary index, following pagination
func (db *DynamoDBClient) QueryByIndex(ctx context.Context, tableName, indexName, keyName, keyValue string, results interface{}) error {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(tableName),
		IndexName:              aws.String(indexName),
		KeyConditionExpression: aws.String("#kn0 = :kv0"),
		ExpressionAttributeNames: map[string]string{
			"#kn0": keyName,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":kv0": &types.AttributeValueMemberS{Value: keyValue},
		},
	}

	var items []map[string]types.AttributeValue
	for {
		output, err := db.client.Query(ctx, input)
		if err != nil {
			db.logger.Errorf("Failed to query %s on %s: %v", indexName, tableName, err)
			return err
		}
		items = append(items, output.Items...)
		if len(output.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}

	return attributevalue.UnmarshalListOfMaps(items, results)
}

// Scan reads the whole table, optionally filtered, following pagination
func (db *DynamoDBClient) Scan(ctx context.Context, tableName string, filter *models.Condition, results interface{}) error {
	input := &dynamodb.ScanInput{
		TableName: aws.String(tableName),
	}

	if filter != nil {
		values, err := conditionValues(filter)
		if err != nil {
			return err
		}
		input.FilterExpression = aws.String(filter.Expression)
		if len(filter.Names) > 0 {
			input.ExpressionAttributeNames = filter.Names
		}
		input.ExpressionAttributeValues = values
	}

	var items []map[string]types.AttributeValue
	for {
		output, err := db.client.Scan(ctx, input)
		if err != nil {
			db.logger.Errorf("Failed to scan %s: %v", tableName, err)
			return err
		}
		items = append(items, output.Items...)
		if len(output.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}

	return attributevalue.UnmarshalListOfMaps(items, results)
}

// CreateTable creates a table
func (db *DynamoDBClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	_, err := db.client.CreateTable(ctx, input)
	return err
}

// DescribeTable describes a table
func (db *DynamoDBClient) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	input := &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	}
	return db.client.DescribeTable(ctx, input)
}
