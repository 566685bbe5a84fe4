package dal

import (
	"context"
	"errors"
	"movehub-backend/models"
	"movehub-backend/utils/logger"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// mockDynamoAPI stands in for *dynamodb.Client
type mockDynamoAPI struct {
	mock.Mock
}

func (m *mockDynamoAPI) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.GetItemOutput), args.Error(1)
}

func (m *mockDynamoAPI) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, in)
	return &dynamodb.PutItemOutput{}, args.Error(0)
}

func (m *mockDynamoAPI) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	args := m.Called(ctx, in)
	return &dynamodb.DeleteItemOutput{}, args.Error(0)
}

func (m *mockDynamoAPI) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.QueryOutput), args.Error(1)
}

func (m *mockDynamoAPI) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.ScanOutput), args.Error(1)
}

func (m *mockDynamoAPI) CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	args := m.Called(ctx, in)
	return &dynamodb.CreateTableOutput{}, args.Error(0)
}

func (m *mockDynamoAPI) DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.DescribeTableOutput), args.Error(1)
}

type record struct {
	ID      string `dynamodbav:"id"`
	Status  string `dynamodbav:"status"`
	Version int64  `dynamodbav:"version"`
}

func item(id, status string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":      &types.AttributeValueMemberS{Value: id},
		"status":  &types.AttributeValueMemberS{Value: status},
		"version": &types.AttributeValueMemberN{Value: "1"},
	}
}

// DALTestSuite defines a test suite for DAL functions
type DALTestSuite struct {
	suite.Suite
	api *mockDynamoAPI
	db  *DynamoDBClient
	ctx context.Context
}

func (suite *DALTestSuite) SetupTest() {
	suite.api = &mockDynamoAPI{}
	suite.db = newWithAPI(suite.api, &models.Config{DynamoDBTablePrefix: "test"}, logger.NewLogger("error", "json"))
	suite.ctx = context.Background()
}

func (suite *DALTestSuite) TearDownTest() {
	suite.api.AssertExpectations(suite.T())
}

func (suite *DALTestSuite) TestGetItem() {
	suite.api.On("GetItem", suite.ctx, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		key, ok := in.Key["id"].(*types.AttributeValueMemberS)
		return aws.ToString(in.TableName) == "test_requests" && ok && key.Value == "r-1" && aws.ToBool(in.ConsistentRead)
	})).Return(&dynamodb.GetItemOutput{Item: item("r-1", "PENDING_CONFIRMATION")}, nil)

	var got record
	err := suite.db.GetItem(suite.ctx, models.QueryConfig{
		TableName: "test_requests", KeyName: "id", KeyValue: "r-1", KeyType: models.StringType,
	}, &got)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), record{ID: "r-1", Status: "PENDING_CONFIRMATION", Version: 1}, got)
}

func (suite *DALTestSuite) TestGetItemNumberKey() {
	suite.api.On("GetItem", suite.ctx, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		_, ok := in.Key["seq"].(*types.AttributeValueMemberN)
		return ok
	})).Return(&dynamodb.GetItemOutput{Item: item("r-2", "DONE")}, nil)

	var got record
	err := suite.db.GetItem(suite.ctx, models.QueryConfig{
		TableName: "t", KeyName: "seq", KeyValue: "42", KeyType: models.NumberType,
	}, &got)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "r-2", got.ID)
}

func (suite *DALTestSuite) TestGetItemNotFound() {
	suite.api.On("GetItem", suite.ctx, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	var got record
	err := suite.db.GetItem(suite.ctx, models.QueryConfig{TableName: "t", KeyName: "id", KeyValue: "missing"}, &got)
	assert.ErrorIs(suite.T(), err, ErrItemNotFound)
}

func (suite *DALTestSuite) TestGetItemError() {
	suite.api.On("GetItem", suite.ctx, mock.Anything).Return(nil, errors.New("throttled"))

	var got record
	err := suite.db.GetItem(suite.ctx, models.QueryConfig{TableName: "t", KeyName: "id", KeyValue: "x"}, &got)
	assert.EqualError(suite.T(), err, "throttled")
}

func (suite *DALTestSuite) TestPutItem() {
	suite.api.On("PutItem", suite.ctx, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return in.ConditionExpression == nil && len(in.Item) == 3
	})).Return(nil)

	err := suite.db.PutItem(suite.ctx, "t", record{ID: "r-1", Status: "DONE", Version: 1})
	assert.NoError(suite.T(), err)
}

func (suite *DALTestSuite) TestPutItemIfPassesCondition() {
	cond := &models.Condition{
		Expression: "#version = :expected",
		Names:      map[string]string{"#version": "version"},
		Values:     map[string]interface{}{":expected": int64(3)},
	}

	suite.api.On("PutItem", suite.ctx, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		v, ok := in.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN)
		return aws.ToString(in.ConditionExpression) == "#version = :expected" &&
			in.ExpressionAttributeNames["#version"] == "version" && ok && v.Value == "3"
	})).Return(nil)

	err := suite.db.PutItemIf(suite.ctx, "t", record{ID: "r-1", Version: 4}, cond)
	assert.NoError(suite.T(), err)
}

func (suite *DALTestSuite) TestPutItemIfConditionFailed() {
	suite.api.On("PutItem", suite.ctx, mock.Anything).
		Return(&types.ConditionalCheckFailedException{Message: aws.String("nope")})

	err := suite.db.PutItemIf(suite.ctx, "t", record{ID: "r-1"}, &models.Condition{Expression: "attribute_not_exists(id)"})
	assert.ErrorIs(suite.T(), err, ErrConditionFailed)
}

func (suite *DALTestSuite) TestDeleteItemConditionFailed() {
	suite.api.On("DeleteItem", suite.ctx, mock.MatchedBy(func(in *dynamodb.DeleteItemInput) bool {
		return aws.ToString(in.ConditionExpression) == "#status = :draft"
	})).Return(&types.ConditionalCheckFailedException{})

	err := suite.db.DeleteItem(suite.ctx, "t", "id", "c-1", &models.Condition{
		Expression: "#status = :draft",
		Names:      map[string]string{"#status": "status"},
		Values:     map[string]interface{}{":draft": "DRAFT"},
	})
	assert.ErrorIs(suite.T(), err, ErrConditionFailed)
}

func (suite *DALTestSuite) TestQueryByIndexFollowsPages() {
	lastKey := map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "q-1"}}

	suite.api.On("Query", suite.ctx, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.ExclusiveStartKey == nil
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item("q-1", "PENDING")}, LastEvaluatedKey: lastKey}, nil).Once()
	suite.api.On("Query", suite.ctx, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.ExclusiveStartKey != nil && aws.ToString(in.IndexName) == "requestID-index"
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item("q-2", "CONFIRMED")}}, nil).Once()

	var got []record
	err := suite.db.QueryByIndex(suite.ctx, "t", "requestID-index", "requestID", "r-1", &got)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), got, 2)
	assert.Equal(suite.T(), "q-1", got[0].ID)
	assert.Equal(suite.T(), "q-2", got[1].ID)
}

func (suite *DALTestSuite) TestQueryByIndexError() {
	suite.api.On("Query", suite.ctx, mock.Anything).Return(nil, errors.New("no index"))

	var got []record
	err := suite.db.QueryByIndex(suite.ctx, "t", "missing-index", "k", "v", &got)
	assert.Error(suite.T(), err)
}

func (suite *DALTestSuite) TestScanWithFilter() {
	suite.api.On("Scan", suite.ctx, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return aws.ToString(in.FilterExpression) == "#status = :s" && in.ExpressionAttributeValues[":s"] != nil
	})).Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{item("q-1", "PENDING")}}, nil)

	var got []record
	err := suite.db.Scan(suite.ctx, "t", &models.Condition{
		Expression: "#status = :s",
		Names:      map[string]string{"#status": "status"},
		Values:     map[string]interface{}{":s": "PENDING"},
	}, &got)

	require.NoError(suite.T(), err)
	assert.Len(suite.T(), got, 1)
}

func (suite *DALTestSuite) TestScanWithoutFilter() {
	suite.api.On("Scan", suite.ctx, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.FilterExpression == nil
	})).Return(&dynamodb.ScanOutput{}, nil)

	var got []record
	require.NoError(suite.T(), suite.db.Scan(suite.ctx, "t", nil, &got))
	assert.Empty(suite.T(), got)
}

func (suite *DALTestSuite) TestDescribeTable() {
	out := &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableName: aws.String("t"), TableStatus: types.TableStatusActive}}
	suite.api.On("DescribeTable", suite.ctx, mock.Anything).Return(out, nil)

	got, err := suite.db.DescribeTable(suite.ctx, "t")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), types.TableStatusActive, got.Table.TableStatus)
}

func (suite *DALTestSuite) TestCreateTable() {
	suite.api.On("CreateTable", suite.ctx, mock.Anything).Return(nil)
	assert.NoError(suite.T(), suite.db.CreateTable(suite.ctx, &dynamodb.CreateTableInput{TableName: aws.String("t")}))
}

func TestDALTestSuite(t *testing.T) {
	suite.Run(t, new(DALTestSuite))
}
