package infrastructure

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaNames(t *testing.T) {
	assert.Equal(t, []string{"contracts", "quotes", "requests"}, SchemaNames())
}

func TestBaseTableName(t *testing.T) {
	assert.Equal(t, "quotes", BaseTableName("dev_quotes", "dev"))
	assert.Equal(t, "move_requests", BaseTableName("prod_move_requests", "prod"))
	assert.Equal(t, "requests", BaseTableName("requests", ""))
	assert.Equal(t, "other_quotes", BaseTableName("other_quotes", "dev"))
}

func TestGetTablesRequests(t *testing.T) {
	input, err := GetTables("dev_requests", "dev")
	require.NoError(t, err)

	assert.Equal(t, "dev_requests", aws.ToString(input.TableName))
	assert.Equal(t, types.BillingModeProvisioned, input.BillingMode)
	require.NotNil(t, input.ProvisionedThroughput)
	assert.Equal(t, int64(5), aws.ToInt64(input.ProvisionedThroughput.ReadCapacityUnits))

	require.Len(t, input.KeySchema, 1)
	assert.Equal(t, "requestID", aws.ToString(input.KeySchema[0].AttributeName))
	assert.Equal(t, types.KeyTypeHash, input.KeySchema[0].KeyType)

	var indexes []string
	for _, g := range input.GlobalSecondaryIndexes {
		indexes = append(indexes, aws.ToString(g.IndexName))
		assert.NotNil(t, g.ProvisionedThroughput)
	}
	assert.ElementsMatch(t, []string{"phone-index", "status-index"}, indexes)
}

func TestGetTablesOnDemand(t *testing.T) {
	input, err := GetTables("dev_contracts", "dev")
	require.NoError(t, err)

	assert.Equal(t, types.BillingModePayPerRequest, input.BillingMode)
	assert.Nil(t, input.ProvisionedThroughput)
	require.Len(t, input.GlobalSecondaryIndexes, 1)
	assert.Nil(t, input.GlobalSecondaryIndexes[0].ProvisionedThroughput)
	assert.Equal(t, "requestID-index", aws.ToString(input.GlobalSecondaryIndexes[0].IndexName))
}

func TestGetTablesUnknown(t *testing.T) {
	_, err := GetTables("dev_invoices", "dev")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invoices")
}
