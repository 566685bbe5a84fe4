package models

// AttributeType enum for different DynamoDB attribute types
type AttributeType int

const (
	StringType AttributeType = iota
	NumberType
)

// QueryConfig holds all the configuration for any DynamoDB key lookup
type QueryConfig struct {
	TableName string
	IndexName string // empty for primary key lookups
	KeyName   string
	KeyValue  string
	KeyType   AttributeType
}

// Condition is a DynamoDB condition expression with its placeholders
type Condition struct {
	Expression string
	Names      map[string]string
	Values     map[string]interface{}
}
