package repository

import (
	"context"
	"errors"
	"fmt"
	"movehub-backend/dal"
	"movehub-backend/models"
	"movehub-backend/utils/logger"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrVersionConflict = errors.New("version conflict")
)

type Repository struct {
	Requests  *RequestRepository
	Quotes    *QuoteRepository
	Contracts *ContractRepository
}

func NewRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *Repository {
	return &Repository{
		Requests:  NewRequestRepository(db, cfg, log),
		Quotes:    NewQuoteRepository(db, cfg, log),
		Contracts: NewContractRepository(db, cfg, log),
	}
}

func (r *Repository) GetRequestRepository() RequestRepositoryInterface {
	return r.Requests
}

func (r *Repository) GetQuoteRepository() QuoteRepositoryInterface {
	return r.Quotes
}

func (r *Repository) GetContractRepository() ContractRepositoryInterface {
	return r.Contracts
}

// TableName prefixes a base table name with the environment prefix
func TableName(cfg *models.Config, base string) string {
	if cfg.DynamoDBTablePrefix == "" {
		return base
	}
	return cfg.DynamoDBTablePrefix + "_" + base
}

func notExists(key string) *models.Condition {
	return &models.Condition{
		Expression: "attribute_not_exists(#pk)",
		Names:      map[string]string{"#pk": key},
	}
}

func versionIs(expected int64) *models.Condition {
	return &models.Condition{
		Expression: "#version = :expected",
		Names:      map[string]string{"#version": "version"},
		Values:     map[string]interface{}{":expected": expected},
	}
}

// insert writes a new item, failing when the key is taken
func insert(ctx context.Context, db dal.DatabaseClientInterface, table, key string, item interface{}) error {
	err := db.PutItemIf(ctx, table, item, notExists(key))
	if errors.Is(err, dal.ErrConditionFailed) {
		return ErrAlreadyExists
	}
	return err
}

// replaceVersioned writes item only when the stored version is still *version, then bumps it
func replaceVersioned(ctx context.Context, db dal.DatabaseClientInterface, table string, item interface{}, version *int64) error {
	expected := *version
	*version = expected + 1

	err := db.PutItemIf(ctx, table, item, versionIs(expected))
	if err == nil {
		return nil
	}
	*version = expected
	if errors.Is(err, dal.ErrConditionFailed) {
		return ErrVersionConflict
	}
	return err
}

func load(ctx context.Context, db dal.DatabaseClientInterface, table, key, id string, out interface{}) error {
	err := db.GetItem(ctx, models.QueryConfig{
		TableName: table,
		KeyName:   key,
		KeyValue:  id,
		KeyType:   models.StringType,
	}, out)
	if errors.Is(err, dal.ErrItemNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get %s from %s: %w", id, table, err)
	}
	return nil
}
