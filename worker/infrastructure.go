package worker

import (
	"context"
	"errors"
	"fmt"
	"movehub-backend/dal"
	"movehub-backend/infrastructure"
	"movehub-backend/models"
	"movehub-backend/repository"
	"movehub-backend/utils/logger"
	"strings"
	"time"

	"github.com/aws/smithy-go"
)

// TableBootstrapper creates the configured DynamoDB tables that do not exist yet
type TableBootstrapper struct {
	db         dal.DatabaseClientInterface
	config     *models.Config
	logger     logger.Logger
	maxRetries int
	retryDelay time.Duration
}

func NewTableBootstrapper(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *TableBootstrapper {
	return &TableBootstrapper{
		db:         db,
		config:     cfg,
		logger:     log,
		maxRetries: 3,
		retryDelay: 5 * time.Second,
	}
}

// EnsureTables creates every missing table sequentially to avoid throttling.
// It stops at the first table that cannot be created.
func (b *TableBootstrapper) EnsureTables(ctx context.Context) ([]models.TableStatus, error) {
	results := make([]models.TableStatus, 0, len(b.config.Tables))

	for _, base := range b.config.Tables {
		name := repository.TableName(b.config, base)
		status, err := b.ensureTable(ctx, name)
		results = append(results, status)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (b *TableBootstrapper) ensureTable(ctx context.Context, name string) (models.TableStatus, error) {
	status := models.TableStatus{Name: name}

	input, err := infrastructure.GetTables(name, b.config.DynamoDBTablePrefix)
	if err != nil {
		status.Status = "FAILED"
		status.Error = err.Error()
		return status, err
	}
	status.Indexes = len(input.GlobalSecondaryIndexes)

	for attempt := 0; attempt <= b.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * b.retryDelay
			b.logger.Infof("Retrying table creation for %s in %v (attempt %d/%d)", name, delay, attempt+1, b.maxRetries+1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				status.Status = "FAILED"
				status.Error = ctx.Err().Error()
				return status, ctx.Err()
			}
		}

		exists, err := b.tableExists(ctx, name)
		if err != nil {
			b.logger.Errorf("Failed to check if table %s exists: %v", name, err)
			status.Error = err.Error()
			continue
		}
		if exists {
			b.logger.Debugf("Table %s already exists", name)
			status.Status = "EXISTS"
			status.Error = ""
			return status, nil
		}

		if err := b.db.CreateTable(ctx, input); err != nil {
			b.logger.Errorf("Attempt %d failed to create table %s: %v", attempt+1, name, err)
			status.Error = err.Error()
			continue
		}

		b.logger.Infof("Created table %s", name)
		status.Status = "CREATED"
		status.Error = ""
		return status, nil
	}

	status.Status = "FAILED"
	return status, fmt.Errorf("failed to create table %s after %d attempts: %s", name, b.maxRetries+1, status.Error)
}

func (b *TableBootstrapper) tableExists(ctx context.Context, name string) (bool, error) {
	_, err := b.db.DescribeTable(ctx, name)
	if err != nil {
		if isTableNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// isTableNotFoundError checks if error indicates table not found
func isTableNotFoundError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ResourceNotFoundException"
	}
	return strings.Contains(err.Error(), "ResourceNotFoundException")
}
