package repository

import (
	"context"
	"errors"
	"movehub-backend/dal"
	"movehub-backend/models"
	"movehub-backend/utils/logger"
	"sort"
)

type ContractRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewContractRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *ContractRepository {
	return &ContractRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *ContractRepository) table() string {
	return TableName(r.config, "contracts")
}

func (r *ContractRepository) Create(ctx context.Context, contract *models.Contract) error {
	r.logger.Infof("Creating contract %s for request %s", contract.ContractID, contract.RequestID)

	if err := insert(ctx, r.db, r.table(), "contractID", contract); err != nil {
		r.logger.Errorf("Failed to create contract %s: %v", contract.ContractID, err)
		return err
	}
	return nil
}

func (r *ContractRepository) Get(ctx context.Context, id string) (*models.Contract, error) {
	var contract models.Contract
	if err := load(ctx, r.db, r.table(), "contractID", id, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) Update(ctx context.Context, contract *models.Contract) error {
	if err := replaceVersioned(ctx, r.db, r.table(), contract, &contract.Version); err != nil {
		r.logger.Warnf("Failed to update contract %s: %v", contract.ContractID, err)
		return err
	}
	r.logger.Infof("Contract updated: %s (%s)", contract.ContractID, contract.Status)
	return nil
}

// Delete removes a draft contract at the version it was read
func (r *ContractRepository) Delete(ctx context.Context, contract *models.Contract) error {
	cond := &models.Condition{
		Expression: "#status = :draft AND #version = :expected",
		Names:      map[string]string{"#status": "status", "#version": "version"},
		Values: map[string]interface{}{
			":draft":    string(models.ContractStatusDraft),
			":expected": contract.Version,
		},
	}

	err := r.db.DeleteItem(ctx, r.table(), "contractID", contract.ContractID, cond)
	if errors.Is(err, dal.ErrConditionFailed) {
		return ErrVersionConflict
	}
	if err != nil {
		r.logger.Errorf("Failed to delete contract %s: %v", contract.ContractID, err)
		return err
	}
	r.logger.Infof("Contract deleted: %s", contract.ContractID)
	return nil
}

// List returns the contracts of a request, or all contracts when requestID is empty. Newest first.
func (r *ContractRepository) List(ctx context.Context, requestID string) ([]*models.Contract, error) {
	var (
		contracts []*models.Contract
		err       error
	)
	if requestID != "" {
		err = r.db.QueryByIndex(ctx, r.table(), requestIDIndex, "requestID", requestID, &contracts)
	} else {
		err = r.db.Scan(ctx, r.table(), nil, &contracts)
	}
	if err != nil {
		r.logger.Errorf("Failed to list contracts: %v", err)
		return nil, err
	}

	sort.SliceStable(contracts, func(i, j int) bool {
		return contracts[i].CreatedAt.After(contracts[j].CreatedAt)
	})
	return contracts, nil
}
