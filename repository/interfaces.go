package repository

import (
	"context"
	"movehub-backend/models"
)

// RequestRepositoryInterface defines the contract for move request storage
type RequestRepositoryInterface interface {
	Create(ctx context.Context, req *models.MoveRequest) error
	Get(ctx context.Context, id string) (*models.MoveRequest, error)
	Update(ctx context.Context, req *models.MoveRequest) error
	List(ctx context.Context, filter models.RequestFilter) ([]*models.MoveRequest, error)
}

// QuoteRepositoryInterface defines the contract for quote storage
type QuoteRepositoryInterface interface {
	Create(ctx context.Context, quote *models.Quote) error
	Get(ctx context.Context, id string) (*models.Quote, error)
	Update(ctx context.Context, quote *models.Quote) error
	ListByRequest(ctx context.Context, requestID string) ([]*models.Quote, error)
	ListOpen(ctx context.Context) ([]*models.Quote, error)
}

// ContractRepositoryInterface defines the contract for contract storage
type ContractRepositoryInterface interface {
	Create(ctx context.Context, contract *models.Contract) error
	Get(ctx context.Context, id string) (*models.Contract, error)
	Update(ctx context.Context, contract *models.Contract) error
	Delete(ctx context.Context, contract *models.Contract) error
	List(ctx context.Context, requestID string) ([]*models.Contract, error)
}

// RepositoryContainerInterface defines the contract for the repository container
type RepositoryContainerInterface interface {
	GetRequestRepository() RequestRepositoryInterface
	GetQuoteRepository() QuoteRepositoryInterface
	GetContractRepository() ContractRepositoryInterface
}

var _ RepositoryContainerInterface = (*Repository)(nil)
