package services

import (
	"context"
	"movehub-backend/models"
)

// AddressResolver is implemented by geo.Geocoder
type AddressResolver interface {
	ResolveAddress(ctx context.Context, text string, focus *models.GeoPoint) (*models.GeocodeResult, error)
}

// RouteResolver is implemented by geo.DistanceResolver
type RouteResolver interface {
	ResolveDistance(ctx context.Context, origin, dest models.GeoPoint) models.Route
}

// RequestServiceInterface defines the contract for the move request lifecycle
type RequestServiceInterface interface {
	Create(ctx context.Context, in *models.CreateMoveRequest, actor string) (*models.MoveRequest, error)
	Get(ctx context.Context, id string) (*models.MoveRequest, error)
	List(ctx context.Context, filter models.RequestFilter) ([]*models.MoveRequest, error)
	Update(ctx context.Context, id string, patch *models.UpdateMoveRequest, actor string) (*models.MoveRequest, error)
	Cancel(ctx context.Context, id, actor, reason string) (*models.MoveRequest, error)
	Transition(ctx context.Context, id string, to models.RequestStatus, actor, note string) (*models.MoveRequest, error)
	ApplyPayment(ctx context.Context, id string, n *models.PaymentNotification) (*models.MoveRequest, error)
}

// QuoteServiceInterface defines the contract for estimates and quote negotiation
type QuoteServiceInterface interface {
	Estimate(ctx context.Context, in *models.EstimateRequest) (*models.EstimateResult, error)
	Create(ctx context.Context, requestID string, in *models.EstimateRequest) (*models.Quote, error)
	Get(ctx context.Context, id string) (*models.Quote, error)
	ListByRequest(ctx context.Context, requestID string) ([]*models.Quote, error)
	Propose(ctx context.Context, id string, actor models.Actor, price int64) (*models.Quote, error)
	Counter(ctx context.Context, id string, price int64) (*models.Quote, error)
	Accept(ctx context.Context, id string) (*models.Quote, error)
	Confirm(ctx context.Context, id string, finalPrice *int64) (*models.Quote, error)
	Expire(ctx context.Context, id string) (*models.Quote, error)
	ExpireStale(ctx context.Context) (int, int, error)
}

// ContractServiceInterface defines the contract for contracts
type ContractServiceInterface interface {
	Create(ctx context.Context, in *models.CreateContractRequest, actor string) (*models.Contract, error)
	Get(ctx context.Context, id string) (*models.Contract, error)
	List(ctx context.Context, requestID string) ([]*models.Contract, error)
	Update(ctx context.Context, id string, patch *models.UpdateContractRequest, actor string) (*models.Contract, error)
	Delete(ctx context.Context, id string) error
	Issue(ctx context.Context, id, actor string) (*models.Contract, error)
	Accept(ctx context.Context, id, actor string) (*models.Contract, error)
	Reject(ctx context.Context, id, actor string) (*models.Contract, error)
	Cancel(ctx context.Context, id, actor string) (*models.Contract, error)
}

// GeoServiceInterface defines the contract for the server side geo endpoints
type GeoServiceInterface interface {
	Geocode(ctx context.Context, address string, focus *models.GeoPoint) (*models.GeocodeResult, error)
	Distance(ctx context.Context, origin, dest models.GeoPoint) models.Route
}

// InfrastructureServiceInterface defines the contract for the health report
type InfrastructureServiceInterface interface {
	Health(ctx context.Context) *models.HealthStatus
	AttachWorker(w WorkerStateProvider)
}

// ServiceContainerInterface defines the main service container contract
type ServiceContainerInterface interface {
	GetRequestService() RequestServiceInterface
	GetQuoteService() QuoteServiceInterface
	GetContractService() ContractServiceInterface
	GetGeoService() GeoServiceInterface
	GetInfrastructureService() InfrastructureServiceInterface
}
