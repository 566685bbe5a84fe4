package controller

import (
	"context"
	"movehub-backend/models"
	"movehub-backend/services"

	"github.com/stretchr/testify/mock"
)

type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) result(args mock.Arguments) (*models.MoveRequest, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MoveRequest), args.Error(1)
}

func (m *MockRequestService) Create(ctx context.Context, in *models.CreateMoveRequest, actor string) (*models.MoveRequest, error) {
	return m.result(m.Called(ctx, in, actor))
}

func (m *MockRequestService) Get(ctx context.Context, id string) (*models.MoveRequest, error) {
	return m.result(m.Called(ctx, id))
}

func (m *MockRequestService) List(ctx context.Context, filter models.RequestFilter) ([]*models.MoveRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MoveRequest), args.Error(1)
}

func (m *MockRequestService) Update(ctx context.Context, id string, patch *models.UpdateMoveRequest, actor string) (*models.MoveRequest, error) {
	return m.result(m.Called(ctx, id, patch, actor))
}

func (m *MockRequestService) Cancel(ctx context.Context, id, actor, reason string) (*models.MoveRequest, error) {
	return m.result(m.Called(ctx, id, actor, reason))
}

func (m *MockRequestService) Transition(ctx context.Context, id string, to models.RequestStatus, actor, note string) (*models.MoveRequest, error) {
	return m.result(m.Called(ctx, id, to, actor, note))
}

func (m *MockRequestService) ApplyPayment(ctx context.Context, id string, n *models.PaymentNotification) (*models.MoveRequest, error) {
	return m.result(m.Called(ctx, id, n))
}

type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) result(args mock.Arguments) (*models.Quote, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *MockQuoteService) Estimate(ctx context.Context, in *models.EstimateRequest) (*models.EstimateResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EstimateResult), args.Error(1)
}

func (m *MockQuoteService) Create(ctx context.Context, requestID string, in *models.EstimateRequest) (*models.Quote, error) {
	return m.result(m.Called(ctx, requestID, in))
}

func (m *MockQuoteService) Get(ctx context.Context, id string) (*models.Quote, error) {
	return m.result(m.Called(ctx, id))
}

func (m *MockQuoteService) ListByRequest(ctx context.Context, requestID string) ([]*models.Quote, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Quote), args.Error(1)
}

func (m *MockQuoteService) Propose(ctx context.Context, id string, actor models.Actor, price int64) (*models.Quote, error) {
	return m.result(m.Called(ctx, id, actor, price))
}

func (m *MockQuoteService) Counter(ctx context.Context, id string, price int64) (*models.Quote, error) {
	return m.result(m.Called(ctx, id, price))
}

func (m *MockQuoteService) Accept(ctx context.Context, id string) (*models.Quote, error) {
	return m.result(m.Called(ctx, id))
}

func (m *MockQuoteService) Confirm(ctx context.Context, id string, finalPrice *int64) (*models.Quote, error) {
	return m.result(m.Called(ctx, id, finalPrice))
}

func (m *MockQuoteService) Expire(ctx context.Context, id string) (*models.Quote, error) {
	return m.result(m.Called(ctx, id))
}

func (m *MockQuoteService) ExpireStale(ctx context.Context) (int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

type MockContractService struct {
	mock.Mock
}

func (m *MockContractService) result(args mock.Arguments) (*models.Contract, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *MockContractService) Create(ctx context.Context, in *models.CreateContractRequest, actor string) (*models.Contract, error) {
	return m.result(m.Called(ctx, in, actor))
}

func (m *MockContractService) Get(ctx context.Context, id string) (*models.Contract, error) {
	return m.result(m.Called(ctx, id))
}

func (m *MockContractService) List(ctx context.Context, requestID string) ([]*models.Contract, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Contract), args.Error(1)
}

func (m *MockContractService) Update(ctx context.Context, id string, patch *models.UpdateContractRequest, actor string) (*models.Contract, error) {
	return m.result(m.Called(ctx, id, patch, actor))
}

func (m *MockContractService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContractService) Issue(ctx context.Context, id, actor string) (*models.Contract, error) {
	return m.result(m.Called(ctx, id, actor))
}

func (m *MockContractService) Accept(ctx context.Context, id, actor string) (*models.Contract, error) {
	return m.result(m.Called(ctx, id, actor))
}

func (m *MockContractService) Reject(ctx context.Context, id, actor string) (*models.Contract, error) {
	return m.result(m.Called(ctx, id, actor))
}

func (m *MockContractService) Cancel(ctx context.Context, id, actor string) (*models.Contract, error) {
	return m.result(m.Called(ctx, id, actor))
}

type MockGeoService struct {
	mock.Mock
}

func (m *MockGeoService) Geocode(ctx context.Context, address string, focus *models.GeoPoint) (*models.GeocodeResult, error) {
	args := m.Called(ctx, address, focus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GeocodeResult), args.Error(1)
}

func (m *MockGeoService) Distance(ctx context.Context, origin, dest models.GeoPoint) models.Route {
	return m.Called(ctx, origin, dest).Get(0).(models.Route)
}

type MockInfrastructureService struct {
	mock.Mock
}

func (m *MockInfrastructureService) Health(ctx context.Context) *models.HealthStatus {
	return m.Called(ctx).Get(0).(*models.HealthStatus)
}

func (m *MockInfrastructureService) AttachWorker(w services.WorkerStateProvider) {
	m.Called(w)
}

// mockContainer implements services.ServiceContainerInterface
type mockContainer struct {
	requests  *MockRequestService
	quotes    *MockQuoteService
	contracts *MockContractService
	geo       *MockGeoService
	infra     *MockInfrastructureService
}

func newMockContainer() *mockContainer {
	return &mockContainer{
		requests:  new(MockRequestService),
		quotes:    new(MockQuoteService),
		contracts: new(MockContractService),
		geo:       new(MockGeoService),
		infra:     new(MockInfrastructureService),
	}
}

func (c *mockContainer) GetRequestService() services.RequestServiceInterface { return c.requests }
func (c *mockContainer) GetQuoteService() services.QuoteServiceInterface     { return c.quotes }
func (c *mockContainer) GetContractService() services.ContractServiceInterface {
	return c.contracts
}
func (c *mockContainer) GetGeoService() services.GeoServiceInterface { return c.geo }
func (c *mockContainer) GetInfrastructureService() services.InfrastructureServiceInterface {
	return c.infra
}
