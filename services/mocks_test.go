package services

import (
	"context"
	"movehub-backend/models"
	"time"

	"github.com/stretchr/testify/mock"
)

// Repository mocks hand out copies so that every Get starts from the stored state.

type MockRequestRepository struct {
	mock.Mock
}

func cloneRequest(r *models.MoveRequest) *models.MoveRequest {
	c := *r
	c.StatusHistory = append([]models.StatusChange(nil), r.StatusHistory...)
	c.Items = append([]models.Item(nil), r.Items...)
	c.Images = append([]string(nil), r.Images...)
	return &c
}

func (m *MockRequestRepository) Create(ctx context.Context, req *models.MoveRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequestRepository) Get(ctx context.Context, id string) (*models.MoveRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return cloneRequest(args.Get(0).(*models.MoveRequest)), args.Error(1)
}

func (m *MockRequestRepository) Update(ctx context.Context, req *models.MoveRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequestRepository) List(ctx context.Context, filter models.RequestFilter) ([]*models.MoveRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MoveRequest), args.Error(1)
}

type MockQuoteRepository struct {
	mock.Mock
}

func cloneQuote(q *models.Quote) *models.Quote {
	c := *q
	c.Negotiation = append([]models.NegotiationEvent(nil), q.Negotiation...)
	return &c
}

func (m *MockQuoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *MockQuoteRepository) Get(ctx context.Context, id string) (*models.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return cloneQuote(args.Get(0).(*models.Quote)), args.Error(1)
}

func (m *MockQuoteRepository) Update(ctx context.Context, quote *models.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *MockQuoteRepository) ListByRequest(ctx context.Context, requestID string) ([]*models.Quote, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Quote), args.Error(1)
}

func (m *MockQuoteRepository) ListOpen(ctx context.Context) ([]*models.Quote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Quote), args.Error(1)
}

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) Create(ctx context.Context, contract *models.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) Get(ctx context.Context, id string) (*models.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	c := *args.Get(0).(*models.Contract)
	return &c, args.Error(1)
}

func (m *MockContractRepository) Update(ctx context.Context, contract *models.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) Delete(ctx context.Context, contract *models.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) List(ctx context.Context, requestID string) ([]*models.Contract, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Contract), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event models.StatusEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) ResolveAddress(ctx context.Context, text string, focus *models.GeoPoint) (*models.GeocodeResult, error) {
	args := m.Called(ctx, text, focus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GeocodeResult), args.Error(1)
}

type MockRouter struct {
	mock.Mock
}

func (m *MockRouter) ResolveDistance(ctx context.Context, origin, dest models.GeoPoint) models.Route {
	args := m.Called(ctx, origin, dest)
	return args.Get(0).(models.Route)
}

func eventOfType(t string) interface{} {
	return mock.MatchedBy(func(e models.StatusEvent) bool { return e.Type == t })
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testConfig() *models.Config {
	return &models.Config{
		AppName:             "MoveHub Backend",
		AppVersion:          "1.0.0",
		AppEnv:              "test",
		Tables:              []string{"requests", "quotes", "contracts"},
		DynamoDBTablePrefix: "test",
		Pricing: models.PricingConfig{
			FallbackSpeedKmh: 40,
		},
		Negotiation: models.NegotiationConfig{
			RequirePositivePrice: true,
			MaxCASRetries:        3,
		},
		Request: models.RequestConfig{
			Timezone:      "Asia/Ho_Chi_Minh",
			MaxImages:     4,
			MaxImageChars: 2000000,
			CutoffHour:    12,
		},
		Worker: models.WorkerSettings{
			QuoteTTL: 7 * 24 * time.Hour,
		},
	}
}
