package services

import (
	"context"
	"errors"
	"fmt"
	"movehub-backend/events"
	"movehub-backend/geo"
	"movehub-backend/models"
	"movehub-backend/pricing"
	"movehub-backend/repository"
	"movehub-backend/utils/logger"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RouteSourceManual marks an estimate priced from a distance the caller typed in
const RouteSourceManual = "manual"

type QuoteService struct {
	quoteRepo   repository.QuoteRepositoryInterface
	requestRepo repository.RequestRepositoryInterface
	geocoder    AddressResolver
	router      RouteResolver
	calculator  *pricing.Calculator
	publisher   events.Publisher
	logger      logger.Logger
	negotiation models.NegotiationConfig
	quoteTTL    time.Duration
	speedKmh    float64
	now         func() time.Time
}

func NewQuoteService(
	quoteRepo repository.QuoteRepositoryInterface,
	requestRepo repository.RequestRepositoryInterface,
	geocoder AddressResolver,
	router RouteResolver,
	calculator *pricing.Calculator,
	publisher events.Publisher,
	cfg *models.Config,
	logger logger.Logger,
) *QuoteService {
	return &QuoteService{
		quoteRepo:   quoteRepo,
		requestRepo: requestRepo,
		geocoder:    geocoder,
		router:      router,
		calculator:  calculator,
		publisher:   publisher,
		logger:      logger,
		negotiation: cfg.Negotiation,
		quoteTTL:    cfg.Worker.QuoteTTL,
		speedKmh:    cfg.Pricing.FallbackSpeedKmh,
		now:         time.Now,
	}
}

// Estimate prices a move without persisting anything
func (s *QuoteService) Estimate(ctx context.Context, in *models.EstimateRequest) (*models.EstimateResult, error) {
	strategy, err := s.calculator.Strategy(in.Strategy)
	if err != nil {
		return nil, pricingError(err)
	}

	result := &models.EstimateResult{Strategy: strategy}

	if in.ManualDistanceKm != nil {
		if *in.ManualDistanceKm < 0 {
			return nil, invalid("manualDistanceKm", "distance cannot be negative")
		}
		result.DistanceKm = *in.ManualDistanceKm
		result.DurationMin = geo.DurationForDistance(*in.ManualDistanceKm, s.speedKmh)
		result.RouteSource = RouteSourceManual
	} else {
		origin, err := s.resolvePoint(ctx, "pickupLocation", in.PickupLocation)
		if err != nil {
			return nil, err
		}
		dest, err := s.resolvePoint(ctx, "deliveryLocation", in.DeliveryLocation)
		if err != nil {
			return nil, err
		}

		route := s.router.ResolveDistance(ctx, origin, dest)
		result.DistanceKm = route.DistanceKm
		result.DurationMin = route.DurationMin
		result.RouteSource = route.Source
		result.Geometry = &route.Geometry
	}

	breakdown, err := s.calculator.Compute(models.QuoteInput{
		DistanceKm:  result.DistanceKm,
		DurationMin: result.DurationMin,
		Workers:     in.Workers,
		VehicleType: in.VehicleType,
		PackOption:  in.PackOption,
		Speed:       in.Speed,
		Strategy:    strategy,
		Items:       in.Items,
		Extras:      in.Extras,
	})
	if err != nil {
		return nil, pricingError(err)
	}
	result.Breakdown = breakdown
	return result, nil
}

// resolvePoint uses the given coordinates, or geocodes the address
func (s *QuoteService) resolvePoint(ctx context.Context, field string, loc models.Location) (models.GeoPoint, error) {
	if p, ok := loc.Point(); ok {
		return p, nil
	}
	if strings.TrimSpace(loc.Address) == "" {
		return models.GeoPoint{}, invalid(field, "coordinates or an address are required")
	}

	res, err := s.geocoder.ResolveAddress(ctx, loc.Address, loc.Focus)
	if err != nil {
		if errors.Is(err, geo.ErrEmptyAddress) {
			return models.GeoPoint{}, invalid(field, "coordinates or an address are required")
		}
		return models.GeoPoint{}, fmt.Errorf("failed to geocode %s: %w", field, err)
	}
	if res == nil {
		return models.GeoPoint{}, invalid(field, "address could not be resolved")
	}
	return models.GeoPoint{Lat: res.Lat, Lng: res.Lng}, nil
}

// withRequestAddresses fills each location that has neither coordinates nor an
// address from the move request: its resolved point, else its address text.
func withRequestAddresses(in *models.EstimateRequest, req *models.MoveRequest) *models.EstimateRequest {
	out := *in
	out.PickupLocation = locationOf(in.PickupLocation, req.Pickup)
	out.DeliveryLocation = locationOf(in.DeliveryLocation, req.Delivery)
	return &out
}

func locationOf(loc models.Location, a models.Address) models.Location {
	if _, ok := loc.Point(); ok || strings.TrimSpace(loc.Address) != "" {
		return loc
	}
	if a.Point != nil {
		lat, lng := a.Point.Lat, a.Point.Lng
		loc.Lat, loc.Lng = &lat, &lng
		return loc
	}
	loc.Address = a.Text()
	return loc
}

func pricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrUnknownStrategy):
		return invalid("strategy", "%s", err.Error())
	case errors.Is(err, pricing.ErrUnknownVehicle):
		return invalid("vehicleType", "%s", err.Error())
	case errors.Is(err, pricing.ErrUnknownExtra):
		return invalid("extras", "%s", err.Error())
	case errors.Is(err, pricing.ErrNegativeDistance), errors.Is(err, pricing.ErrDistanceTooLong):
		return invalid("distanceKm", "%s", err.Error())
	}
	return err
}

// Create re-prices the input server side and stores it as a pending quote for the request
func (s *QuoteService) Create(ctx context.Context, requestID string, in *models.EstimateRequest) (*models.Quote, error) {
	if strings.TrimSpace(requestID) == "" {
		return nil, invalid("requestId", "request ID is required")
	}
	req, err := s.requestRepo.Get(ctx, requestID)
	if err != nil {
		return nil, notFound(err, "move request", requestID)
	}

	est, err := s.Estimate(ctx, withRequestAddresses(in, req))
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	items := in.Items
	if items == nil {
		items = []models.Item{}
	}
	quote := &models.Quote{
		QuoteID:     uuid.New().String(),
		RequestID:   requestID,
		DistanceKm:  est.DistanceKm,
		DurationMin: est.DurationMin,
		VehicleType: in.VehicleType,
		Workers:     in.Workers,
		PackOption:  in.PackOption,
		Speed:       in.Speed,
		Strategy:    est.Strategy,
		Items:       items,
		Breakdown:   est.Breakdown,
		BasePrice:   est.Total,
		Negotiation: []models.NegotiationEvent{},
		Status:      models.QuoteStatusPending,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}
	s.logger.Infof("Quote %s created for request %s at %d", quote.QuoteID, requestID, quote.BasePrice)
	return quote, nil
}

func (s *QuoteService) Get(ctx context.Context, id string) (*models.Quote, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("id", "quote ID is required")
	}
	quote, err := s.quoteRepo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "quote", id)
	}
	return quote, nil
}

func (s *QuoteService) ListByRequest(ctx context.Context, requestID string) ([]*models.Quote, error) {
	if strings.TrimSpace(requestID) == "" {
		return nil, invalid("requestId", "request ID is required")
	}
	return s.quoteRepo.ListByRequest(ctx, requestID)
}

// Propose records a price offer from either side
func (s *QuoteService) Propose(ctx context.Context, id string, actor models.Actor, price int64) (*models.Quote, error) {
	if !validActor(actor) {
		return nil, invalid("from", "unknown actor %q", actor)
	}
	if err := s.checkPrice("price", price); err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, string(actor), models.EventQuoteNegotiated, func(o *openQuote, now time.Time) error {
		o.propose(actor, price, now)
		return nil
	})
}

// Counter is a staff proposal
func (s *QuoteService) Counter(ctx context.Context, id string, price int64) (*models.Quote, error) {
	return s.Propose(ctx, id, models.ActorStaff, price)
}

// Accept confirms the quote at the latest negotiated price
func (s *QuoteService) Accept(ctx context.Context, id string) (*models.Quote, error) {
	return s.mutate(ctx, id, string(models.ActorStaff), models.EventQuoteConfirmed, func(o *openQuote, now time.Time) error {
		o.accept(now)
		return nil
	})
}

// Confirm freezes the price. Without an explicit price the base price is used.
func (s *QuoteService) Confirm(ctx context.Context, id string, finalPrice *int64) (*models.Quote, error) {
	if finalPrice != nil {
		if err := s.checkPrice("finalPrice", *finalPrice); err != nil {
			return nil, err
		}
	}

	return s.mutate(ctx, id, string(models.ActorCustomer), models.EventQuoteConfirmed, func(o *openQuote, now time.Time) error {
		q := o.quote()
		final := q.BasePrice
		switch {
		case finalPrice != nil:
			final = *finalPrice
		case q.FinalPrice != nil:
			final = *q.FinalPrice
		}
		o.confirm(final, now)
		return nil
	})
}

// Expire closes an open quote that outlived the quote TTL
func (s *QuoteService) Expire(ctx context.Context, id string) (*models.Quote, error) {
	return s.mutate(ctx, id, "system", models.EventQuoteExpired, func(o *openQuote, now time.Time) error {
		if !s.isStale(o.quote(), now) {
			return fmt.Errorf("%w: quote %s has not expired yet", ErrConflict, id)
		}
		o.expire(now)
		return nil
	})
}

// ExpireStale expires every open quote older than the TTL and returns how many were
// checked and how many were expired
func (s *QuoteService) ExpireStale(ctx context.Context) (int, int, error) {
	open, err := s.quoteRepo.ListOpen(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list open quotes: %w", err)
	}

	now := s.now().UTC()
	expired := 0
	for _, q := range open {
		if !s.isStale(q, now) {
			continue
		}
		if _, err := s.Expire(ctx, q.QuoteID); err != nil {
			if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
				s.logger.Debugf("Skipping quote %s: %v", q.QuoteID, err)
				continue
			}
			return len(open), expired, err
		}
		expired++
	}
	return len(open), expired, nil
}

func (s *QuoteService) isStale(q *models.Quote, now time.Time) bool {
	return s.quoteTTL > 0 && !q.CreatedAt.Add(s.quoteTTL).After(now)
}

// mutate opens the quote, applies fn and writes it back at the version it was read.
// A lost race reloads and re-applies up to the configured number of retries.
func (s *QuoteService) mutate(ctx context.Context, id, actor, eventType string, fn func(*openQuote, time.Time) error) (*models.Quote, error) {
	for attempt := 0; ; attempt++ {
		q, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		from := q.Status

		open, err := openForMutation(q)
		if err != nil {
			return nil, err
		}
		if err := fn(open, s.now().UTC()); err != nil {
			return nil, err
		}

		err = s.quoteRepo.Update(ctx, q)
		if err == nil {
			s.publish(ctx, q, from, actor, eventType)
			return q, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, fmt.Errorf("failed to update quote: %w", err)
		}
		if attempt >= s.negotiation.MaxCASRetries {
			s.logger.Warnf("Giving up on quote %s after %d attempts", id, attempt+1)
			return nil, ErrConcurrentUpdate
		}
		s.logger.Debugf("Version conflict on quote %s, retrying", id)
	}
}

func (s *QuoteService) publish(ctx context.Context, q *models.Quote, from models.QuoteStatus, actor, eventType string) {
	price := q.NegotiatedPrice
	if q.FinalPrice != nil {
		price = q.FinalPrice
	}
	event := models.StatusEvent{
		Type:       eventType,
		EntityID:   q.QuoteID,
		RequestID:  q.RequestID,
		From:       string(from),
		To:         string(q.Status),
		Actor:      actor,
		Price:      price,
		OccurredAt: q.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Errorf("Failed to publish %s for %s: %v", eventType, q.QuoteID, err)
	}
}
