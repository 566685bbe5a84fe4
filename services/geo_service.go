package services

import (
	"context"
	"errors"
	"fmt"
	"movehub-backend/geo"
	"movehub-backend/models"
	"movehub-backend/utils/logger"
)

// GeoService exposes the geocoder and the distance resolver to the API
type GeoService struct {
	geocoder AddressResolver
	router   RouteResolver
	logger   logger.Logger
}

func NewGeoService(geocoder AddressResolver, router RouteResolver, logger logger.Logger) *GeoService {
	return &GeoService{
		geocoder: geocoder,
		router:   router,
		logger:   logger,
	}
}

func (s *GeoService) Geocode(ctx context.Context, address string, focus *models.GeoPoint) (*models.GeocodeResult, error) {
	res, err := s.geocoder.ResolveAddress(ctx, address, focus)
	if errors.Is(err, geo.ErrEmptyAddress) {
		return nil, invalid("address", "address is required")
	}
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("%w: address could not be resolved", ErrNotFound)
	}
	return res, nil
}

// Distance never fails; unreachable routing falls back to a straight-line estimate
func (s *GeoService) Distance(ctx context.Context, origin, dest models.GeoPoint) models.Route {
	return s.router.ResolveDistance(ctx, origin, dest)
}
