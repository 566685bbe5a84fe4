package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"movehub-backend/cache"
	"movehub-backend/models"
	"movehub-backend/utils/logger"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
)

const (
	earthRadiusKm = 6371.0

	// DefaultFallbackSpeedKmh is the assumed speed when no route is available
	DefaultFallbackSpeedKmh = 40.0

	SourceOSRM     = "osrm"
	SourceEstimate = "estimate"
)

type DistanceResolver struct {
	client        httpClient
	cache         cache.Cache
	routeTTL      time.Duration
	fallbackSpeed float64
	logger        logger.Logger
}

func NewDistanceResolver(cfg models.GeoConfig, fallbackSpeedKmh float64, c cache.Cache, log logger.Logger) *DistanceResolver {
	if c == nil {
		c = cache.Nop{}
	}
	if fallbackSpeedKmh <= 0 {
		fallbackSpeedKmh = DefaultFallbackSpeedKmh
	}
	return &DistanceResolver{
		client:        newHTTPClient(cfg.OSRMURL, cfg.UserAgent, cfg.Timeout),
		cache:         c,
		routeTTL:      cfg.RouteTTL,
		fallbackSpeed: fallbackSpeedKmh,
		logger:        log,
	}
}

// Haversine is the great-circle distance in km
func Haversine(a, b models.GeoPoint) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// DurationForDistance is the fallback travel time in minutes
func DurationForDistance(km, speedKmh float64) float64 {
	if speedKmh <= 0 {
		speedKmh = DefaultFallbackSpeedKmh
	}
	return round2(km / speedKmh * 60)
}

// EstimateRoute is the straight-line fallback route
func EstimateRoute(origin, dest models.GeoPoint, speedKmh float64) models.Route {
	km := round2(Haversine(origin, dest))
	return models.Route{
		DistanceKm:  km,
		DurationMin: DurationForDistance(km, speedKmh),
		Geometry: models.RouteGeometry{
			Type:        "LineString",
			Coordinates: [][2]float64{{origin.Lng, origin.Lat}, {dest.Lng, dest.Lat}},
		},
		Source: SourceEstimate,
	}
}

func parseRoute(body []byte) (models.Route, error) {
	if !gjson.ValidBytes(body) {
		return models.Route{}, errors.New("invalid osrm response")
	}
	doc := gjson.ParseBytes(body)
	if code := doc.Get("code").String(); code != "Ok" {
		return models.Route{}, fmt.Errorf("osrm code %q", code)
	}
	route := doc.Get("routes.0")
	if !route.Exists() {
		return models.Route{}, errors.New("osrm returned no routes")
	}

	meters := route.Get("distance").Float()
	seconds := route.Get("duration").Float()
	if meters < 0 || seconds < 0 {
		return models.Route{}, errors.New("osrm returned negative distance or duration")
	}

	var coords [][2]float64
	route.Get("geometry.coordinates").ForEach(func(_, c gjson.Result) bool {
		pair := c.Array()
		if len(pair) >= 2 {
			coords = append(coords, [2]float64{pair[0].Float(), pair[1].Float()})
		}
		return true
	})

	return models.Route{
		DistanceKm:  round2(meters / 1000),
		DurationMin: round2(seconds / 60),
		Geometry:    models.RouteGeometry{Type: "LineString", Coordinates: coords},
		Source:      SourceOSRM,
	}, nil
}

func (d *DistanceResolver) fetchRoute(ctx context.Context, origin, dest models.GeoPoint) (models.Route, error) {
	path := fmt.Sprintf("/route/v1/driving/%f,%f;%f,%f", origin.Lng, origin.Lat, dest.Lng, dest.Lat)
	params := url.Values{}
	params.Set("overview", "full")
	params.Set("geometries", "geojson")

	body, err := d.client.get(ctx, path, params)
	if err != nil {
		return models.Route{}, err
	}
	return parseRoute(body)
}

// ResolveDistance returns the driving route between two points. It never fails:
// any routing problem yields the straight-line estimate.
func (d *DistanceResolver) ResolveDistance(ctx context.Context, origin, dest models.GeoPoint) models.Route {
	ctx, span := tracer.Start(ctx, "geo.ResolveDistance")
	defer span.End()

	key := cache.RouteKey(origin, dest)
	var cached models.Route
	if found, err := d.cache.GetJSON(ctx, key, &cached); err == nil && found {
		span.SetAttributes(attribute.Bool("geo.fallback", false), attribute.Bool("geo.cached", true))
		return cached
	}

	route, err := d.fetchRoute(ctx, origin, dest)
	if err != nil {
		d.logger.Warnf("Routing failed, using straight-line estimate: %v", err)
		span.SetAttributes(attribute.Bool("geo.fallback", true))
		return EstimateRoute(origin, dest, d.fallbackSpeed)
	}

	if err := d.cache.SetJSON(ctx, key, route, d.routeTTL); err != nil {
		d.logger.Debugf("route cache write failed: %v", err)
	}
	span.SetAttributes(attribute.Bool("geo.fallback", false), attribute.Float64("geo.distance_km", route.DistanceKm))
	return route
}
