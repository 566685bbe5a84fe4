package geo

import (
	"context"
	"errors"
	"fmt"
	"movehub-backend/cache"
	"movehub-backend/models"
	"movehub-backend/utils/logger"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
)

// ErrEmptyAddress is returned for a blank address text
var ErrEmptyAddress = errors.New("address is required")

// EstimatedLabel marks a result that fell back to the focus point
const EstimatedLabel = "Estimated location"

const viewboxDelta = 0.5

var preferredTypes = map[string]bool{
	"residential": true,
	"building":    true,
	"house":       true,
	"commercial":  true,
}

type Geocoder struct {
	client   httpClient
	cache    cache.Cache
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewGeocoder(cfg models.GeoConfig, c cache.Cache, log logger.Logger) *Geocoder {
	if c == nil {
		c = cache.Nop{}
	}
	return &Geocoder{
		client:   newHTTPClient(cfg.NominatimURL, cfg.UserAgent, cfg.Timeout),
		cache:    c,
		cacheTTL: cfg.CacheTTL,
		logger:   log,
	}
}

// BuildQueries returns the fallback query list for an address: the full text first,
// then with leading components dropped one by one.
func BuildQueries(text string) []string {
	var parts []string
	for _, p := range strings.Split(text, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	seen := make(map[string]bool, len(parts))
	queries := make([]string, 0, len(parts))
	for i := range parts {
		q := strings.Join(parts[i:], ", ")
		if seen[q] {
			continue
		}
		seen[q] = true
		queries = append(queries, q)
	}
	return queries
}

// viewbox is left,top,right,bottom around the focus point
func viewbox(focus models.GeoPoint) string {
	return fmt.Sprintf("%g,%g,%g,%g",
		focus.Lng-viewboxDelta, focus.Lat+viewboxDelta,
		focus.Lng+viewboxDelta, focus.Lat-viewboxDelta)
}

func candidatePoint(r gjson.Result) (models.GeoPoint, bool) {
	lat, err := strconv.ParseFloat(r.Get("lat").String(), 64)
	if err != nil {
		return models.GeoPoint{}, false
	}
	lng, err := strconv.ParseFloat(r.Get("lon").String(), 64)
	if err != nil {
		return models.GeoPoint{}, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return models.GeoPoint{}, false
	}
	return models.GeoPoint{Lat: lat, Lng: lng}, true
}

// pickCandidate prefers a residential-like result, otherwise the first usable one
func pickCandidate(body []byte) (*models.GeocodeResult, bool) {
	if !gjson.ValidBytes(body) {
		return nil, false
	}
	candidates := gjson.ParseBytes(body).Array()

	var fallback *models.GeocodeResult
	for _, c := range candidates {
		p, ok := candidatePoint(c)
		if !ok {
			continue
		}
		res := &models.GeocodeResult{Lat: p.Lat, Lng: p.Lng, Label: c.Get("display_name").String()}
		if preferredTypes[c.Get("type").String()] {
			return res, true
		}
		if fallback == nil {
			fallback = res
		}
	}
	return fallback, fallback != nil
}

func (g *Geocoder) search(ctx context.Context, query string, focus *models.GeoPoint) (*models.GeocodeResult, error) {
	box := ""
	if focus != nil {
		box = viewbox(*focus)
	}
	key := cache.GeocodeKey(query, box)

	var cached models.GeocodeResult
	if found, err := g.cache.GetJSON(ctx, key, &cached); err != nil {
		g.logger.Debugf("geocode cache read failed for %q: %v", query, err)
	} else if found {
		return &cached, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("countrycodes", "vn")
	params.Set("limit", "3")
	if box != "" {
		params.Set("viewbox", box)
	}

	body, err := g.client.get(ctx, "/search", params)
	if err != nil {
		return nil, err
	}

	res, ok := pickCandidate(body)
	if !ok {
		return nil, fmt.Errorf("no usable candidate for %q", query)
	}

	if err := g.cache.SetJSON(ctx, key, res, g.cacheTTL); err != nil {
		g.logger.Debugf("geocode cache write failed for %q: %v", query, err)
	}
	return res, nil
}

// ResolveAddress geocodes text, trying progressively coarser queries. When nothing
// resolves it returns the focus point marked as estimated, or nil without a focus.
func (g *Geocoder) ResolveAddress(ctx context.Context, text string, focus *models.GeoPoint) (*models.GeocodeResult, error) {
	queries := BuildQueries(text)
	if len(queries) == 0 {
		return nil, ErrEmptyAddress
	}

	ctx, span := tracer.Start(ctx, "geo.ResolveAddress")
	defer span.End()
	span.SetAttributes(attribute.Int("geo.queries", len(queries)))

	for i, q := range queries {
		res, err := g.search(ctx, q, focus)
		if err != nil {
			g.logger.Debugf("geocode query %d/%d %q failed: %v", i+1, len(queries), q, err)
			continue
		}
		span.SetAttributes(attribute.Int("geo.query_index", i), attribute.Bool("geo.estimated", false))
		return res, nil
	}

	span.SetAttributes(attribute.Bool("geo.estimated", focus != nil))
	if focus == nil {
		g.logger.Infof("Address could not be resolved: %q", text)
		return nil, nil
	}

	g.logger.Infof("Address %q not found, using focus point estimate", text)
	return &models.GeocodeResult{
		Lat:       focus.Lat,
		Lng:       focus.Lng,
		Label:     EstimatedLabel,
		Estimated: true,
	}, nil
}
