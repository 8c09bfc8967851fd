package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/wayfarer-app/wayfarer/internal/observability/metrics"
	"github.com/wayfarer-app/wayfarer/pkg/models"
	"github.com/wayfarer-app/wayfarer/internal/pkg/config"
)

// UpstreamError carries the upstream failure detail, surfaced verbatim to
// the client with a 502.
type UpstreamError struct {
	Detail string
}

func (e *UpstreamError) Error() string {
	return e.Detail
}

type Service interface {
	Search(ctx context.Context, query string) ([]models.PlaceCandidate, error)
}

type ServiceImpl struct {
	logger *zap.Logger
	cfg    config.MapboxConfig
	client *http.Client
	cache  *gocache.Cache
}

func NewService(cfg *config.Config, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		cfg:    cfg.Mapbox,
		client: &http.Client{Timeout: cfg.Mapbox.Timeout},
		cache:  gocache.New(cfg.PlacesCacheTTL, 2*cfg.PlacesCacheTTL),
	}
}

// mapboxResponse is the slice of the upstream geocoding payload we consume.
// Unknown fields are ignored.
type mapboxResponse struct {
	Features []struct {
		ID        string    `json:"id"`
		PlaceName string    `json:"place_name"`
		Text      string    `json:"text"`
		Center    []float64 `json:"center"`
	} `json:"features"`
}

// Search forward-geocodes a free-text query. Identical queries within the
// cache TTL are answered from memory so typing bursts across clients do not
// hammer the upstream.
func (s *ServiceImpl) Search(ctx context.Context, query string) ([]models.PlaceCandidate, error) {
	ctx, span := otel.Tracer("GeocodeService").Start(ctx, "Search")
	defer span.End()

	metrics.Get().PlaceSearchesTotal.Add(ctx, 1)

	cacheKey := strings.ToLower(strings.TrimSpace(query))
	if cached, found := s.cache.Get(cacheKey); found {
		metrics.Get().PlaceSearchCacheHits.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		span.SetStatus(codes.Ok, "Served from cache")
		return cached.([]models.PlaceCandidate), nil
	}

	if s.cfg.AccessToken == "" {
		return nil, fmt.Errorf("mapbox access token is not configured on the server")
	}

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json",
		s.cfg.BaseURL, url.PathEscape(query))

	params := url.Values{}
	params.Set("access_token", s.cfg.AccessToken)
	params.Set("autocomplete", "true")
	params.Set("types", "place,region,locality,neighborhood,postcode")
	params.Set("limit", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("Upstream geocoding request failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upstream request failed")
		return nil, &UpstreamError{Detail: fmt.Sprintf("Failed to fetch places from Mapbox: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Detail: fmt.Sprintf("Failed to read Mapbox response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("Upstream geocoding returned non-2xx",
			zap.Int("status", resp.StatusCode))
		span.SetStatus(codes.Error, "Upstream non-2xx")
		return nil, &UpstreamError{Detail: fmt.Sprintf("Failed to fetch places from Mapbox: status %d", resp.StatusCode)}
	}

	var upstream mapboxResponse
	if err := json.Unmarshal(body, &upstream); err != nil {
		return nil, &UpstreamError{Detail: fmt.Sprintf("Failed to decode Mapbox response: %v", err)}
	}

	features := make([]models.PlaceCandidate, 0, len(upstream.Features))
	for _, f := range upstream.Features {
		// Features without a usable center are skipped rather than surfaced
		// with zeroed coordinates.
		if len(f.Center) != 2 {
			continue
		}
		features = append(features, models.PlaceCandidate{
			ID:        f.ID,
			PlaceName: f.PlaceName,
			Text:      f.Text,
			Latitude:  f.Center[1],
			Longitude: f.Center[0],
		})
	}

	s.cache.Set(cacheKey, features, gocache.DefaultExpiration)

	span.SetAttributes(attribute.Int("features.count", len(features)))
	span.SetStatus(codes.Ok, "Places resolved")
	return features, nil
}
