package geo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// DefaultGeocodeTTL bounds how long a resolved address stays valid in the cache.
const DefaultGeocodeTTL = 24 * time.Hour

var (
	ErrProviderIsRequired = errors.New("geocode provider is required")
	ErrCacheIsRequired    = errors.New("cache store is required")
	ErrLoggerIsRequired   = errors.New("logger is required")
)

// cachedPoint is the JSON document stored per resolved address.
type cachedPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// CachedGeocoder fronts a GeocodeProvider with an expiring cache. A hit never
// contacts the provider; a successful miss writes the result through before
// returning it. A failed cache write is logged and the resolved point is still
// returned, since a degraded cache must not block assignments.
type CachedGeocoder struct {
	provider ports.GeocodeProvider
	cache    ports.CacheStore
	ttl      time.Duration
	logger   *slog.Logger
}

// NewCachedGeocoder creates a cache-fronted geocoder.
// A non-positive TTL falls back to DefaultGeocodeTTL.
func NewCachedGeocoder(
	provider ports.GeocodeProvider,
	cache ports.CacheStore,
	ttl time.Duration,
	logger *slog.Logger,
) (*CachedGeocoder, error) {
	if provider == nil {
		return nil, ErrProviderIsRequired
	}
	if cache == nil {
		return nil, ErrCacheIsRequired
	}
	if logger == nil {
		return nil, ErrLoggerIsRequired
	}
	if ttl <= 0 {
		ttl = DefaultGeocodeTTL
	}

	return &CachedGeocoder{
		provider: provider,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}, nil
}

// Resolve returns the coordinates for an address, consulting the cache first.
func (g *CachedGeocoder) Resolve(ctx context.Context, address string) (kernel.GeoPoint, error) {
	normalized := normalizeAddress(address)
	if normalized == "" {
		return kernel.GeoPoint{}, errs.NewValueIsRequiredError("address")
	}

	key := cacheKey(normalized)

	if cached, err := g.cache.Get(ctx, key); err == nil {
		point, decodeErr := decodePoint(cached)
		if decodeErr == nil {
			return point, nil
		}
		// Corrupt entry: fall through to the provider and overwrite it
		g.logger.Warn("discarding corrupt geocode cache entry",
			slog.String("key", key), slog.Any("error", decodeErr))
	} else if !errors.Is(err, ports.ErrCacheMiss) {
		g.logger.Warn("geocode cache read failed",
			slog.String("key", key), slog.Any("error", err))
	}

	point, err := g.provider.Geocode(ctx, normalized)
	if err != nil {
		return kernel.GeoPoint{}, err
	}

	encoded, err := json.Marshal(cachedPoint{Latitude: point.Lat(), Longitude: point.Lng()})
	if err != nil {
		return kernel.GeoPoint{}, err
	}
	if err := g.cache.Set(ctx, key, encoded, g.ttl); err != nil {
		g.logger.Warn("geocode cache write failed",
			slog.String("key", key), slog.Any("error", err))
	}

	return point, nil
}

// normalizeAddress produces a consistent cache key by lowercasing and
// collapsing whitespace.
func normalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func cacheKey(normalized string) string {
	return "geocode:" + normalized
}

func decodePoint(raw []byte) (kernel.GeoPoint, error) {
	var cached cachedPoint
	if err := json.Unmarshal(raw, &cached); err != nil {
		return kernel.GeoPoint{}, err
	}
	return kernel.NewGeoPoint(cached.Latitude, cached.Longitude)
}
