package ports

import (
	"context"
	"errors"
	"math"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrCacheMiss is returned by CacheStore.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// GeocodeProvider resolves a free-text address against an external geocoding
// service. Implementations translate provider-specific failures into the
// shared error taxonomy: ObjectNotFoundError for zero results, ProviderError
// for a non-success provider status, UnavailableError for transport failures
// and timeouts.
type GeocodeProvider interface {
	Geocode(ctx context.Context, address string) (kernel.GeoPoint, error)
}

// Geocoder resolves addresses with caching in front of a GeocodeProvider.
// A hit never contacts the provider; a successful miss writes the result
// through before returning it.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (kernel.GeoPoint, error)
}

// DistanceResult carries the travel distance and duration from one origin to
// one destination. An unreachable destination is represented by the +Inf
// sentinel on both fields, not by an error: ranking logic treats "no route"
// as infinitely far rather than as a hard stop.
type DistanceResult struct {
	// Distance is the travel distance in meters.
	Distance float64
	// Duration is the travel time.
	Duration time.Duration
}

// Unreachable returns the sentinel result for a destination with no route.
func Unreachable() DistanceResult {
	return DistanceResult{
		Distance: math.Inf(1),
		Duration: time.Duration(math.MaxInt64),
	}
}

// IsUnreachable reports whether the result is the no-route sentinel.
func (r DistanceResult) IsUnreachable() bool {
	return math.IsInf(r.Distance, 1)
}

// DistanceMatrixClient returns pairwise travel distances from one origin to
// N destinations.
//
// The returned slice has the same length and order as destinations. Partial
// per-destination failures appear as Unreachable entries; a failure of the
// whole request (transport error, provider error, or a result-count mismatch)
// yields a DistanceLookupError instead.
type DistanceMatrixClient interface {
	Distances(ctx context.Context, origin kernel.GeoPoint, destinations []kernel.GeoPoint) ([]DistanceResult, error)
}

// CacheStore is a shared expiring key-value store. Values are opaque byte
// slices; callers own serialization. A Get miss returns ErrCacheMiss rather
// than a nil value.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
