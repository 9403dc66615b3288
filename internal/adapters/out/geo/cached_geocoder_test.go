package geo_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/adapters/out/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGeocodeProvider struct {
	mock.Mock
}

func (m *MockGeocodeProvider) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return kernel.GeoPoint{}, args.Error(1)
	}
	return args.Get(0).(kernel.GeoPoint), args.Error(1)
}

type MockCacheStore struct {
	mock.Mock
}

func (m *MockCacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func testGeocoder(t *testing.T, provider *MockGeocodeProvider, cache *MockCacheStore) *geo.CachedGeocoder {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	geocoder, err := geo.NewCachedGeocoder(provider, cache, time.Hour, logger)
	require.NoError(t, err)
	return geocoder
}

func TestNewCachedGeocoder_Validation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("requires provider", func(t *testing.T) {
		_, err := geo.NewCachedGeocoder(nil, new(MockCacheStore), time.Hour, logger)
		require.ErrorIs(t, err, geo.ErrProviderIsRequired)
	})

	t.Run("requires cache", func(t *testing.T) {
		_, err := geo.NewCachedGeocoder(new(MockGeocodeProvider), nil, time.Hour, logger)
		require.ErrorIs(t, err, geo.ErrCacheIsRequired)
	})

	t.Run("requires logger", func(t *testing.T) {
		_, err := geo.NewCachedGeocoder(new(MockGeocodeProvider), new(MockCacheStore), time.Hour, nil)
		require.ErrorIs(t, err, geo.ErrLoggerIsRequired)
	})
}

func TestCachedGeocoder_Resolve_HitSkipsProvider(t *testing.T) {
	ctx := t.Context()
	provider := new(MockGeocodeProvider)
	cache := new(MockCacheStore)

	cache.On("Get", ctx, "geocode:12 baker st").
		Return([]byte(`{"lat":55.751,"lng":37.617}`), nil).Once()

	geocoder := testGeocoder(t, provider, cache)
	point, err := geocoder.Resolve(ctx, "12 Baker St")

	require.NoError(t, err)
	assert.InDelta(t, 55.751, point.Lat(), 1e-9)
	assert.InDelta(t, 37.617, point.Lng(), 1e-9)
	provider.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestCachedGeocoder_Resolve_MissWritesThrough(t *testing.T) {
	ctx := t.Context()
	provider := new(MockGeocodeProvider)
	cache := new(MockCacheStore)

	resolved, err := kernel.NewGeoPoint(55.751, 37.617)
	require.NoError(t, err)

	cache.On("Get", ctx, "geocode:12 baker st").Return(nil, ports.ErrCacheMiss).Once()
	provider.On("Geocode", ctx, "12 baker st").Return(resolved, nil).Once()
	cache.On("Set", ctx, "geocode:12 baker st",
		[]byte(`{"lat":55.751,"lng":37.617}`), time.Hour).Return(nil).Once()

	geocoder := testGeocoder(t, provider, cache)
	point, err := geocoder.Resolve(ctx, "  12   Baker St ")

	require.NoError(t, err)
	assert.InDelta(t, resolved.Lat(), point.Lat(), 1e-9)
	assert.InDelta(t, resolved.Lng(), point.Lng(), 1e-9)
	provider.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCachedGeocoder_Resolve_SetFailureIsNotFatal(t *testing.T) {
	ctx := t.Context()
	provider := new(MockGeocodeProvider)
	cache := new(MockCacheStore)

	resolved, err := kernel.NewGeoPoint(55.751, 37.617)
	require.NoError(t, err)

	cache.On("Get", ctx, mock.Anything).Return(nil, ports.ErrCacheMiss).Once()
	provider.On("Geocode", ctx, mock.Anything).Return(resolved, nil).Once()
	cache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("redis down")).Once()

	geocoder := testGeocoder(t, provider, cache)
	point, err := geocoder.Resolve(ctx, "12 Baker St")

	require.NoError(t, err, "a degraded cache must not block resolution")
	assert.InDelta(t, resolved.Lat(), point.Lat(), 1e-9)
	assert.InDelta(t, resolved.Lng(), point.Lng(), 1e-9)
}

func TestCachedGeocoder_Resolve_CorruptEntryFallsBack(t *testing.T) {
	ctx := t.Context()
	provider := new(MockGeocodeProvider)
	cache := new(MockCacheStore)

	resolved, err := kernel.NewGeoPoint(55.751, 37.617)
	require.NoError(t, err)

	cache.On("Get", ctx, mock.Anything).Return([]byte(`not json`), nil).Once()
	provider.On("Geocode", ctx, mock.Anything).Return(resolved, nil).Once()
	cache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	geocoder := testGeocoder(t, provider, cache)
	point, err := geocoder.Resolve(ctx, "12 Baker St")

	require.NoError(t, err)
	assert.InDelta(t, resolved.Lat(), point.Lat(), 1e-9)
	assert.InDelta(t, resolved.Lng(), point.Lng(), 1e-9)
	provider.AssertExpectations(t)
}

func TestCachedGeocoder_Resolve_ProviderErrorPropagates(t *testing.T) {
	ctx := t.Context()
	provider := new(MockGeocodeProvider)
	cache := new(MockCacheStore)

	cache.On("Get", ctx, mock.Anything).Return(nil, ports.ErrCacheMiss).Once()
	provider.On("Geocode", ctx, mock.Anything).
		Return(nil, errs.NewObjectNotFoundError("address", "nowhere")).Once()

	geocoder := testGeocoder(t, provider, cache)
	_, err := geocoder.Resolve(ctx, "nowhere")

	var notFoundErr *errs.ObjectNotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedGeocoder_Resolve_EmptyAddress(t *testing.T) {
	geocoder := testGeocoder(t, new(MockGeocodeProvider), new(MockCacheStore))

	_, err := geocoder.Resolve(t.Context(), "   ")

	var requiredErr *errs.ValueIsRequiredError
	require.ErrorAs(t, err, &requiredErr)
}
