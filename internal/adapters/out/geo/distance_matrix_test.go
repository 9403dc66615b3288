package geo_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dispatch/internal/adapters/out/geo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPoint(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return point
}

func TestHTTPDistanceMatrixClient_Distances_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/distancematrix", r.URL.Path)
		assert.Equal(t, "55.751,37.617", r.URL.Query().Get("origins"))
		assert.Equal(t, "55.76,37.64|55.77,37.65", r.URL.Query().Get("destinations"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		_, _ = w.Write([]byte(`{
			"status": "OK",
			"rows": [{"elements": [
				{"status": "OK", "distance": {"value": 2500}, "duration": {"value": 420}},
				{"status": "OK", "distance": {"value": 4100.5}, "duration": {"value": 600}}
			]}]
		}`))
	}))
	defer server.Close()

	client, err := geo.NewHTTPDistanceMatrixClient(server.URL, "test-key", time.Second)
	require.NoError(t, err)

	results, err := client.Distances(t.Context(),
		testPoint(t, 55.751, 37.617),
		[]kernel.GeoPoint{testPoint(t, 55.76, 37.64), testPoint(t, 55.77, 37.65)},
	)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.InDelta(t, 2500, results[0].Distance, 1e-9)
	assert.Equal(t, 420*time.Second, results[0].Duration)
	assert.InDelta(t, 4100.5, results[1].Distance, 1e-9)
	assert.False(t, results[0].IsUnreachable())
}

func TestHTTPDistanceMatrixClient_Distances_UnreachableElement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"rows": [{"elements": [
				{"status": "OK", "distance": {"value": 1200}, "duration": {"value": 180}},
				{"status": "ZERO_RESULTS"}
			]}]
		}`))
	}))
	defer server.Close()

	client, err := geo.NewHTTPDistanceMatrixClient(server.URL, "test-key", time.Second)
	require.NoError(t, err)

	results, err := client.Distances(t.Context(),
		testPoint(t, 55.751, 37.617),
		[]kernel.GeoPoint{testPoint(t, 55.76, 37.64), testPoint(t, 55.77, 37.65)},
	)

	require.NoError(t, err, "a single unroutable destination should not fail the batch")
	require.Len(t, results, 2)
	assert.False(t, results[0].IsUnreachable())
	assert.True(t, results[1].IsUnreachable())
}

func TestHTTPDistanceMatrixClient_Distances_ElementCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"rows": [{"elements": [
				{"status": "OK", "distance": {"value": 1200}, "duration": {"value": 180}}
			]}]
		}`))
	}))
	defer server.Close()

	client, err := geo.NewHTTPDistanceMatrixClient(server.URL, "test-key", time.Second)
	require.NoError(t, err)

	_, err = client.Distances(t.Context(),
		testPoint(t, 55.751, 37.617),
		[]kernel.GeoPoint{testPoint(t, 55.76, 37.64), testPoint(t, 55.77, 37.65)},
	)

	var lookupErr *errs.DistanceLookupError
	require.ErrorAs(t, err, &lookupErr)
}

func TestHTTPDistanceMatrixClient_Distances_ProviderStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","rows":[]}`))
	}))
	defer server.Close()

	client, err := geo.NewHTTPDistanceMatrixClient(server.URL, "test-key", time.Second)
	require.NoError(t, err)

	_, err = client.Distances(t.Context(),
		testPoint(t, 55.751, 37.617),
		[]kernel.GeoPoint{testPoint(t, 55.76, 37.64)},
	)

	var lookupErr *errs.DistanceLookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestHTTPDistanceMatrixClient_Distances_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client, err := geo.NewHTTPDistanceMatrixClient(server.URL, "test-key", time.Second)
	require.NoError(t, err)

	_, err = client.Distances(t.Context(),
		testPoint(t, 55.751, 37.617),
		[]kernel.GeoPoint{testPoint(t, 55.76, 37.64)},
	)

	var lookupErr *errs.DistanceLookupError
	require.ErrorAs(t, err, &lookupErr)
}

func TestHTTPDistanceMatrixClient_Distances_NoDestinations(t *testing.T) {
	client, err := geo.NewHTTPDistanceMatrixClient("http://localhost", "test-key", time.Second)
	require.NoError(t, err)

	results, err := client.Distances(t.Context(), testPoint(t, 55.751, 37.617), nil)

	require.NoError(t, err)
	assert.Empty(t, results)
}
