// Package geo provides HTTP adapters for the external geocoding and distance
// matrix services, plus a cache-fronted geocoder decorator.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const defaultTimeout = 10 * time.Second

var (
	ErrBaseURLIsRequired = errors.New("base URL is required")
	ErrAPIKeyIsRequired  = errors.New("API key is required")
)

// geocodeResponse mirrors the provider's JSON wire format.
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Latitude  float64 `json:"lat"`
		Longitude float64 `json:"lng"`
	} `json:"results"`
}

// HTTPGeocodeProvider resolves addresses against the external geocoding
// service. Provider failures map onto the shared error taxonomy: zero results
// become ObjectNotFoundError, a non-OK provider status becomes ProviderError,
// transport failures and timeouts become UnavailableError.
//
// The provider is safe for concurrent use.
type HTTPGeocodeProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPGeocodeProvider creates a geocoding client for the given endpoint.
// A zero timeout falls back to the default of 10 seconds.
func NewHTTPGeocodeProvider(baseURL, apiKey string, timeout time.Duration) (*HTTPGeocodeProvider, error) {
	if baseURL == "" {
		return nil, ErrBaseURLIsRequired
	}
	if apiKey == "" {
		return nil, ErrAPIKeyIsRequired
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &HTTPGeocodeProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

// Geocode resolves a free-text address to a coordinate pair.
func (p *HTTPGeocodeProvider) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	if address == "" {
		return kernel.GeoPoint{}, errs.NewValueIsRequiredError("address")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/geocode", nil)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("create geocode request: %w", err)
	}

	q := req.URL.Query()
	q.Set("address", address)
	q.Set("key", p.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := p.client.Do(req)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewUnavailableErrorWithCause("geocoding", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return kernel.GeoPoint{}, errs.NewProviderError("geocoding", fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return kernel.GeoPoint{}, errs.NewProviderErrorWithCause("geocoding", "malformed response", err)
	}

	switch {
	case decoded.Status == "ZERO_RESULTS" || (decoded.Status == "OK" && len(decoded.Results) == 0):
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("address", address)
	case decoded.Status != "OK":
		return kernel.GeoPoint{}, errs.NewProviderError("geocoding", decoded.Status)
	}

	point, err := kernel.NewGeoPoint(decoded.Results[0].Latitude, decoded.Results[0].Longitude)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewProviderErrorWithCause("geocoding", "coordinates out of range", err)
	}

	return point, nil
}
