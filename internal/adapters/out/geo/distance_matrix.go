package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// matrixResponse mirrors the provider's JSON wire format: one row per origin,
// one element per destination.
type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value float64 `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// HTTPDistanceMatrixClient fetches travel distances from one origin to many
// destinations in a single call. Any failure of the call as a whole surfaces
// as DistanceLookupError; a destination the provider cannot route to comes
// back as the Unreachable sentinel instead of failing the batch.
//
// The client is safe for concurrent use.
type HTTPDistanceMatrixClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPDistanceMatrixClient creates a distance matrix client for the given
// endpoint. A zero timeout falls back to the default of 10 seconds.
func NewHTTPDistanceMatrixClient(baseURL, apiKey string, timeout time.Duration) (*HTTPDistanceMatrixClient, error) {
	if baseURL == "" {
		return nil, ErrBaseURLIsRequired
	}
	if apiKey == "" {
		return nil, ErrAPIKeyIsRequired
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &HTTPDistanceMatrixClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

// Distances returns one result per destination, in destination order.
func (c *HTTPDistanceMatrixClient) Distances(
	ctx context.Context,
	origin kernel.GeoPoint,
	destinations []kernel.GeoPoint,
) ([]ports.DistanceResult, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if len(destinations) == 0 {
		return []ports.DistanceResult{}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/distancematrix", nil)
	if err != nil {
		return nil, fmt.Errorf("create distance matrix request: %w", err)
	}

	q := req.URL.Query()
	q.Set("origins", formatPoint(origin))
	q.Set("destinations", formatPoints(destinations))
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errs.NewDistanceLookupErrorWithCause("distance matrix request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewDistanceLookupError(fmt.Sprintf("distance matrix HTTP %d", resp.StatusCode))
	}

	var decoded matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errs.NewDistanceLookupErrorWithCause("malformed distance matrix response", err)
	}

	if decoded.Status != "OK" {
		return nil, errs.NewDistanceLookupError("distance matrix status " + decoded.Status)
	}
	if len(decoded.Rows) != 1 {
		return nil, errs.NewDistanceLookupError(
			fmt.Sprintf("expected 1 row, got %d", len(decoded.Rows)))
	}

	elements := decoded.Rows[0].Elements
	if len(elements) != len(destinations) {
		return nil, errs.NewDistanceLookupError(
			fmt.Sprintf("expected %d elements, got %d", len(destinations), len(elements)))
	}

	results := make([]ports.DistanceResult, 0, len(elements))
	for _, element := range elements {
		if element.Status != "OK" {
			results = append(results, ports.Unreachable())
			continue
		}
		results = append(results, ports.DistanceResult{
			Distance: element.Distance.Value,
			Duration: time.Duration(element.Duration.Value * float64(time.Second)),
		})
	}

	return results, nil
}

func formatPoint(point kernel.GeoPoint) string {
	return strconv.FormatFloat(point.Lat(), 'f', -1, 64) +
		"," + strconv.FormatFloat(point.Lng(), 'f', -1, 64)
}

func formatPoints(points []kernel.GeoPoint) string {
	formatted := make([]string, 0, len(points))
	for _, p := range points {
		formatted = append(formatted, formatPoint(p))
	}
	return strings.Join(formatted, "|")
}
