// Package geocode resolves street addresses to coordinates through the
// OpenCage API, biased toward the city the planner serves.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.opencagedata.com/geocode/v1/json"

// Bounding box around Valencia used to bias geocoding results
// (min lon, min lat, max lon, max lat).
const valenciaBounds = "-0.53,39.35,-0.25,39.60"

// ErrNotFound means the address could not be resolved at all.
var ErrNotFound = errors.New("geocode: address not found")

// Result is a resolved address. Relaxed is set when no candidate fell inside
// the city and the top-ranked result was accepted as a fallback.
type Result struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Relaxed bool    `json:"relaxed,omitempty"`
}

// Service is an OpenCage geocoding client.
type Service struct {
	apiKey  string
	baseURL string
	bounds  string
	city    string
	client  *http.Client
}

// New creates a geocoding service for Valencia.
func New(apiKey string, timeout time.Duration) *Service {
	return &Service{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		bounds:  valenciaBounds,
		city:    "valencia",
		client:  &http.Client{Timeout: timeout},
	}
}

// NewWithBaseURL is used by tests to point the service at a fake API.
func NewWithBaseURL(apiKey, baseURL string, timeout time.Duration) *Service {
	s := New(apiKey, timeout)
	s.baseURL = baseURL
	return s
}

type opencageResponse struct {
	Results []struct {
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
		Components struct {
			City         string `json:"city"`
			Town         string `json:"town"`
			Municipality string `json:"municipality"`
		} `json:"components"`
	} `json:"results"`
}

// Geocode resolves address to a coordinate. Results inside the city bounds
// whose locality matches the city win; otherwise the best-ranked candidate is
// returned with Relaxed set.
func (s *Service) Geocode(ctx context.Context, address string) (Result, error) {
	if strings.TrimSpace(address) == "" {
		return Result{}, ErrNotFound
	}

	params := url.Values{}
	params.Set("q", address)
	params.Set("key", s.apiKey)
	params.Set("bounds", s.bounds)
	params.Set("limit", "5")
	params.Set("countrycode", "es")
	params.Set("no_annotations", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("building geocode request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("geocoding %q: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var body opencageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("parsing geocode response: %w", err)
	}

	if len(body.Results) == 0 {
		return Result{}, ErrNotFound
	}

	for _, r := range body.Results {
		locality := r.Components.City
		if locality == "" {
			locality = r.Components.Town
		}
		if locality == "" {
			locality = r.Components.Municipality
		}
		if strings.Contains(strings.ToLower(locality), s.city) {
			return Result{Lat: r.Geometry.Lat, Lon: r.Geometry.Lng}, nil
		}
	}

	// No candidate confirmed inside the city; accept the top-ranked result.
	top := body.Results[0]
	return Result{Lat: top.Geometry.Lat, Lon: top.Geometry.Lng, Relaxed: true}, nil
}
