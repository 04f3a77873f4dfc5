// Package routing wraps the OSRM public router. The core consumes it as a
// function from two coordinates and a profile to a Leg; the path geometry is
// carried through opaquely for the presentation layer.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jvilanova/biciruta/internal/cache"
	"github.com/jvilanova/biciruta/internal/geo"
)

const defaultBaseURL = "http://router.project-osrm.org/route/v1"

// Profile selects the routing mode.
type Profile string

const (
	Foot Profile = "foot"
	Bike Profile = "bike"
)

// ErrUnavailable means the router failed or returned no path. Callers treat
// every routing failure mode the same way.
var ErrUnavailable = errors.New("routing: route unavailable")

// Leg is one segment of a trip as returned by the router. Geometry is an
// opaque GeoJSON blob passed through to the presentation layer untouched.
type Leg struct {
	Mode        Profile         `json:"mode"`
	Geometry    json.RawMessage `json:"geometry,omitempty"`
	DistanceKm  float64         `json:"distance_km"`
	DurationMin float64         `json:"duration_min"`
}

// OSRMClient requests routes from an OSRM instance, caching successful legs
// briefly to avoid re-requesting identical segments while a user iterates on
// a plan.
type OSRMClient struct {
	baseURL string
	client  *http.Client
	legs    *cache.Cache[Leg]
}

// NewOSRMClient creates a client against the public OSRM router.
func NewOSRMClient(timeout, cacheTTL time.Duration) *OSRMClient {
	return &OSRMClient{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
		legs:    cache.New[Leg](cacheTTL),
	}
}

// NewOSRMClientWithBaseURL is used by tests to point the client at a fake
// router.
func NewOSRMClientWithBaseURL(baseURL string, timeout, cacheTTL time.Duration) *OSRMClient {
	c := NewOSRMClient(timeout, cacheTTL)
	c.baseURL = baseURL
	return c
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry json.RawMessage `json:"geometry"`
		Distance float64         `json:"distance"` // meters
		Duration float64         `json:"duration"` // seconds
	} `json:"routes"`
}

// Route requests a route from start to end for the given profile. All
// failure modes wrap ErrUnavailable.
func (c *OSRMClient) Route(ctx context.Context, start, end geo.Coordinate, profile Profile) (Leg, error) {
	key := fmt.Sprintf("%s|%.6f,%.6f|%.6f,%.6f", profile, start.Lat, start.Lon, end.Lat, end.Lon)
	if leg, ok := c.legs.Get(key); ok {
		return leg, nil
	}

	// OSRM takes lon,lat pairs.
	url := fmt.Sprintf("%s/%s/%f,%f;%f,%f?overview=full&geometries=geojson&alternatives=false&steps=false",
		c.baseURL, profile, start.Lon, start.Lat, end.Lon, end.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Leg{}, fmt.Errorf("building route request: %w", ErrUnavailable)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Leg{}, fmt.Errorf("requesting %s route: %v: %w", profile, err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Leg{}, fmt.Errorf("router returned status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Leg{}, fmt.Errorf("parsing route response: %v: %w", err, ErrUnavailable)
	}

	if body.Code != "Ok" || len(body.Routes) == 0 {
		return Leg{}, fmt.Errorf("router answered %q: %w", body.Code, ErrUnavailable)
	}

	route := body.Routes[0]
	leg := Leg{
		Mode:        profile,
		Geometry:    route.Geometry,
		DistanceKm:  route.Distance / 1000,
		DurationMin: route.Duration / 60,
	}

	c.legs.Set(key, leg)
	return leg, nil
}

// Close releases the leg cache.
func (c *OSRMClient) Close() {
	c.legs.Close()
}
