// Package bikes provides the shared-bicycle station model, the live feed
// client, and nearest-station search under capacity constraints.
package bikes

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jvilanova/biciruta/internal/cache"
	"github.com/jvilanova/biciruta/internal/geo"
)

// Station is one shared-bicycle station from the live feed.
type Station struct {
	Number         int            `json:"number"`
	Name           string         `json:"name"`
	Address        string         `json:"address,omitempty"`
	Coordinate     geo.Coordinate `json:"coordinate"`
	BikesAvailable int            `json:"bikes_available"`
	DocksFree      int            `json:"docks_free"`
	CapacityTotal  int            `json:"capacity_total"`
	Status         string         `json:"status"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// IsOpen reports whether the station is operational. Non-open stations are
// excluded from every search.
func (s Station) IsOpen() bool {
	return strings.EqualFold(s.Status, "OPEN")
}

// Criterion selects which capacity figure a search filters on.
type Criterion int

const (
	// BikesAvailable matters when picking up a bike.
	BikesAvailable Criterion = iota
	// DocksFree matters when dropping one off.
	DocksFree
)

func (c Criterion) String() string {
	if c == DocksFree {
		return "docks_free"
	}
	return "bikes_available"
}

func (c Criterion) value(s Station) int {
	if c == DocksFree {
		return s.DocksFree
	}
	return s.BikesAvailable
}

// StationWithDistance pairs a station with its distance from a search target.
type StationWithDistance struct {
	Station
	DistanceMeters float64 `json:"distance_meters"`
}

// Nearest returns the open station closest to target that satisfies
// criterion >= minQuantity, or false when none qualifies. Equidistant
// candidates resolve to the first one in input order.
func Nearest(stations []Station, target geo.Coordinate, minQuantity int, criterion Criterion) (StationWithDistance, bool) {
	var best StationWithDistance
	found := false

	for _, s := range stations {
		if !s.IsOpen() || criterion.value(s) < minQuantity {
			continue
		}
		d := geo.Haversine(target, s.Coordinate)
		if !found || d < best.DistanceMeters {
			best = StationWithDistance{Station: s, DistanceMeters: d}
			found = true
		}
	}

	return best, found
}

// NearestN returns up to n qualifying stations ordered by distance from
// target. Ties keep input order.
func NearestN(stations []Station, target geo.Coordinate, minQuantity int, criterion Criterion, n int) []StationWithDistance {
	var candidates []StationWithDistance
	for _, s := range stations {
		if !s.IsOpen() || criterion.value(s) < minQuantity {
			continue
		}
		candidates = append(candidates, StationWithDistance{
			Station:        s,
			DistanceMeters: geo.Haversine(target, s.Coordinate),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DistanceMeters < candidates[j].DistanceMeters
	})

	if n > 0 && n < len(candidates) {
		candidates = candidates[:n]
	}
	return candidates
}

// Feed abstracts the station data source for testability.
type Feed interface {
	FetchStations(ctx context.Context) ([]Station, error)
}

// StationService caches the live station snapshot and answers nearest-station
// queries against it.
type StationService struct {
	feed  Feed
	cache *cache.Cache[[]Station]
}

// NewStationService creates a station service refreshing its snapshot from
// feed at most once per ttl.
func NewStationService(feed Feed, ttl time.Duration) *StationService {
	return &StationService{
		feed:  feed,
		cache: cache.New[[]Station](ttl),
	}
}

// Snapshot returns the current station set. A feed failure degrades to an
// empty set; station-dependent operations then report no qualifying station
// rather than an error.
func (s *StationService) Snapshot(ctx context.Context) []Station {
	if cached, ok := s.cache.Get("snapshot"); ok {
		return cached
	}

	stations, err := s.feed.FetchStations(ctx)
	if err != nil {
		slog.Warn("station feed unavailable, continuing with empty snapshot", "error", err)
		return nil
	}

	s.cache.Set("snapshot", stations)
	return stations
}

// Nearest finds the closest qualifying station to target in the current
// snapshot.
func (s *StationService) Nearest(ctx context.Context, target geo.Coordinate, minQuantity int, criterion Criterion) (StationWithDistance, bool) {
	return Nearest(s.Snapshot(ctx), target, minQuantity, criterion)
}

// NearestN finds up to n qualifying stations ordered by distance.
func (s *StationService) NearestN(ctx context.Context, target geo.Coordinate, minQuantity int, criterion Criterion, n int) []StationWithDistance {
	return NearestN(s.Snapshot(ctx), target, minQuantity, criterion, n)
}

// Close releases the snapshot cache.
func (s *StationService) Close() {
	s.cache.Close()
}
