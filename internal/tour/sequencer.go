// Package tour sequences a set of city stops into a visiting order and walks
// a planner through the resulting legs one at a time.
package tour

import (
	"errors"

	"github.com/jvilanova/biciruta/internal/geo"
)

// ErrTooFewStops is returned when a tour has fewer than two destinations
// beyond its start point. A single destination is a plain trip, not a tour.
var ErrTooFewStops = errors.New("tour: at least two destinations required")

// Stop is one point of a tour, either the fixed start or a destination.
type Stop struct {
	Name       string         `json:"name"`
	Coordinate geo.Coordinate `json:"coordinate"`
	IsStart    bool           `json:"is_start,omitempty"`
}

// OrderStops arranges destinations into a visiting order starting at start,
// using nearest-neighbor over geodesic distance. The start stop is always
// first and every destination appears exactly once. Ties go to the earlier
// destination in the input.
func OrderStops(start Stop, destinations []Stop) ([]Stop, error) {
	if len(destinations) < 2 {
		return nil, ErrTooFewStops
	}

	start.IsStart = true
	ordered := make([]Stop, 0, len(destinations)+1)
	ordered = append(ordered, start)

	remaining := make([]Stop, len(destinations))
	copy(remaining, destinations)
	current := start.Coordinate

	for len(remaining) > 0 {
		best := 0
		bestDist := geo.Haversine(current, remaining[0].Coordinate)
		for i := 1; i < len(remaining); i++ {
			if d := geo.Haversine(current, remaining[i].Coordinate); d < bestDist {
				best, bestDist = i, d
			}
		}
		next := remaining[best]
		next.IsStart = false
		ordered = append(ordered, next)
		current = next.Coordinate
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return ordered, nil
}

// TotalGeodesicKm sums the straight-line distances between consecutive stops.
// Useful for comparing candidate orderings; routed distances come later.
func TotalGeodesicKm(stops []Stop) float64 {
	var total float64
	for i := 1; i < len(stops); i++ {
		total += geo.HaversineKm(stops[i-1].Coordinate, stops[i].Coordinate)
	}
	return total
}
