package tour

import (
	"context"
	"errors"
	"sync"

	"github.com/jvilanova/biciruta/internal/geo"
	"github.com/jvilanova/biciruta/internal/trip"
)

// State is the navigator's lifecycle phase.
type State string

const (
	// Configuring means no tour has been planned yet, or the last one was
	// aborted.
	Configuring State = "configuring"
	// Previewing means stops are ordered and the tour is ready to begin.
	Previewing State = "previewing"
	// Navigating means the tour is underway; Advance moves to the next stop.
	Navigating State = "navigating"
	// Completed means every leg has been traveled.
	Completed State = "completed"
)

var (
	ErrNotPreviewing = errors.New("tour: no planned tour to begin")
	ErrNotNavigating = errors.New("tour: no tour in progress")
)

// TripPlanner assembles the trip for a single tour leg.
type TripPlanner interface {
	Assemble(ctx context.Context, start, end geo.Coordinate, minBikes, minDocks int) (trip.Trip, error)
}

// Stats accumulates over completed legs. Environmental and calorie figures
// count bike legs only; walking avoids no car trip.
type Stats struct {
	LegsCompleted    int     `json:"legs_completed"`
	BikeLegs         int     `json:"bike_legs"`
	TotalDistanceKm  float64 `json:"total_distance_km"`
	TotalDurationMin float64 `json:"total_duration_min"`
	BikeDistanceKm   float64 `json:"bike_distance_km"`
	CO2AvoidedKg     float64 `json:"co2_avoided_kg"`
	TreeDays         float64 `json:"tree_days"`
	Calories         float64 `json:"calories"`
}

// Progress is a point-in-time view of the tour.
type Progress struct {
	State     State  `json:"state"`
	Visited   []Stop `json:"visited"`
	Remaining []Stop `json:"remaining"`
	NextStop  *Stop  `json:"next_stop,omitempty"`
	Stats     Stats  `json:"stats"`
}

// Navigator drives a tour through its states. Safe for concurrent use.
type Navigator struct {
	mu      sync.Mutex
	planner TripPlanner

	state State
	stops []Stop
	// index of the stop we are currently at; the next leg runs from
	// stops[index] to stops[index+1].
	index int
	stats Stats
}

func NewNavigator(planner TripPlanner) *Navigator {
	return &Navigator{planner: planner, state: Configuring}
}

// Plan orders the destinations from start and moves to Previewing. Replaces
// any previous tour, including a completed one.
func (n *Navigator) Plan(start Stop, destinations []Stop) ([]Stop, error) {
	ordered, err := OrderStops(start, destinations)
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.stops = ordered
	n.index = 0
	n.stats = Stats{}
	n.state = Previewing
	return n.snapshotStops(), nil
}

// Begin starts navigation at the first stop.
func (n *Navigator) Begin() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state != Previewing {
		return ErrNotPreviewing
	}
	n.state = Navigating
	return nil
}

// Advance plans and commits the trip to the next stop. On success the
// navigator moves forward and folds the trip into the running stats; once the
// final stop is reached it transitions to Completed. On failure nothing
// changes and the same leg can be retried.
func (n *Navigator) Advance(ctx context.Context, minBikes, minDocks int) (trip.Trip, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state != Navigating {
		return nil, ErrNotNavigating
	}

	from := n.stops[n.index]
	to := n.stops[n.index+1]
	leg, err := n.planner.Assemble(ctx, from.Coordinate, to.Coordinate, minBikes, minDocks)
	if err != nil {
		return nil, err
	}

	n.index++
	n.fold(leg)
	if n.index == len(n.stops)-1 {
		n.state = Completed
	}
	return leg, nil
}

// Abort discards the tour and returns to Configuring. Stats are kept until
// the next Plan so a cut-short tour still reports what was ridden.
func (n *Navigator) Abort() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stops = nil
	n.index = 0
	n.state = Configuring
}

// Reset wipes the tour and its stats completely.
func (n *Navigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stops = nil
	n.index = 0
	n.stats = Stats{}
	n.state = Configuring
}

func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Stops returns the planned order, start first.
func (n *Navigator) Stops() []Stop {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshotStops()
}

// Progress reports visited and remaining stops plus accumulated stats. The
// stop we currently stand at counts as visited.
func (n *Navigator) Progress() Progress {
	n.mu.Lock()
	defer n.mu.Unlock()

	p := Progress{State: n.state, Stats: n.stats}
	if len(n.stops) == 0 {
		return p
	}

	upTo := n.index + 1
	p.Visited = append(p.Visited, n.stops[:upTo]...)
	p.Remaining = append(p.Remaining, n.stops[upTo:]...)
	if n.state == Navigating && upTo < len(n.stops) {
		next := n.stops[upTo]
		p.NextStop = &next
	}
	return p
}

func (n *Navigator) fold(t trip.Trip) {
	n.stats.LegsCompleted++
	n.stats.TotalDistanceKm += t.TotalDistanceKm()
	n.stats.TotalDurationMin += t.TotalDurationMin()

	ride, ok := t.(*trip.BikeAssisted)
	if !ok {
		return
	}
	n.stats.BikeLegs++
	n.stats.BikeDistanceKm += ride.Bike.DistanceKm
	n.stats.CO2AvoidedKg += ride.CO2AvoidedKg
	n.stats.TreeDays = trip.TreeDayEquivalent(n.stats.CO2AvoidedKg)
	n.stats.Calories += trip.CaloriesBurned(ride.Bike.DistanceKm, ride.Bike.DurationMin)
}

func (n *Navigator) snapshotStops() []Stop {
	out := make([]Stop, len(n.stops))
	copy(out, n.stops)
	return out
}
