// Package trip composes walking and cycling legs into a full trip between an
// origin and a destination, and derives the trip's environmental and effort
// metrics.
package trip

import (
	"github.com/jvilanova/biciruta/internal/bikes"
	"github.com/jvilanova/biciruta/internal/routing"
)

// Kind tags the two trip shapes.
type Kind string

const (
	KindDirectWalk   Kind = "direct_walk"
	KindBikeAssisted Kind = "bike_assisted"
)

// Trip is either a DirectWalk or a BikeAssisted trip. The choice is made
// once at assembly time and never changes.
type Trip interface {
	TripKind() Kind
	// Legs returns the trip's legs in travel order.
	Legs() []routing.Leg
	TotalDistanceKm() float64
	TotalDurationMin() float64
}

// DirectWalk is a single walking leg, chosen when origin and destination are
// within walking distance of each other.
type DirectWalk struct {
	Walk routing.Leg `json:"walk"`
}

func (t *DirectWalk) TripKind() Kind          { return KindDirectWalk }
func (t *DirectWalk) Legs() []routing.Leg     { return []routing.Leg{t.Walk} }
func (t *DirectWalk) TotalDistanceKm() float64 { return t.Walk.DistanceKm }
func (t *DirectWalk) TotalDurationMin() float64 { return t.Walk.DurationMin }

// BikeAssisted chains a walk to a pickup station, a ride between stations,
// and a walk from the drop-off station to the destination.
type BikeAssisted struct {
	WalkToOrigin       routing.Leg               `json:"walk_to_origin"`
	OriginStation      bikes.StationWithDistance `json:"origin_station"`
	Bike               routing.Leg               `json:"bike"`
	DestinationStation bikes.StationWithDistance `json:"destination_station"`
	WalkToDestination  routing.Leg               `json:"walk_to_destination"`
	CO2AvoidedKg       float64                   `json:"co2_avoided_kg"`
}

func (t *BikeAssisted) TripKind() Kind { return KindBikeAssisted }

func (t *BikeAssisted) Legs() []routing.Leg {
	return []routing.Leg{t.WalkToOrigin, t.Bike, t.WalkToDestination}
}

func (t *BikeAssisted) TotalDistanceKm() float64 {
	return t.WalkToOrigin.DistanceKm + t.Bike.DistanceKm + t.WalkToDestination.DistanceKm
}

func (t *BikeAssisted) TotalDurationMin() float64 {
	return t.WalkToOrigin.DurationMin + t.Bike.DurationMin + t.WalkToDestination.DurationMin
}
