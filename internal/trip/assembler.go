package trip

import (
	"context"
	"fmt"

	"github.com/jvilanova/biciruta/internal/bikes"
	"github.com/jvilanova/biciruta/internal/geo"
	"github.com/jvilanova/biciruta/internal/routing"
)

// WalkThresholdMeters is the geodesic distance below which a trip is walked
// directly instead of routed through stations.
const WalkThresholdMeters = 500

// StationFinder locates the nearest qualifying station to a target.
type StationFinder interface {
	Nearest(ctx context.Context, target geo.Coordinate, minQuantity int, criterion bikes.Criterion) (bikes.StationWithDistance, bool)
}

// Router fetches a routed leg between two coordinates.
type Router interface {
	Route(ctx context.Context, start, end geo.Coordinate, profile routing.Profile) (routing.Leg, error)
}

// Assembler composes trips from station searches and route requests. It is a
// pure composition over its dependencies: identical inputs against an
// unchanged station snapshot produce a structurally identical trip.
type Assembler struct {
	stations      StationFinder
	router        Router
	co2GramsPerKm float64
}

// NewAssembler creates a trip assembler. co2GramsPerKm is the displaced-car
// emission factor used for bike legs.
func NewAssembler(stations StationFinder, router Router, co2GramsPerKm float64) *Assembler {
	return &Assembler{
		stations:      stations,
		router:        router,
		co2GramsPerKm: co2GramsPerKm,
	}
}

// Assemble plans a trip from start to end. Destinations under the walk
// threshold get a direct walking trip; everything else gets a three-leg
// bike-assisted trip through the nearest stations with minBikes bikes at the
// origin side and minDocks free docks at the destination side.
func (a *Assembler) Assemble(ctx context.Context, start, end geo.Coordinate, minBikes, minDocks int) (Trip, error) {
	if geo.Haversine(start, end) < WalkThresholdMeters {
		walk, err := a.router.Route(ctx, start, end, routing.Foot)
		if err != nil {
			return nil, fmt.Errorf("direct walk: %w", ErrRouteUnavailable)
		}
		return &DirectWalk{Walk: walk}, nil
	}

	origin, ok := a.stations.Nearest(ctx, start, minBikes, bikes.BikesAvailable)
	if !ok {
		return nil, &NoStationError{Role: RoleOrigin, MinQuantity: minBikes}
	}

	dest, ok := a.stations.Nearest(ctx, end, minDocks, bikes.DocksFree)
	if !ok {
		return nil, &NoStationError{Role: RoleDestination, MinQuantity: minDocks}
	}

	// All three legs must resolve; partial results are discarded.
	walkIn, err := a.router.Route(ctx, start, origin.Coordinate, routing.Foot)
	if err != nil {
		return nil, fmt.Errorf("walk to origin station: %w", ErrRouteUnavailable)
	}

	ride, err := a.router.Route(ctx, origin.Coordinate, dest.Coordinate, routing.Bike)
	if err != nil {
		return nil, fmt.Errorf("bike leg: %w", ErrRouteUnavailable)
	}

	walkOut, err := a.router.Route(ctx, dest.Coordinate, end, routing.Foot)
	if err != nil {
		return nil, fmt.Errorf("walk to destination: %w", ErrRouteUnavailable)
	}

	return &BikeAssisted{
		WalkToOrigin:       walkIn,
		OriginStation:      origin,
		Bike:               ride,
		DestinationStation: dest,
		WalkToDestination:  walkOut,
		CO2AvoidedKg:       CO2AvoidedKg(ride.DistanceKm, a.co2GramsPerKm),
	}, nil
}
