package trip

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvilanova/biciruta/internal/bikes"
	"github.com/jvilanova/biciruta/internal/geo"
	"github.com/jvilanova/biciruta/internal/routing"
)

var (
	// Plaza del Ayuntamiento to the Estación del Norte, roughly 400 m.
	shortStart = geo.Coordinate{Lat: 39.4699, Lon: -0.3763}
	shortEnd   = geo.Coordinate{Lat: 39.4668, Lon: -0.3770}

	// Plaza del Ayuntamiento to the Ciudad de las Artes, well past the
	// walking threshold.
	longEnd = geo.Coordinate{Lat: 39.4561, Lon: -0.3545}
)

type stubStations struct {
	byCriterion map[bikes.Criterion]bikes.StationWithDistance
	missing     map[bikes.Criterion]bool
}

func (s *stubStations) Nearest(ctx context.Context, target geo.Coordinate, minQuantity int, c bikes.Criterion) (bikes.StationWithDistance, bool) {
	if s.missing[c] {
		return bikes.StationWithDistance{}, false
	}
	return s.byCriterion[c], true
}

type stubRouter struct {
	failProfile routing.Profile
	failAfter   int
	calls       int
}

func (r *stubRouter) Route(ctx context.Context, start, end geo.Coordinate, profile routing.Profile) (routing.Leg, error) {
	r.calls++
	if r.failProfile == profile && r.calls > r.failAfter {
		return routing.Leg{}, routing.ErrUnavailable
	}
	speedKmh := 5.0
	if profile == routing.Bike {
		speedKmh = 15.0
	}
	distKm := geo.HaversineKm(start, end) * 1.2 // street factor
	return routing.Leg{
		Mode:        profile,
		DistanceKm:  distKm,
		DurationMin: distKm / speedKmh * 60,
	}, nil
}

func testAssembler(stations *stubStations, router *stubRouter) *Assembler {
	if stations == nil {
		stations = &stubStations{
			byCriterion: map[bikes.Criterion]bikes.StationWithDistance{
				bikes.BikesAvailable: {
					Station: bikes.Station{
						Number: 10, Name: "Ayuntamiento", Status: "OPEN",
						Coordinate:     geo.Coordinate{Lat: 39.4691, Lon: -0.3777},
						BikesAvailable: 5, DocksFree: 5,
					},
					DistanceMeters: 130,
				},
				bikes.DocksFree: {
					Station: bikes.Station{
						Number: 88, Name: "Ciutat de les Arts", Status: "OPEN",
						Coordinate:     geo.Coordinate{Lat: 39.4575, Lon: -0.3560},
						BikesAvailable: 2, DocksFree: 9,
					},
					DistanceMeters: 200,
				},
			},
			missing: map[bikes.Criterion]bool{},
		}
	}
	if router == nil {
		router = &stubRouter{failProfile: routing.Profile("none")}
	}
	return NewAssembler(stations, router, 135)
}

func TestAssembleDirectWalkBelowThreshold(t *testing.T) {
	a := testAssembler(nil, nil)

	got, err := a.Assemble(context.Background(), shortStart, shortEnd, 1, 1)
	require.NoError(t, err)

	walk, ok := got.(*DirectWalk)
	require.True(t, ok, "expected a direct walk, got %T", got)
	assert.Equal(t, KindDirectWalk, walk.TripKind())
	require.Len(t, walk.Legs(), 1)
	assert.Equal(t, routing.Foot, walk.Legs()[0].Mode)
}

func TestAssembleBikeAssistedAboveThreshold(t *testing.T) {
	a := testAssembler(nil, nil)

	got, err := a.Assemble(context.Background(), shortStart, longEnd, 1, 1)
	require.NoError(t, err)

	ride, ok := got.(*BikeAssisted)
	require.True(t, ok, "expected a bike-assisted trip, got %T", got)
	assert.Equal(t, KindBikeAssisted, ride.TripKind())
	assert.Equal(t, "Ayuntamiento", ride.OriginStation.Name)
	assert.Equal(t, "Ciutat de les Arts", ride.DestinationStation.Name)

	legs := ride.Legs()
	require.Len(t, legs, 3)
	assert.Equal(t, routing.Foot, legs[0].Mode)
	assert.Equal(t, routing.Bike, legs[1].Mode)
	assert.Equal(t, routing.Foot, legs[2].Mode)

	assert.InDelta(t, legs[0].DistanceKm+legs[1].DistanceKm+legs[2].DistanceKm, ride.TotalDistanceKm(), 1e-9)
	assert.InDelta(t, CO2AvoidedKg(ride.Bike.DistanceKm, 135), ride.CO2AvoidedKg, 1e-9)
	assert.Greater(t, ride.CO2AvoidedKg, 0.0)
}

func TestAssembleIsDeterministic(t *testing.T) {
	a := testAssembler(nil, nil)

	first, err := a.Assemble(context.Background(), shortStart, longEnd, 1, 1)
	require.NoError(t, err)
	second, err := a.Assemble(context.Background(), shortStart, longEnd, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("%+v", first), fmt.Sprintf("%+v", second))
}

func TestAssembleNoOriginStation(t *testing.T) {
	stations := &stubStations{missing: map[bikes.Criterion]bool{bikes.BikesAvailable: true}}
	a := testAssembler(stations, nil)

	_, err := a.Assemble(context.Background(), shortStart, longEnd, 3, 1)
	var nse *NoStationError
	require.ErrorAs(t, err, &nse)
	assert.Equal(t, RoleOrigin, nse.Role)
	assert.Equal(t, 3, nse.MinQuantity)
	assert.Contains(t, nse.Error(), "bikes available")
}

func TestAssembleNoDestinationStation(t *testing.T) {
	stations := testAssembler(nil, nil).stations.(*stubStations)
	stations.missing[bikes.DocksFree] = true
	a := testAssembler(stations, nil)

	_, err := a.Assemble(context.Background(), shortStart, longEnd, 1, 2)
	var nse *NoStationError
	require.ErrorAs(t, err, &nse)
	assert.Equal(t, RoleDestination, nse.Role)
	assert.Contains(t, nse.Error(), "free docks")
}

func TestAssembleAllOrNothingOnRouteFailure(t *testing.T) {
	// First foot leg succeeds, the bike leg fails: no partial trip comes back.
	router := &stubRouter{failProfile: routing.Bike}
	a := testAssembler(nil, router)

	got, err := a.Assemble(context.Background(), shortStart, longEnd, 1, 1)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrRouteUnavailable)
}

func TestAssembleDirectWalkRouteFailure(t *testing.T) {
	router := &stubRouter{failProfile: routing.Foot}
	a := testAssembler(nil, router)

	_, err := a.Assemble(context.Background(), shortStart, shortEnd, 1, 1)
	assert.ErrorIs(t, err, ErrRouteUnavailable)
}

func TestRouteErrorsAreNotStationErrors(t *testing.T) {
	router := &stubRouter{failProfile: routing.Foot}
	a := testAssembler(nil, router)

	_, err := a.Assemble(context.Background(), shortStart, longEnd, 1, 1)
	require.Error(t, err)
	var nse *NoStationError
	assert.False(t, errors.As(err, &nse))
	assert.ErrorIs(t, err, ErrRouteUnavailable)
}
