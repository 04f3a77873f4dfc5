package bikes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvilanova/biciruta/internal/geo"
)

// Target near the Plaza del Ayuntamiento, with three open stations at
// roughly 500 m, 120 m and 900 m.
var (
	searchTarget = geo.Coordinate{Lat: 39.4700, Lon: -0.3770}

	stationFar = Station{
		Number: 1, Name: "Xàtiva", Status: "OPEN",
		Coordinate:     geo.Coordinate{Lat: 39.4667, Lon: -0.3810},
		BikesAvailable: 5, DocksFree: 10, CapacityTotal: 15,
	}
	stationNear = Station{
		Number: 2, Name: "Ayuntamiento", Status: "OPEN",
		Coordinate:     geo.Coordinate{Lat: 39.4691, Lon: -0.3777},
		BikesAvailable: 3, DocksFree: 2, CapacityTotal: 20,
	}
	stationFarthest = Station{
		Number: 3, Name: "Colón", Status: "OPEN",
		Coordinate:     geo.Coordinate{Lat: 39.4702, Lon: -0.3665},
		BikesAvailable: 8, DocksFree: 0, CapacityTotal: 18,
	}
)

func testStations() []Station {
	return []Station{stationFar, stationNear, stationFarthest}
}

func TestNearestPicksClosest(t *testing.T) {
	best, ok := Nearest(testStations(), searchTarget, 1, BikesAvailable)
	require.True(t, ok)
	assert.Equal(t, "Ayuntamiento", best.Name)
	assert.InDelta(t, 120, best.DistanceMeters, 40)
}

func TestNearestHonorsMinimumQuantity(t *testing.T) {
	// Only Colón has 8 bikes or more.
	best, ok := Nearest(testStations(), searchTarget, 8, BikesAvailable)
	require.True(t, ok)
	assert.Equal(t, "Colón", best.Name)

	for _, got := range NearestN(testStations(), searchTarget, 2, BikesAvailable, 0) {
		assert.GreaterOrEqual(t, got.BikesAvailable, 2)
	}
}

func TestNearestSkipsClosedStations(t *testing.T) {
	closed := stationNear
	closed.Status = "CLOSED"
	stations := []Station{stationFar, closed, stationFarthest}

	best, ok := Nearest(stations, searchTarget, 1, BikesAvailable)
	require.True(t, ok)
	assert.NotEqual(t, closed.Number, best.Number)

	for _, got := range NearestN(stations, searchTarget, 0, DocksFree, 10) {
		assert.True(t, got.IsOpen())
	}
}

func TestNearestByDocks(t *testing.T) {
	// Colón has no free docks; with a floor of 1 it must not be returned.
	best, ok := Nearest(testStations(), searchTarget, 1, DocksFree)
	require.True(t, ok)
	assert.Equal(t, "Ayuntamiento", best.Name)

	_, ok = Nearest([]Station{stationFarthest}, searchTarget, 1, DocksFree)
	assert.False(t, ok)
}

func TestNearestEmptyWhenNoneQualify(t *testing.T) {
	_, ok := Nearest(testStations(), searchTarget, 50, BikesAvailable)
	assert.False(t, ok)

	assert.Empty(t, NearestN(testStations(), searchTarget, 50, BikesAvailable, 3))
}

func TestNearestNOrderAndTruncation(t *testing.T) {
	got := NearestN(testStations(), searchTarget, 1, BikesAvailable, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "Ayuntamiento", got[0].Name)
	assert.Equal(t, "Xàtiva", got[1].Name)
	assert.LessOrEqual(t, got[0].DistanceMeters, got[1].DistanceMeters)
}

func TestNearestTieBreakKeepsInputOrder(t *testing.T) {
	twin := stationNear
	twin.Number = 9
	twin.Name = "Ayuntamiento bis"
	stations := []Station{stationNear, twin}

	best, ok := Nearest(stations, searchTarget, 1, BikesAvailable)
	require.True(t, ok)
	assert.Equal(t, "Ayuntamiento", best.Name)
}

// ---------------------------------------------------------------------------
// StationService
// ---------------------------------------------------------------------------

type stubFeed struct {
	stations []Station
	err      error
	calls    int
}

func (f *stubFeed) FetchStations(ctx context.Context) ([]Station, error) {
	f.calls++
	return f.stations, f.err
}

func TestSnapshotCachesFeed(t *testing.T) {
	feed := &stubFeed{stations: testStations()}
	svc := NewStationService(feed, time.Minute)
	defer svc.Close()

	ctx := context.Background()
	assert.Len(t, svc.Snapshot(ctx), 3)
	assert.Len(t, svc.Snapshot(ctx), 3)
	assert.Equal(t, 1, feed.calls)
}

func TestSnapshotDegradesToEmptyOnFeedFailure(t *testing.T) {
	feed := &stubFeed{err: errors.New("boom")}
	svc := NewStationService(feed, time.Minute)
	defer svc.Close()

	ctx := context.Background()
	assert.Empty(t, svc.Snapshot(ctx))

	_, ok := svc.Nearest(ctx, searchTarget, 1, BikesAvailable)
	assert.False(t, ok)
}

func TestServiceNearestUsesSnapshot(t *testing.T) {
	feed := &stubFeed{stations: testStations()}
	svc := NewStationService(feed, time.Minute)
	defer svc.Close()

	best, ok := svc.Nearest(context.Background(), searchTarget, 1, BikesAvailable)
	require.True(t, ok)
	assert.Equal(t, "Ayuntamiento", best.Name)
}
