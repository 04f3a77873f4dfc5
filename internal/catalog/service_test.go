package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvilanova/biciruta/internal/geo"
)

const serviceCSV = `nombre,geo_point_2d
CATEDRAL DE VALENCIA,"39.4756, -0.3750"
LONJA DE LA SEDA,"39.4745, -0.3786"
MUSEO DE BELLAS ARTES,"39.4791, -0.3691"
TEATRE PRINCIPAL,"39.4681, -0.3743"
MUSEO FALLERO,"39.4617, -0.3587"
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "v_infociudad.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(writeCatalog(t, serviceCSV), time.Hour)
}

func TestServiceAllAndByCategory(t *testing.T) {
	svc := testService(t)

	all, err := svc.All()
	require.NoError(t, err)
	assert.Len(t, all, 5)

	museos, err := svc.ByCategory("Museos")
	require.NoError(t, err)
	require.Len(t, museos, 2)
	for _, p := range museos {
		assert.Equal(t, "Museos", p.Category)
	}
}

func TestServiceFindNormalizesName(t *testing.T) {
	svc := testService(t)

	got, ok, err := svc.Find("7 - LONJA DE LA SEDA")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "LONJA DE LA SEDA", got.Name)

	_, ok, err = svc.Find("CASA INEXISTENTE")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestServiceNearby(t *testing.T) {
	svc := testService(t)
	catedral := geo.Coordinate{Lat: 39.4756, Lon: -0.3750}

	got, err := svc.Nearby(catedral, 0.75, "CATEDRAL DE VALENCIA")
	require.NoError(t, err)
	require.NotEmpty(t, got)

	for i, p := range got {
		assert.NotEqual(t, "CATEDRAL DE VALENCIA", p.Name)
		assert.LessOrEqual(t, p.DistanceKm, 0.75)
		if i > 0 {
			assert.GreaterOrEqual(t, p.DistanceKm, got[i-1].DistanceKm)
		}
	}
	// The Fallas museum is about two kilometers out.
	for _, p := range got {
		assert.NotEqual(t, "MUSEO FALLERO", p.Name)
	}
}

func TestServiceNearbyReachesDueEastAtRadiusEdge(t *testing.T) {
	// 0.0105° of longitude at this latitude is ~0.90 km of ground
	// distance; without the cos(lat) widening of the index window the
	// eastern museum falls outside the prefilter box despite being well
	// inside the radius.
	csv := `nombre,geo_point_2d
MUSEO CENTRO,"39.4756, -0.3750"
MUSEO DEL ESTE,"39.4756, -0.3645"
`
	svc := NewService(writeCatalog(t, csv), time.Hour)
	center := geo.Coordinate{Lat: 39.4756, Lon: -0.3750}

	got, err := svc.Nearby(center, 1.0, "MUSEO CENTRO")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "MUSEO DEL ESTE", got[0].Name)
	assert.InDelta(t, 0.90, got[0].DistanceKm, 0.02)
}

func TestServiceSuggestionOfDay(t *testing.T) {
	svc := testService(t)
	day := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	first, err := svc.SuggestionOfDay(day)
	require.NoError(t, err)
	// Same day, same pick, even at a different hour.
	second, err := svc.SuggestionOfDay(day.Add(5 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Some other day of the year picks independently; over a year of days
	// at least two distinct suggestions must show up.
	distinct := map[string]bool{first.Name: true}
	for i := 1; i <= 365; i++ {
		p, err := svc.SuggestionOfDay(day.AddDate(0, 0, i))
		require.NoError(t, err)
		distinct[p.Name] = true
	}
	assert.Greater(t, len(distinct), 1)
}

func TestServiceMissingFile(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "nope.csv"), time.Hour)
	_, err := svc.All()
	assert.Error(t, err)
}

func TestServiceKeepsSnapshotWhenReloadFails(t *testing.T) {
	path := writeCatalog(t, serviceCSV)
	svc := NewService(path, time.Nanosecond)

	all, err := svc.All()
	require.NoError(t, err)
	require.Len(t, all, 5)

	require.NoError(t, os.Remove(path))
	time.Sleep(time.Millisecond)

	all, err = svc.All()
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
