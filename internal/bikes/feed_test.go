package bikes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedRecordJSON(number int, name string, lat, lon float64, available, free, total int, status string) string {
	return fmt.Sprintf(`{
		"name": %q, "number": %d, "address": "Calle %d",
		"geo_point_2d": {"lat": %f, "lon": %f},
		"available": %d, "free": %d, "total": %d,
		"status": %q, "updated_at": "2025-06-01T10:00:00Z"
	}`, name, number, number, lat, lon, available, free, total, status)
}

func TestFetchStationsPaginates(t *testing.T) {
	pagesServed := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("offset")
		assert.Equal(t, "100", r.URL.Query().Get("limit"))

		pagesServed++
		switch offset {
		case "0":
			fmt.Fprintf(w, `{"results":[%s,%s]}`,
				feedRecordJSON(1, "Xàtiva", 39.4667, -0.3810, 5, 10, 15, "OPEN"),
				feedRecordJSON(2, "Ayuntamiento", 39.4691, -0.3777, 3, 2, 20, "OPEN"))
		case "100":
			fmt.Fprintf(w, `{"results":[%s]}`,
				feedRecordJSON(3, "Colón", 39.4702, -0.3665, 8, 0, 18, "CLOSED"))
		default:
			fmt.Fprint(w, `{"results":[]}`)
		}
	}))
	defer srv.Close()

	client := NewFeedClientWithURL(srv.URL, 5*time.Second)
	stations, err := client.FetchStations(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 3)

	assert.Equal(t, "Xàtiva", stations[0].Name)
	assert.Equal(t, 5, stations[0].BikesAvailable)
	assert.Equal(t, 10, stations[0].DocksFree)
	assert.Equal(t, 15, stations[0].CapacityTotal)
	assert.True(t, stations[0].IsOpen())
	assert.False(t, stations[2].IsOpen())
	assert.Equal(t, 3, pagesServed)
}

func TestFetchStationsDropsRecordsWithoutCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "0" {
			fmt.Fprintf(w, `{"results":[{"name":"Fantasma","number":99,"available":1,"free":1,"total":2,"status":"OPEN"},%s]}`,
				feedRecordJSON(2, "Ayuntamiento", 39.4691, -0.3777, 3, 2, 20, "OPEN"))
			return
		}
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer srv.Close()

	client := NewFeedClientWithURL(srv.URL, 5*time.Second)
	stations, err := client.FetchStations(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "Ayuntamiento", stations[0].Name)
}

func TestFetchStationsNamesAnonymousStations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "0" {
			fmt.Fprint(w, `{"results":[{"number":42,"geo_point_2d":{"lat":39.47,"lon":-0.37},"available":1,"free":1,"total":2,"status":"OPEN"}]}`)
			return
		}
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer srv.Close()

	client := NewFeedClientWithURL(srv.URL, 5*time.Second)
	stations, err := client.FetchStations(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "Estación 42", stations[0].Name)
}

func TestFetchStationsErrorOnFirstPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewFeedClientWithURL(srv.URL, 5*time.Second)
	_, err := client.FetchStations(context.Background())
	assert.Error(t, err)
}

func TestFetchStationsKeepsPartialResultOnLaterFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "0" {
			fmt.Fprintf(w, `{"results":[%s]}`,
				feedRecordJSON(1, "Xàtiva", 39.4667, -0.3810, 5, 10, 15, "OPEN"))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewFeedClientWithURL(srv.URL, 5*time.Second)
	stations, err := client.FetchStations(context.Background())
	require.NoError(t, err)
	assert.Len(t, stations, 1)
}
