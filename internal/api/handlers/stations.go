package handlers

import (
	"net/http"

	"github.com/jvilanova/biciruta/internal/bikes"
	"github.com/jvilanova/biciruta/internal/geo"
)

const (
	defaultStationLimit = 3
	maxStationLimit     = 10
	defaultMinQuantity  = 1
	maxMinQuantity      = 40
)

type StationHandler struct {
	stations StationProvider
}

func NewStationHandler(stations StationProvider) *StationHandler {
	return &StationHandler{stations: stations}
}

// Near returns open stations close to a coordinate that clear a capacity
// floor, nearest first. by=docks searches on free docks instead of bikes.
func (h *StationHandler) Near(w http.ResponseWriter, r *http.Request) {
	target, ok := parseCoordinate(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}

	criterion := bikes.BikesAvailable
	if r.URL.Query().Get("by") == "docks" {
		criterion = bikes.DocksFree
	}
	min := parseIntParam(r, "min", defaultMinQuantity, 0, maxMinQuantity)
	limit := parseIntParam(r, "limit", defaultStationLimit, 1, maxStationLimit)

	found := h.stations.NearestN(r.Context(), target, min, criterion, limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"target":   target,
		"by":       criterion.String(),
		"min":      min,
		"stations": found,
		"count":    len(found),
	})
}

func parseCoordinate(r *http.Request) (geo.Coordinate, bool) {
	q := r.URL.Query()
	if q.Get("lat") == "" || q.Get("lon") == "" {
		return geo.Coordinate{}, false
	}
	lat := parseFloatParam(r, "lat", 0, -90, 90)
	lon := parseFloatParam(r, "lon", 0, -180, 180)
	return geo.Coordinate{Lat: lat, Lon: lon}, true
}
