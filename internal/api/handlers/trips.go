package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jvilanova/biciruta/internal/geo"
	"github.com/jvilanova/biciruta/internal/geocode"
	"github.com/jvilanova/biciruta/internal/trip"
)

// Place names a point one of three ways: a catalog facility name, a street
// address, or raw coordinates. Exactly one form is used, checked in that
// order.
type Place struct {
	Name    string   `json:"name,omitempty"`
	Address string   `json:"address,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

type planTripRequest struct {
	Start       Place `json:"start"`
	Destination Place `json:"destination"`
	MinBikes    int   `json:"min_bikes"`
	MinDocks    int   `json:"min_docks"`
}

// placeResolver turns a Place into a coordinate via the catalog or the
// geocoder.
type placeResolver struct {
	catalog CatalogProvider
	geocode GeocodeProvider
}

type TripHandler struct {
	placeResolver
	trips TripProvider
}

func NewTripHandler(trips TripProvider, catalog CatalogProvider, geocode GeocodeProvider) *TripHandler {
	return &TripHandler{
		placeResolver: placeResolver{catalog: catalog, geocode: geocode},
		trips:         trips,
	}
}

// Plan resolves both endpoints and assembles the trip between them.
func (h *TripHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req planTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.MinBikes < 1 {
		req.MinBikes = 1
	}
	if req.MinDocks < 1 {
		req.MinDocks = 1
	}

	start, err := h.resolvePlace(r.Context(), req.Start)
	if err != nil {
		writePlaceError(w, "start", err)
		return
	}
	end, err := h.resolvePlace(r.Context(), req.Destination)
	if err != nil {
		writePlaceError(w, "destination", err)
		return
	}

	planned, err := h.trips.Assemble(r.Context(), start, end, req.MinBikes, req.MinDocks)
	if err != nil {
		writeTripError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tripPayload(planned))
}

func (h *placeResolver) resolvePlace(ctx context.Context, p Place) (geo.Coordinate, error) {
	switch {
	case p.Name != "":
		poi, found, err := h.catalog.Find(p.Name)
		if err != nil {
			return geo.Coordinate{}, fmt.Errorf("catalog lookup: %w", err)
		}
		if !found {
			return geo.Coordinate{}, fmt.Errorf("%q: %w", p.Name, errPlaceNotFound)
		}
		return poi.Coordinate, nil
	case p.Address != "":
		res, err := h.geocode.Geocode(ctx, p.Address)
		if err != nil {
			if errors.Is(err, geocode.ErrNotFound) {
				return geo.Coordinate{}, fmt.Errorf("%q: %w", p.Address, errPlaceNotFound)
			}
			return geo.Coordinate{}, fmt.Errorf("geocoding: %w", err)
		}
		return geo.Coordinate{Lat: res.Lat, Lon: res.Lon}, nil
	case p.Lat != nil && p.Lon != nil:
		return geo.Coordinate{Lat: *p.Lat, Lon: *p.Lon}, nil
	default:
		return geo.Coordinate{}, errPlaceEmpty
	}
}

var (
	errPlaceNotFound = errors.New("place not found")
	errPlaceEmpty    = errors.New("place needs a name, an address, or lat and lon")
)

func writePlaceError(w http.ResponseWriter, which string, err error) {
	switch {
	case errors.Is(err, errPlaceEmpty):
		writeError(w, http.StatusBadRequest, which+": "+errPlaceEmpty.Error())
	case errors.Is(err, errPlaceNotFound):
		writeError(w, http.StatusNotFound, which+": "+err.Error())
	default:
		writeError(w, http.StatusBadGateway, which+": "+err.Error())
	}
}

func writeTripError(w http.ResponseWriter, err error) {
	var noStation *trip.NoStationError
	switch {
	case errors.As(err, &noStation):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":        noStation.Error(),
			"role":         string(noStation.Role),
			"min_quantity": noStation.MinQuantity,
		})
	case errors.Is(err, trip.ErrRouteUnavailable):
		writeError(w, http.StatusBadGateway, "routing service unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "failed to plan trip")
	}
}

// tripPayload flattens a planned trip plus derived metrics for the client.
func tripPayload(t trip.Trip) map[string]any {
	payload := map[string]any{
		"success":            true,
		"kind":               t.TripKind(),
		"trip":               t,
		"total_distance_km":  t.TotalDistanceKm(),
		"total_duration_min": t.TotalDurationMin(),
	}
	if ride, ok := t.(*trip.BikeAssisted); ok {
		payload["co2_avoided_kg"] = ride.CO2AvoidedKg
		payload["tree_days"] = trip.TreeDayEquivalent(ride.CO2AvoidedKg)
		payload["calories"] = trip.CaloriesBurned(ride.Bike.DistanceKm, ride.Bike.DurationMin)
	}
	return payload
}
