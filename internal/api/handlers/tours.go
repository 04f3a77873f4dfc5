package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jvilanova/biciruta/internal/tour"
)

type planTourRequest struct {
	Start        Place   `json:"start"`
	Destinations []Place `json:"destinations"`
}

type advanceRequest struct {
	MinBikes int `json:"min_bikes"`
	MinDocks int `json:"min_docks"`
}

// TourHandler drives one tour at a time, matching the single-session use of
// the planner.
type TourHandler struct {
	placeResolver
	navigator *tour.Navigator
}

func NewTourHandler(nav *tour.Navigator, catalog CatalogProvider, geocode GeocodeProvider) *TourHandler {
	return &TourHandler{
		placeResolver: placeResolver{catalog: catalog, geocode: geocode},
		navigator:     nav,
	}
}

// Plan resolves the stops and orders them into a tour, replacing any
// previous one.
func (h *TourHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req planTourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	startCoord, err := h.resolvePlace(r.Context(), req.Start)
	if err != nil {
		writePlaceError(w, "start", err)
		return
	}
	start := tour.Stop{Name: placeLabel(req.Start, "Inicio"), Coordinate: startCoord}

	stops := make([]tour.Stop, 0, len(req.Destinations))
	for _, p := range req.Destinations {
		coord, err := h.resolvePlace(r.Context(), p)
		if err != nil {
			writePlaceError(w, "destination", err)
			return
		}
		stops = append(stops, tour.Stop{Name: placeLabel(p, "Parada"), Coordinate: coord})
	}

	ordered, err := h.navigator.Plan(start, stops)
	if err != nil {
		if errors.Is(err, tour.ErrTooFewStops) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to plan tour")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"state":   h.navigator.State(),
		"stops":   ordered,
	})
}

// Begin starts navigation on the planned tour.
func (h *TourHandler) Begin(w http.ResponseWriter, r *http.Request) {
	if err := h.navigator.Begin(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"state":    h.navigator.State(),
		"progress": h.navigator.Progress(),
	})
}

// Advance travels to the next stop. A failed leg leaves the tour where it
// was, so the client can retry with looser constraints.
func (h *TourHandler) Advance(w http.ResponseWriter, r *http.Request) {
	req := advanceRequest{MinBikes: 1, MinDocks: 1}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}
	if req.MinBikes < 1 {
		req.MinBikes = 1
	}
	if req.MinDocks < 1 {
		req.MinDocks = 1
	}

	leg, err := h.navigator.Advance(r.Context(), req.MinBikes, req.MinDocks)
	if err != nil {
		if errors.Is(err, tour.ErrNotNavigating) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeTripError(w, err)
		return
	}

	payload := tripPayload(leg)
	payload["state"] = h.navigator.State()
	payload["progress"] = h.navigator.Progress()
	writeJSON(w, http.StatusOK, payload)
}

// Abort abandons the tour.
func (h *TourHandler) Abort(w http.ResponseWriter, r *http.Request) {
	h.navigator.Abort()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"state":   h.navigator.State(),
		"stats":   h.navigator.Progress().Stats,
	})
}

// Progress reports the tour's state, stops and accumulated stats.
func (h *TourHandler) Progress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"progress": h.navigator.Progress(),
	})
}

func placeLabel(p Place, fallback string) string {
	switch {
	case p.Name != "":
		return p.Name
	case p.Address != "":
		return p.Address
	default:
		return fallback
	}
}
