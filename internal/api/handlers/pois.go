package handlers

import (
	"net/http"
	"time"

	"github.com/jvilanova/biciruta/internal/catalog"
)

const (
	defaultNearbyRadiusKm = 0.75
	maxNearbyRadiusKm     = 5.0
)

type POIHandler struct {
	catalog CatalogProvider
}

func NewPOIHandler(c CatalogProvider) *POIHandler {
	return &POIHandler{catalog: c}
}

// List returns the whole catalog, or one category of it.
func (h *POIHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	var (
		pois []catalog.PointOfInterest
		err  error
	)
	if category == "" {
		pois, err = h.catalog.All()
	} else {
		pois, err = h.catalog.ByCategory(category)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"category":   category,
		"categories": catalog.Categories(),
		"pois":       pois,
		"count":      len(pois),
	})
}

// Nearby returns facilities within a radius of a coordinate, nearest first.
func (h *POIHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	center, ok := parseCoordinate(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}
	radius := parseFloatParam(r, "radius_km", defaultNearbyRadiusKm, 0.05, maxNearbyRadiusKm)
	exclude := r.URL.Query().Get("exclude")

	pois, err := h.catalog.Nearby(center, radius, exclude)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"center":    center,
		"radius_km": radius,
		"pois":      pois,
		"count":     len(pois),
	})
}

// Suggestion returns the facility of the day.
func (h *POIHandler) Suggestion(w http.ResponseWriter, r *http.Request) {
	poi, err := h.catalog.SuggestionOfDay(time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"date":       time.Now().Format("2006-01-02"),
		"suggestion": poi,
	})
}
