package handlers

import (
	"net/http"
)

type RootHandler struct{}

func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

func (h *RootHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "biciruta",
		"description": "Cultural trip planning over the Valenbisi bike-share network",
		"version":     "1.0.0",
		"endpoints": map[string]string{
			"GET /":                "API information",
			"GET /health":          "Health check",
			"GET /stations/near":   "Valenbisi stations near a coordinate",
			"GET /pois":            "Cultural facility catalog, optionally by category",
			"GET /pois/nearby":     "Facilities near a coordinate",
			"GET /pois/suggestion": "Suggestion of the day",
			"GET /weather":         "Current conditions in Valencia",
			"POST /trips/plan":     "Plan a walk or bike-assisted trip",
			"POST /tours/plan":     "Order a multi-stop cultural tour",
			"POST /tours/begin":    "Start the planned tour",
			"POST /tours/advance":  "Travel to the tour's next stop",
			"POST /tours/abort":    "Abandon the tour",
			"GET /tours/progress":  "Tour state, stops and accumulated stats",
		},
	})
}

func (h *RootHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":   "Route not found",
		"message": "Check the root endpoint (/) for available routes",
	})
}
