package handlers

import (
	"errors"
	"net/http"

	"github.com/jvilanova/biciruta/internal/weather"
)

type WeatherHandler struct {
	weather WeatherProvider
}

func NewWeatherHandler(w WeatherProvider) *WeatherHandler {
	return &WeatherHandler{weather: w}
}

func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	report, err := h.weather.Current(r.Context())
	if err != nil {
		if errors.Is(err, weather.ErrNotConfigured) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success":   true,
				"available": false,
				"message":   "weather service not configured",
			})
			return
		}
		writeError(w, http.StatusBadGateway, "weather service unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"available": true,
		"weather":   report,
	})
}
