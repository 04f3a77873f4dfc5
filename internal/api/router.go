package api

import (
	"net/http"

	"github.com/jvilanova/biciruta/internal/api/handlers"
	"github.com/jvilanova/biciruta/internal/config"
	"github.com/jvilanova/biciruta/internal/tour"
)

// Services bundles the collaborators the router exposes over HTTP.
type Services struct {
	Stations handlers.StationProvider
	Catalog  handlers.CatalogProvider
	Geocode  handlers.GeocodeProvider
	Weather  handlers.WeatherProvider
	Trips    handlers.TripProvider
}

// NewRouter creates and configures the HTTP router with all routes and middleware
func NewRouter(cfg *config.Config, svcs Services) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	rootHandler := handlers.NewRootHandler()
	stationHandler := handlers.NewStationHandler(svcs.Stations)
	poiHandler := handlers.NewPOIHandler(svcs.Catalog)
	weatherHandler := handlers.NewWeatherHandler(svcs.Weather)
	tripHandler := handlers.NewTripHandler(svcs.Trips, svcs.Catalog, svcs.Geocode)
	tourHandler := handlers.NewTourHandler(tour.NewNavigator(svcs.Trips), svcs.Catalog, svcs.Geocode)

	// Core routes
	mux.HandleFunc("GET /", rootHandler.Index)
	mux.HandleFunc("GET /api", rootHandler.Index)
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Station routes
	mux.HandleFunc("GET /stations/near", stationHandler.Near)

	// Catalog routes
	mux.HandleFunc("GET /pois", poiHandler.List)
	mux.HandleFunc("GET /pois/nearby", poiHandler.Nearby)
	mux.HandleFunc("GET /pois/suggestion", poiHandler.Suggestion)

	// Weather
	mux.HandleFunc("GET /weather", weatherHandler.Current)

	// Trip planning
	mux.HandleFunc("POST /trips/plan", tripHandler.Plan)

	// Tour lifecycle
	mux.HandleFunc("POST /tours/plan", tourHandler.Plan)
	mux.HandleFunc("POST /tours/begin", tourHandler.Begin)
	mux.HandleFunc("POST /tours/advance", tourHandler.Advance)
	mux.HandleFunc("POST /tours/abort", tourHandler.Abort)
	mux.HandleFunc("GET /tours/progress", tourHandler.Progress)

	// Apply middleware stack
	handler := Chain(mux,
		Recovery,
		Logging,
		CORS,
		Timeout(cfg.HTTPTimeout),
	)

	return handler
}
