// Package main is the entry point for the biciruta server.
package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/jvilanova/biciruta/internal/api"
	"github.com/jvilanova/biciruta/internal/bikes"
	"github.com/jvilanova/biciruta/internal/catalog"
	"github.com/jvilanova/biciruta/internal/config"
	"github.com/jvilanova/biciruta/internal/geocode"
	"github.com/jvilanova/biciruta/internal/routing"
	"github.com/jvilanova/biciruta/internal/trip"
	"github.com/jvilanova/biciruta/internal/weather"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration error: ", err)
	}

	stations := bikes.NewStationService(bikes.NewFeedClient(cfg.HTTPTimeout), cfg.StationTTL)
	defer stations.Close()

	catalogSvc := catalog.NewService(cfg.CatalogPath, cfg.CatalogTTL)
	geocoder := geocode.New(cfg.OpenCageKey, cfg.HTTPTimeout)
	router := routing.NewOSRMClient(cfg.HTTPTimeout, cfg.RouteTTL)
	defer router.Close()

	weatherSvc := weather.New(cfg.OpenWeatherKey, cfg.WeatherTTL, cfg.HTTPTimeout)
	defer weatherSvc.Close()

	assembler := trip.NewAssembler(stations, router, cfg.CO2GramsPerKm)

	handler := api.NewRouter(cfg, api.Services{
		Stations: stations,
		Catalog:  catalogSvc,
		Geocode:  geocoder,
		Weather:  weatherSvc,
		Trips:    assembler,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	fmt.Printf("🚲 biciruta server starting on port %s\n", cfg.Port)
	fmt.Printf("📍 Environment: %s\n", cfg.Env)
	fmt.Printf("🔗 http://localhost:%s\n", cfg.Port)

	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}
