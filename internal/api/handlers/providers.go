package handlers

import (
	"context"
	"time"

	"github.com/jvilanova/biciruta/internal/bikes"
	"github.com/jvilanova/biciruta/internal/catalog"
	"github.com/jvilanova/biciruta/internal/geo"
	"github.com/jvilanova/biciruta/internal/geocode"
	"github.com/jvilanova/biciruta/internal/trip"
	"github.com/jvilanova/biciruta/internal/weather"
)

// StationProvider abstracts the live station feed for testability.
type StationProvider interface {
	NearestN(ctx context.Context, target geo.Coordinate, minQuantity int, criterion bikes.Criterion, n int) []bikes.StationWithDistance
}

// CatalogProvider abstracts the cultural-facility catalog.
type CatalogProvider interface {
	All() ([]catalog.PointOfInterest, error)
	ByCategory(category string) ([]catalog.PointOfInterest, error)
	Find(name string) (catalog.PointOfInterest, bool, error)
	Nearby(center geo.Coordinate, radiusKm float64, exclude string) ([]catalog.POIWithDistance, error)
	SuggestionOfDay(day time.Time) (catalog.PointOfInterest, error)
}

// GeocodeProvider abstracts address resolution.
type GeocodeProvider interface {
	Geocode(ctx context.Context, address string) (geocode.Result, error)
}

// WeatherProvider abstracts the current-conditions source.
type WeatherProvider interface {
	Current(ctx context.Context) (weather.Report, error)
}

// TripProvider abstracts the trip assembler.
type TripProvider interface {
	Assemble(ctx context.Context, start, end geo.Coordinate, minBikes, minDocks int) (trip.Trip, error)
}
