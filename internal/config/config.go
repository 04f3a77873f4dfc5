// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port string
	Env  string

	OpenCageKey    string
	OpenWeatherKey string
	CatalogPath    string

	StationTTL  time.Duration
	CatalogTTL  time.Duration
	WeatherTTL  time.Duration
	RouteTTL    time.Duration
	HTTPTimeout time.Duration

	// Grams of CO2 per kilometer displaced by riding instead of driving.
	// Deployment-specific, not a physical constant.
	CO2GramsPerKm float64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "3000"),
		Env:            getEnv("ENV", "development"),
		OpenCageKey:    getEnv("OPENCAGE_KEY", ""),
		OpenWeatherKey: getEnv("OPENWEATHER_KEY", ""),
		CatalogPath:    getEnv("CATALOG_PATH", "data/v_infociudad.csv"),
		StationTTL:     getDurationEnv("STATION_CACHE_TTL_SECONDS", 300),
		CatalogTTL:     getDurationEnv("CATALOG_CACHE_TTL_SECONDS", 3600),
		WeatherTTL:     getDurationEnv("WEATHER_CACHE_TTL_SECONDS", 1800),
		RouteTTL:       getDurationEnv("ROUTE_CACHE_TTL_SECONDS", 300),
		HTTPTimeout:    getDurationEnv("HTTP_TIMEOUT_SECONDS", 15),
		CO2GramsPerKm:  getFloatEnv("CO2_GRAMS_PER_KM", 135),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks that required configuration is present and sane.
func (c *Config) Validate() error {
	if c.OpenCageKey == "" {
		return fmt.Errorf("OPENCAGE_KEY is not set; geocoding will not work")
	}
	for name, ttl := range map[string]time.Duration{
		"STATION_CACHE_TTL_SECONDS": c.StationTTL,
		"CATALOG_CACHE_TTL_SECONDS": c.CatalogTTL,
		"WEATHER_CACHE_TTL_SECONDS": c.WeatherTTL,
		"ROUTE_CACHE_TTL_SECONDS":   c.RouteTTL,
		"HTTP_TIMEOUT_SECONDS":      c.HTTPTimeout,
	} {
		if ttl <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, ttl)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return time.Duration(defaultSeconds) * time.Second
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
