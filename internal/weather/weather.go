// Package weather fetches current conditions for the city from
// OpenWeatherMap, mostly so riders know whether to bother.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jvilanova/biciruta/internal/cache"
	"github.com/jvilanova/biciruta/internal/geo"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// ErrNotConfigured means no API key was provided. Weather is optional, so
// callers usually degrade to omitting it.
var ErrNotConfigured = errors.New("weather: api key not configured")

// Report is the condensed current-conditions view served to clients.
type Report struct {
	Description string  `json:"description"`
	TempC       float64 `json:"temp_c"`
	FeelsLikeC  float64 `json:"feels_like_c"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Icon        string  `json:"icon"`
	IconURL     string  `json:"icon_url"`
}

type apiResponse struct {
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Service fetches and caches the city's current conditions.
type Service struct {
	client  *http.Client
	cache   *cache.Cache[Report]
	apiKey  string
	baseURL string
}

func New(apiKey string, ttl, timeout time.Duration) *Service {
	return NewWithBaseURL(apiKey, defaultBaseURL, ttl, timeout)
}

func NewWithBaseURL(apiKey, baseURL string, ttl, timeout time.Duration) *Service {
	return &Service{
		client:  &http.Client{Timeout: timeout},
		cache:   cache.New[Report](ttl),
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// Current returns conditions at the city center, cached for the service TTL.
func (s *Service) Current(ctx context.Context) (Report, error) {
	if s.apiKey == "" {
		return Report{}, ErrNotConfigured
	}
	if cached, ok := s.cache.Get("valencia"); ok {
		return cached, nil
	}

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", geo.CityCenter.Lat))
	q.Set("lon", fmt.Sprintf("%.4f", geo.CityCenter.Lon))
	q.Set("appid", s.apiKey)
	q.Set("units", "metric")
	q.Set("lang", "es")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Report{}, fmt.Errorf("creating weather request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("fetching weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Report{}, fmt.Errorf("decoding weather response: %w", err)
	}
	if len(body.Weather) == 0 {
		return Report{}, fmt.Errorf("weather response has no conditions")
	}

	report := Report{
		Description: body.Weather[0].Description,
		TempC:       body.Main.Temp,
		FeelsLikeC:  body.Main.FeelsLike,
		Humidity:    body.Main.Humidity,
		WindSpeed:   body.Wind.Speed,
		Icon:        body.Weather[0].Icon,
		IconURL:     fmt.Sprintf("https://openweathermap.org/img/wn/%s.png", body.Weather[0].Icon),
	}
	s.cache.Set("valencia", report)
	return report, nil
}

// Close stops the cache's sweeper.
func (s *Service) Close() { s.cache.Close() }
