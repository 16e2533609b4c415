// Package weather fetches current conditions at the course for the caddie.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/trentd187/proof/internal/scoring"
)

// DefaultBaseURL is Open-Meteo's forecast endpoint. It needs no API key.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Fallback is used whenever a live reading isn't available.
var Fallback = scoring.Conditions{
	TemperatureF:  75,
	WindSpeedMPH:  10,
	WindDirection: 180,
	Humidity:      50,
	FeelsLikeF:    75,
	Description:   "Clear",
}

// Client calls the Open-Meteo API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// currentResponse is the part of the forecast response we read.
type currentResponse struct {
	Current struct {
		Temperature   float64 `json:"temperature_2m"`
		Humidity      float64 `json:"relative_humidity_2m"`
		FeelsLike     float64 `json:"apparent_temperature"`
		WindSpeed     float64 `json:"wind_speed_10m"`
		WindDirection float64 `json:"wind_direction_10m"`
		WeatherCode   int     `json:"weather_code"`
	} `json:"current"`
}

// Current fetches conditions at lat/lon in Fahrenheit and mph. Temperature,
// feels-like and wind speed are rounded to whole numbers.
func (c *Client) Current(ctx context.Context, lat, lon float64) (scoring.Conditions, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,wind_speed_10m,wind_direction_10m,weather_code")
	q.Set("temperature_unit", "fahrenheit")
	q.Set("wind_speed_unit", "mph")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return scoring.Conditions{}, fmt.Errorf("build weather request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return scoring.Conditions{}, fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return scoring.Conditions{}, fmt.Errorf("fetch weather: status %d", resp.StatusCode)
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return scoring.Conditions{}, fmt.Errorf("decode weather: %w", err)
	}
	cur := body.Current
	return scoring.Conditions{
		TemperatureF:  math.Round(cur.Temperature),
		WindSpeedMPH:  math.Round(cur.WindSpeed),
		WindDirection: cur.WindDirection,
		Humidity:      cur.Humidity,
		FeelsLikeF:    math.Round(cur.FeelsLike),
		Description:   scoring.WeatherCondition(cur.WeatherCode),
	}, nil
}

// Fetcher is what Service needs from Client.
type Fetcher interface {
	Current(ctx context.Context, lat, lon float64) (scoring.Conditions, error)
}

// Reading is the cached conditions plus where they came from.
type Reading struct {
	Conditions scoring.Conditions `json:"conditions"`
	FetchedAt  time.Time          `json:"fetchedAt"`
	Live       bool               `json:"live"` // false when showing Fallback
	Error      string             `json:"error,omitempty"`
}

// Service caches the latest reading for one location.
type Service struct {
	fetcher  Fetcher
	lat, lon float64
	log      *slog.Logger

	mu     sync.RWMutex
	latest Reading
}

// NewService starts with the fallback reading until the first Refresh.
func NewService(f Fetcher, lat, lon float64) *Service {
	return &Service{
		fetcher: f,
		lat:     lat,
		lon:     lon,
		log:     slog.Default().With("component", "weather"),
		latest:  Reading{Conditions: Fallback},
	}
}

// Latest returns the cached reading.
func (s *Service) Latest() Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Refresh fetches a new reading. On failure the last live reading is kept if
// there is one; otherwise the fallback stays, marked with the error.
func (s *Service) Refresh(ctx context.Context) Reading {
	c, err := s.fetcher.Current(ctx, s.lat, s.lon)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.Warn("weather fetch failed", "error", err)
		s.latest.Error = err.Error()
		return s.latest
	}
	s.latest = Reading{Conditions: c, FetchedAt: time.Now().UTC(), Live: true}
	return s.latest
}

// Run refreshes once immediately and then every interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	s.Refresh(ctx)

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.Refresh(ctx) }),
	)
	if err != nil {
		return fmt.Errorf("schedule weather refresh: %w", err)
	}
	sched.Start()
	<-ctx.Done()
	return sched.Shutdown()
}
