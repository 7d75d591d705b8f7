// Package weather implements the OpenWeather One Call forecast provider.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	domain "github.com/gaiashield/gaiashield/internal/domain/weather"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/3.0/onecall"
	DefaultTimeout = 10 * time.Second

	heatwaveThresholdC = 35
)

// ErrNotConfigured is returned when no OpenWeather credential is set.
// Callers fall back to the static mock forecast.
var ErrNotConfigured = errors.New("openweather api key not configured")

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool { return c.apiKey != "" }

type oneCallResponse struct {
	Daily []struct {
		Temp struct {
			Max float64 `json:"max"`
			Min float64 `json:"min"`
		} `json:"temp"`
		Rain float64 `json:"rain"`
	} `json:"daily"`
	Alerts []struct {
		Event string `json:"event"`
	} `json:"alerts"`
}

// Forecast fetches the daily outlook and condenses the first horizonDays
// entries into the normalized record. Any failure, including a missing
// credential, is returned as an error; the caller decides on the fallback.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, horizonDays int) (*domain.Forecast, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("exclude", "minutely,hourly")
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openweather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openweather api error: status %d", resp.StatusCode)
	}

	var data oneCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("openweather decode: %w", err)
	}
	if len(data.Daily) == 0 {
		return nil, errors.New("openweather response has no daily forecast")
	}

	days := data.Daily
	if horizonDays < len(days) {
		days = days[:horizonDays]
	}

	fc := &domain.Forecast{
		Lat:                  lat,
		Lon:                  lon,
		HorizonDays:          horizonDays,
		MaxTemp:              days[0].Temp.Max,
		MinTemp:              days[0].Temp.Min,
		ExtremeWeatherAlerts: []string{},
	}
	for _, d := range days {
		if d.Temp.Max > fc.MaxTemp {
			fc.MaxTemp = d.Temp.Max
		}
		if d.Temp.Min < fc.MinTemp {
			fc.MinTemp = d.Temp.Min
		}
		fc.TotalPrecipitation += d.Rain
		if d.Temp.Max > heatwaveThresholdC {
			fc.HeatwaveDays++
		}
	}
	for _, a := range data.Alerts {
		fc.ExtremeWeatherAlerts = append(fc.ExtremeWeatherAlerts, a.Event)
	}
	fc.Summary = fmt.Sprintf("Prévisions %d jours: %.0f°C max, %.0f°C min, %.0fmm précipitations.",
		horizonDays, fc.MaxTemp, fc.MinTemp, fc.TotalPrecipitation)

	return fc, nil
}
