// Package weather serves the forecast panel and the field-work
// advice derived from it. Forecast data comes from a provider; the
// default provider reads a seed file, mirroring how the rest of the
// app runs fully local.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Day is one forecast day.
type Day struct {
	Date          string  `json:"date"`
	Condition     string  `json:"condition"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Precipitation float64 `json:"precipitation"` // percent chance
	WindSpeed     float64 `json:"windSpeed"`     // mph
	Humidity      float64 `json:"humidity"`      // percent
}

// Forecast is the multi-day outlook, first day is today.
type Forecast struct {
	Location string `json:"location"`
	Days     []Day  `json:"days"`
}

// Provider yields the current forecast.
type Provider interface {
	Forecast(ctx context.Context) (Forecast, error)
}

// FileProvider reads the forecast from a JSON file on every call, so
// replacing the file is enough to change the panel.
type FileProvider struct {
	path string
}

func NewFileProvider(base string) *FileProvider {
	return &FileProvider{path: filepath.Join(base, "forecast.json")}
}

func (p *FileProvider) Forecast(_ context.Context) (Forecast, error) {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return Forecast{}, fmt.Errorf("read forecast file: %w", err)
	}
	var f Forecast
	if err := json.Unmarshal(raw, &f); err != nil {
		return Forecast{}, fmt.Errorf("parse forecast file: %w", err)
	}
	return f, nil
}

// StaticProvider returns a fixed forecast; used in tests and as the
// fallback when no forecast file is configured.
type StaticProvider struct {
	forecast Forecast
}

func NewStaticProvider(f Forecast) *StaticProvider {
	return &StaticProvider{forecast: f}
}

func (p *StaticProvider) Forecast(_ context.Context) (Forecast, error) {
	return p.forecast, nil
}

// DefaultForecast is the built-in outlook used when no file is
// configured.
func DefaultForecast() Forecast {
	return Forecast{
		Location: "Local area",
		Days: []Day{
			{Date: "today", Condition: "Partly Cloudy", High: 75, Low: 58, Precipitation: 10, WindSpeed: 8, Humidity: 55},
			{Date: "tomorrow", Condition: "Sunny", High: 78, Low: 60, Precipitation: 5, WindSpeed: 6, Humidity: 50},
			{Date: "day 3", Condition: "Showers", High: 70, Low: 57, Precipitation: 60, WindSpeed: 12, Humidity: 75},
		},
	}
}
