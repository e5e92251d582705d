package types

// TemperatureRange holds the daily min/max in degrees Celsius.
type TemperatureRange struct {
	MinTemp float64 `json:"min_temp"`
	MaxTemp float64 `json:"max_temp"`
}

// DailyForecast is one forecast day. Summary is the agent's one-line advisory
// and is empty when the report degraded to raw provider data.
type DailyForecast struct {
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Temperature TemperatureRange `json:"temperature"`
	WindSpeed   float64          `json:"wind_speed"`
	Humidity    int              `json:"humidity"`
	Clouds      int              `json:"clouds"`
	Summary     string           `json:"summary,omitempty"`
}

// ForecastReport groups the per-day forecasts for a city.
type ForecastReport struct {
	City      string          `json:"city"`
	Forecasts []DailyForecast `json:"forecasts"`
}

// WeatherReport is the weather agent's output. Current is kept loosely typed
// because its shape follows the provider response and downstream code must
// tolerate missing or oddly typed fields.
type WeatherReport struct {
	Current  map[string]any `json:"current"`
	Forecast ForecastReport `json:"forecast"`
}
