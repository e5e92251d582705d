package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"smartroute/internal/types"
)

// Provider is the weather data source contract. The production implementation
// talks to OpenWeatherMap; tests substitute a mock.
type Provider interface {
	CurrentConditions(ctx context.Context, city string) (map[string]any, error)
	Forecast(ctx context.Context, place string, days int) (types.ForecastReport, error)
}

var _ Provider = (*OpenWeatherClient)(nil)

// OpenWeatherClient calls the OpenWeatherMap REST API (metric units, Spanish
// descriptions, matching the rest of the localized output).
type OpenWeatherClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

func NewOpenWeatherClient(baseURL, apiKey string, logger *slog.Logger) *OpenWeatherClient {
	return &OpenWeatherClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

type owmCurrentResponse struct {
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
}

type owmForecastResponse struct {
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	List []struct {
		DtTxt   string `json:"dt_txt"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			TempMin  float64 `json:"temp_min"`
			TempMax  float64 `json:"temp_max"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Clouds struct {
			All int `json:"all"`
		} `json:"clouds"`
	} `json:"list"`
}

// CurrentConditions fetches live conditions for a city. Coordinates ride
// along in the result so the tourism stage can reuse them.
func (c *OpenWeatherClient) CurrentConditions(ctx context.Context, city string) (map[string]any, error) {
	var out owmCurrentResponse
	if err := c.get(ctx, "/weather", url.Values{"q": {city}}, &out); err != nil {
		return nil, err
	}

	status, description := "", ""
	if len(out.Weather) > 0 {
		status = out.Weather[0].Main
		description = out.Weather[0].Description
	}

	return map[string]any{
		"name": out.Name,
		"weather": map[string]any{
			"temperature": out.Main.Temp,
			"status":      status,
			"description": description,
			"humidity":    out.Main.Humidity,
			"wind_speed":  out.Wind.Speed,
			"rain":        out.Rain.OneHour,
			"clouds":      out.Clouds.All,
		},
		"coordinates": map[string]any{
			"lat": out.Coord.Lat,
			"lon": out.Coord.Lon,
		},
	}, nil
}

// Forecast fetches the 3-hourly forecast and folds it into one entry per day,
// up to the requested horizon.
func (c *OpenWeatherClient) Forecast(ctx context.Context, place string, days int) (types.ForecastReport, error) {
	var out owmForecastResponse
	if err := c.get(ctx, "/forecast", url.Values{"q": {place}}, &out); err != nil {
		return types.ForecastReport{}, err
	}

	report := types.ForecastReport{City: out.City.Name}
	byDate := map[string]*types.DailyForecast{}
	order := []string{}

	for _, item := range out.List {
		if len(item.DtTxt) < 10 {
			continue
		}
		date := item.DtTxt[:10]
		day, ok := byDate[date]
		if !ok {
			if len(order) == days {
				break
			}
			day = &types.DailyForecast{
				Date:        date,
				Description: firstDescription(item.Weather),
				Temperature: types.TemperatureRange{MinTemp: item.Main.TempMin, MaxTemp: item.Main.TempMax},
				WindSpeed:   item.Wind.Speed,
				Humidity:    item.Main.Humidity,
				Clouds:      item.Clouds.All,
			}
			byDate[date] = day
			order = append(order, date)
			continue
		}
		if item.Main.TempMin < day.Temperature.MinTemp {
			day.Temperature.MinTemp = item.Main.TempMin
		}
		if item.Main.TempMax > day.Temperature.MaxTemp {
			day.Temperature.MaxTemp = item.Main.TempMax
		}
		if item.Wind.Speed > day.WindSpeed {
			day.WindSpeed = item.Wind.Speed
		}
	}

	for _, date := range order {
		report.Forecasts = append(report.Forecasts, *byDate[date])
	}
	return report, nil
}

func firstDescription(weather []struct {
	Description string `json:"description"`
}) string {
	if len(weather) > 0 {
		return weather[0].Description
	}
	return ""
}

func (c *OpenWeatherClient) get(ctx context.Context, path string, params url.Values, dst any) error {
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	params.Set("lang", "es")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather provider returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode weather response: %w", err)
	}
	return nil
}
