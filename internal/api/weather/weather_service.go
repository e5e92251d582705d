package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	generativeAI "smartroute/internal/api/generative_ai"
	"smartroute/internal/types"
)

const (
	summaryTemperature = 0.2
	reportCacheTTL     = 10 * time.Minute
)

// AIGenerator is the slice of the Gemini client this agent needs.
type AIGenerator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service is the weather agent: current conditions plus an annotated
// multi-day forecast for a destination.
type Service interface {
	GetForecastReport(ctx context.Context, city string, days int) (*types.WeatherReport, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	provider Provider
	ai       AIGenerator
	cache    *cache.Cache
}

func NewServiceImpl(provider Provider, ai AIGenerator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		provider: provider,
		ai:       ai,
		cache:    cache.New(reportCacheTTL, 2*reportCacheTTL),
	}
}

// GetForecastReport fetches real provider data and asks the model to add a
// one-line advisory per forecast day. A model failure degrades to the raw
// provider report rather than failing the call.
func (s *ServiceImpl) GetForecastReport(ctx context.Context, city string, days int) (*types.WeatherReport, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "GetForecastReport", trace.WithAttributes(
		attribute.String("city", city),
		attribute.Int("days", days),
	))
	defer span.End()

	cacheKey := fmt.Sprintf("weather:%s:%d", city, days)
	if cached, found := s.cache.Get(cacheKey); found {
		s.logger.DebugContext(ctx, "Weather report cache hit", slog.String("city", city))
		report := cached.(types.WeatherReport)
		return &report, nil
	}

	current, err := s.provider.CurrentConditions(ctx, city)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to fetch current conditions: %w", err)
	}

	forecast, err := s.provider.Forecast(ctx, city, days)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	report := types.WeatherReport{
		Current:  current,
		Forecast: s.annotateForecast(ctx, city, forecast),
	}

	s.cache.Set(cacheKey, report, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "Weather report generated")
	return &report, nil
}

// annotateForecast asks the model for per-day summaries. On any failure the
// raw provider forecast is returned unchanged.
func (s *ServiceImpl) annotateForecast(ctx context.Context, city string, forecast types.ForecastReport) types.ForecastReport {
	if len(forecast.Forecasts) == 0 {
		return forecast
	}

	forecastJSON, err := json.Marshal(forecast)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to marshal forecast for annotation", slog.Any("error", err))
		return forecast
	}

	response, err := s.ai.GenerateContent(ctx, summarizeForecastPrompt(city, string(forecastJSON)), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](summaryTemperature),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Weather summary generation failed, returning raw forecast",
			slog.String("city", city), slog.Any("error", err))
		return forecast
	}

	var annotated types.ForecastReport
	if err := json.Unmarshal([]byte(generativeAI.CleanJSONResponse(response)), &annotated); err != nil {
		s.logger.WarnContext(ctx, "Failed to parse annotated forecast, returning raw forecast",
			slog.Any("error", err))
		return forecast
	}
	if len(annotated.Forecasts) != len(forecast.Forecasts) {
		s.logger.WarnContext(ctx, "Annotated forecast shape mismatch, returning raw forecast",
			slog.Int("got", len(annotated.Forecasts)), slog.Int("want", len(forecast.Forecasts)))
		return forecast
	}
	if annotated.City == "" {
		annotated.City = forecast.City
	}
	return annotated
}
