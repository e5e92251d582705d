package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"smartroute/internal/api/itinerary"
	"smartroute/internal/api/tourism"
	"smartroute/internal/api/weather"
	"smartroute/internal/types"
)

// Coordinates used for tourism diagnostics when no weather report is
// available to extract real ones from.
const (
	fallbackLatitude  = 5.5353
	fallbackLongitude = -73.3678
)

// DB is the slice of pgxpool.Pool the postgres probe uses.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queue is the slice of the broker the diagnostics endpoints use.
type Queue interface {
	HealthCheck(ctx context.Context, probeChannel string) string
	ConsumeUpTo(ctx context.Context, channel string, limit int) ([][]byte, error)
}

// Channels names every channel diagnostics can touch.
type Channels struct {
	Weather string
	Tourism string
	Travel  string
	Probe   string
}

// TourismRunResult is one processed tourism message; Error is set instead of
// Report when the agent failed for that message.
type TourismRunResult struct {
	Report    *types.TourismReport `json:"report,omitempty"`
	Interests []string             `json:"interests"`
	Error     string               `json:"error,omitempty"`
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	CheckHealth(ctx context.Context) types.HealthResponse
	DrainTravelMessages(ctx context.Context) ([]json.RawMessage, error)
	ProcessWeatherMessages(ctx context.Context) ([]*types.WeatherReport, error)
	ProcessTourismMessages(ctx context.Context) ([]TourismRunResult, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	db       DB
	queue    Queue
	weather  weather.Service
	tourism  tourism.Service
	repo     itinerary.Repository
	channels Channels
}

func NewServiceImpl(
	db DB,
	queue Queue,
	weatherSvc weather.Service,
	tourismSvc tourism.Service,
	repo itinerary.Repository,
	channels Channels,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		db:       db,
		queue:    queue,
		weather:  weatherSvc,
		tourism:  tourismSvc,
		repo:     repo,
		channels: channels,
	}
}

// CheckHealth probes Postgres and the queue broker concurrently. The overall
// status is healthy only when both probes succeed; a failing probe degrades
// the status but never fails the endpoint.
func (s *ServiceImpl) CheckHealth(ctx context.Context) types.HealthResponse {
	ctx, span := otel.Tracer("DiagnosticsService").Start(ctx, "CheckHealth")
	defer span.End()

	var postgresStatus, queueStatus string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		postgresStatus = s.probePostgres(gctx)
		return nil
	})
	g.Go(func() error {
		queueStatus = s.queue.HealthCheck(gctx, s.channels.Probe)
		return nil
	})
	_ = g.Wait()

	status := "degraded"
	if strings.Contains(postgresStatus, "OK") && strings.Contains(queueStatus, "OK") {
		status = "healthy"
	}
	span.SetStatus(codes.Ok, "Health check complete")
	return types.HealthResponse{
		Status:   status,
		Postgres: postgresStatus,
		Queue:    queueStatus,
	}
}

func (s *ServiceImpl) probePostgres(ctx context.Context) string {
	var version string
	if err := s.db.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return fmt.Sprintf("PostgreSQL Error: %s", err)
	}
	return "PostgreSQL OK"
}

// DrainTravelMessages destructively pops up to 20 raw messages from the
// travel channel.
func (s *ServiceImpl) DrainTravelMessages(ctx context.Context) ([]json.RawMessage, error) {
	ctx, span := otel.Tracer("DiagnosticsService").Start(ctx, "DrainTravelMessages")
	defer span.End()

	raw, err := s.queue.ConsumeUpTo(ctx, s.channels.Travel, 20)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to drain travel messages: %w", err)
	}
	messages := make([]json.RawMessage, 0, len(raw))
	for _, m := range raw {
		if json.Valid(m) {
			messages = append(messages, json.RawMessage(m))
		} else {
			quoted, _ := json.Marshal(string(m))
			messages = append(messages, json.RawMessage(quoted))
		}
	}
	span.SetStatus(codes.Ok, "Travel messages drained")
	return messages, nil
}

// ProcessWeatherMessages pops one weather request and runs the weather agent
// on it, logging the narrative-free report to the prompts table. A malformed
// payload is an error; the message is already consumed at that point.
func (s *ServiceImpl) ProcessWeatherMessages(ctx context.Context) ([]*types.WeatherReport, error) {
	ctx, span := otel.Tracer("DiagnosticsService").Start(ctx, "ProcessWeatherMessages")
	defer span.End()

	raw, err := s.queue.ConsumeUpTo(ctx, s.channels.Weather, 1)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to drain weather messages: %w", err)
	}

	reports := make([]*types.WeatherReport, 0, len(raw))
	for _, m := range raw {
		var msg types.WeatherRequestMessage
		if err := json.Unmarshal(m, &msg); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("malformed weather message: %w", err)
		}
		days := itinerary.ParseHorizon(msg.Time)
		report, err := s.weather.GetForecastReport(ctx, msg.City, days)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("weather agent failed for %s: %w", msg.City, err)
		}

		reportJSON, _ := json.Marshal(report)
		if err := s.repo.SavePrompt(ctx, types.PromptRecord{
			UserID:       types.PlaceholderUserID,
			City:         msg.City,
			TimeStr:      msg.Time,
			ResponseText: string(reportJSON),
		}); err != nil {
			s.logger.ErrorContext(ctx, "Failed to save weather diagnostic prompt", slog.Any("error", err))
		}
		reports = append(reports, report)
	}
	span.SetStatus(codes.Ok, "Weather messages processed")
	return reports, nil
}

// ProcessTourismMessages pops one tourism request and runs the tourism agent
// with the fixed fallback coordinates. Agent failures are captured per item
// instead of failing the call.
func (s *ServiceImpl) ProcessTourismMessages(ctx context.Context) ([]TourismRunResult, error) {
	ctx, span := otel.Tracer("DiagnosticsService").Start(ctx, "ProcessTourismMessages")
	defer span.End()

	raw, err := s.queue.ConsumeUpTo(ctx, s.channels.Tourism, 1)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to drain tourism messages: %w", err)
	}

	lat, lon := fallbackLatitude, fallbackLongitude
	results := make([]TourismRunResult, 0, len(raw))
	for _, m := range raw {
		var msg types.TourismRequestMessage
		if err := json.Unmarshal(m, &msg); err != nil {
			results = append(results, TourismRunResult{Interests: []string{}, Error: err.Error()})
			continue
		}
		interests := itinerary.NormalizeInterests(msg.Interests)
		report, err := s.tourism.Recommend(ctx, interests, &lat, &lon, nil)
		if err != nil {
			s.logger.WarnContext(ctx, "Tourism agent failed for drained message", slog.Any("error", err))
			results = append(results, TourismRunResult{Interests: interests, Error: err.Error()})
			continue
		}
		results = append(results, TourismRunResult{Interests: interests, Report: report})
	}
	span.SetStatus(codes.Ok, "Tourism messages processed")
	return results, nil
}
