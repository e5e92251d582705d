package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"smartroute/app/observability/metrics"
	appqueue "smartroute/app/queue"
	"smartroute/internal/api/tourism"
	"smartroute/internal/api/weather"
	"smartroute/internal/types"
)

const composerTemperature = 0.7

// ErrNoPendingRequest signals that the weather channel had nothing to
// process. Callers distinguish it from real pipeline failures.
var ErrNoPendingRequest = errors.New("itinerary: no pending request on the weather channel")

// Queue is the slice of the message broker the pipeline needs.
type Queue interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	ConsumeOne(ctx context.Context, channel string, timeout time.Duration) ([]byte, error)
}

// AIGenerator is the slice of the Gemini client the composer needs.
type AIGenerator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

// Channels names the two request channels a split itinerary request
// travels over.
type Channels struct {
	Weather string
	Tourism string
}

var _ Service = (*ServiceImpl)(nil)

// Service covers the whole request lifecycle: intake splits a request into
// two queued halves, RunOnce consumes a pair and produces a persisted
// narrative, and GetByRequestID serves poll-for-result.
type Service interface {
	Submit(ctx context.Context, req types.ItineraryRequest) *types.SubmitResult
	RunOnce(ctx context.Context) (*types.Itinerary, error)
	GetByRequestID(ctx context.Context, requestID string) (*types.Itinerary, error)
}

type ServiceImpl struct {
	logger         *slog.Logger
	queue          Queue
	weather        weather.Service
	tourism        tourism.Service
	ai             AIGenerator
	repo           Repository
	channels       Channels
	consumeTimeout time.Duration

	// Tourism halves popped while looking for a specific correlation id.
	// Guarded by mu; keyed by request id.
	mu      sync.Mutex
	pending map[string]types.TourismRequestMessage
}

func NewServiceImpl(
	queue Queue,
	weatherSvc weather.Service,
	tourismSvc tourism.Service,
	ai AIGenerator,
	repo Repository,
	channels Channels,
	consumeTimeout time.Duration,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		logger:         logger,
		queue:          queue,
		weather:        weatherSvc,
		tourism:        tourismSvc,
		ai:             ai,
		repo:           repo,
		channels:       channels,
		consumeTimeout: consumeTimeout,
		pending:        make(map[string]types.TourismRequestMessage),
	}
}

// Submit splits the request into its weather and tourism halves, tags both
// with a fresh correlation id and publishes them. The two publishes are
// independent: one may succeed while the other fails, and the per-channel
// result strings report exactly that. No rollback is attempted.
func (s *ServiceImpl) Submit(ctx context.Context, req types.ItineraryRequest) *types.SubmitResult {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Submit", trace.WithAttributes(
		attribute.String("city", req.City),
	))
	defer span.End()

	requestID := uuid.NewString()
	result := &types.SubmitResult{RequestID: requestID, Status: "Messages sent successfully"}

	rawInterests, err := json.Marshal(req.Interests)
	if err != nil {
		rawInterests = []byte("[]")
	}

	result.WeatherResult = s.publishHalf(ctx, s.channels.Weather, types.WeatherRequestMessage{
		RequestID: requestID,
		City:      req.City,
		Time:      req.Time,
	})
	result.TourismResult = s.publishHalf(ctx, s.channels.Tourism, types.TourismRequestMessage{
		RequestID: requestID,
		Interests: rawInterests,
	})

	if result.WeatherResult != publishOKMessage(s.channels.Weather) ||
		result.TourismResult != publishOKMessage(s.channels.Tourism) {
		result.Status = "Partial failure"
	}
	metrics.Get().IntakeRequestsTotal.Add(ctx, 1)
	span.SetStatus(codes.Ok, "Request split and published")
	return result
}

func publishOKMessage(channel string) string {
	return fmt.Sprintf("Mensaje enviado a la cola '%s'", channel)
}

func (s *ServiceImpl) publishHalf(ctx context.Context, channel string, message any) string {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Sprintf("Error al enviar: %s", err)
	}
	if err := s.queue.Publish(ctx, channel, payload); err != nil {
		return fmt.Sprintf("Error al enviar: %s", err)
	}
	metrics.Get().QueuePublishesTotal.Add(ctx, 1)
	return publishOKMessage(channel)
}

// RunOnce drains one request pair and runs the full pipeline: weather agent,
// tourism agent, composer, persistence. An empty weather channel returns
// ErrNoPendingRequest. Agent failures after the weather half degrade to a
// partial result rather than aborting.
func (s *ServiceImpl) RunOnce(ctx context.Context) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "RunOnce")
	defer span.End()
	started := time.Now()

	raw, err := s.queue.ConsumeOne(ctx, s.channels.Weather, s.consumeTimeout)
	if err != nil {
		if errors.Is(err, appqueue.ErrEmpty) {
			span.SetStatus(codes.Ok, "No pending request")
			return nil, ErrNoPendingRequest
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to consume weather request: %w", err)
	}

	var weatherMsg types.WeatherRequestMessage
	if err := json.Unmarshal(raw, &weatherMsg); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("malformed weather request message: %w", err)
	}
	l := s.logger.With(slog.String("request_id", weatherMsg.RequestID), slog.String("city", weatherMsg.City))
	span.SetAttributes(attribute.String("request_id", weatherMsg.RequestID))

	days := ParseHorizon(weatherMsg.Time)

	l.InfoContext(ctx, "Weather agent started", slog.Int("days", days))
	weatherReport, err := s.weather.GetForecastReport(ctx, weatherMsg.City, days)
	if err != nil {
		l.ErrorContext(ctx, "Weather agent failed", slog.Any("error", err))
		metrics.Get().AgentErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
	}
	latitude, longitude := ExtractCoordinates(weatherReport)

	tourismMsg, found := s.consumeTourismHalf(ctx, weatherMsg.RequestID)
	if !found {
		l.WarnContext(ctx, "No tourism half found for request, continuing with empty interests")
	}
	interests := NormalizeInterests(tourismMsg.Interests)

	l.InfoContext(ctx, "Tourism agent started", slog.Int("interests", len(interests)))
	tourismReport, err := s.tourism.Recommend(ctx, interests, latitude, longitude, weatherReport)
	if err != nil {
		l.ErrorContext(ctx, "Tourism agent failed", slog.Any("error", err))
		metrics.Get().AgentErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
	}

	// Weather first, then tourism, matching the order the composer prompt
	// describes.
	combined := make([]any, 0, 2)
	if weatherReport != nil {
		combined = append(combined, weatherReport)
	}
	if tourismReport != nil {
		combined = append(combined, tourismReport)
	}
	combinedJSON, err := json.Marshal(combined)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to serialize agent results: %w", err)
	}

	narrative, err := s.compose(ctx, string(combinedJSON))
	status := types.ItineraryStatusDone
	if err != nil {
		l.ErrorContext(ctx, "Itinerary composer failed", slog.Any("error", err))
		metrics.Get().AgentErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
		narrative = ""
		status = types.ItineraryStatusFailed
	}

	it := s.buildItinerary(weatherMsg, days, weatherReport, combinedJSON, narrative, status)
	s.persist(ctx, l, weatherMsg, narrative, it)

	metrics.Get().PipelineRunsTotal.Add(ctx, 1)
	metrics.Get().PipelineDurationSeconds.Record(ctx, time.Since(started).Seconds())
	span.SetStatus(codes.Ok, "Pipeline run complete")
	return it, nil
}

// consumeTourismHalf finds the tourism half matching requestID: the buffer of
// previously popped messages first, then the channel, parking mismatched ids
// for later runs. Messages published without an id pair positionally with
// whatever weather half happens to be in flight.
func (s *ServiceImpl) consumeTourismHalf(ctx context.Context, requestID string) (types.TourismRequestMessage, bool) {
	s.mu.Lock()
	if msg, ok := s.pending[requestID]; ok {
		delete(s.pending, requestID)
		s.mu.Unlock()
		return msg, true
	}
	s.mu.Unlock()

	for {
		raw, err := s.queue.ConsumeOne(ctx, s.channels.Tourism, s.consumeTimeout)
		if err != nil {
			return types.TourismRequestMessage{}, false
		}
		var msg types.TourismRequestMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.WarnContext(ctx, "Discarding malformed tourism message", slog.Any("error", err))
			continue
		}
		if msg.RequestID == "" || msg.RequestID == requestID {
			return msg, true
		}
		s.mu.Lock()
		s.pending[msg.RequestID] = msg
		s.mu.Unlock()
	}
}

func (s *ServiceImpl) compose(ctx context.Context, combinedJSON string) (string, error) {
	response, err := s.ai.GenerateContent(ctx, composeItineraryPrompt(combinedJSON), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](composerTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("itinerary generation failed: %w", err)
	}
	return strings.TrimSpace(response), nil
}

func (s *ServiceImpl) buildItinerary(
	msg types.WeatherRequestMessage,
	days int,
	report *types.WeatherReport,
	details []byte,
	narrative string,
	status types.ItineraryStatus,
) *types.Itinerary {
	now := time.Now().UTC()
	summary := ""
	if report != nil && len(report.Forecast.Forecasts) > 0 {
		summary = report.Forecast.Forecasts[0].Description
	}
	return &types.Itinerary{
		ID:             uuid.New(),
		RequestID:      msg.RequestID,
		UserID:         types.PlaceholderUserID,
		Destination:    msg.City,
		StartDate:      now,
		EndDate:        now.AddDate(0, 0, days),
		WeatherSummary: summary,
		Details:        details,
		Narrative:      narrative,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// persist writes the prompt log row and the itinerary row. Storage failures
// are logged, not returned: the narrative already exists and the caller
// should still get it.
func (s *ServiceImpl) persist(ctx context.Context, l *slog.Logger, msg types.WeatherRequestMessage, narrative string, it *types.Itinerary) {
	if err := s.repo.SavePrompt(ctx, types.PromptRecord{
		UserID:       types.PlaceholderUserID,
		City:         msg.City,
		TimeStr:      msg.Time,
		ResponseText: narrative,
	}); err != nil {
		l.ErrorContext(ctx, "Failed to save prompt record", slog.Any("error", err))
	}
	if msg.RequestID == "" {
		return
	}
	if err := s.repo.SaveItinerary(ctx, it); err != nil {
		l.ErrorContext(ctx, "Failed to save itinerary", slog.Any("error", err))
	}
}

func (s *ServiceImpl) GetByRequestID(ctx context.Context, requestID string) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GetByRequestID", trace.WithAttributes(
		attribute.String("request_id", requestID),
	))
	defer span.End()
	return s.repo.GetItineraryByRequestID(ctx, requestID)
}
