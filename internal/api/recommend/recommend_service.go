package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"smartroute/internal/api/itinerary"
	"smartroute/internal/types"
)

// ErrEmptyPrompt is returned for a blank prompt; the handler maps it to 400.
var ErrEmptyPrompt = errors.New("recommend: prompt must not be empty")

// User id the frontend recommender writes its rows under.
var recommenderUserID = uuid.MustParse("43813dff-6c37-4277-94f0-90cb98f50609")

// Queue is the slice of the broker the recommender uses.
type Queue interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

var _ Service = (*ServiceImpl)(nil)

// Service is the frontend keyword recommender, independent of the agent
// pipeline: it matches the prompt against fixed destination data, notes the
// lookup on the travel channel and stores an itinerary row.
type Service interface {
	Recommend(ctx context.Context, prompt string) (*types.TravelRecommendation, error)
}

type ServiceImpl struct {
	logger        *slog.Logger
	queue         Queue
	repo          itinerary.Repository
	travelChannel string
}

func NewServiceImpl(queue Queue, repo itinerary.Repository, travelChannel string, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:        logger,
		queue:         queue,
		repo:          repo,
		travelChannel: travelChannel,
	}
}

func (s *ServiceImpl) Recommend(ctx context.Context, prompt string) (*types.TravelRecommendation, error) {
	ctx, span := otel.Tracer("RecommendService").Start(ctx, "Recommend")
	defer span.End()

	prompt = strings.ToLower(strings.TrimSpace(prompt))
	if prompt == "" {
		span.SetStatus(codes.Error, "Empty prompt")
		return nil, ErrEmptyPrompt
	}

	recommendation := matchDestination(prompt)
	span.SetAttributes(attribute.String("destination", recommendation.Destination))

	// The note and the row are best effort; the recommendation itself never
	// fails past this point.
	note := fmt.Sprintf("Búsqueda: %s -> %s", prompt, recommendation.Destination)
	notePayload, _ := json.Marshal(map[string]string{"text": note})
	if err := s.queue.Publish(ctx, s.travelChannel, notePayload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish recommendation note", slog.Any("error", err))
		span.RecordError(err)
	}
	s.saveRecommendation(ctx, recommendation)

	span.SetStatus(codes.Ok, "Recommendation generated")
	return &recommendation, nil
}

func matchDestination(prompt string) types.TravelRecommendation {
	if containsAny(prompt, mountainKeywords) {
		return mountainDestination
	}
	if containsAny(prompt, beachKeywords) {
		return beachDestination
	}
	return cityDestination
}

func containsAny(prompt string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(prompt, keyword) {
			return true
		}
	}
	return false
}

// saveRecommendation stores the pick as an itinerary row with a default
// 7-day window.
func (s *ServiceImpl) saveRecommendation(ctx context.Context, rec types.TravelRecommendation) {
	details, err := json.Marshal(map[string]any{
		"activities": rec.Activities,
		"hotels":     rec.Hotels,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to encode recommendation details", slog.Any("error", err))
		return
	}

	now := time.Now().UTC()
	if err := s.repo.SaveItinerary(ctx, &types.Itinerary{
		ID:             uuid.New(),
		RequestID:      uuid.NewString(),
		UserID:         recommenderUserID,
		Destination:    rec.Destination,
		StartDate:      now,
		EndDate:        now.AddDate(0, 0, 7),
		WeatherSummary: rec.Weather,
		Details:        details,
		Status:         types.ItineraryStatusDone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}); err != nil {
		s.logger.WarnContext(ctx, "Failed to save recommendation", slog.Any("error", err))
	}
}
