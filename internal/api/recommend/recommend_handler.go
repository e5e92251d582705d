package recommend

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"smartroute/internal/api"
)

type TravelRequest struct {
	Prompt string `json:"prompt"`
}

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// GetRecommendations handles POST /api/travel-recommendations.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendHandler").Start(r.Context(), "GetRecommendations")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetRecommendations"))

	var req TravelRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	recommendation, err := h.service.Recommend(ctx, req.Prompt)
	if err != nil {
		if errors.Is(err, ErrEmptyPrompt) {
			span.SetStatus(codes.Error, "Empty prompt")
			api.ErrorResponse(w, r, http.StatusBadRequest, "El prompt no puede estar vacío")
			return
		}
		l.ErrorContext(ctx, "Failed to generate recommendation", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Recommendation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to generate recommendation")
		return
	}

	l.InfoContext(ctx, "Recommendation generated", slog.String("destination", recommendation.Destination))
	span.SetStatus(codes.Ok, "Recommendation generated")
	api.WriteJSONResponse(w, r, http.StatusOK, recommendation)
}
