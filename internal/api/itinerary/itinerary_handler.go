package itinerary

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"smartroute/internal/api"
	"smartroute/internal/types"
)

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

// SubmitRequest handles POST /sendItineraryInfo - splits the request into
// its weather and tourism halves and queues both.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "SubmitRequest")
	defer span.End()

	l := h.logger.With(slog.String("handler", "SubmitRequest"))

	var req types.ItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.City == "" {
		l.WarnContext(ctx, "Missing city")
		span.SetStatus(codes.Error, "Missing city")
		api.ErrorResponse(w, r, http.StatusBadRequest, "city is required")
		return
	}

	result := h.service.Submit(ctx, req)

	l.InfoContext(ctx, "Itinerary request queued",
		slog.String("request_id", result.RequestID), slog.String("city", req.City))
	span.SetStatus(codes.Ok, "Request queued")
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// ProcessNext handles GET /getItineraryInfo - runs one pipeline pass
// synchronously and returns the narrative as plain text.
func (h *Handler) ProcessNext(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "ProcessNext")
	defer span.End()

	l := h.logger.With(slog.String("handler", "ProcessNext"))

	it, err := h.service.RunOnce(ctx)
	if err != nil {
		if errors.Is(err, ErrNoPendingRequest) {
			l.InfoContext(ctx, "No pending itinerary request")
			span.SetStatus(codes.Ok, "No pending request")
			api.ErrorResponse(w, r, http.StatusNotFound, "no pending itinerary request")
			return
		}
		l.ErrorContext(ctx, "Pipeline run failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Pipeline run failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to process itinerary request")
		return
	}

	span.SetStatus(codes.Ok, "Pipeline run complete")
	api.WritePlainTextResponse(w, r, http.StatusOK, it.Narrative)
}

// GetByRequestID handles GET /itinerary/{requestID} - poll-for-result after
// an async submit.
func (h *Handler) GetByRequestID(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GetByRequestID")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetByRequestID"))

	requestID := chi.URLParam(r, "requestID")
	if requestID == "" {
		span.SetStatus(codes.Error, "Missing request id")
		api.ErrorResponse(w, r, http.StatusBadRequest, "request id is required")
		return
	}

	it, err := h.service.GetByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, ErrItineraryNotFound) {
			span.SetStatus(codes.Ok, "Not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "itinerary not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Fetch failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to fetch itinerary")
		return
	}

	span.SetStatus(codes.Ok, "Itinerary fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}
