package diagnostics

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"smartroute/internal/api"
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

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DiagnosticsHandler").Start(r.Context(), "Health")
	defer span.End()

	response := h.service.CheckHealth(ctx)
	span.SetStatus(codes.Ok, "Health reported")
	api.WriteJSONResponse(w, r, http.StatusOK, response)
}

// ViewMessages handles GET /viewMessages - destructively drains the travel
// channel.
func (h *Handler) ViewMessages(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DiagnosticsHandler").Start(r.Context(), "ViewMessages")
	defer span.End()

	l := h.logger.With(slog.String("handler", "ViewMessages"))

	messages, err := h.service.DrainTravelMessages(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to drain travel messages", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Drain failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to read messages")
		return
	}

	span.SetStatus(codes.Ok, "Messages drained")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"result": messages})
}

// ViewWeatherMessages handles GET /viewWeatherMessages - drains one weather
// request and runs the weather agent on it.
func (h *Handler) ViewWeatherMessages(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DiagnosticsHandler").Start(r.Context(), "ViewWeatherMessages")
	defer span.End()

	l := h.logger.With(slog.String("handler", "ViewWeatherMessages"))

	reports, err := h.service.ProcessWeatherMessages(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to process weather messages", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Processing failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Weather messages processed")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"result": reports})
}

// ViewTourismMessages handles GET /viewTourismMessages - drains one tourism
// request and runs the tourism agent with fixed coordinates.
func (h *Handler) ViewTourismMessages(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DiagnosticsHandler").Start(r.Context(), "ViewTourismMessages")
	defer span.End()

	l := h.logger.With(slog.String("handler", "ViewTourismMessages"))

	results, err := h.service.ProcessTourismMessages(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to process tourism messages", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Processing failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to read messages")
		return
	}

	span.SetStatus(codes.Ok, "Tourism messages processed")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"results":         results,
		"total_processed": len(results),
	})
}
