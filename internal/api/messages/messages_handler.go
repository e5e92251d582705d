package messages

import (
	"context"
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

// SendMessage handles POST /sendMessage.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var note TravelNote
	h.handleSend(w, r, "SendMessage", &note, func(ctx context.Context) (string, error) {
		return h.service.SendTravelNote(ctx, note)
	})
}

// SendWeatherInfo handles POST /sendWeatherInfo.
func (h *Handler) SendWeatherInfo(w http.ResponseWriter, r *http.Request) {
	var note WeatherNote
	h.handleSend(w, r, "SendWeatherInfo", &note, func(ctx context.Context) (string, error) {
		return h.service.SendWeatherNote(ctx, note)
	})
}

// SendTourismInfo handles POST /sendTourismInfo.
func (h *Handler) SendTourismInfo(w http.ResponseWriter, r *http.Request) {
	var note TourismNote
	h.handleSend(w, r, "SendTourismInfo", &note, func(ctx context.Context) (string, error) {
		return h.service.SendTourismNote(ctx, note)
	})
}

// handleSend decodes into dst, then invokes send; dst is the note the send
// closure captured.
func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request, name string, dst any, send func(context.Context) (string, error)) {
	ctx, span := otel.Tracer("MessagesHandler").Start(r.Context(), name)
	defer span.End()

	l := h.logger.With(slog.String("handler", name))

	if err := api.DecodeJSONBody(w, r, dst); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := send(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to publish message", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Publish failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to publish message")
		return
	}

	span.SetStatus(codes.Ok, "Message published")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"result": result})
}
