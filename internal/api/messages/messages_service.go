package messages

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Queue is the slice of the broker the send endpoints use.
type Queue interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Channels names the channels raw messages can be sent to.
type Channels struct {
	Weather string
	Tourism string
	Travel  string
}

// TravelNote is a free-form note for the travel channel.
type TravelNote struct {
	Text string `json:"text"`
}

// WeatherNote is a raw weather request, sent without a correlation id; the
// pipeline pairs it positionally.
type WeatherNote struct {
	City string `json:"city"`
	Time string `json:"time"`
}

// TourismNote is a raw tourism request, likewise id-less.
type TourismNote struct {
	Interests []string `json:"interests"`
}

var _ Service = (*ServiceImpl)(nil)

// Service publishes raw messages straight onto the channels, bypassing the
// intake split. Useful for seeding queues by hand.
type Service interface {
	SendTravelNote(ctx context.Context, note TravelNote) (string, error)
	SendWeatherNote(ctx context.Context, note WeatherNote) (string, error)
	SendTourismNote(ctx context.Context, note TourismNote) (string, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	queue    Queue
	channels Channels
}

func NewServiceImpl(queue Queue, channels Channels, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		queue:    queue,
		channels: channels,
	}
}

func (s *ServiceImpl) SendTravelNote(ctx context.Context, note TravelNote) (string, error) {
	return s.send(ctx, s.channels.Travel, note)
}

func (s *ServiceImpl) SendWeatherNote(ctx context.Context, note WeatherNote) (string, error) {
	return s.send(ctx, s.channels.Weather, note)
}

func (s *ServiceImpl) SendTourismNote(ctx context.Context, note TourismNote) (string, error) {
	return s.send(ctx, s.channels.Tourism, note)
}

func (s *ServiceImpl) send(ctx context.Context, channel string, message any) (string, error) {
	ctx, span := otel.Tracer("MessagesService").Start(ctx, "Send")
	defer span.End()
	span.SetAttributes(attribute.String("channel", channel))

	payload, err := json.Marshal(message)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to encode message: %w", err)
	}
	if err := s.queue.Publish(ctx, channel, payload); err != nil {
		span.RecordError(err)
		return "", err
	}

	s.logger.InfoContext(ctx, "Raw message published", slog.String("channel", channel))
	span.SetStatus(codes.Ok, "Message published")
	return fmt.Sprintf("Mensaje enviado a la cola '%s'", channel), nil
}
