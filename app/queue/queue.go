package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEmpty is returned by ConsumeOne when no message arrived on the channel
// within the allowed wait.
var ErrEmpty = errors.New("queue: channel empty")

const healthCheckPayload = "Health check test"

// Broker is a thin client over Redis lists used as named durable FIFO
// channels. Publish appends with RPUSH and consumption pops from the head
// with (B)LPOP, so messages are removed the moment they are observed: the
// caller sees each message at most once, and a crash between pop and
// processing loses the message. That trade-off is accepted.
type Broker struct {
	client *redis.Client
	logger *slog.Logger
}

func NewBroker(redisURL string, logger *slog.Logger) (*Broker, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return &Broker{client: redis.NewClient(opt), logger: logger}, nil
}

// NewBrokerWithClient wires an existing client; used by tests with miniredis.
func NewBrokerWithClient(client *redis.Client, logger *slog.Logger) *Broker {
	return &Broker{client: client, logger: logger}
}

func (b *Broker) Close() error {
	return b.client.Close()
}

func (b *Broker) Ping(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("queue ping failed: %w", err)
	}
	return nil
}

// Publish durably stores payload on the named channel. The message is visible
// to the next consume call, in FIFO order per channel.
func (b *Broker) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := b.client.RPush(ctx, channel, payload).Err(); err != nil {
		b.logger.ErrorContext(ctx, "Failed to publish message",
			slog.String("channel", channel), slog.Any("error", err))
		return fmt.Errorf("publish to %s failed: %w", channel, err)
	}
	b.logger.DebugContext(ctx, "Message published",
		slog.String("channel", channel), slog.Int("bytes", len(payload)))
	return nil
}

// ConsumeOne pops the oldest message from the named channel, waiting up to
// timeout for one to arrive. The message is acknowledged by removal before it
// is returned. Returns ErrEmpty when the wait elapses with nothing queued.
func (b *Broker) ConsumeOne(ctx context.Context, channel string, timeout time.Duration) ([]byte, error) {
	vals, err := b.client.BLPop(ctx, timeout, channel).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("consume from %s failed: %w", channel, err)
	}
	// BLPOP returns [key, value].
	if len(vals) < 2 {
		return nil, ErrEmpty
	}
	return []byte(vals[1]), nil
}

// ConsumeUpTo drains up to limit messages without blocking, stopping early
// when the channel runs dry. Destructive; diagnostics only.
func (b *Broker) ConsumeUpTo(ctx context.Context, channel string, limit int) ([][]byte, error) {
	messages := make([][]byte, 0, limit)
	for i := 0; i < limit; i++ {
		val, err := b.client.LPop(ctx, channel).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return messages, fmt.Errorf("drain from %s failed: %w", channel, err)
		}
		messages = append(messages, []byte(val))
	}
	return messages, nil
}

// HealthCheck publishes a throwaway message to the probe channel and reports
// the outcome as a labeled string, mirroring the store probe in diagnostics.
func (b *Broker) HealthCheck(ctx context.Context, probeChannel string) string {
	if err := b.Publish(ctx, probeChannel, []byte(healthCheckPayload)); err != nil {
		return fmt.Sprintf("Queue Error: %s", err)
	}
	return "Queue OK"
}
