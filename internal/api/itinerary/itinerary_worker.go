package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Worker drains queued request pairs in the background so results are ready
// to poll before any client hits the synchronous endpoint.
type Worker struct {
	logger   *slog.Logger
	service  Service
	interval time.Duration
}

func NewWorker(service Service, interval time.Duration, logger *slog.Logger) *Worker {
	return &Worker{
		logger:   logger,
		service:  service,
		interval: interval,
	}
}

// Run loops until ctx is cancelled. After a successful run it retries
// immediately in case more pairs are queued; otherwise it sleeps for the
// configured interval.
func (w *Worker) Run(ctx context.Context) {
	w.logger.InfoContext(ctx, "Itinerary worker started", slog.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		it, err := w.service.RunOnce(ctx)
		switch {
		case err == nil:
			w.logger.InfoContext(ctx, "Itinerary processed",
				slog.String("request_id", it.RequestID),
				slog.String("destination", it.Destination),
				slog.String("status", string(it.Status)))
			continue
		case errors.Is(err, ErrNoPendingRequest):
			// Idle; wait for the next tick.
		case ctx.Err() != nil:
			w.logger.InfoContext(ctx, "Itinerary worker stopping")
			return
		default:
			w.logger.ErrorContext(ctx, "Pipeline run failed", slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Itinerary worker stopping")
			return
		case <-ticker.C:
		}
	}
}
