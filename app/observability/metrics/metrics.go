package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	IntakeRequestsTotal     metric.Int64Counter
	PipelineRunsTotal       metric.Int64Counter
	PipelineDurationSeconds metric.Float64Histogram
	AgentErrorsTotal        metric.Int64Counter
	QueuePublishesTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("SmartRoute")
		var err error
		m := &AppMetrics{}

		m.IntakeRequestsTotal, err = meter.Int64Counter(
			"intake_requests_total",
			metric.WithDescription("Total itinerary requests accepted at intake"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create intake_requests_total: %v", err)
		}

		m.PipelineRunsTotal, err = meter.Int64Counter(
			"pipeline_runs_total",
			metric.WithDescription("Total orchestration pipeline runs"),
			metric.WithUnit("{run}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create pipeline_runs_total: %v", err)
		}

		m.PipelineDurationSeconds, err = meter.Float64Histogram(
			"pipeline_duration_seconds",
			metric.WithDescription("Duration of full pipeline runs in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create pipeline_duration_seconds: %v", err)
		}

		m.AgentErrorsTotal, err = meter.Int64Counter(
			"agent_errors_total",
			metric.WithDescription("Total agent or provider call failures"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create agent_errors_total: %v", err)
		}

		m.QueuePublishesTotal, err = meter.Int64Counter(
			"queue_publishes_total",
			metric.WithDescription("Total messages published to the queue broker"),
			metric.WithUnit("{message}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create queue_publishes_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global AppMetrics instance, initializing it on first use.
// Before a MeterProvider is configured the instruments come from the otel
// no-op default, so recording is safe from any code path.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
