package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsCollector tracks run pipeline metrics, exposed for Prometheus
// scraping.
type MetricsCollector struct {
	meter metric.Meter

	runsStarted   metric.Int64Counter
	runsCompleted metric.Int64Counter
	runsFailed    metric.Int64Counter
	stageDuration metric.Float64Histogram
	runCost       metric.Float64Counter
	activeRuns    metric.Int64UpDownCounter

	prometheusServer *http.Server
}

// MetricsConfig configures the metrics collector.
type MetricsConfig struct {
	Enabled        bool `yaml:"enabled"`
	PrometheusPort int  `yaml:"prometheus_port"`
}

// NewMetricsCollector creates a new metrics collector. A disabled collector
// is valid and all recording methods become no-ops.
func NewMetricsCollector(config MetricsConfig) (*MetricsCollector, error) {
	if !config.Enabled {
		return &MetricsCollector{}, nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter("bolna")

	runsStarted, err := meter.Int64Counter(
		"bolna.runs.started.total",
		metric.WithDescription("Total number of assistant runs started"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create runs_started counter: %w", err)
	}

	runsCompleted, err := meter.Int64Counter(
		"bolna.runs.completed.total",
		metric.WithDescription("Total number of assistant runs completed"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create runs_completed counter: %w", err)
	}

	runsFailed, err := meter.Int64Counter(
		"bolna.runs.failed.total",
		metric.WithDescription("Total number of assistant runs halted by a stage failure"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create runs_failed counter: %w", err)
	}

	stageDuration, err := meter.Float64Histogram(
		"bolna.stage.duration",
		metric.WithDescription("Stage execution duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stage_duration histogram: %w", err)
	}

	runCost, err := meter.Float64Counter(
		"bolna.run.cost.total",
		metric.WithDescription("Total accounted run cost"),
		metric.WithUnit("USD"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run_cost counter: %w", err)
	}

	activeRuns, err := meter.Int64UpDownCounter(
		"bolna.runs.active",
		metric.WithDescription("Number of runs currently executing"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_runs gauge: %w", err)
	}

	collector := &MetricsCollector{
		meter:         meter,
		runsStarted:   runsStarted,
		runsCompleted: runsCompleted,
		runsFailed:    runsFailed,
		stageDuration: stageDuration,
		runCost:       runCost,
		activeRuns:    activeRuns,
	}

	if config.PrometheusPort > 0 {
		if err := collector.StartPrometheusServer(config.PrometheusPort); err != nil {
			return nil, fmt.Errorf("failed to start prometheus server: %w", err)
		}
	}

	return collector, nil
}

// StartPrometheusServer starts the Prometheus metrics server.
func (m *MetricsCollector) StartPrometheusServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promclient.Handler())

	m.prometheusServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		_ = m.prometheusServer.ListenAndServe()
	}()

	return nil
}

// Shutdown stops the Prometheus server, if one was started.
func (m *MetricsCollector) Shutdown(ctx context.Context) error {
	if m.prometheusServer == nil {
		return nil
	}
	return m.prometheusServer.Shutdown(ctx)
}

// RecordRunStarted increments the started-run counter and the active gauge.
func (m *MetricsCollector) RecordRunStarted(ctx context.Context, assistantID string) {
	if m.runsStarted == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("assistant_id", assistantID))
	m.runsStarted.Add(ctx, 1, attrs)
	m.activeRuns.Add(ctx, 1, attrs)
}

// RecordRunCompleted decrements the active gauge and counts the outcome.
func (m *MetricsCollector) RecordRunCompleted(ctx context.Context, assistantID string, failed bool) {
	if m.runsCompleted == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("assistant_id", assistantID))
	m.activeRuns.Add(ctx, -1, attrs)
	if failed {
		m.runsFailed.Add(ctx, 1, attrs)
		return
	}
	m.runsCompleted.Add(ctx, 1, attrs)
}

// RecordStageDuration records one stage's wall-clock execution time.
func (m *MetricsCollector) RecordStageDuration(ctx context.Context, stage int, d time.Duration) {
	if m.stageDuration == nil {
		return
	}
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.Int("stage", stage)))
}

// RecordRunCost adds an accounted run's total cost.
func (m *MetricsCollector) RecordRunCost(ctx context.Context, assistantID string, cost float64) {
	if m.runCost == nil {
		return
	}
	m.runCost.Add(ctx, cost, metric.WithAttributes(attribute.String("assistant_id", assistantID)))
}
