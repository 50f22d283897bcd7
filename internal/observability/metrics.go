package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsCollector manages the bot's metrics. A zero collector records nothing.
type MetricsCollector struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider

	events        metric.Int64Counter
	eventDuration metric.Float64Histogram
	sends         metric.Int64Counter
	webhookHits   metric.Int64Counter

	store *StoreMetrics
}

// MetricsConfig configures the metrics collector
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// NewMetricsCollector creates a new metrics collector backed by its own registry.
func NewMetricsCollector(config MetricsConfig) (*MetricsCollector, error) {
	if !config.Enabled {
		return &MetricsCollector{}, nil
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter("teacherbot")

	events, err := meter.Int64Counter(
		"teacherbot.events",
		metric.WithDescription("Inbound events by route and outcome"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create events counter: %w", err)
	}

	eventDuration, err := meter.Float64Histogram(
		"teacherbot.event.duration",
		metric.WithDescription("Time spent handling one event in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event duration histogram: %w", err)
	}

	sends, err := meter.Int64Counter(
		"teacherbot.sends",
		metric.WithDescription("Outbound transport calls by kind and status"),
		metric.WithUnit("{send}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sends counter: %w", err)
	}

	webhookHits, err := meter.Int64Counter(
		"teacherbot.webhook.requests",
		metric.WithDescription("Webhook deliveries by result"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook counter: %w", err)
	}

	return &MetricsCollector{
		registry:      registry,
		provider:      provider,
		events:        events,
		eventDuration: eventDuration,
		sends:         sends,
		webhookHits:   webhookHits,
		store:         NewStoreMetrics(registry),
	}, nil
}

// Enabled reports whether instruments are live.
func (m *MetricsCollector) Enabled() bool {
	return m != nil && m.registry != nil
}

// Registry returns the Prometheus registry, nil when disabled.
func (m *MetricsCollector) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *MetricsCollector) Handler() http.Handler {
	if !m.Enabled() {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Store returns the store recorder, nil when disabled.
func (m *MetricsCollector) Store() *StoreMetrics {
	if m == nil {
		return nil
	}
	return m.store
}

// Shutdown flushes the meter provider.
func (m *MetricsCollector) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}

// RecordEvent records one handled inbound event.
func (m *MetricsCollector) RecordEvent(ctx context.Context, route, outcome string, duration time.Duration) {
	if m == nil || m.events == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("outcome", outcome),
	)
	m.events.Add(ctx, 1, attrs)
	m.eventDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordSend records one outbound transport call.
func (m *MetricsCollector) RecordSend(ctx context.Context, kind, status string) {
	if m == nil || m.sends == nil {
		return
	}
	m.sends.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	))
}

// RecordWebhook records one webhook delivery.
func (m *MetricsCollector) RecordWebhook(ctx context.Context, result string) {
	if m == nil || m.webhookHits == nil {
		return
	}
	m.webhookHits.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
