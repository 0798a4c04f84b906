package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type Metrics struct {
	HTTPRequests      metric.Int64Counter
	HTTPDuration      metric.Float64Histogram
	UpstreamRequests  metric.Int64Counter
	UpstreamDuration  metric.Float64Histogram
	Notifications     metric.Int64Counter
	TransactionsBuilt metric.Int64Counter
}

func Setup(serviceName string) (*Metrics, http.Handler, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	m, err := newMetrics(provider.Meter(serviceName))
	if err != nil {
		return nil, nil, err
	}
	return m, promhttp.Handler(), nil
}

// NewNoop returns metrics backed by the global (no-op until Setup) meter
// provider; used by tests and tools that do not export.
func NewNoop() *Metrics {
	m, err := newMetrics(otel.GetMeterProvider().Meter("noop"))
	if err != nil {
		panic(err)
	}
	return m
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.HTTPRequests, err = meter.Int64Counter(
		"mint_http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	m.HTTPDuration, err = meter.Float64Histogram(
		"mint_http_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
	)
	if err != nil {
		return nil, err
	}

	m.UpstreamRequests, err = meter.Int64Counter(
		"mint_commerce_requests_total",
		metric.WithDescription("Calls made to the commerce backend by operation and outcome"),
	)
	if err != nil {
		return nil, err
	}

	m.UpstreamDuration, err = meter.Float64Histogram(
		"mint_commerce_duration_seconds",
		metric.WithDescription("Commerce backend call duration in seconds"),
	)
	if err != nil {
		return nil, err
	}

	m.Notifications, err = meter.Int64Counter(
		"mint_notifications_total",
		metric.WithDescription("Mint notifications dispatched by sink and outcome"),
	)
	if err != nil {
		return nil, err
	}

	m.TransactionsBuilt, err = meter.Int64Counter(
		"mint_transactions_built_total",
		metric.WithDescription("Unsigned mint transactions returned to clients"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	labels := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.Int("status", status),
	)

	m.HTTPRequests.Add(ctx, 1, labels)
	m.HTTPDuration.Record(ctx, duration.Seconds(), labels)
}

func (m *Metrics) RecordUpstream(ctx context.Context, operation, outcome string, duration time.Duration) {
	labels := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)

	m.UpstreamRequests.Add(ctx, 1, labels)
	m.UpstreamDuration.Record(ctx, duration.Seconds(), labels)
}

func (m *Metrics) RecordNotification(ctx context.Context, sink string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.Notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("sink", sink),
		attribute.String("outcome", outcome),
	))
}

func (m *Metrics) RecordTransactionBuilt(ctx context.Context, network string) {
	m.TransactionsBuilt.Add(ctx, 1, metric.WithAttributes(attribute.String("network", network)))
}
