package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/datakit/logger"
	"github.com/kbukum/datakit/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name reported for this process.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Version,
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds OpenTelemetry metric instruments for pipeline observability.
type Metrics struct {
	elementsTotal   metric.Int64Counter
	errorTotal      metric.Int64Counter
	loadsTotal      metric.Int64Counter
	checkpointTotal metric.Int64Counter
	nextDuration    metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	elementsTotal, err := meter.Int64Counter("pipeline.elements",
		metric.WithDescription("Total number of elements served by a stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.elements counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("pipeline.errors",
		metric.WithDescription("Total errors by type and stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.errors counter: %w", err)
	}

	loadsTotal, err := meter.Int64Counter("pipeline.loads",
		metric.WithDescription("Total nested pipelines materialized by yield stages"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.loads counter: %w", err)
	}

	checkpointTotal, err := meter.Int64Counter("checkpoint.total",
		metric.WithDescription("Total checkpoint operations by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating checkpoint.total counter: %w", err)
	}

	nextDuration, err := meter.Float64Histogram("next.duration",
		metric.WithDescription("Duration of Next calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating next.duration histogram: %w", err)
	}

	return &Metrics{
		elementsTotal:   elementsTotal,
		errorTotal:      errorTotal,
		loadsTotal:      loadsTotal,
		checkpointTotal: checkpointTotal,
		nextDuration:    nextDuration,
	}, nil
}

// RecordElement records one element served by the named stage.
func (m *Metrics) RecordElement(ctx context.Context, stage string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("stage", stage))
	m.elementsTotal.Add(ctx, 1, attrs)
	m.nextDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordError records an error surfaced by the named stage.
func (m *Metrics) RecordError(ctx context.Context, errType, stage string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("stage", stage),
	))
}

// RecordLoad records one nested pipeline materialized by a yield stage.
func (m *Metrics) RecordLoad(ctx context.Context, stage string) {
	m.loadsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordCheckpoint records a checkpoint operation ("save" or "restore").
func (m *Metrics) RecordCheckpoint(ctx context.Context, kind, status string) {
	m.checkpointTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	))
}
