package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/pipekit/logger"
)

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, cfg *Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(newResource(cfg)),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// ProcessMetrics holds the instruments recorded over a child process lifecycle.
type ProcessMetrics struct {
	spawned       metric.Int64Counter
	spawnFailures metric.Int64Counter
	active        metric.Int64UpDownCounter
	lifetime      metric.Float64Histogram
	exits         metric.Int64Counter
}

// NewProcessMetrics creates process instruments on the given meter.
func NewProcessMetrics(meter metric.Meter) (*ProcessMetrics, error) {
	spawned, err := meter.Int64Counter("process.spawned",
		metric.WithDescription("Child processes started"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.spawned counter: %w", err)
	}

	spawnFailures, err := meter.Int64Counter("process.spawn_failures",
		metric.WithDescription("Child processes that failed to start"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.spawn_failures counter: %w", err)
	}

	active, err := meter.Int64UpDownCounter("process.active",
		metric.WithDescription("Child processes currently open"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.active gauge: %w", err)
	}

	lifetime, err := meter.Float64Histogram("process.lifetime",
		metric.WithDescription("Time from open to close in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.lifetime histogram: %w", err)
	}

	exits, err := meter.Int64Counter("process.exits",
		metric.WithDescription("Closed child processes by exit code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.exits counter: %w", err)
	}

	return &ProcessMetrics{
		spawned:       spawned,
		spawnFailures: spawnFailures,
		active:        active,
		lifetime:      lifetime,
		exits:         exits,
	}, nil
}

// RecordSpawn records a successful open.
func (m *ProcessMetrics) RecordSpawn(ctx context.Context, shape string) {
	attrs := metric.WithAttributes(attribute.String("shape", shape))
	m.spawned.Add(ctx, 1, attrs)
	m.active.Add(ctx, 1, attrs)
}

// RecordSpawnFailure records a failed open.
func (m *ProcessMetrics) RecordSpawnFailure(ctx context.Context, shape string) {
	m.spawnFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("shape", shape)))
}

// RecordExit records a close with its exit code and the time the child was open.
func (m *ProcessMetrics) RecordExit(ctx context.Context, shape string, exitCode int, lifetime time.Duration) {
	shapeAttr := attribute.String("shape", shape)
	m.active.Add(ctx, -1, metric.WithAttributes(shapeAttr))
	m.lifetime.Record(ctx, lifetime.Seconds(), metric.WithAttributes(shapeAttr))
	m.exits.Add(ctx, 1, metric.WithAttributes(
		shapeAttr,
		attribute.String("exit_code", strconv.Itoa(exitCode)),
	))
}
