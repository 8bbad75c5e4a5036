package process

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/observability"
)

const (
	spanOpen  = observability.SpanProcessOpen
	spanClose = observability.SpanProcessClose

	meterName = "github.com/kbukum/pipekit/process"
)

var (
	metricsOnce sync.Once
	metrics     *observability.ProcessMetrics
)

// processMetrics resolves instruments on first use against whatever meter
// provider is installed by then. Nil if instrument creation failed.
func processMetrics() *observability.ProcessMetrics {
	metricsOnce.Do(func() {
		m, err := observability.NewProcessMetrics(observability.Meter(meterName))
		if err != nil {
			logger.Warn("process metrics disabled", logger.ErrorFields("metrics", err))
			return
		}
		metrics = m
	})
	return metrics
}

func startSpan(p *Process, name string) (context.Context, trace.Span) {
	return observability.StartSpan(context.Background(), name,
		trace.WithAttributes(
			attribute.String(observability.AttrProcessID, p.id),
			attribute.String(observability.AttrCommand, p.cmd.String()),
			attribute.String(observability.AttrShape, p.shape.Name),
		),
	)
}

func recordSpawn(ctx context.Context, p *Process, span trace.Span) {
	span.SetAttributes(attribute.Int(observability.AttrPID, p.Pid()))
	if m := processMetrics(); m != nil {
		m.RecordSpawn(ctx, p.shape.Name)
	}
}

func recordSpawnFailure(ctx context.Context, p *Process, err error) {
	observability.SetSpanError(ctx, err)
	if m := processMetrics(); m != nil {
		m.RecordSpawnFailure(ctx, p.shape.Name)
	}
}

func recordExit(ctx context.Context, p *Process, span trace.Span, code int, lifetime time.Duration) {
	span.SetAttributes(attribute.Int(observability.AttrExitCode, code))
	if m := processMetrics(); m != nil {
		m.RecordExit(ctx, p.shape.Name, code, lifetime)
	}
}
