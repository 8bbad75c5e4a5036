// Package observability provides OpenTelemetry tracing and metrics for
// pipekit.
//
// Until Setup (or InitTracer / InitMeter) installs SDK providers, spans and
// instruments resolve against the otel global no-op providers, so library
// users pay nothing for telemetry they did not ask for.
//
//	shutdown, err := observability.Setup(ctx, cfg)
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "process.open")
//	defer span.End()
package observability
