package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope every span in a generation job
// is recorded under.
const tracerName = "github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/generator"

// Tracer returns the module-wide otel.Tracer for the generation pipeline.
// StartPipelineStep uses it to wrap one pipeline step (spec.md §4.8) in a
// span; with no exporter configured, otel's default no-op tracer makes
// this a negligible-cost no-op. Orchestrator.Generate does not call
// StartPipelineStep, so a generation run records no spans.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartPipelineStep starts a span named step and returns the derived
// context plus the span's End func, so callers can `defer end()`.
func StartPipelineStep(ctx context.Context, step string) (context.Context, func()) {
	ctx, span := Tracer().Start(ctx, step)
	return ctx, func() { span.End() }
}
