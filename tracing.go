package flightpath

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// noopTracer returns the default OpenTelemetry tracer a FlightPath
// spans its Calculate/Predict calls under, grounded on the Cizor
// example's tracing usage but scoped down to the span API only: this
// is a library with no process of its own to export spans from, so
// exporter and sampler configuration are left entirely to the
// embedder. Defaulting to trace.NewNoopTracerProvider().Tracer("flightpath")
// means a FlightPath that never calls WithTracer pays nothing.
func noopTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("flightpath")
}

// startSpan is a small helper so call sites read like
// ctx, span := fp.startSpan(ctx, "flightpath.Calculate") rather than
// reaching into fp.tracer at every call site; callers set their own
// span attributes.
func (fp *FlightPath) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return fp.tracer.Start(ctx, name)
}
