package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"osccli/internal/infrastructure"
	"osccli/pkg/contracts/domain"
)

// runTracer wraps the tracer with the span layout of a pipeline run:
// one pipeline.run span with a pipeline.file child per source file
type runTracer struct {
	tracer trace.Tracer
}

func newRunTracer(tracer trace.Tracer) *runTracer {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(infrastructure.TracerName)
	}
	return &runTracer{tracer: tracer}
}

// TraceRun creates the span for one run
func (rt *runTracer) TraceRun(ctx context.Context, runID string, fileCount, workers int) (context.Context, trace.Span) {
	return rt.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.files", fileCount),
			attribute.Int("run.workers", workers),
		),
	)
}

// TraceFile creates the span for one source file
func (rt *runTracer) TraceFile(ctx context.Context, src domain.SourceFile) (context.Context, trace.Span) {
	return rt.tracer.Start(ctx, "pipeline.file",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("file.name", src.Name),
			attribute.String("file.format", string(src.Format)),
			attribute.Int64("file.size", src.Size),
		),
	)
}

// RecordFileCompletion sets the outcome of a file span
func (rt *runTracer) RecordFileCompletion(span trace.Span, out fileOutcome, duration time.Duration) {
	span.SetAttributes(
		attribute.Float64("file.duration_seconds", duration.Seconds()),
		attribute.Int("file.rows_dropped", out.dropped),
		attribute.Int("file.values_interpolated", out.filled),
	)
	if out.result == nil {
		span.SetAttributes(attribute.String("file.skip_reason", string(out.skipReason)))
		if out.err != nil {
			span.RecordError(out.err)
		}
		span.SetStatus(codes.Error, fmt.Sprintf("file skipped: %s", out.skipReason))
		return
	}
	span.SetAttributes(attribute.Int("file.records", len(out.result.Records)))
	span.SetStatus(codes.Ok, "file loaded")
}

// RecordRunCompletion sets the outcome of a run span
func (rt *runTracer) RecordRunCompletion(span trace.Span, res *Result) {
	span.SetAttributes(
		attribute.Int("run.files_loaded", res.FilesLoaded),
		attribute.Int("run.files_skipped", res.FilesSkipped),
		attribute.Int("run.records", res.Dataset.Len()),
		attribute.Float64("run.duration_seconds", res.Duration.Seconds()),
	)
	span.SetStatus(codes.Ok, fmt.Sprintf("loaded %d of %d files", res.FilesLoaded, len(res.Files)))
}
