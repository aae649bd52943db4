package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"osccli/pkg/contracts"
)

const (
	ServiceName = "osccli"
	TracerName  = "osccli/pipeline"
)

// TracingConfig holds OpenTelemetry tracing configuration
type TracingConfig struct {
	Enabled bool
	Writer  io.Writer // destination of the stdout exporter; nil means os.Stdout
	Pretty  bool
}

// Tracing owns the tracer provider for the lifetime of a command
type Tracing struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// InitializeTracing sets up span export. When disabled the returned Tracing
// hands out a no-op tracer and Shutdown does nothing.
func InitializeTracing(cfg TracingConfig, logger *slog.Logger) (*Tracing, error) {
	if logger == nil {
		logger = GetLogger()
	}
	if !cfg.Enabled {
		return &Tracing{tracer: noop.NewTracerProvider().Tracer(TracerName)}, nil
	}

	var opts []stdouttrace.Option
	if cfg.Writer != nil {
		opts = append(opts, stdouttrace.WithWriter(cfg.Writer))
	}
	if cfg.Pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", contracts.Version),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)

	logger.Debug("Tracing initialized", slog.String("service", ServiceName))

	return &Tracing{provider: provider, tracer: provider.Tracer(TracerName)}, nil
}

// Tracer returns the pipeline tracer
func (t *Tracing) Tracer() trace.Tracer {
	if t == nil || t.tracer == nil {
		return noop.NewTracerProvider().Tracer(TracerName)
	}
	return t.tracer
}

// Shutdown flushes and stops the tracer provider
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
