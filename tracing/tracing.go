// Package tracing sets up the OpenTelemetry tracer provider used by the flow
// orchestrators.
package tracing

import (
	"context"
	"fmt"
	"time"

	"github.com/owlhub/owlflow-jira/config"
	"github.com/owlhub/owlflow-jira/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
)

// Setup installs the global tracer provider and returns its shutdown
// function. Without an endpoint nothing is installed and spans are no-ops.
func Setup(ctx context.Context, conf config.TracingConfig) (func(context.Context) error, error) {
	if conf.OTLPEndpoint == "" {
		logger.Info("tracing disabled")
		return func(context.Context) error { return nil }, nil
	}
	logger.Info("setting up tracing", zap.String("service", conf.ServiceName), zap.String("endpoint", conf.OTLPEndpoint))

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(conf.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(conf.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	ratio := conf.SampleRatio
	if ratio <= 0 {
		ratio = 1.0
	}
	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(ratio)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

func Shutdown(shutdown func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Error("error shutting down tracing", zap.Error(err))
		return err
	}
	return nil
}
