package telemetry

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/retest/internal/core/ports"
)

// NewProvider creates a tracer provider that reports spans through the bridge.
// The returned function shuts the provider down.
func NewProvider(logger ports.Logger) (*sdktrace.TracerProvider, func(context.Context) error) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewBridge(logger)),
	)
	return tp, tp.Shutdown
}
