package oteltrace

import (
	"context"

	"github.com/Zhima-Mochi/minipay/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type tracer struct{ t trace.Tracer }

// New returns a tracer bound to the global provider. Install one with
// telemetry.InitTracer first or spans are dropped by the otel nop provider.
func New(name string) observability.Tracer {
	if name == "" {
		name = "minipay"
	}
	return &tracer{t: otel.Tracer(name)}
}

// NewWithProvider is New for an explicit provider, mostly for tests.
func NewWithProvider(tp trace.TracerProvider, name string) observability.Tracer {
	if tp == nil {
		return New(name)
	}
	return &tracer{t: tp.Tracer(name)}
}

func (t *tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.t.Start(ctx, name, trace.WithAttributes(attrs...))
}
