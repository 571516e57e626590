package provider

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "kasir/internal/messaging/provider"

// TracingProvider wraps a Provider with OpenTelemetry spans.
type TracingProvider struct {
	next   Provider
	tracer trace.Tracer
}

var _ Provider = (*TracingProvider)(nil)

func NewTracingProvider(next Provider) *TracingProvider {
	return &TracingProvider{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (p *TracingProvider) Name() string {
	return p.next.Name()
}

func (p *TracingProvider) Send(ctx context.Context, recipient, message string) (string, error) {
	ctx, span := p.tracer.Start(ctx, "Provider.Send",
		trace.WithAttributes(
			attribute.String("messaging.provider", p.next.Name()),
			attribute.Int("messaging.message.length", len(message)),
		),
	)
	defer span.End()

	resp, err := p.next.Send(ctx, recipient, message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}

func (p *TracingProvider) TestConnection(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, "Provider.TestConnection",
		trace.WithAttributes(attribute.String("messaging.provider", p.next.Name())),
	)
	defer span.End()

	err := p.next.TestConnection(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
