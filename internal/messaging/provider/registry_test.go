package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	apperrors "kasir/internal/errors"
)

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter
}

type mockProvider struct {
	SendFunc func(ctx context.Context, recipient, message string) (string, error)
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Send(ctx context.Context, recipient, message string) (string, error) {
	return m.SendFunc(ctx, recipient, message)
}

func (m *mockProvider) TestConnection(ctx context.Context) error { return nil }

func TestRegistry_UnknownProvider(t *testing.T) {
	r := NewDefaultRegistry(nil, zap.NewNop())

	_, err := r.Build("carrier-pigeon", nil)

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "provider", ve.Details[0].Field)
	assert.Equal(t, []string{TypeLog, TypeWebhook}, r.Types())
}

func TestRegistry_BuildsTracedProvider(t *testing.T) {
	r := NewDefaultRegistry(nil, zap.NewNop())

	p, err := r.Build(TypeLog, nil)
	require.NoError(t, err)

	_, traced := p.(*TracingProvider)
	assert.True(t, traced)
	assert.Equal(t, TypeLog, p.Name())
}

func TestRegistry_FactoryError(t *testing.T) {
	r := NewDefaultRegistry(nil, zap.NewNop())

	_, err := r.Build(TypeWebhook, map[string]string{})

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestLogProvider_Send(t *testing.T) {
	p := NewLogProvider(zap.NewNop())

	resp, err := p.Send(context.Background(), "62812", "hi")

	require.NoError(t, err)
	assert.Contains(t, resp, "logged")
	assert.NoError(t, p.TestConnection(context.Background()))
}

func TestTracingProvider_Send_RecordsSpan(t *testing.T) {
	exporter := setupTestTracer(t)
	p := NewTracingProvider(&mockProvider{SendFunc: func(ctx context.Context, recipient, message string) (string, error) {
		return "ok", nil
	}})

	_, err := p.Send(context.Background(), "62812", "hello")
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "Provider.Send", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.String("messaging.provider", "mock"))
	assert.Contains(t, spans[0].Attributes, attribute.Int("messaging.message.length", 5))
}

func TestTracingProvider_Send_RecordsError(t *testing.T) {
	exporter := setupTestTracer(t)
	p := NewTracingProvider(&mockProvider{SendFunc: func(ctx context.Context, recipient, message string) (string, error) {
		return "", errors.New("vendor down")
	}})

	_, err := p.Send(context.Background(), "62812", "hello")
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "vendor down", spans[0].Status.Description)
}
