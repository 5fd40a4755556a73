package tracing_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/memsim/tracing"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestEndSpanRecordsStatus(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider, err := tracing.NewProvider("memsim", "test", exporter)
	require.NoError(t, err)

	tracer := provider.Tracer(tracing.InstrumentationName)

	_, span := tracer.Start(context.Background(), "ok")
	tracing.EndSpan(span, nil)

	_, span = tracer.Start(context.Background(), "failed")
	tracing.EndSpan(span, errors.New("no memory"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	require.Equal(t, "ok", spans[0].Name)
	require.Equal(t, codes.Ok, spans[0].Status.Code)
	require.Equal(t, "failed", spans[1].Name)
	require.Equal(t, codes.Error, spans[1].Status.Code)
	require.Equal(t, "no memory", spans[1].Status.Description)
	require.Len(t, spans[1].Events, 1)
}

func TestNewProviderRequiresExporter(t *testing.T) {
	_, err := tracing.NewProvider("memsim", "test", nil)
	require.Error(t, err)
}

func TestNewStdoutProviderWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")

	provider, closeProvider, err := tracing.NewStdoutProvider("memsim", "test", path)
	require.NoError(t, err)

	_, span := provider.Tracer(tracing.InstrumentationName).Start(context.Background(), "Kernel.Step")
	tracing.EndSpan(span, nil)
	require.NoError(t, closeProvider(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "Kernel.Step")
}
