// Package tracing builds the OpenTelemetry tracer providers used by simulation runs and wraps the
// span bookkeeping the kernel does around each step.
package tracing

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the name spans produced by this module are recorded under
const InstrumentationName = "github.com/vkngwrapper/memsim"

// NewStdoutProvider creates a tracer provider that writes spans as JSON. If outputFile is empty the
// spans are written to os.Stdout. The returned close function flushes the provider and closes the
// output file, if one was opened.
func NewStdoutProvider(serviceName, serviceVersion, outputFile string) (*sdktrace.TracerProvider, func(context.Context) error, error) {
	var w io.Writer = os.Stdout
	var file *os.File
	if outputFile != "" {
		var err error
		file, err = os.Create(outputFile)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to create trace output %s", outputFile)
		}
		w = file
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create the stdout exporter")
	}

	provider, err := NewProvider(serviceName, serviceVersion, exporter)
	if err != nil {
		return nil, nil, err
	}

	closeProvider := func(ctx context.Context) error {
		err := provider.Shutdown(ctx)
		if file != nil {
			err = errors.CombineErrors(err, file.Close())
		}
		return err
	}

	return provider, closeProvider, nil
}

// NewProvider creates a tracer provider that sends every span to exporter as soon as it ends
func NewProvider(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) (*sdktrace.TracerProvider, error) {
	if exporter == nil {
		return nil, errors.New("attempted to create a tracer provider without an exporter")
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build the trace resource")
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	), nil
}

// EndSpan records err on the span, if it is not nil, and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
