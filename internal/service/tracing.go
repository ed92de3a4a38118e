package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer resolves through the global provider, so spans are no-ops until
// telemetry.Setup installs an exporter.
var tracer = otel.Tracer("github.com/pkordes/trek-booking/internal/service")

// finish records err on span and ends it. Use with a named error result:
//
//	defer func() { finish(span, err) }()
func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
