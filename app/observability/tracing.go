package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Black-And-White-Club/tournament-uploader"

// Tracer returns the tracer from the globally registered provider, which is a
// no-op unless an exporter has been installed.
func Tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(instrumentationName)
}
