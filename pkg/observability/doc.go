// Package observability provides logging, metrics, tracing, shutdown and panic
// recovery for the build check framework.
//
// # Logging
//
// NewLogger builds a logrus logger in text or JSON format. FromContext returns
// an entry carrying the session ID and, when a span is active, its trace and
// span IDs.
//
//	ctx = observability.WithSessionID(observability.WithLogger(ctx, logger), id)
//	observability.FromContext(ctx).Info("Analysis started")
//
// # Metrics
//
// Metrics registers Prometheus collectors for dispatches, forwarded and dropped
// diagnostics, and check faults. All Record methods are safe on a nil *Metrics so
// callers can leave metrics unconfigured.
//
// # Telemetry
//
// OTelTelemetry implements buildcheck.Telemetry on OpenTelemetry instruments.
// InitOTel installs OTLP/gRPC trace and metric providers; until then the global
// providers are no-ops and Tracer returns a no-op tracer.
//
// # Shutdown
//
// ShutdownManager runs registered cleanup functions concurrently under a
// timeout, once.
//
// # Panic Recovery
//
// Safely runs untrusted code and converts a panic into a *PanicError.
//
//	err := observability.Safely(func() error {
//		return check.RegisterActions(ctx)
//	})
package observability
