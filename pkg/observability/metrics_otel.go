package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
)

// OTelTelemetry records session telemetry as OpenTelemetry metrics.
// It implements buildcheck.Telemetry.
type OTelTelemetry struct {
	checkDispatches    metric.Int64Counter
	checkExecutionTime metric.Float64Histogram
	checkFaults        metric.Int64Counter
	diagnostics        metric.Int64Counter
	failedAcquisitions metric.Int64Counter
	sessionsCompleted  metric.Int64Counter
}

// NewOTelTelemetry creates a telemetry sink on the global meter provider.
func NewOTelTelemetry() (*OTelTelemetry, error) {
	return NewOTelTelemetryWithMeter(otel.Meter("github.com/platinummonkey/buildcheck"))
}

// NewOTelTelemetryWithMeter creates a telemetry sink on meter.
func NewOTelTelemetryWithMeter(meter metric.Meter) (*OTelTelemetry, error) {
	t := &OTelTelemetry{}
	var err error

	t.checkDispatches, err = meter.Int64Counter(
		"buildcheck.check.dispatches",
		metric.WithDescription("Number of action invocations per check"),
		metric.WithUnit("{dispatch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create check_dispatches counter: %w", err)
	}

	t.checkExecutionTime, err = meter.Float64Histogram(
		"buildcheck.check.execution_time",
		metric.WithDescription("Cumulative action execution time per check and session"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create check_execution_time histogram: %w", err)
	}

	t.checkFaults, err = meter.Int64Counter(
		"buildcheck.check.faults",
		metric.WithDescription("Number of checks disabled after a failure"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create check_faults counter: %w", err)
	}

	t.diagnostics, err = meter.Int64Counter(
		"buildcheck.diagnostics",
		metric.WithDescription("Number of diagnostics forwarded to the build"),
		metric.WithUnit("{diagnostic}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create diagnostics counter: %w", err)
	}

	t.failedAcquisitions, err = meter.Int64Counter(
		"buildcheck.check.failed_acquisitions",
		metric.WithDescription("Number of checks that could not be constructed"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create failed_acquisitions counter: %w", err)
	}

	t.sessionsCompleted, err = meter.Int64Counter(
		"buildcheck.sessions",
		metric.WithDescription("Number of completed analysis sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sessions counter: %w", err)
	}

	return t, nil
}

// DispatchTelemetry records the summary of a finished session.
func (t *OTelTelemetry) DispatchTelemetry(data buildcheck.TracingData) {
	ctx := context.Background()

	for _, check := range data.Checks {
		checkAttr := metric.WithAttributes(attribute.String("check.name", check.CheckName))

		t.checkDispatches.Add(ctx, check.Dispatches, checkAttr)
		t.checkExecutionTime.Record(ctx, check.ExecutionTime.Seconds(), checkAttr)
		if check.Faulted {
			t.checkFaults.Add(ctx, 1, checkAttr)
		}

		for ruleID, bySeverity := range check.Diagnostics {
			for severity, n := range bySeverity {
				t.diagnostics.Add(ctx, n, metric.WithAttributes(
					attribute.String("check.name", check.CheckName),
					attribute.String("rule.id", ruleID),
					attribute.String("severity", severity.String()),
				))
			}
		}
	}

	t.sessionsCompleted.Add(ctx, 1)
}

// DispatchFailedAcquisitionTelemetry records a check that could not be constructed.
func (t *OTelTelemetry) DispatchFailedAcquisitionTelemetry(checkName string, cause error) {
	attrs := []attribute.KeyValue{
		attribute.String("check.name", checkName),
	}
	if cause != nil {
		attrs = append(attrs, attribute.String("error.type", fmt.Sprintf("%T", cause)))
	}
	t.failedAcquisitions.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}
