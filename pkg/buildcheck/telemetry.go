package buildcheck

import "time"

// CheckTracingData summarizes one check's activity in a session.
type CheckTracingData struct {
	CheckName     string
	RuleIDs       []string
	Dispatches    int64
	ExecutionTime time.Duration
	Faulted       bool
	FaultCause    string
	// Diagnostics counts forwarded results per rule id and severity.
	Diagnostics map[string]map[Severity]int64
}

// TracingData summarizes a whole session.
type TracingData struct {
	SessionID string
	Checks    []CheckTracingData
}

// DiagnosticCount returns the number of forwarded results for ruleID across severities.
func (d TracingData) DiagnosticCount(ruleID string) int64 {
	var total int64
	for _, check := range d.Checks {
		for _, n := range check.Diagnostics[ruleID] {
			total += n
		}
	}
	return total
}

// Telemetry receives session telemetry. Implementations must tolerate being a no-op.
type Telemetry interface {
	DispatchTelemetry(data TracingData)
	DispatchFailedAcquisitionTelemetry(checkName string, cause error)
}

// NoopTelemetry discards all telemetry, e.g. when replaying a recorded build.
type NoopTelemetry struct{}

func (NoopTelemetry) DispatchTelemetry(TracingData) {}

func (NoopTelemetry) DispatchFailedAcquisitionTelemetry(string, error) {}
