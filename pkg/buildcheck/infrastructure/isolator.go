package infrastructure

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
	"github.com/platinummonkey/buildcheck/pkg/buildevents"
	"github.com/platinummonkey/buildcheck/pkg/observability"
)

// Phase names the part of a check's lifecycle a fault occurred in.
type Phase string

const (
	PhaseInitialization Phase = "initialization"
	PhaseRegistration   Phase = "registration"
	PhaseExecution      Phase = "execution"
	PhaseReport         Phase = "report"
)

// FaultOutcome describes the result of a guarded call.
type FaultOutcome struct {
	// Err is the failure, nil when the call succeeded.
	Err error
	// Faulted is true when the check is disabled after the call.
	Faulted bool
	// First is true when this call disabled the check.
	First bool
}

// Isolator runs check code so that failures disable the check instead of
// affecting the host.
type Isolator struct {
	log     logrus.FieldLogger
	metrics *observability.Metrics
}

// NewIsolator creates an isolator. metrics may be nil.
func NewIsolator(log logrus.FieldLogger, metrics *observability.Metrics) *Isolator {
	if log == nil {
		log = discardLogger()
	}
	return &Isolator{log: log, metrics: metrics}
}

// Guard runs op, recovering panics. A returned error or panic faults w, with
// wrap converting the raw failure into the taxonomy error for phase.
func (i *Isolator) Guard(w *CheckWrapper, sink *buildevents.DispatchingContext, phase Phase, wrap func(error) error, op func() error) FaultOutcome {
	err := observability.Safely(op)
	if err == nil {
		if w.IsFaulted() {
			return FaultOutcome{Err: w.FaultCause(), Faulted: true}
		}
		return FaultOutcome{}
	}
	if wrap != nil {
		err = wrap(err)
	}
	return i.Fault(w, sink, phase, err)
}

// Fault disables w. Only the first fault of a check is recorded and surfaced
// as a warning; later calls are no-ops.
func (i *Isolator) Fault(w *CheckWrapper, sink *buildevents.DispatchingContext, phase Phase, err error) FaultOutcome {
	previous, first := w.markFaulted(err)
	if !first {
		return FaultOutcome{Err: err, Faulted: true}
	}

	i.log.WithFields(logrus.Fields{
		"check": w.name,
		"phase": phase,
	}).WithError(err).Warn("Check disabled")

	i.metrics.RecordFault(w.name, string(phase))
	if previous == StateActive {
		i.metrics.RecordDeactivated()
	}

	if sink != nil {
		sink.DispatchWarning("", buildevents.FileInfo{}, fmt.Sprintf(
			"The check '%s' failed and will be disabled for the rest of the build: %v", w.name, err))
	}
	return FaultOutcome{Err: err, Faulted: true, First: true}
}

func registrationWrapper(w *CheckWrapper, action string) func(error) error {
	return func(err error) error {
		if errors.Is(err, buildcheck.ErrRegistration) {
			return err
		}
		return &buildcheck.RegistrationError{Check: w.name, Action: action, Err: err}
	}
}

func executionWrapper(w *CheckWrapper, kind buildcheck.EventKind) func(error) error {
	return func(err error) error {
		if errors.Is(err, buildcheck.ErrExecution) {
			return err
		}
		return &buildcheck.ExecutionError{Check: w.name, Kind: kind, Err: err}
	}
}
