package infrastructure

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
)

// CheckState is the lifecycle state of a hosted check.
type CheckState int32

const (
	StateUnregistered CheckState = iota
	StateInitializing
	StateRegistering
	StateActive
	StateFaulted
)

func (s CheckState) String() string {
	switch s {
	case StateUnregistered:
		return "unregistered"
	case StateInitializing:
		return "initializing"
	case StateRegistering:
		return "registering"
	case StateActive:
		return "active"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

type faultRecord struct {
	err error
}

// CheckWrapper is the session's handle on one check instance.
type CheckWrapper struct {
	check buildcheck.Check
	name  string
	rules []buildcheck.Rule
	index map[string]int

	state atomic.Int32
	fault atomic.Pointer[faultRecord]

	// registrations counts Register* calls per event kind.
	registrations [buildcheck.NumEventKinds]atomic.Int32

	configMu sync.RWMutex
	configs  map[string]*projectConfig

	dispatches    atomic.Int64
	executionTime atomic.Int64

	statsMu     sync.Mutex
	diagnostics map[string]map[buildcheck.Severity]int64
}

func newCheckWrapper(check buildcheck.Check, name string, rules []buildcheck.Rule) *CheckWrapper {
	index := make(map[string]int, len(rules))
	for i, rule := range rules {
		index[rule.ID] = i
	}
	return &CheckWrapper{
		check:       check,
		name:        name,
		rules:       rules,
		index:       index,
		configs:     make(map[string]*projectConfig),
		diagnostics: make(map[string]map[buildcheck.Severity]int64),
	}
}

// Name returns the check's friendly name.
func (w *CheckWrapper) Name() string { return w.name }

// Check returns the wrapped check.
func (w *CheckWrapper) Check() buildcheck.Check { return w.check }

// Rules returns the rules the check declared, in declaration order.
func (w *CheckWrapper) Rules() []buildcheck.Rule {
	rules := make([]buildcheck.Rule, len(w.rules))
	copy(rules, w.rules)
	return rules
}

// State returns the current lifecycle state.
func (w *CheckWrapper) State() CheckState {
	return CheckState(w.state.Load())
}

// IsActive reports whether the check currently receives events.
func (w *CheckWrapper) IsActive() bool {
	return w.State() == StateActive && !w.IsFaulted()
}

// IsFaulted reports whether the check has been disabled.
func (w *CheckWrapper) IsFaulted() bool {
	return w.fault.Load() != nil
}

// FaultCause returns the failure that disabled the check, or nil.
func (w *CheckWrapper) FaultCause() error {
	if rec := w.fault.Load(); rec != nil {
		return rec.err
	}
	return nil
}

func (w *CheckWrapper) rule(id string) (buildcheck.Rule, bool) {
	i, ok := w.index[id]
	if !ok {
		return buildcheck.Rule{}, false
	}
	return w.rules[i], true
}

// transition moves from one non-terminal state to another. It fails if the
// check is no longer in from, in particular after a fault.
func (w *CheckWrapper) transition(from, to CheckState) bool {
	if w.IsFaulted() {
		return false
	}
	return w.state.CompareAndSwap(int32(from), int32(to))
}

// markFaulted records err as the fault cause. Only the first call wins and
// returns true along with the state the check was in.
func (w *CheckWrapper) markFaulted(err error) (CheckState, bool) {
	if !w.fault.CompareAndSwap(nil, &faultRecord{err: err}) {
		return StateFaulted, false
	}
	return CheckState(w.state.Swap(int32(StateFaulted))), true
}

func (w *CheckWrapper) recordDispatch(d time.Duration) {
	w.dispatches.Add(1)
	w.executionTime.Add(int64(d))
}

func (w *CheckWrapper) recordDiagnostic(ruleID string, severity buildcheck.Severity) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()

	bySeverity, ok := w.diagnostics[ruleID]
	if !ok {
		bySeverity = make(map[buildcheck.Severity]int64)
		w.diagnostics[ruleID] = bySeverity
	}
	bySeverity[severity]++
}

func (w *CheckWrapper) tracingData() buildcheck.CheckTracingData {
	data := buildcheck.CheckTracingData{
		CheckName:     w.name,
		Dispatches:    w.dispatches.Load(),
		ExecutionTime: time.Duration(w.executionTime.Load()),
		Faulted:       w.IsFaulted(),
		Diagnostics:   make(map[string]map[buildcheck.Severity]int64),
	}
	for _, rule := range w.rules {
		data.RuleIDs = append(data.RuleIDs, rule.ID)
	}
	if cause := w.FaultCause(); cause != nil {
		data.FaultCause = cause.Error()
	}

	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	for ruleID, bySeverity := range w.diagnostics {
		counts := make(map[buildcheck.Severity]int64, len(bySeverity))
		for severity, n := range bySeverity {
			counts[severity] = n
		}
		data.Diagnostics[ruleID] = counts
	}
	return data
}

// CheckInfo is a point-in-time view of a hosted check.
type CheckInfo struct {
	Name       string
	State      CheckState
	FaultCause error
	Rules      []buildcheck.Rule
}

func (w *CheckWrapper) info() CheckInfo {
	return CheckInfo{
		Name:       w.name,
		State:      w.State(),
		FaultCause: w.FaultCause(),
		Rules:      w.Rules(),
	}
}
