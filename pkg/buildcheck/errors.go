package buildcheck

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks duplicate rule ids or invalid rule declarations.
	ErrConfiguration = errors.New("check configuration error")

	// ErrRegistration marks a failure during a check's registration phase.
	ErrRegistration = errors.New("check registration error")

	// ErrExecution marks a failure inside a dispatched action.
	ErrExecution = errors.New("check execution error")

	// ErrReport marks a result reported for an undeclared rule.
	ErrReport = errors.New("check report error")
)

// ConfigurationError is returned when a check cannot be activated.
type ConfigurationError struct {
	Check   string
	RuleID  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("check '%s': rule '%s': %s", e.Check, e.RuleID, e.Message)
	}
	return fmt.Sprintf("check '%s': %s", e.Check, e.Message)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// RegistrationError is returned when a check fails while initializing or
// registering its actions.
type RegistrationError struct {
	Check  string
	Action string
	Err    error
}

func (e *RegistrationError) Error() string {
	if e.Action != "" && e.Err == nil {
		return fmt.Sprintf("check '%s' attempted to call '%s' multiple times", e.Check, e.Action)
	}
	if e.Action != "" {
		return fmt.Sprintf("check '%s' failed in '%s': %v", e.Check, e.Action, e.Err)
	}
	return fmt.Sprintf("check '%s' failed to register: %v", e.Check, e.Err)
}

func (e *RegistrationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRegistration}
	}
	return []error{ErrRegistration, e.Err}
}

// ExecutionError is returned when an action fails or panics.
type ExecutionError struct {
	Check string
	Kind  EventKind
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("check '%s' failed while processing %s: %v", e.Check, e.Kind, e.Err)
}

func (e *ExecutionError) Unwrap() []error { return []error{ErrExecution, e.Err} }

// ReportError is returned when a check reports a rule it did not declare.
type ReportError struct {
	Check  string
	RuleID string
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("check '%s' reported unsupported rule '%s'", e.Check, e.RuleID)
}

func (e *ReportError) Unwrap() []error { return []error{ErrReport, ErrExecution} }
