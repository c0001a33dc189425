package observability

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// RecoverPanic recovers from a panic and logs it with structured logging
//
// Usage in defer statements:
//
//	func riskyOperation() {
//	    defer observability.RecoverPanic(logger, "risky operation")
//	    // ... code that might panic
//	}
//
// After logging, the panic is NOT re-raised - the function returns normally.
func RecoverPanic(logger logrus.FieldLogger, context string) {
	if r := recover(); r != nil {
		logger.WithField("panic", r).
			WithField("stack", string(debug.Stack())).
			WithField("context", context).
			Error("PANIC recovered")
	}
}

// PanicError is returned by Safely when the wrapped function panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// MustRecover converts a recovered value to an error.
//
// Usage when you want to convert panics to errors:
//
//	func parseData() (result Data, err error) {
//	    defer func() {
//	        if e := observability.MustRecover(recover()); e != nil {
//	            err = e
//	        }
//	    }()
//	    // ... code that might panic
//	    return data, nil
//	}
//
// If no panic (r is nil), returns nil.
func MustRecover(r interface{}) error {
	if r != nil {
		return &PanicError{Value: r, Stack: debug.Stack()}
	}
	return nil
}

// Safely runs fn and returns its error, or a *PanicError if fn panicked.
// It is meant for calling into code the caller does not trust.
func Safely(fn func() error) (err error) {
	defer func() {
		if e := MustRecover(recover()); e != nil {
			err = e
		}
	}()
	return fn()
}
