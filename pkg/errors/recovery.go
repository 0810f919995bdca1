// This file converts panics raised inside gonum into structured errors so that
// solvers return an error instead of crashing the caller.

package errors

import (
	"fmt"
	"runtime/debug"

	"gonum.org/v1/gonum/mat"
)

// PanicError represents an error that was created from a recovered panic.
type PanicError struct {
	// PanicValue is the original value passed to panic()
	PanicValue interface{}

	// StackTrace contains the stack trace at the time of panic
	StackTrace string

	// Operation identifies where the panic was recovered
	Operation string
}

// Error implements the error interface for PanicError.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.PanicValue.(error); ok {
		return err
	}
	return nil
}

// String provides detailed information including stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError creates a new PanicError with the given operation context and panic value.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover is used with defer to turn a panic into an error.
//
// gonum signals shape mismatches and singular factorizations by panicking
// with a mat.Error; those become a ModelError of kind "linear algebra". Any
// other panic value becomes a PanicError.
//
// Usage:
//
//	func RidgeRegression(...) (w *mat.VecDense, loss float64, err error) {
//	    defer errors.Recover(&err, "RidgeRegression")
//	    ...
//	}
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}

	var converted error
	if matErr, ok := r.(mat.Error); ok {
		converted = NewModelError(operation, "linear algebra", matErr)
	} else {
		converted = NewPanicError(operation, r)
	}

	if *err != nil {
		*err = Wrapf(*err, "%s", converted.Error())
		return
	}
	*err = converted
}

// SafeExecute executes fn and recovers from any panic, converting it to an error.
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
