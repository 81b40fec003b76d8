package suite

import (
	"errors"
	"fmt"
)

var (
	// ErrFailed marks an explicit failure returned by setup or a test case.
	ErrFailed = errors.New("failed")
	// ErrNoTestCases is reported when a suite defines no test cases.
	ErrNoTestCases = errors.New("no test cases defined")
	// ErrUnknownClassification is reported for a classification other than Pass or Fail.
	ErrUnknownClassification = errors.New("test classification is not defined")
)

// Fault is an abnormal exit from setup, a test case or teardown. It is
// produced either by a recovered panic or by a returned error that does not
// wrap ErrFailed.
type Fault struct {
	Message string
	// Value is the recovered panic value, or the returned error.
	Value any
	// Stack is the goroutine stack at the point of recovery, if captured.
	Stack []byte
}

// Error implements error.
func (f *Fault) Error() string {
	return f.Message
}

// Unwrap returns the wrapped error when the fault originates from one.
func (f *Fault) Unwrap() error {
	if err, ok := f.Value.(error); ok {
		return err
	}

	return nil
}

func newFault(value any, stack []byte) *Fault {
	if f, ok := value.(*Fault); ok {
		if f.Stack == nil {
			f.Stack = stack
		}

		return f
	}

	var msg string
	switch v := value.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	default:
		msg = fmt.Sprint(v)
	}

	return &Fault{Message: msg, Value: value, Stack: stack}
}

// FailOption tunes Context.Fail and Context.FailIf.
type FailOption func(*failOptions)

type failOptions struct {
	fault bool
}

// NoFault makes Fail return an error wrapping ErrFailed instead of aborting
// the current test case.
func NoFault() FailOption {
	return func(o *failOptions) {
		o.fault = false
	}
}
