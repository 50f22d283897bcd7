// Package async guards handler code against panics.
package async

import (
	"fmt"
	"runtime/debug"
)

// PanicLogger captures panic reports.
type PanicLogger interface {
	Error(format string, args ...any)
}

// PanicError carries a recovered panic value and its stack.
type PanicError struct {
	Name  string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("panic: %v", e.Value)
	}
	return fmt.Sprintf("panic in %s: %v", e.Name, e.Value)
}

// Call runs fn and converts a panic into a *PanicError so deferred cleanup
// in the caller still runs.
func Call(logger PanicLogger, name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			perr := &PanicError{Name: name, Value: r, Stack: debug.Stack()}
			report(logger, perr)
			err = perr
		}
	}()
	return fn()
}

func report(logger PanicLogger, perr *PanicError) {
	if logger == nil {
		return
	}
	if perr.Name == "" {
		logger.Error("goroutine panic: %v, stack: %s", perr.Value, perr.Stack)
		return
	}
	logger.Error("goroutine panic [%s]: %v, stack: %s", perr.Name, perr.Value, perr.Stack)
}
