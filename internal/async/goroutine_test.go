package async

import (
	"errors"
	"fmt"
	"testing"
)

type captureLogger struct{ lines []string }

func (c *captureLogger) Error(format string, args ...any) {
	c.lines = append(c.lines, fmt.Sprintf(format, args...))
}

func TestCallReturnsError(t *testing.T) {
	want := errors.New("plain")
	if err := Call(nil, "engine", func() error { return want }); err != want {
		t.Fatalf("expected passthrough error, got %v", err)
	}
}

func TestCallRecoversPanic(t *testing.T) {
	logger := &captureLogger{}
	err := Call(logger, "engine", func() error { panic("nil slot") })

	var perr *PanicError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PanicError, got %v", err)
	}
	if perr.Value != "nil slot" || perr.Name != "engine" || len(perr.Stack) == 0 {
		t.Fatalf("unexpected panic error: %+v", perr)
	}
	if len(logger.lines) != 1 {
		t.Fatalf("expected one log line, got %d", len(logger.lines))
	}
}
