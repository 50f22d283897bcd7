package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/observability"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/utils/id"
)

type nilPtrLogger struct{}

func (*nilPtrLogger) Debug(string, ...any) {}
func (*nilPtrLogger) Info(string, ...any)  {}
func (*nilPtrLogger) Warn(string, ...any)  {}
func (*nilPtrLogger) Error(string, ...any) {}

func TestOrNopHandlesTypedNilPointers(t *testing.T) {
	var typed *nilPtrLogger
	var logger Logger = typed
	if !IsNil(logger) {
		t.Fatalf("expected typed nil pointer to be detected")
	}
	safe := OrNop(logger)
	if IsNil(safe) {
		t.Fatalf("expected OrNop to return a usable logger")
	}
	safe.Info("hello %s", "world") // should not panic
}

func TestFromObservabilityFormatsMessages(t *testing.T) {
	buf := &bytes.Buffer{}
	base := observability.NewLogger(observability.LogConfig{
		Level:  "info",
		Format: "text",
		Output: buf,
	})

	logger := FromObservabilityWithComponent(base, "test")
	logger.Info("hello %s", "world")

	if got := buf.String(); got == "" {
		t.Fatalf("expected log output")
	}
	if want := "hello world"; !bytes.Contains(buf.Bytes(), []byte(want)) {
		t.Fatalf("expected %q in output, got %q", want, buf.String())
	}
	if !strings.Contains(buf.String(), "component=test") {
		t.Fatalf("expected component field, got %q", buf.String())
	}
}

func TestFromContextAddsLogIDField(t *testing.T) {
	buf := &bytes.Buffer{}
	base := observability.NewLogger(observability.LogConfig{Level: "debug", Format: "text", Output: buf})
	logger := FromObservabilityWithComponent(base, "engine")

	ctx := id.WithLogID(context.Background(), "log-xyz")
	FromContext(ctx, logger).Warn("stored %d", 1)

	if !strings.Contains(buf.String(), "log_id=log-xyz") {
		t.Fatalf("expected log_id field, got %q", buf.String())
	}
}

type captureLogger struct{ lines []string }

func (c *captureLogger) Debug(format string, args ...any) { c.lines = append(c.lines, format) }
func (c *captureLogger) Info(format string, args ...any)  { c.lines = append(c.lines, format) }
func (c *captureLogger) Warn(format string, args ...any)  { c.lines = append(c.lines, format) }
func (c *captureLogger) Error(format string, args ...any) { c.lines = append(c.lines, format) }

func TestWithLogIDPrefixesPlainLoggers(t *testing.T) {
	capture := &captureLogger{}
	WithLogID(capture, "log-1").Info("hello")
	if len(capture.lines) != 1 || capture.lines[0] != "logid=log-1 hello" {
		t.Fatalf("unexpected lines %v", capture.lines)
	}
}

func TestMultiFansOutAndSkipsNil(t *testing.T) {
	a, b := &captureLogger{}, &captureLogger{}
	var typed *nilPtrLogger
	Multi(a, nil, typed, b).Error("boom")
	if len(a.lines) != 1 || len(b.lines) != 1 {
		t.Fatalf("expected both loggers to receive the line, got %v %v", a.lines, b.lines)
	}
	if _, ok := Multi(a).(*captureLogger); !ok {
		t.Fatal("single logger should be returned as-is")
	}
}
