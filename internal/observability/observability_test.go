package observability

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/utils/id"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "text", config.Logging.Format)
	assert.True(t, config.Metrics.Enabled)
	assert.False(t, config.Tracing.Enabled)
	assert.Equal(t, "otlp", config.Tracing.Exporter)
	assert.Equal(t, 1.0, config.Tracing.SampleRate)
}

func TestLoggerWithContextAddsIdentifiers(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(LogConfig{Level: "debug", Format: "json", Output: buf})

	ctx := id.WithIDs(context.Background(), id.IDs{LogID: "log-1", UpdateID: "77", ChatID: "-100"})
	logger.InfoContext(ctx, "handled")

	out := buf.String()
	for _, want := range []string{`"log_id":"log-1"`, `"update_id":"77"`, `"chat_id":"-100"`} {
		assert.Contains(t, out, want)
	}
}

func TestLoggerLevelFilters(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(LogConfig{Level: "warn", Output: buf})
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSanitizeToken(t *testing.T) {
	assert.Equal(t, "***", SanitizeToken("short"))
	assert.Equal(t, "123456...wxyz", SanitizeToken("123456:ABCDEFGHIJKLMNOPwxyz"))
}

func TestMetricsCollectorExposesCounters(t *testing.T) {
	collector, err := NewMetricsCollector(MetricsConfig{Enabled: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = collector.Shutdown(context.Background()) })

	ctx := context.Background()
	collector.RecordEvent(ctx, "media:schedule", "handled", 15*time.Millisecond)
	collector.RecordSend(ctx, "photo", "ok")
	collector.RecordWebhook(ctx, "accepted")
	collector.Store().Observe("memory", "save", errors.New("boom"))
	collector.Store().SetVersion(3)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, want := range []string{"teacherbot_events", "teacherbot_sends", "teacherbot_store_failures_total", "teacherbot_state_version 3"} {
		assert.True(t, strings.Contains(body, want), "missing %s in metrics output", want)
	}
}

func TestDisabledMetricsAreNoops(t *testing.T) {
	collector, err := NewMetricsCollector(MetricsConfig{})
	require.NoError(t, err)
	assert.False(t, collector.Enabled())

	collector.RecordEvent(context.Background(), "ignored", "unhandled", time.Millisecond)
	collector.Store().Observe("file", "load", nil)

	var nilCollector *MetricsCollector
	nilCollector.RecordSend(context.Background(), "text", "ok")

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDisabledTracingUsesNoop(t *testing.T) {
	provider, err := NewTracerProvider(TracingConfig{})
	require.NoError(t, err)
	ctx, span := provider.StartSpan(id.WithLogID(context.Background(), "log-1"), SpanHandleUpdate, OutcomeAttrs("ignored", "unhandled")...)
	span.End()
	assert.NotNil(t, ctx)
	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestTracingRejectsUnknownExporter(t *testing.T) {
	_, err := NewTracerProvider(TracingConfig{Enabled: true, Exporter: "jaeger"})
	assert.Error(t, err)
}
