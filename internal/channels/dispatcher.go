package channels

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/async"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/engine"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/logging"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/observability"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/utils/id"
)

// Handler is the engine entry point.
type Handler interface {
	Handle(ctx context.Context, ev engine.Event) (engine.Result, error)
}

// Dispatcher serializes events that share a state key and records the
// outcome of each one.
type Dispatcher struct {
	handler  Handler
	stateKey string
	locks    KeyLocks
	logger   logging.Logger
	metrics  *observability.MetricsCollector
	tracer   *observability.TracerProvider
}

// DispatcherConfig wires a Dispatcher.
type DispatcherConfig struct {
	StateKey string
	Logger   logging.Logger
	Metrics  *observability.MetricsCollector
	Tracer   *observability.TracerProvider
}

// NewDispatcher wraps handler.
func NewDispatcher(handler Handler, cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		handler:  handler,
		stateKey: cfg.StateKey,
		logger:   logging.OrNop(cfg.Logger),
		metrics:  cfg.Metrics,
		tracer:   cfg.Tracer,
	}
}

// Dispatch runs one event through the engine under the state-key lock.
// Store failures are logged and returned; callers acknowledge the delivery
// regardless.
func (d *Dispatcher) Dispatch(ctx context.Context, updateID string, ev engine.Event) (engine.Result, error) {
	ctx = id.WithUpdateID(ctx, updateID)
	ctx = id.WithChatID(ctx, strconv.FormatInt(ev.ChatID, 10))
	ctx, _ = id.EnsureLogID(ctx, id.NewLogID)
	logger := logging.FromContext(ctx, d.logger)

	ctx, span := d.tracer.StartSpan(ctx, observability.SpanHandleUpdate)
	defer span.End()

	lock := d.locks.Lock(d.stateKey)
	lock.Lock()
	started := time.Now()
	var res engine.Result
	err := async.Call(logger, "engine", func() error {
		var handleErr error
		res, handleErr = d.handler.Handle(ctx, ev)
		return handleErr
	})
	elapsed := time.Since(started)
	lock.Unlock()

	outcome := res.Outcome.String()
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("Update %s failed (route=%s): %v", updateID, res.Route, err)
	} else if res.Handled() {
		logger.Info("Update %s handled: route=%s class=%s sends=%d failed_sends=%d", updateID, res.Route, res.ClassCode, res.Sends, res.SendFailures)
	} else {
		logger.Debug("Update %s unhandled: route=%s class=%s", updateID, res.Route, res.ClassCode)
	}
	span.SetAttributes(observability.OutcomeAttrs(res.Route, outcome)...)
	d.metrics.RecordEvent(ctx, res.Route, outcome, elapsed)
	return res, err
}
