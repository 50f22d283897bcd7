package telegram

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/engine"
	boterrors "github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/errors"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/logging"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/observability"
)

// DefaultSendRate stays under the Bot API global limit of 30 messages per second.
const DefaultSendRate = 25

// TransportConfig wires a Transport.
type TransportConfig struct {
	// SendRate is messages per second across all chats; zero uses DefaultSendRate.
	SendRate float64
	Retry    boterrors.RetryConfig
	Logger   logging.Logger
	Metrics  *observability.MetricsCollector
	Tracer   *observability.TracerProvider
}

// Transport delivers engine sends through the Bot API. Rate limiting and
// retries of transient failures happen here, never in the engine.
type Transport struct {
	client  *Client
	limiter *rate.Limiter
	retry   boterrors.RetryConfig
	logger  logging.Logger
	metrics *observability.MetricsCollector
	tracer  *observability.TracerProvider
}

var _ engine.Transport = (*Transport)(nil)

// NewTransport builds a transport over client.
func NewTransport(client *Client, cfg TransportConfig) *Transport {
	perSecond := cfg.SendRate
	if perSecond <= 0 {
		perSecond = DefaultSendRate
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	retry := cfg.Retry
	if retry.MaxAttempts == 0 && retry.BaseDelay == 0 {
		retry = boterrors.DefaultRetryConfig()
	}
	return &Transport{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		retry:   retry,
		logger:  logging.OrNop(cfg.Logger),
		metrics: cfg.Metrics,
		tracer:  cfg.Tracer,
	}
}

// Send implements engine.Transport.
func (t *Transport) Send(ctx context.Context, kind engine.SendKind, target engine.Target, payload engine.Payload) (engine.Delivery, error) {
	method, err := methodFor(kind)
	if err != nil {
		t.metrics.RecordSend(ctx, string(kind), "error")
		return engine.Delivery{}, err
	}

	ctx, span := t.tracer.StartSpan(ctx, observability.SpanTelegramCall, attribute.String(observability.AttrMethod, method))
	defer span.End()

	logger := logging.FromContext(ctx, t.logger)
	msg, err := boterrors.RetryWithResult(ctx, t.retry, func(ctx context.Context) (*Message, error) {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return t.dispatch(ctx, kind, target, payload)
	}, logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.metrics.RecordSend(ctx, string(kind), "error")
		return engine.Delivery{}, err
	}
	t.metrics.RecordSend(ctx, string(kind), "ok")
	return engine.Delivery{MessageID: msg.MessageID}, nil
}

func (t *Transport) dispatch(ctx context.Context, kind engine.SendKind, target engine.Target, payload engine.Payload) (*Message, error) {
	switch kind {
	case engine.SendText:
		return t.client.SendMessage(ctx, target.ChatID, target.ThreadID, payload.Text)
	case engine.SendPhoto:
		return t.client.SendPhoto(ctx, target.ChatID, target.ThreadID, payload.FileID, payload.Caption)
	case engine.SendVideo:
		return t.client.SendVideo(ctx, target.ChatID, target.ThreadID, payload.FileID, payload.Caption)
	default:
		return t.client.SendDocument(ctx, target.ChatID, target.ThreadID, payload.FileID, payload.Caption)
	}
}

func methodFor(kind engine.SendKind) (string, error) {
	switch kind {
	case engine.SendText:
		return "sendMessage", nil
	case engine.SendPhoto:
		return "sendPhoto", nil
	case engine.SendVideo:
		return "sendVideo", nil
	case engine.SendDocument:
		return "sendDocument", nil
	default:
		return "", fmt.Errorf("telegram transport: unsupported send kind %q", kind)
	}
}
