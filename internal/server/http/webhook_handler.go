package http

import (
	"crypto/subtle"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/channels/telegram"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/logging"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/observability"
	jsonx "github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/shared/json"
)

const (
	secretHeader   = "X-Telegram-Bot-Api-Secret-Token"
	maxWebhookBody = 1 << 20
)

// WebhookHandler receives Bot API updates.
type WebhookHandler struct {
	gateway UpdateHandler
	secret  string
	logger  logging.Logger
	metrics *observability.MetricsCollector
	tracer  *observability.TracerProvider
}

// Handle answers 200 for every authenticated delivery, including ones whose
// processing failed, so the platform does not redeliver them.
func (h *WebhookHandler) Handle(c *gin.Context) {
	ctx, span := h.tracer.StartSpan(c.Request.Context(), observability.SpanWebhookServer)
	defer span.End()
	logger := logging.FromContext(ctx, h.logger)

	if h.gateway == nil {
		h.metrics.RecordWebhook(ctx, "unavailable")
		span.SetStatus(codes.Error, "gateway not configured")
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "webhook not configured"})
		return
	}
	if h.secret != "" {
		provided := c.GetHeader(secretHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
			h.metrics.RecordWebhook(ctx, "forbidden")
			logger.Warn("Rejected webhook delivery with a bad secret token")
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
			return
		}
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.metrics.RecordWebhook(ctx, "malformed")
		logger.Warn("Failed to read webhook body: %v", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}
	var upd telegram.Update
	if err := jsonx.Unmarshal(raw, &upd); err != nil {
		h.metrics.RecordWebhook(ctx, "malformed")
		logger.Warn("Dropping undecodable webhook update: %v", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}
	span.SetAttributes(attribute.Int64(observability.AttrUpdateID, upd.UpdateID))

	res, err := h.gateway.HandleUpdate(ctx, upd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.metrics.RecordWebhook(ctx, "error")
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}
	h.metrics.RecordWebhook(ctx, "ok")
	c.JSON(http.StatusOK, gin.H{"ok": true, "handled": res.Handled(), "route": res.Route})
}
