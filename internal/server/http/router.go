// Package http exposes the webhook endpoint and the operator endpoints
// (health, metrics, read-only state) over gin.
package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/channels/telegram"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/engine"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/logging"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/observability"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
)

const DefaultWebhookPath = "/telegram/webhook"

// UpdateHandler consumes decoded Bot API updates.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, upd telegram.Update) (engine.Result, error)
}

// StateReader loads the persisted state for the operator view.
type StateReader interface {
	Load(ctx context.Context) (*state.GlobalState, error)
}

// RouterDeps wires NewRouter. Gateway and State may be nil.
type RouterDeps struct {
	Gateway        UpdateHandler
	State          StateReader
	WebhookPath    string
	WebhookSecret  string
	AdminToken     string
	AllowedOrigins []string
	Version        string
	Logger         logging.Logger
	Metrics        *observability.MetricsCollector
	Tracer         *observability.TracerProvider
}

// NewRouter builds the gin engine.
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := logging.OrNop(deps.Logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LogIDMiddleware())
	router.Use(LoggingMiddleware(logger))

	webhookPath := strings.TrimSpace(deps.WebhookPath)
	if webhookPath == "" {
		webhookPath = DefaultWebhookPath
	}
	webhook := &WebhookHandler{
		gateway: deps.Gateway,
		secret:  deps.WebhookSecret,
		logger:  logger,
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
	}
	router.POST(webhookPath, webhook.Handle)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": deps.Version,
			"webhook": deps.Gateway != nil,
		})
	})
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	api := router.Group("/api")
	if origins := cleanOrigins(deps.AllowedOrigins); len(origins) > 0 {
		api.Use(cors.New(corsConfig(origins)))
		// Preflight needs a matching route for group middleware to run.
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}
	stateHandler := &StateHandler{reader: deps.State, logger: logger}
	api.GET("/state", AdminAuthMiddleware(deps.AdminToken), stateHandler.Get)

	return router
}

func cleanOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
