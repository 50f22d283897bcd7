package http

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/logging"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/utils/id"
)

const logIDHeader = "X-Log-Id"

// LogIDMiddleware tags the request context with a log id, reusing an
// inbound X-Log-Id header when present.
func LogIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if inbound := strings.TrimSpace(c.GetHeader(logIDHeader)); inbound != "" {
			ctx = id.WithLogID(ctx, inbound)
		}
		ctx, logID := id.EnsureLogID(ctx, id.NewLogID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(logIDHeader, logID)
		c.Next()
	}
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware(logger logging.Logger) gin.HandlerFunc {
	logger = logging.OrNop(logger)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		reqLogger := logging.FromContext(c.Request.Context(), logger)
		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			reqLogger.Warn("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
			return
		}
		reqLogger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}

// AdminAuthMiddleware requires "Authorization: Bearer <token>". An empty
// token disables the protected routes entirely.
func AdminAuthMiddleware(token string) gin.HandlerFunc {
	token = strings.TrimSpace(token)
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "admin API disabled"})
			return
		}
		provided := extractBearerToken(c.GetHeader("Authorization"))
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func extractBearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
