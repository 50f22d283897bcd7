package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/logging"
)

// StateHandler serves the persisted state read-only.
type StateHandler struct {
	reader StateReader
	logger logging.Logger
}

func (h *StateHandler) Get(c *gin.Context) {
	if h.reader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "state store not configured"})
		return
	}
	st, err := h.reader.Load(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context(), h.logger).Error("Failed to load state: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "state store unavailable"})
		return
	}
	c.JSON(http.StatusOK, st)
}
