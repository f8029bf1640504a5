package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCounter reports the number of open billing sessions
type SessionCounter interface {
	Count() int
}

// HealthHandler serves the liveness probe
type HealthHandler struct {
	service  string
	sessions SessionCounter
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service string, sessions SessionCounter) *HealthHandler {
	return &HealthHandler{service: service, sessions: sessions}
}

// Check reports service status
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"service":       h.service,
		"open_sessions": h.sessions.Count(),
	})
}
