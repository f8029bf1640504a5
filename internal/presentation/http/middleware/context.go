package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the middleware chain
const (
	RequestIDKey = "request_id"
	SessionIDKey = "session_id"
	RegisterKey  = "register"
)

// GetSessionID returns the authenticated session id, uuid.Nil if none
func GetSessionID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(SessionIDKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
