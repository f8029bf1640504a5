package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/freshmart-pos/pkg/apperror"
	"github.com/sangkips/freshmart-pos/pkg/utils"
)

// SessionChecker reports whether a billing session is still open
type SessionChecker interface {
	Exists(sessionID uuid.UUID) bool
}

// SessionAuth authenticates a request by its session token. The session
// must still be open: a token outlives a closed or expired session.
func SessionAuth(jwtManager *utils.JWTManager, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateSessionToken(parts[1])
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				response.AbortWithError(c, apperror.ErrTokenExpired)
				return
			}
			response.AbortWithError(c, apperror.ErrInvalidToken)
			return
		}

		if !sessions.Exists(claims.SessionID) {
			response.AbortWithError(c, apperror.ErrSessionNotFound)
			return
		}

		c.Set(SessionIDKey, claims.SessionID)
		c.Set(RegisterKey, claims.Register)

		c.Next()
	}
}
