package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/middleware"
	"github.com/sangkips/freshmart-pos/pkg/apperror"
)

// requireSession returns the authenticated session id. It responds 401 and
// reports false when the route was mounted without session auth.
func requireSession(c *gin.Context) (uuid.UUID, bool) {
	id := middleware.GetSessionID(c)
	if id == uuid.Nil {
		response.Unauthorized(c, "Session not authenticated")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the request body and runs the request's own checks
func bindJSON[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return false
	}
	if v, ok := any(req).(interface{ Validate() []apperror.FieldError }); ok {
		if errs := v.Validate(); len(errs) > 0 {
			response.ValidationError(c, errs)
			return false
		}
	}
	return true
}
