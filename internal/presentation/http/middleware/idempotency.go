package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	"github.com/sangkips/freshmart-pos/internal/domain/repository"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/dto/response"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader is the HTTP header for idempotency keys
const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	TTL  time.Duration
	Log  *zap.Logger
	Now  func() time.Time
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a request is retried with
// the same Idempotency-Key in the same session. Only successful responses
// are stored, so a rejected checkout can be retried after fixing the cart.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(c *gin.Context) {
		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		sessionID := GetSessionID(c)
		if idempotencyKey == "" || sessionID == uuid.Nil {
			c.Next()
			return
		}

		endpoint := c.Request.Method + " " + c.FullPath()
		ctx := c.Request.Context()

		existing, err := cfg.Repo.GetByKey(ctx, idempotencyKey, sessionID)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		if existing != nil && !existing.IsExpired(cfg.Now()) {
			if existing.Endpoint != endpoint {
				response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used for a different request")
				c.Abort()
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		now := cfg.Now()
		ikey := &entity.IdempotencyKey{
			Key:          idempotencyKey,
			SessionID:    sessionID,
			Endpoint:     endpoint,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			CreatedAt:    now,
			ExpiresAt:    now.Add(cfg.TTL),
		}
		if err := cfg.Repo.Create(ctx, ikey); err != nil && cfg.Log != nil {
			cfg.Log.Warn("failed to store idempotency key", zap.String("key", idempotencyKey), zap.Error(err))
		}
	}
}
