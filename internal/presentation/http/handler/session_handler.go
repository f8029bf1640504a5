package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/freshmart-pos/internal/application/service"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/freshmart-pos/pkg/utils"
)

// SessionHandler opens and closes billing sessions
type SessionHandler struct {
	sessionService  *service.SessionService
	jwtManager      *utils.JWTManager
	defaultRegister string
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService, jwtManager *utils.JWTManager, defaultRegister string) *SessionHandler {
	return &SessionHandler{
		sessionService:  sessionService,
		jwtManager:      jwtManager,
		defaultRegister: defaultRegister,
	}
}

// OpenSessionResponse carries the session token
type OpenSessionResponse struct {
	Token     string               `json:"token"`
	TokenType string               `json:"token_type"`
	ExpiresAt time.Time            `json:"expires_at"`
	Session   *service.SessionInfo `json:"session"`
}

// Open handles opening a billing session
func (h *SessionHandler) Open(c *gin.Context) {
	var req request.OpenSessionRequest
	if c.Request.ContentLength > 0 {
		if !bindJSON(c, &req) {
			return
		}
	}
	register := req.Register
	if register == "" {
		register = h.defaultRegister
	}

	ctx := c.Request.Context()
	info := h.sessionService.Open(ctx, register)

	token, expiresAt, err := h.jwtManager.GenerateSessionToken(info.ID, info.Register)
	if err != nil {
		_ = h.sessionService.Close(ctx, info.ID)
		response.Error(c, err)
		return
	}

	response.Created(c, "Session opened", OpenSessionResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		Session:   info,
	})
}

// Close handles abandoning the current session
func (h *SessionHandler) Close(c *gin.Context) {
	sessionID, ok := requireSession(c)
	if !ok {
		return
	}

	if err := h.sessionService.Close(c.Request.Context(), sessionID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session closed", nil)
}
