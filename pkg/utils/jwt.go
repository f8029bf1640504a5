package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "freshmart-pos"

// ErrTokenExpired is returned when a session token is past its expiry
var ErrTokenExpired = errors.New("token has expired")

// SessionClaims represents the claims of a billing session token
type SessionClaims struct {
	SessionID uuid.UUID `json:"session_id"`
	Register  string    `json:"register,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager handles session token generation and validation
type JWTManager struct {
	secretKey   []byte
	tokenExpiry time.Duration
	now         func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, expiry time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:   []byte(secret),
		tokenExpiry: expiry,
		now:         time.Now,
	}
}

// TokenExpiry returns how long issued tokens stay valid
func (m *JWTManager) TokenExpiry() time.Duration {
	return m.tokenExpiry
}

// GenerateSessionToken generates a token bound to a billing session
func (m *JWTManager) GenerateSessionToken(sessionID uuid.UUID, register string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.tokenExpiry)

	claims := &SessionClaims{
		SessionID: sessionID,
		Register:  register,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   sessionID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateSessionToken validates a session token and returns the claims
func (m *JWTManager) ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.SessionID == uuid.Nil {
		return nil, errors.New("invalid session ID in token")
	}

	return claims, nil
}
