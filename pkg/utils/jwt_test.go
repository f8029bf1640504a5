package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	sessionID := uuid.New()

	token, expiresAt, err := m.GenerateSessionToken(sessionID, "till-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, "till-1", claims.Register)
}

func TestValidateSessionTokenRejects(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	token, _, err := m.GenerateSessionToken(uuid.New(), "")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("other-secret", time.Hour)
		_, err := other.ValidateSessionToken(token)
		assert.Error(t, err)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := m.ValidateSessionToken(strings.TrimSuffix(token, token[len(token)-4:]) + "abcd")
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { m.now = time.Now }()

		_, err := m.ValidateSessionToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestGenerateBillNo(t *testing.T) {
	at := time.UnixMilli(1710072000123)

	a := GenerateBillNo(at)
	b := GenerateBillNo(at)

	assert.True(t, strings.HasPrefix(a, "BILL-1710072000123-"))
	assert.Len(t, a, len("BILL-1710072000123-")+8)
	assert.NotEqual(t, a, b)
}
