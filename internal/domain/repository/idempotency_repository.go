package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/freshmart-pos/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and session ID
	GetByKey(ctx context.Context, key string, sessionID uuid.UUID) (*entity.IdempotencyKey, error)
	// Create stores a new idempotency key
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes expired idempotency keys
	DeleteExpired(ctx context.Context) error
	// DeleteBySession removes every key recorded for a session
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) error
}
