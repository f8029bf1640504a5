package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/freshmart-pos/internal/domain/repository"
)

type idempotencyKeyID struct {
	key       string
	sessionID uuid.UUID
}

// idempotencyRepository keeps checkout replies in memory. They share the
// lifetime of the billing sessions that produced them.
type idempotencyRepository struct {
	mu   sync.RWMutex
	keys map[idempotencyKeyID]entity.IdempotencyKey
	now  func() time.Time
}

// NewIdempotencyRepository creates a new in-memory idempotency repository
func NewIdempotencyRepository(now func() time.Time) domainRepo.IdempotencyRepository {
	if now == nil {
		now = time.Now
	}
	return &idempotencyRepository{
		keys: make(map[idempotencyKeyID]entity.IdempotencyKey),
		now:  now,
	}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, sessionID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ikey, ok := r.keys[idempotencyKeyID{key: key, sessionID: sessionID}]
	if !ok {
		return nil, nil
	}
	return &ikey, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.keys[idempotencyKeyID{key: ikey.Key, sessionID: ikey.SessionID}] = *ikey
	return nil
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) error {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, ikey := range r.keys {
		if ikey.IsExpired(now) {
			delete(r.keys, id)
		}
	}
	return nil
}

func (r *idempotencyRepository) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := range r.keys {
		if id.sessionID == sessionID {
			delete(r.keys, id)
		}
	}
	return nil
}
