package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey stores a processed checkout response so a retried request
// replays it instead of finalizing the next sale.
type IdempotencyKey struct {
	Key          string    // The idempotency key from client
	SessionID    uuid.UUID // Billing session that made the request
	Endpoint     string    // e.g. "POST /api/v1/cart/checkout"
	ResponseCode int
	ResponseBody string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// IsExpired checks if the idempotency key has expired at now
func (i *IdempotencyKey) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
