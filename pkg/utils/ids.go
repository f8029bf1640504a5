package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// GenerateBillNo generates a bill number from the finalization time plus a
// random suffix so two registers finalizing in the same millisecond differ.
func GenerateBillNo(at time.Time) string {
	return fmt.Sprintf("BILL-%d-%s", at.UnixMilli(), strings.ToUpper(uuid.New().String()[:8]))
}
