package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/freshmart-pos/internal/domain/catalog"
	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	"github.com/sangkips/freshmart-pos/pkg/apperror"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func referenceCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(catalog.ReferenceProducts(testNow))
	require.NoError(t, err)
	return c
}

type recordingSink struct {
	mu    sync.Mutex
	name  string
	bills []entity.Bill
	err   error
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(ctx context.Context, bill entity.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bills = append(s.bills, bill)
	return s.err
}

func requireAppError(t *testing.T, err error, code int, reason string) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
	if reason != "" {
		require.Equal(t, reason, appErr.Reason)
	}
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
