package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/freshmart-pos/internal/domain/cart"
	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	"github.com/sangkips/freshmart-pos/internal/domain/enum"
	"github.com/sangkips/freshmart-pos/internal/domain/repository"
	"github.com/sangkips/freshmart-pos/pkg/apperror"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BillSink receives every finalized bill, e.g. a receipt printer or an
// event stream. A failing sink never undoes the sale.
type BillSink interface {
	Name() string
	Deliver(ctx context.Context, bill entity.Bill) error
}

const sinkTimeout = 15 * time.Second

type session struct {
	mu       sync.Mutex
	id       uuid.UUID
	register string
	cart     *cart.Cart
	opened   time.Time
	lastSeen time.Time
	bills    []entity.Bill
	closed   bool
}

// SessionConfig configures the session service
type SessionConfig struct {
	IdleTTL     time.Duration
	RecentBills int
	Now         func() time.Time
}

// SessionService owns one cart per billing session
type SessionService struct {
	catalog         cart.ProductLookup
	idempotencyRepo repository.IdempotencyRepository
	sinks           []BillSink
	log             *zap.Logger

	idleTTL     time.Duration
	recentBills int
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

// NewSessionService creates a new session service
func NewSessionService(
	catalog cart.ProductLookup,
	idempotencyRepo repository.IdempotencyRepository,
	sinks []BillSink,
	cfg SessionConfig,
	log *zap.Logger,
) *SessionService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.RecentBills <= 0 {
		cfg.RecentBills = 20
	}
	return &SessionService{
		catalog:         catalog,
		idempotencyRepo: idempotencyRepo,
		sinks:           sinks,
		log:             log,
		idleTTL:         cfg.IdleTTL,
		recentBills:     cfg.RecentBills,
		now:             cfg.Now,
		sessions:        make(map[uuid.UUID]*session),
	}
}

// SessionInfo describes an open session
type SessionInfo struct {
	ID       uuid.UUID `json:"id"`
	Register string    `json:"register,omitempty"`
	OpenedAt time.Time `json:"opened_at"`
}

// CartView is a read snapshot of a session's cart
type CartView struct {
	SessionID           uuid.UUID          `json:"session_id"`
	Items               []entity.LineItem  `json:"items"`
	OverallDiscount     decimal.Decimal    `json:"overall_discount"`
	OverallDiscountType enum.DiscountType  `json:"overall_discount_type"`
	BudgetMode          bool               `json:"budget_mode"`
	BudgetLimit         decimal.Decimal    `json:"budget_limit"`
	PaymentMethod       enum.PaymentMethod `json:"payment_method,omitempty"`
	Totals              cart.Totals        `json:"totals"`
}

// ExpiryWarning is returned when an item close to expiry was added
type ExpiryWarning struct {
	ProductID       string            `json:"product_id"`
	ProductName     string            `json:"product_name"`
	Status          enum.ExpiryStatus `json:"status"`
	DaysUntilExpiry int               `json:"days_until_expiry"`
}

// AddItemResult is the outcome of adding an item
type AddItemResult struct {
	Cart    *CartView      `json:"cart"`
	Warning *ExpiryWarning `json:"warning,omitempty"`
}

// Open starts a new billing session with an empty cart
func (s *SessionService) Open(ctx context.Context, register string) *SessionInfo {
	now := s.now()
	sess := &session{
		id:       uuid.New(),
		register: register,
		opened:   now,
		lastSeen: now,
		cart:     cart.New(s.catalog, cart.WithClock(s.now)),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.log.Info("session opened", zap.String("session_id", sess.id.String()), zap.String("register", register))

	return &SessionInfo{ID: sess.id, Register: register, OpenedAt: now}
}

// Close abandons a session and its cart
func (s *SessionService) Close(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return apperror.ErrSessionNotFound
	}

	sess.mu.Lock()
	sess.closed = true
	sess.mu.Unlock()

	s.forget(ctx, sessionID)
	s.log.Info("session closed", zap.String("session_id", sessionID.String()))
	return nil
}

func (s *SessionService) forget(ctx context.Context, sessionID uuid.UUID) {
	if s.idempotencyRepo == nil {
		return
	}
	if err := s.idempotencyRepo.DeleteBySession(ctx, sessionID); err != nil {
		s.log.Warn("failed to drop idempotency keys", zap.String("session_id", sessionID.String()), zap.Error(err))
	}
}

// Exists reports whether a session is open
func (s *SessionService) Exists(sessionID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[sessionID]
	return ok
}

// Count returns the number of open sessions
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// withSession runs fn with the session locked
func (s *SessionService) withSession(sessionID uuid.UUID, fn func(sess *session) error) error {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return apperror.ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.closed {
		return apperror.ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return fn(sess)
}

func (s *SessionService) viewOf(sess *session) *CartView {
	c := sess.cart
	overall, overallType := c.OverallDiscount()
	budgetMode, budgetLimit := c.Budget()
	return &CartView{
		SessionID:           sess.id,
		Items:               c.Items(),
		OverallDiscount:     overall,
		OverallDiscountType: overallType,
		BudgetMode:          budgetMode,
		BudgetLimit:         budgetLimit,
		PaymentMethod:       c.PaymentMethod(),
		Totals:              c.Totals(),
	}
}

// mutate applies op to the session's cart and returns the resulting view
func (s *SessionService) mutate(sessionID uuid.UUID, op func(c *cart.Cart) error) (*CartView, error) {
	var view *CartView
	err := s.withSession(sessionID, func(sess *session) error {
		if err := op(sess.cart); err != nil {
			return cartError(err)
		}
		view = s.viewOf(sess)
		return nil
	})
	return view, err
}

// GetCart returns the current cart with totals
func (s *SessionService) GetCart(ctx context.Context, sessionID uuid.UUID) (*CartView, error) {
	return s.mutate(sessionID, func(*cart.Cart) error { return nil })
}

// AddItem adds one unit of a product
func (s *SessionService) AddItem(ctx context.Context, sessionID uuid.UUID, productID string) (*AddItemResult, error) {
	result := &AddItemResult{}
	err := s.withSession(sessionID, func(sess *session) error {
		status, err := sess.cart.AddItem(productID)
		if err != nil {
			return cartError(err)
		}
		if status == enum.ExpiryCritical {
			item, _ := sess.cart.Item(productID)
			days, _ := entity.DaysUntilExpiry(item.ExpiryDate, s.now())
			result.Warning = &ExpiryWarning{
				ProductID:       productID,
				ProductName:     item.Name,
				Status:          status,
				DaysUntilExpiry: days,
			}
		}
		result.Cart = s.viewOf(sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateQuantity sets an item's quantity; zero or less removes it
func (s *SessionService) UpdateQuantity(ctx context.Context, sessionID uuid.UUID, productID string, quantity int) (*CartView, error) {
	return s.mutate(sessionID, func(c *cart.Cart) error {
		return c.UpdateQuantity(productID, quantity)
	})
}

// RemoveItem removes an item from the cart
func (s *SessionService) RemoveItem(ctx context.Context, sessionID uuid.UUID, productID string) (*CartView, error) {
	return s.mutate(sessionID, func(c *cart.Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

// SetItemDiscount sets the discount of one item
func (s *SessionService) SetItemDiscount(ctx context.Context, sessionID uuid.UUID, productID string, amount decimal.Decimal, t enum.DiscountType) (*CartView, error) {
	return s.mutate(sessionID, func(c *cart.Cart) error {
		return c.SetItemDiscount(productID, amount, t)
	})
}

// SetOverallDiscount sets the cart-level discount
func (s *SessionService) SetOverallDiscount(ctx context.Context, sessionID uuid.UUID, amount decimal.Decimal, t enum.DiscountType) (*CartView, error) {
	return s.mutate(sessionID, func(c *cart.Cart) error {
		return c.SetOverallDiscount(amount, t)
	})
}

// SetBudget configures budget mode
func (s *SessionService) SetBudget(ctx context.Context, sessionID uuid.UUID, enabled bool, limit decimal.Decimal) (*CartView, error) {
	return s.mutate(sessionID, func(c *cart.Cart) error {
		c.SetBudget(enabled, limit)
		return nil
	})
}

// SetPaymentMethod selects the payment method. An empty method clears it.
func (s *SessionService) SetPaymentMethod(ctx context.Context, sessionID uuid.UUID, method enum.PaymentMethod) (*CartView, error) {
	return s.mutate(sessionID, func(c *cart.Cart) error {
		if method == "" {
			c.ClearPaymentMethod()
			return nil
		}
		return c.SetPaymentMethod(method)
	})
}

// ClearCart abandons the sale in progress
func (s *SessionService) ClearCart(ctx context.Context, sessionID uuid.UUID) (*CartView, error) {
	return s.mutate(sessionID, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// Checkout finalizes the sale and hands the bill to every sink
func (s *SessionService) Checkout(ctx context.Context, sessionID uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := s.withSession(sessionID, func(sess *session) error {
		b, err := sess.cart.Finalize()
		if err != nil {
			return cartError(err)
		}
		bill = b
		sess.bills = append(sess.bills, b)
		if over := len(sess.bills) - s.recentBills; over > 0 {
			sess.bills = append([]entity.Bill(nil), sess.bills[over:]...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("sale finalized",
		zap.String("session_id", sessionID.String()),
		zap.String("bill_id", bill.ID),
		zap.Int("items", bill.ItemCount),
		zap.String("grand_total", bill.GrandTotal.StringFixed(2)),
		zap.String("payment_method", bill.PaymentMethod.String()),
	)

	s.deliver(ctx, bill)
	return &bill, nil
}

// deliver runs outside the session lock. The request context may end
// before a slow sink finishes, so sinks get a detached deadline.
func (s *SessionService) deliver(ctx context.Context, bill entity.Bill) {
	if len(s.sinks) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()

	for _, sink := range s.sinks {
		if err := sink.Deliver(ctx, bill); err != nil {
			s.log.Error("bill delivery failed",
				zap.String("sink", sink.Name()),
				zap.String("bill_id", bill.ID),
				zap.Error(err),
			)
		}
	}
}

// GetBill returns a bill finalized in this session
func (s *SessionService) GetBill(ctx context.Context, sessionID uuid.UUID, billID string) (*entity.Bill, error) {
	var found *entity.Bill
	err := s.withSession(sessionID, func(sess *session) error {
		for i := len(sess.bills) - 1; i >= 0; i-- {
			if sess.bills[i].ID == billID {
				b := sess.bills[i]
				found = &b
				return nil
			}
		}
		return apperror.NewReasonError(http.StatusNotFound, ReasonBillNotFound, "Bill not found")
	})
	return found, err
}

// ListBills returns the session's recent bills, newest first
func (s *SessionService) ListBills(ctx context.Context, sessionID uuid.UUID) ([]entity.Bill, error) {
	var out []entity.Bill
	err := s.withSession(sessionID, func(sess *session) error {
		out = make([]entity.Bill, 0, len(sess.bills))
		for i := len(sess.bills) - 1; i >= 0; i-- {
			out = append(out, sess.bills[i])
		}
		return nil
	})
	return out, err
}

// SweepIdle removes sessions idle for longer than the idle TTL and
// returns how many were removed
func (s *SessionService) SweepIdle(ctx context.Context) int {
	if s.idleTTL <= 0 {
		return 0
	}
	now := s.now()

	var expired []uuid.UUID
	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		if now.Sub(sess.lastSeen) > s.idleTTL {
			sess.closed = true
			delete(s.sessions, id)
			expired = append(expired, id)
		}
		sess.mu.Unlock()
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.forget(ctx, id)
		s.log.Info("session expired", zap.String("session_id", id.String()))
	}
	return len(expired)
}

// StartJanitor sweeps idle sessions and expired idempotency keys every
// interval until ctx is done
func (s *SessionService) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SweepIdle(ctx)
				if s.idempotencyRepo != nil {
					if err := s.idempotencyRepo.DeleteExpired(ctx); err != nil {
						s.log.Warn("failed to delete expired idempotency keys", zap.Error(err))
					}
				}
			}
		}
	}()
}
