package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/freshmart-pos/internal/application/service"
	"github.com/sangkips/freshmart-pos/internal/config"
	"github.com/sangkips/freshmart-pos/internal/domain/catalog"
	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	"github.com/sangkips/freshmart-pos/internal/infrastructure/repository"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/handler"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/middleware"
	"github.com/sangkips/freshmart-pos/pkg/printer"
	"github.com/sangkips/freshmart-pos/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Reason  string          `json:"reason"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T, limiter *middleware.SessionRateLimiter) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat, err := catalog.New(catalog.ReferenceProducts(testNow))
	require.NoError(t, err)

	now := func() time.Time { return testNow }
	log := zap.NewNop()
	idempotencyRepo := repository.NewIdempotencyRepository(now)

	sessions := service.NewSessionService(cat, idempotencyRepo, nil, service.SessionConfig{
		IdleTTL:     30 * time.Minute,
		RecentBills: 20,
		Now:         now,
	}, log)
	receipts := service.NewReceiptService(printer.NewNullPrinter(), entity.ReceiptHeader{StoreName: "Grocery Store"}, printer.Width58mm, log)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)

	cfg := &config.Config{
		App:     config.AppConfig{Name: "freshmart-pos", Register: "till-1"},
		Session: config.SessionConfig{IdempotencyTTL: time.Hour},
	}

	router := Setup(&Handlers{
		Health:  handler.NewHealthHandler(cfg.App.Name, sessions),
		Catalog: handler.NewCatalogHandler(service.NewCatalogService(cat, now)),
		Session: handler.NewSessionHandler(sessions, jwtManager, cfg.App.Register),
		Cart:    handler.NewCartHandler(sessions),
		Bill:    handler.NewBillHandler(sessions, receipts),
	}, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Sessions:        sessions,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     limiter,
		Log:             log,
	})

	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (s *testServer) openSession() string {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, "/api/v1/sessions", "", nil)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		Token     string `json:"token"`
		TokenType string `json:"token_type"`
		Session   struct {
			ID       string `json:"id"`
			Register string `json:"register"`
		} `json:"session"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(s.t, out.Token)
	require.Equal(s.t, "Bearer", out.TokenType)
	require.Equal(s.t, "till-1", out.Session.Register)
	return out.Token
}

type cartData struct {
	Items []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Total     string `json:"total"`
	} `json:"items"`
	PaymentMethod string `json:"payment_method"`
	Totals        struct {
		ItemCount       int     `json:"item_count"`
		Subtotal        string  `json:"subtotal"`
		Tax             string  `json:"tax"`
		GrandTotal      string  `json:"grand_total"`
		BudgetExceeded  bool    `json:"budget_exceeded"`
		BudgetRemaining *string `json:"budget_remaining"`
	} `json:"totals"`
}

type billData struct {
	ID            string `json:"id"`
	ItemCount     int    `json:"item_count"`
	ItemsSubtotal string `json:"items_subtotal"`
	TaxAmount     string `json:"tax_amount"`
	GrandTotal    string `json:"grand_total"`
	PaymentMethod string `json:"payment_method"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	s.openSession()

	rec, _ := s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["open_sessions"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("search", func(t *testing.T) {
		rec, env := s.do(http.MethodGet, "/api/v1/products?search=apple", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		page := decode[struct {
			Items []struct {
				ID           string `json:"id"`
				ExpiryStatus string `json:"expiry_status"`
			} `json:"items"`
			Pagination struct {
				Total int `json:"total"`
			} `json:"pagination"`
		}](t, env.Data)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "1", page.Items[0].ID)
		assert.Equal(t, "critical", page.Items[0].ExpiryStatus)
		assert.Equal(t, 1, page.Pagination.Total)
	})

	t.Run("paginated listing", func(t *testing.T) {
		rec, env := s.do(http.MethodGet, "/api/v1/products?page=2&per_page=5", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		page := decode[struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		}](t, env.Data)
		require.Len(t, page.Items, 5)
		assert.Equal(t, "6", page.Items[0].ID)
	})

	t.Run("unknown product", func(t *testing.T) {
		rec, env := s.do(http.MethodGet, "/api/v1/products/999", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, service.ReasonProductNotFound, env.Reason)
	})

	t.Run("categories", func(t *testing.T) {
		rec, env := s.do(http.MethodGet, "/api/v1/categories", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		categories := decode[[]string](t, env.Data)
		assert.Equal(t, []string{"Fruits", "Bakery", "Dairy", "Vegetables", "Beverages", "Snacks", "Meat", "Grains"}, categories)
	})
}

func TestSessionAuth(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("missing header", func(t *testing.T) {
		rec, _ := s.do(http.MethodGet, "/api/v1/cart", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec, env := s.do(http.MethodGet, "/api/v1/cart", "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid_token", env.Reason)
	})

	t.Run("closed session", func(t *testing.T) {
		token := s.openSession()
		rec, _ := s.do(http.MethodDelete, "/api/v1/sessions", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec, env := s.do(http.MethodGet, "/api/v1/cart", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "session_not_found", env.Reason)
	})
}

func TestAddToCheckoutRoundTrip(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.openSession()

	for _, id := range []string{"9", "9", "11"} {
		rec, _ := s.do(http.MethodPost, "/api/v1/cart/items", token, map[string]string{"product_id": id})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec, env := s.do(http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	c := decode[cartData](t, env.Data)
	require.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, "7.98", c.Items[0].Total)
	assert.Equal(t, 3, c.Totals.ItemCount)
	assert.Equal(t, "23.97", c.Totals.Subtotal)
	assert.Equal(t, "1.92", c.Totals.Tax)
	assert.Equal(t, "25.89", c.Totals.GrandTotal)

	rec, env = s.do(http.MethodPost, "/api/v1/cart/checkout", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, service.ReasonPaymentMethodRequired, env.Reason)

	rec, _ = s.do(http.MethodPut, "/api/v1/cart/payment", token, map[string]string{"method": "cash"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodPost, "/api/v1/cart/checkout", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bill := decode[billData](t, env.Data)
	assert.Regexp(t, `^BILL-\d+-[0-9A-F]{8}$`, bill.ID)
	assert.Equal(t, 3, bill.ItemCount)
	assert.Equal(t, "23.97", bill.ItemsSubtotal)
	assert.Equal(t, "1.92", bill.TaxAmount)
	assert.Equal(t, "25.89", bill.GrandTotal)
	assert.Equal(t, "cash", bill.PaymentMethod)

	// The sale starts over
	rec, env = s.do(http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	c = decode[cartData](t, env.Data)
	assert.Empty(t, c.Items)
	assert.Empty(t, c.PaymentMethod)

	rec, env = s.do(http.MethodGet, "/api/v1/bills", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bills := decode[[]billData](t, env.Data)
	require.Len(t, bills, 1)
	assert.Equal(t, bill.ID, bills[0].ID)

	rec, env = s.do(http.MethodGet, "/api/v1/bills/"+bill.ID+"/receipt", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	receipt := decode[struct {
		Receipt struct {
			ReceiptNo string `json:"receipt_no"`
			Items     []struct {
				Name string `json:"name"`
			} `json:"items"`
		} `json:"receipt"`
	}](t, env.Data)
	assert.Equal(t, bill.ID, receipt.Receipt.ReceiptNo)
	assert.Len(t, receipt.Receipt.Items, 2)

	rec, env = s.do(http.MethodPost, "/api/v1/bills/"+bill.ID+"/print", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Receipt printed successfully", env.Message)

	rec, env = s.do(http.MethodGet, "/api/v1/bills/BILL-0-UNKNOWN/receipt", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, service.ReasonBillNotFound, env.Reason)
}

func TestCheckoutEmptyCart(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.openSession()

	rec, env := s.do(http.MethodPost, "/api/v1/cart/checkout", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, service.ReasonEmptyCart, env.Reason)
}

func TestCheckoutIdempotency(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.openSession()

	// A rejected checkout is not remembered
	rec, _ := s.do(http.MethodPost, "/api/v1/cart/checkout", token, nil, middleware.IdempotencyKeyHeader, "sale-1")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	s.do(http.MethodPost, "/api/v1/cart/items", token, map[string]string{"product_id": "11"})
	s.do(http.MethodPut, "/api/v1/cart/payment", token, map[string]string{"method": "card"})

	first, firstEnv := s.do(http.MethodPost, "/api/v1/cart/checkout", token, nil, middleware.IdempotencyKeyHeader, "sale-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	firstBill := decode[billData](t, firstEnv.Data)

	replay, replayEnv := s.do(http.MethodPost, "/api/v1/cart/checkout", token, nil, middleware.IdempotencyKeyHeader, "sale-1")
	require.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, firstBill.ID, decode[billData](t, replayEnv.Data).ID)

	rec, env := s.do(http.MethodGet, "/api/v1/bills", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]billData](t, env.Data), 1)

	// A new key is a new checkout of the now empty cart
	rec, env = s.do(http.MethodPost, "/api/v1/cart/checkout", token, nil, middleware.IdempotencyKeyHeader, "sale-2")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, service.ReasonEmptyCart, env.Reason)

	// Keys are scoped to the session
	other := s.openSession()
	rec, env = s.do(http.MethodPost, "/api/v1/cart/checkout", other, nil, middleware.IdempotencyKeyHeader, "sale-1")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, service.ReasonEmptyCart, env.Reason)
}

func TestCartValidation(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.openSession()
	s.do(http.MethodPost, "/api/v1/cart/items", token, map[string]string{"product_id": "9"})

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		code   int
		reason string
	}{
		{"missing product id", http.MethodPost, "/api/v1/cart/items", map[string]string{}, http.StatusBadRequest, ""},
		{"unknown product", http.MethodPost, "/api/v1/cart/items", map[string]string{"product_id": "999"}, http.StatusNotFound, service.ReasonProductNotFound},
		{"missing quantity", http.MethodPut, "/api/v1/cart/items/9", map[string]string{}, http.StatusBadRequest, ""},
		{"quantity over stock", http.MethodPut, "/api/v1/cart/items/9", map[string]int{"quantity": 201}, http.StatusConflict, service.ReasonStockExceeded},
		{"bad discount type", http.MethodPut, "/api/v1/cart/items/9/discount", map[string]interface{}{"amount": 5, "type": "bogus"}, http.StatusBadRequest, ""},
		{"negative discount", http.MethodPut, "/api/v1/cart/discount", map[string]interface{}{"amount": -5}, http.StatusUnprocessableEntity, "validation_failed"},
		{"discount on missing item", http.MethodPut, "/api/v1/cart/items/1/discount", map[string]interface{}{"amount": 5}, http.StatusNotFound, service.ReasonItemNotFound},
		{"bad payment method", http.MethodPut, "/api/v1/cart/payment", map[string]string{"method": "cheque"}, http.StatusBadRequest, ""},
		{"budget without flag", http.MethodPut, "/api/v1/cart/budget", map[string]string{"limit": "10"}, http.StatusBadRequest, ""},
		{"negative budget", http.MethodPut, "/api/v1/cart/budget", map[string]interface{}{"enabled": true, "limit": -1}, http.StatusUnprocessableEntity, "validation_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(tt.method, tt.path, token, tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			assert.False(t, env.Success)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, env.Reason)
			}
		})
	}
}

func TestCartDiscountsAndBudget(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.openSession()

	rec, env := s.do(http.MethodPost, "/api/v1/cart/items", token, map[string]string{"product_id": "1"})
	require.Equal(t, http.StatusOK, rec.Code)
	added := decode[struct {
		Warning *struct {
			ProductID       string `json:"product_id"`
			Status          string `json:"status"`
			DaysUntilExpiry int    `json:"days_until_expiry"`
		} `json:"warning"`
	}](t, env.Data)
	require.NotNil(t, added.Warning)
	assert.Equal(t, "1", added.Warning.ProductID)
	assert.Equal(t, "critical", added.Warning.Status)
	assert.Equal(t, 2, added.Warning.DaysUntilExpiry)

	rec, _ = s.do(http.MethodPut, "/api/v1/cart/items/1", token, map[string]int{"quantity": 10})
	require.Equal(t, http.StatusOK, rec.Code)

	// 10 x 3.99 = 39.90, 10% off = 35.91
	rec, env = s.do(http.MethodPut, "/api/v1/cart/items/1/discount", token, map[string]interface{}{"amount": "10", "type": "percentage"})
	require.Equal(t, http.StatusOK, rec.Code)
	c := decode[cartData](t, env.Data)
	assert.Equal(t, "35.91", c.Items[0].Total)

	// 5.91 off the order leaves 30.00, taxed 2.40
	rec, env = s.do(http.MethodPut, "/api/v1/cart/discount", token, map[string]interface{}{"amount": "5.91", "type": "fixed"})
	require.Equal(t, http.StatusOK, rec.Code)
	c = decode[cartData](t, env.Data)
	assert.Equal(t, "2.40", c.Totals.Tax)
	assert.Equal(t, "32.40", c.Totals.GrandTotal)

	rec, env = s.do(http.MethodPut, "/api/v1/cart/budget", token, map[string]interface{}{"enabled": true, "limit": "30"})
	require.Equal(t, http.StatusOK, rec.Code)
	c = decode[cartData](t, env.Data)
	assert.True(t, c.Totals.BudgetExceeded)
	require.NotNil(t, c.Totals.BudgetRemaining)
	assert.Equal(t, "-2.40", *c.Totals.BudgetRemaining)

	s.do(http.MethodPut, "/api/v1/cart/payment", token, map[string]string{"method": "upi"})
	rec, env = s.do(http.MethodPost, "/api/v1/cart/checkout", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, service.ReasonBudgetExceeded, env.Reason)

	rec, env = s.do(http.MethodPut, "/api/v1/cart/budget", token, map[string]interface{}{"enabled": false})
	require.Equal(t, http.StatusOK, rec.Code)
	c = decode[cartData](t, env.Data)
	assert.Nil(t, c.Totals.BudgetRemaining)

	rec, _ = s.do(http.MethodPost, "/api/v1/cart/checkout", token, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := newTestServer(t, nil)
	a := s.openSession()
	b := s.openSession()

	s.do(http.MethodPost, "/api/v1/cart/items", a, map[string]string{"product_id": "9"})

	_, env := s.do(http.MethodGet, "/api/v1/cart", b, nil)
	assert.Empty(t, decode[cartData](t, env.Data).Items)

	_, env = s.do(http.MethodGet, "/api/v1/cart", a, nil)
	assert.Len(t, decode[cartData](t, env.Data).Items, 1)

	rec, _ := s.do(http.MethodDelete, "/api/v1/cart", a, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, env = s.do(http.MethodGet, "/api/v1/cart", a, nil)
	assert.Empty(t, decode[cartData](t, env.Data).Items)
}

func TestRateLimit(t *testing.T) {
	limiter := middleware.NewSessionRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	s := newTestServer(t, limiter)

	for i := 0; i < 2; i++ {
		rec, _ := s.do(http.MethodGet, "/api/v1/categories", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec, env := s.do(http.MethodGet, "/api/v1/categories", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", env.Reason)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}
