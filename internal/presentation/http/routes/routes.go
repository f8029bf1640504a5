package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/freshmart-pos/internal/config"
	domainRepo "github.com/sangkips/freshmart-pos/internal/domain/repository"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/handler"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/middleware"
	"github.com/sangkips/freshmart-pos/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health  *handler.HealthHandler
	Catalog *handler.CatalogHandler
	Session *handler.SessionHandler
	Cart    *handler.CartHandler
	Bill    *handler.BillHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Sessions        middleware.SessionChecker
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.SessionRateLimiter
	Log             *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(deps.Log))
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes, limited per client IP
		public := v1.Group("")
		if deps.RateLimiter != nil {
			public.Use(deps.RateLimiter.Middleware())
		}
		registerPublicRoutes(public, h)

		// Session routes, limited per session
		protected := v1.Group("")
		protected.Use(middleware.SessionAuth(deps.JWTManager, deps.Sessions))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}
		registerSessionRoutes(protected, h, deps)
	}

	return router
}

func registerPublicRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/products", h.Catalog.List)
	rg.GET("/products/:id", h.Catalog.Get)
	rg.GET("/categories", h.Catalog.Categories)
	rg.GET("/printer/status", h.Bill.PrinterStatus)
	rg.POST("/sessions", h.Session.Open)
}

func registerSessionRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	rg.DELETE("/sessions", h.Session.Close)

	cart := rg.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:id", h.Cart.UpdateQuantity)
		cart.DELETE("/items/:id", h.Cart.RemoveItem)
		cart.PUT("/items/:id/discount", h.Cart.SetItemDiscount)
		cart.PUT("/discount", h.Cart.SetOverallDiscount)
		cart.PUT("/budget", h.Cart.SetBudget)
		cart.PUT("/payment", h.Cart.SetPayment)
		cart.POST("/checkout",
			middleware.Idempotency(middleware.IdempotencyConfig{
				Repo: deps.IdempotencyRepo,
				TTL:  deps.Cfg.Session.IdempotencyTTL,
				Log:  deps.Log,
			}),
			h.Cart.Checkout,
		)
	}

	bills := rg.Group("/bills")
	{
		bills.GET("", h.Bill.List)
		bills.GET("/:id", h.Bill.Get)
		bills.GET("/:id/receipt", h.Bill.Receipt)
		bills.POST("/:id/print", h.Bill.Print)
	}
}
