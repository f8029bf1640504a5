package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/freshmart-pos/internal/application/service"
	"github.com/sangkips/freshmart-pos/internal/config"
	"github.com/sangkips/freshmart-pos/internal/domain/catalog"
	"github.com/sangkips/freshmart-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/freshmart-pos/internal/domain/repository"
	"github.com/sangkips/freshmart-pos/internal/infrastructure/database"
	"github.com/sangkips/freshmart-pos/internal/infrastructure/messaging"
	"github.com/sangkips/freshmart-pos/internal/infrastructure/repository"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/handler"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/middleware"
	"github.com/sangkips/freshmart-pos/internal/presentation/http/routes"
	"github.com/sangkips/freshmart-pos/pkg/logger"
	"github.com/sangkips/freshmart-pos/pkg/printer"
	"github.com/sangkips/freshmart-pos/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	producerBuffer  = 256
	shutdownTimeout = 15 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.App.Env, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Load the product catalog
	productRepo, db, err := productSource(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() {
			if err := database.Close(db); err != nil {
				zlog.Warn("failed to close database", zap.Error(err))
			}
		}()
	}

	cat, err := catalog.Load(ctx, productRepo)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	zlog.Info("catalog loaded", zap.String("source", cfg.Catalog.Source), zap.Int("products", cat.Len()))

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
		Timeout: cfg.Printer.Timeout,
	})
	if err != nil {
		zlog.Warn("failed to initialize printer, printing disabled", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	receiptService := service.NewReceiptService(thermalPrinter, entity.ReceiptHeader{
		StoreName: cfg.Store.Name,
		Address:   cfg.Store.Address,
		Phone:     cfg.Store.Phone,
	}, cfg.Printer.Width, zlog)

	// Bill sinks run after every finalized sale
	var sinks []service.BillSink
	if cfg.Printer.AutoPrint {
		sinks = append(sinks, receiptService)
	}

	var producer *messaging.Producer
	if cfg.Kafka.Enabled() {
		producer = messaging.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.BillTopic, producerBuffer, zlog)
		producer.Start()
		sinks = append(sinks, messaging.NewBillPublisher(producer, cfg.App.Name, cfg.App.Register))
		zlog.Info("publishing bills", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.BillTopic))
	}

	idempotencyRepo := repository.NewIdempotencyRepository(nil)

	sessionService := service.NewSessionService(cat, idempotencyRepo, sinks, service.SessionConfig{
		IdleTTL:     cfg.Session.IdleTTL,
		RecentBills: cfg.Session.RecentBills,
	}, zlog)
	sessionService.StartJanitor(ctx, cfg.Session.SweepInterval)

	catalogService := service.NewCatalogService(cat, nil)

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	rateLimiter := middleware.NewSessionRateLimiter(
		middleware.RateLimiterConfigFromWindow(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	rateLimiter.StartCleanup(ctx)

	// Initialize handlers
	handlers := &routes.Handlers{
		Health:  handler.NewHealthHandler(cfg.App.Name, sessionService),
		Catalog: handler.NewCatalogHandler(catalogService),
		Session: handler.NewSessionHandler(sessionService, jwtManager, cfg.App.Register),
		Cart:    handler.NewCartHandler(sessionService),
		Bill:    handler.NewBillHandler(sessionService, receiptService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Sessions:        sessionService,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Log:             zlog,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zlog.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", cfg.App.Port),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
	if producer != nil {
		if err := producer.Close(shutdownCtx); err != nil {
			zlog.Error("failed to flush bill events", zap.Error(err))
		}
	}
	return nil
}

// productSource picks where the catalog is read from. The postgres source
// is migrated and seeded with the reference products on first start.
func productSource(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (domainRepo.ProductRepository, *gorm.DB, error) {
	if cfg.Catalog.Source != config.CatalogPostgres {
		return repository.NewStaticProductRepository(time.Now), nil, nil
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, zlog)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := database.AutoMigrate(db, zlog); err != nil {
		_ = database.Close(db)
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	if err := database.SeedProducts(ctx, db, catalog.ReferenceProducts(time.Now()), zlog); err != nil {
		zlog.Warn("failed to seed products", zap.Error(err))
	}

	return repository.NewProductRepository(db), db, nil
}
