package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	analyticsapp "github.com/shop/backend/internal/application/analytics"
	cartapp "github.com/shop/backend/internal/application/cart"
	catalogapp "github.com/shop/backend/internal/application/catalog"
	checkoutapp "github.com/shop/backend/internal/application/checkout"
	customerapp "github.com/shop/backend/internal/application/customer"
	inventoryapp "github.com/shop/backend/internal/application/inventory"
	paymentapp "github.com/shop/backend/internal/application/payment"
	"github.com/shop/backend/internal/infrastructure/auth"
	"github.com/shop/backend/internal/infrastructure/cache"
	"github.com/shop/backend/internal/infrastructure/config"
	"github.com/shop/backend/internal/infrastructure/event"
	"github.com/shop/backend/internal/infrastructure/logger"
	"github.com/shop/backend/internal/infrastructure/payment"
	"github.com/shop/backend/internal/infrastructure/persistence"
	"github.com/shop/backend/internal/infrastructure/scheduler"
	"github.com/shop/backend/internal/infrastructure/telemetry"
	"github.com/shop/backend/internal/interfaces/http/handler"
	"github.com/shop/backend/internal/interfaces/http/middleware"
	"github.com/shop/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if cfg.Telemetry.Enabled {
		if err := telemetry.RegisterDBTracing(db.DB, log); err != nil {
			log.Fatal("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	userEventRepo := persistence.NewGormUserEventRepository(db.DB)
	metricRepo := persistence.NewGormMetricRepository(db.DB)

	// Transaction scopes. Each one opens a database transaction with a
	// bounded lock_timeout and hands per-transaction repositories to the
	// application layer.
	checkoutScope := persistence.NewGormCheckoutTransactionScope(db.DB, cfg.Database.LockTimeout)
	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB, cfg.Database.LockTimeout)
	paymentScope := persistence.NewGormPaymentTransactionScope(db.DB, cfg.Database.LockTimeout)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Webhook deduplication store. Redis when reachable, otherwise an
	// in-process fallback that only protects a single instance.
	var notificationStore paymentapp.NotificationStore
	if redisClient, err := cache.NewRedisClient(&cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory notification store", zap.Error(err))
		notificationStore = cache.NewInMemoryNotificationStore(0)
	} else {
		notificationStore = cache.NewRedisNotificationStore(redisClient, 0)
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
	}

	gateway := payment.NewMercadoPagoAdapter(cfg.Payment, log)

	// Application services
	productService := catalogapp.NewProductService(productRepo, categoryRepo, log)
	cartService := cartapp.NewCartService(cartRepo, productRepo, log)
	checkoutService := checkoutapp.NewCheckoutService(checkoutScope, orderRepo, eventBus, checkoutapp.Config{
		ShippingFlatRate:      cfg.Checkout.ShippingFlatRate,
		FreeShippingThreshold: cfg.Checkout.FreeShippingThreshold,
		CollectAllLineErrors:  cfg.Checkout.CollectAllLineErrors,
	}, log)
	stockService := inventoryapp.NewStockService(inventoryScope, log)
	addressService := customerapp.NewAddressService(addressRepo, log)
	webhookService := paymentapp.NewWebhookService(paymentScope, gateway, notificationStore, paymentRepo, orderRepo, eventBus, log)
	recorder := analyticsapp.NewRecorder(userEventRepo, log)
	aggregator := analyticsapp.NewAggregator(userEventRepo, metricRepo, log)

	// Order placement feeds the purchase metrics through the bus
	eventBus.Subscribe(recorder)

	if cfg.Scheduler.Enabled {
		metricsScheduler := scheduler.NewMetricsScheduler(cfg.Scheduler, aggregator, log)
		if err := metricsScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start metrics scheduler", zap.Error(err))
		}
		defer func() {
			if err := metricsScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping metrics scheduler", zap.Error(err))
			}
		}()
		log.Info("Metrics scheduler started", zap.Duration("interval", cfg.Scheduler.Interval))
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	middleware.SetupValidator()

	engine := router.New(cfg, log, jwtService, router.Handlers{
		Products:  handler.NewProductHandler(productService, recorder),
		Carts:     handler.NewCartHandler(cartService, recorder),
		Checkout:  handler.NewCheckoutHandler(checkoutService, cartService),
		Inventory: handler.NewInventoryHandler(stockService),
		Payments:  handler.NewPaymentHandler(webhookService),
		Addresses: handler.NewAddressHandler(addressService),
		Analytics: handler.NewAnalyticsHandler(aggregator),
		System:    handler.NewSystemHandler(db),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
