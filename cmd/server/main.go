package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/dukkan/backend/internal/application/catalog"
	edocumentapp "github.com/dukkan/backend/internal/application/edocument"
	financeapp "github.com/dukkan/backend/internal/application/finance"
	identityapp "github.com/dukkan/backend/internal/application/identity"
	partnerapp "github.com/dukkan/backend/internal/application/partner"
	reportapp "github.com/dukkan/backend/internal/application/report"
	salesapp "github.com/dukkan/backend/internal/application/sales"
	"github.com/dukkan/backend/internal/infrastructure/auth"
	"github.com/dukkan/backend/internal/infrastructure/config"
	"github.com/dukkan/backend/internal/infrastructure/event"
	"github.com/dukkan/backend/internal/infrastructure/gib"
	"github.com/dukkan/backend/internal/infrastructure/logger"
	"github.com/dukkan/backend/internal/infrastructure/persistence"
	"github.com/dukkan/backend/internal/infrastructure/telemetry"
	"github.com/dukkan/backend/internal/interfaces/http/handler"
	"github.com/dukkan/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting dukkan backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry (no-op unless enabled in config)
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("failed to initialize meter provider", zap.Error(err))
	}

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled {
		if err := db.EnableTracing(); err != nil {
			log.Error("failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("database connected")

	// Redis (token blacklist)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		_ = redisClient.Close()
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("redis not reachable at startup", zap.Error(err))
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	returnRepo := persistence.NewGormReturnRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	accountMovementRepo := persistence.NewGormAccountMovementRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	documentRepo := persistence.NewGormEDocumentRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	// Transaction scopes
	salesScope := persistence.NewSalesTransactionScope(db.DB)
	financeScope := persistence.NewFinanceTransactionScope(db.DB)
	catalogScope := persistence.NewCatalogTransactionScope(db.DB)

	// Auth infrastructure
	jwtService, err := auth.NewJWTService(cfg.JWT)
	if err != nil {
		log.Fatal("failed to initialize JWT service", zap.Error(err))
	}
	blacklist := auth.NewRedisTokenBlacklist(redisClient)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	// Clearing client for e-documents
	clearingClient := gib.NewClient(cfg.Clearing, log)

	// Application services
	capability := identityapp.NewCapabilityService(tenantRepo)
	authService := identityapp.NewAuthService(tenantRepo, userRepo, jwtService, blacklist, eventBus, log)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, capability, eventBus, log)
	productService := catalogapp.NewProductService(catalogScope, productRepo, categoryRepo, movementRepo, capability, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)
	saleService := salesapp.NewSaleService(salesScope, saleRepo, capability, eventBus, log)
	returnService := salesapp.NewReturnService(salesScope, returnRepo, eventBus, log)
	quoteService := salesapp.NewQuoteService(salesScope, quoteRepo, saleRepo, capability, eventBus, log)
	financeService := financeapp.NewFinanceService(financeScope, accountRepo, accountMovementRepo, paymentRepo, capability, log)
	documentService := edocumentapp.NewEDocumentService(documentRepo, saleRepo, clearingClient, log)
	reportService := reportapp.NewReportService(reportRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	customerHandler := handler.NewCustomerHandler(customerService)
	saleHandler := handler.NewSaleHandler(saleService)
	returnHandler := handler.NewReturnHandler(returnService)
	quoteHandler := handler.NewQuoteHandler(quoteService)
	financeHandler := handler.NewFinanceHandler(financeService)
	documentHandler := handler.NewEDocumentHandler(documentService)
	reportHandler := handler.NewReportHandler(reportService, productService)
	healthHandler := handler.NewHealthHandler(db, redisClient, version)

	engine := router.New(router.Config{
		Env:           cfg.App.Env,
		HTTP:          cfg.HTTP,
		Telemetry:     cfg.Telemetry,
		Logger:        log,
		Issuer:        jwtService,
		Blacklist:     blacklist,
		Capability:    capability,
		SupportTenant: cfg.App.SupportTenant(),
	}).
		RegisterEngine(healthHandler).
		RegisterPublic(router.RegistrarFunc(authHandler.RegisterPublicRoutes)).
		Register(
			authHandler,
			tenantHandler,
			productHandler,
			categoryHandler,
			customerHandler,
			saleHandler,
			returnHandler,
			quoteHandler,
			financeHandler,
			documentHandler,
			reportHandler,
		).
		Build()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("tracer provider shutdown failed", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("meter provider shutdown failed", zap.Error(err))
	}

	log.Info("server stopped")
}
