package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/foodcourt/pos/internal/application/catalog"
	identityapp "github.com/foodcourt/pos/internal/application/identity"
	inventoryapp "github.com/foodcourt/pos/internal/application/inventory"
	kitchenapp "github.com/foodcourt/pos/internal/application/kitchen"
	partnerapp "github.com/foodcourt/pos/internal/application/partner"
	printingapp "github.com/foodcourt/pos/internal/application/printing"
	reportapp "github.com/foodcourt/pos/internal/application/report"
	tradeapp "github.com/foodcourt/pos/internal/application/trade"
	"github.com/foodcourt/pos/internal/domain/sequence"
	"github.com/foodcourt/pos/internal/infrastructure/auth"
	"github.com/foodcourt/pos/internal/infrastructure/cache"
	"github.com/foodcourt/pos/internal/infrastructure/config"
	"github.com/foodcourt/pos/internal/infrastructure/event"
	"github.com/foodcourt/pos/internal/infrastructure/logger"
	"github.com/foodcourt/pos/internal/infrastructure/persistence"
	infraprinting "github.com/foodcourt/pos/internal/infrastructure/printing"
	"github.com/foodcourt/pos/internal/infrastructure/realtime"
	"github.com/foodcourt/pos/internal/infrastructure/scheduler"
	"github.com/foodcourt/pos/internal/infrastructure/storage"
	"github.com/foodcourt/pos/internal/infrastructure/telemetry"
	"github.com/foodcourt/pos/internal/interfaces/http/handler"
	"github.com/foodcourt/pos/internal/interfaces/http/middleware"
	"github.com/foodcourt/pos/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/foodcourt/pos/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//go:generate swag init -g cmd/server/main.go -d ../../ -o ../../docs --v3.1

//	@title			Food Court POS API
//	@version		1.0
//	@description	Point-of-sale backend for food courts and restaurants: kitchen tickets, bills, purchases, stock and reports.

//	@contact.name	API Support
//	@contact.url	https://github.com/foodcourt/pos

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry providers are created before anything logs so the OTLP bridge
	// sees startup messages too
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log := telemetry.BridgeLogger(baseLog, loggerProvider, cfg.Telemetry.ServiceName, zapcore.InfoLevel)
	defer func() {
		_ = logger.Sync(log)
	}()

	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting POS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, cfg.Database.Driver, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, cfg.Telemetry.DBSlowQueryThresh, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if cfg.Database.Driver != persistence.DriverPostgres {
		// only postgres has versioned migrations; the others build the schema from the models
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Redis backed stores, with in-memory fallbacks
	cacheFactory := cache.NewFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := cacheFactory.CreateIdempotencyStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	reportCache := cacheFactory.CreateReportCache()
	var revocations auth.RevocationStore = auth.NewInMemoryRevocationStore()
	if client, err := cacheFactory.Client(); err == nil {
		revocations = auth.NewRedisRevocationStore(client)
	}

	imageStorage, err := storage.NewImageStorage(cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	// Repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	subCategoryRepo := persistence.NewGormSubCategoryRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	adjustmentRepo := persistence.NewGormStockAdjustmentRepository(db.DB)
	rackRepo := persistence.NewGormRackRepository(db.DB)
	kotRepo := persistence.NewGormKOTRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	partyRepo := persistence.NewGormPartyRepository(db.DB)
	pointRepo := persistence.NewGormPointLedgerRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	shopLocation := cfg.Shop.Location()
	numbers := sequence.NewGenerator(persistence.NewGormSequenceCounter(db.DB), shopLocation)

	// Event bus and its subscribers
	hub := realtime.NewHub(cfg.Realtime, log)
	posMetrics := telemetry.NewPOSMetrics(telemetry.NewStockCollector(db.DB, log))
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(posMetrics)
	eventBus.Subscribe(inventoryapp.NewStockLowHandler(log, hub))
	if cfg.Realtime.Enabled {
		eventBus.Subscribe(hub)
	}
	var kafkaWriter interface{ Close() error }
	if cfg.Kafka.Enabled {
		writer := event.NewKafkaWriter(cfg.Kafka)
		kafkaWriter = writer
		forwarder := event.NewKafkaForwarder(writer, 1024, log)
		eventBus.Subscribe(event.NewIdempotentHandler(forwarder, idempotencyStore, time.Hour, log))
		eventBus.AddRunner(forwarder)
		log.Info("Kafka event forwarder enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	itemService := catalogapp.NewItemService(txScope, itemRepo, categoryRepo, brandRepo, subCategoryRepo, imageStorage, log)
	itemService.SetImageURLExpiry(cfg.Storage.URLExpiry)
	itemService.SetEventPublisher(eventBus)
	categoryService := catalogapp.NewCategoryService(categoryRepo, itemRepo)
	categoryService.SetEventPublisher(eventBus)
	subCategoryService := catalogapp.NewSubCategoryService(subCategoryRepo, categoryRepo, itemRepo)
	brandService := catalogapp.NewBrandService(brandRepo, itemRepo)

	stockService := inventoryapp.NewStockService(txScope, itemRepo, adjustmentRepo)
	stockService.SetEventPublisher(eventBus)
	rackService := inventoryapp.NewRackService(txScope, rackRepo, itemRepo)

	kotService := kitchenapp.NewKOTService(txScope, kotRepo, itemRepo, numbers, hub)
	kotService.SetEventPublisher(eventBus)
	kotService.SetAllowedTypes(cfg.Kitchen.KOTTypes)

	saleService := tradeapp.NewSaleService(txScope, saleRepo, itemRepo, kotRepo, partyRepo, numbers)
	saleService.SetEventPublisher(eventBus)
	purchaseService := tradeapp.NewPurchaseService(txScope, purchaseRepo, itemRepo, partyRepo, numbers)
	purchaseService.SetEventPublisher(eventBus)

	partyService := partnerapp.NewPartyService(txScope, partyRepo, pointRepo)
	partyService.SetEventPublisher(eventBus)
	couponService := partnerapp.NewCouponService(couponRepo)

	reportService := reportapp.NewReportService(reportRepo, reportCache, cfg.Report.CacheTTL, shopLocation, log)

	// without a renderer tickets and bills print as HTML
	var renderer infraprinting.PDFRenderer
	if cfg.Printing.Enabled {
		renderer = infraprinting.NewChromedpRenderer(cfg.Printing, log)
	}
	printService := printingapp.NewPrintService(
		kotService, saleService, purchaseRepo,
		infraprinting.NewTemplateEngine(infraprinting.WithLocation(shopLocation)),
		renderer, cfg.Shop, log,
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, revocations, identityapp.DefaultAuthServiceConfig(), log)
	if _, err := identityapp.EnsureAdmin(ctx, userRepo, cfg.Admin, log); err != nil {
		log.Fatal("Failed to create administrator account", zap.Error(err))
	}

	// Nightly report warm-up
	var (
		warmupScheduler *scheduler.Scheduler
		warmupTrigger   *scheduler.DailyTrigger
	)
	if cfg.Report.WarmupEnabled {
		schedule, err := scheduler.ParseSchedule(cfg.Report.WarmupSchedule)
		if err != nil {
			log.Fatal("Invalid report warm-up schedule", zap.Error(err))
		}
		warmupScheduler = scheduler.NewScheduler(scheduler.Config{
			Workers:    cfg.Report.WarmupWorkers,
			JobTimeout: cfg.Report.WarmupTimeout,
		}, scheduler.NewReportWarmer(reportService, log), log)
		if err := warmupScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start report warm-up scheduler", zap.Error(err))
		}
		warmupTrigger = scheduler.NewDailyTrigger(schedule, shopLocation, warmupScheduler, userRepo, cfg.Report.WarmupRetries, log)
		warmupTrigger.Start(ctx)
	}

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	handler.ExposeErrorDetail(!cfg.App.IsProduction())

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	operationalPaths := []string{"/health", "/health/ready", "/metrics"}
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, operationalPaths...))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(cfg.HTTP))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
		SkipPaths:   operationalPaths,
	}))
	engine.Use(middleware.Metrics(posMetrics, operationalPaths...))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		loginLimiter := middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow))
		engine.Use(onlyPaths(loginLimiter, "/api/auth/login"))
	}

	health := handler.NewHealthHandler(version, map[string]handler.HealthChecker{
		"database": func(context.Context) error { return db.Ping() },
		"redis":    cacheFactory.Ping,
	})
	engine.GET("/health", health.Live)
	engine.GET("/health/ready", health.Ready)
	engine.GET("/metrics", gin.WrapH(posMetrics.Handler()))
	if !cfg.Storage.UsesS3() {
		engine.Static(storage.LocalURLPrefix, cfg.Storage.LocalDir)
	}

	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:      jwtService,
		Revocations:     revocations,
		SkipPaths:       router.PublicPaths,
		AllowQueryToken: true,
		Logger:          log,
	})
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, jwtMiddleware),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	router.NewRouter(engine).
		Use(
			jwtMiddleware,
			middleware.TraceEnricher(),
			middleware.Profiling(middleware.ProfilingConfig{Enabled: profiler.IsEnabled()}),
			middleware.Idempotency(middleware.IdempotencyConfig{
				Store:  idempotencyStore,
				TTL:    cfg.HTTP.IdempotencyTTL,
				Logger: log,
			}),
		).
		Register(router.Routes(router.Handlers{
			Auth:        handler.NewAuthHandler(authService),
			KOT:         handler.NewKOTHandler(kotService),
			Inventory:   handler.NewInventoryHandler(stockService, rackService),
			Item:        handler.NewItemHandler(itemService),
			Category:    handler.NewClassificationHandler(categoryService, "Category"),
			SubCategory: handler.NewClassificationHandler(subCategoryService, "Subcategory"),
			Brand:       handler.NewClassificationHandler(brandService, "Brand"),
			Sale:        handler.NewSaleHandler(saleService),
			Purchase:    handler.NewPurchaseHandler(purchaseService),
			Print:       handler.NewPrintHandler(printService),
			Party:       handler.NewPartyHandler(partyService),
			Coupon:      handler.NewCouponHandler(couponService),
			Report:      handler.NewReportHandler(reportService),
			Kitchen:     handler.NewKitchenHandler(hub),
		})...).
		Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if warmupTrigger != nil {
		warmupTrigger.Stop()
	}
	if warmupScheduler != nil {
		if err := warmupScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping report warm-up scheduler", zap.Error(err))
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	hub.Close()
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			log.Error("Error closing Kafka writer", zap.Error(err))
		}
	}
	if renderer != nil {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}
	if err := cacheFactory.Close(); err != nil {
		log.Error("Error closing Redis client", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	for name, shutdown := range map[string]func(context.Context) error{
		"tracer": tracerProvider.Shutdown,
		"meter":  meterProvider.Shutdown,
		"logger": loggerProvider.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry provider", zap.String("provider", name), zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

// onlyPaths runs mw for the given route patterns and skips it elsewhere
func onlyPaths(mw gin.HandlerFunc, paths ...string) gin.HandlerFunc {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := set[c.FullPath()]; ok {
			mw(c)
			return
		}
		c.Next()
	}
}
