package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	printingapp "github.com/erp/posprint/internal/application/printing"
	"github.com/erp/posprint/internal/domain/shared"
	"github.com/erp/posprint/internal/infrastructure/auth"
	"github.com/erp/posprint/internal/infrastructure/cache"
	"github.com/erp/posprint/internal/infrastructure/config"
	"github.com/erp/posprint/internal/infrastructure/escpos"
	"github.com/erp/posprint/internal/infrastructure/logger"
	"github.com/erp/posprint/internal/infrastructure/persistence"
	infra "github.com/erp/posprint/internal/infrastructure/printing"
	"github.com/erp/posprint/internal/infrastructure/storage"
	"github.com/erp/posprint/internal/infrastructure/telemetry"
	"github.com/erp/posprint/internal/interfaces/http/handler"
	"github.com/erp/posprint/internal/interfaces/http/middleware"
	"github.com/erp/posprint/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// The log provider must exist before the final logger so every entry
	// can be bridged to OTLP
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log, err := logger.New(logCfg, logProvider.ZapCore())
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting print service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, cfg.Log.Level, 200*time.Millisecond)
	db, err := persistence.Connect(ctx, &cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBName:     cfg.Database.DBName,
	}, log); err != nil {
		log.Warn("Database tracing unavailable", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Idempotency
	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		idempotencyStore, err = cache.NewIdempotencyStore(ctx, cfg.Redis, cfg.Idempotency, log)
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		defer idempotencyStore.Close()
	}

	// Rendering
	streamStorage, err := storage.NewStreamStorage(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize stream storage", zap.Error(err))
	}

	schemaStore, err := infra.NewSchemaStore(&infra.SchemaStoreConfig{
		ExternalDir: cfg.Printing.SchemaDir,
		Logger:      log,
	})
	if err != nil {
		log.Fatal("Failed to load schemas", zap.Error(err))
	}

	printMetrics, err := telemetry.NewPrintMetrics(meterProvider.Meter("posprint.printing"), log)
	if err != nil {
		log.Fatal("Failed to create print metrics", zap.Error(err))
	}
	renderer := infra.NewSchemaRenderer(nil,
		infra.WithLogger(log),
		infra.WithObserver(printMetrics),
	)

	serviceOpts := []printingapp.ServiceOption{
		printingapp.WithServiceLogger(log),
		printingapp.WithMetrics(printMetrics),
		printingapp.WithConfig(printingapp.ServiceConfig{
			TraceEnabled:   cfg.Printing.TraceEnabled,
			MaxCopies:      cfg.Printing.MaxCopies,
			IdempotencyTTL: cfg.Idempotency.TTL,
			Retention:      cfg.Printing.StreamRetention,
		}),
	}
	if idempotencyStore != nil {
		serviceOpts = append(serviceOpts, printingapp.WithIdempotencyStore(idempotencyStore))
	}
	if cfg.Printing.PrinterAddr != "" {
		serviceOpts = append(serviceOpts, printingapp.WithTransport(
			escpos.NewNetworkTransport(cfg.Printing.PrinterAddr, escpos.WithTimeout(cfg.Printing.DialTimeout)),
		))
		log.Info("Printer configured", zap.String("addr", cfg.Printing.PrinterAddr))
	} else {
		log.Warn("No printer configured, jobs are rendered and stored only")
	}

	printService := printingapp.NewPrintService(
		persistence.NewJobRepository(db.DB),
		schemaStore,
		renderer,
		streamStorage,
		serviceOpts...,
	)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(meterProvider, log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.SpanAttributes())

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, map[string]handler.HealthCheck{
		"database": db.Ping,
	})
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	var authMiddleware gin.HandlerFunc
	if cfg.JWT.Secret != "" {
		authMiddleware = middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			Validator: auth.NewJWTService(cfg.JWT),
			Logger:    log,
		})
	} else {
		log.Warn("jwt.secret is empty, trusting X-Tenant-ID and X-User-ID headers")
		authMiddleware = middleware.HeaderIdentity()
	}

	router.NewRouter(engine).
		Mount(handler.PrintRoutes(handler.NewPrintHandler(printService), authMiddleware), systemHandler).
		Setup()
	log.Debug("Routes registered", zap.Int("count", len(engine.Routes())))

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

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	go runRetention(cleanupCtx, printService, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stopCleanup()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Log provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runRetention sweeps expired jobs and streams hourly until ctx ends
func runRetention(ctx context.Context, svc *printingapp.PrintService, log *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := svc.CleanupExpired(ctx)
			if err != nil {
				log.Error("Retention sweep failed", zap.Error(err))
				continue
			}
			if result.JobsDeleted > 0 || result.StreamsDeleted > 0 {
				log.Info("Retention sweep finished",
					zap.Int64("jobs_deleted", result.JobsDeleted),
					zap.Int("streams_deleted", result.StreamsDeleted),
				)
			}
		}
	}
}
