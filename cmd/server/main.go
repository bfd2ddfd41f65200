package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	claimsapp "github.com/tms/backend/internal/application/claims"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/auth"
	"github.com/tms/backend/internal/infrastructure/cache"
	"github.com/tms/backend/internal/infrastructure/config"
	"github.com/tms/backend/internal/infrastructure/logger"
	"github.com/tms/backend/internal/infrastructure/persistence"
	"github.com/tms/backend/internal/infrastructure/storage"
	"github.com/tms/backend/internal/infrastructure/telemetry"
	"github.com/tms/backend/internal/interfaces/http/handler"
	"github.com/tms/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting claims service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down tracer provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))

	dbOpts := []persistence.DatabaseOption{persistence.WithGormLogger(gormLog)}
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbOpts = append(dbOpts, persistence.WithTracing())
	}
	db, err := persistence.NewDatabase(&cfg.Database, dbOpts...)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	// Idempotency store: redis when available, in-process otherwise
	var idempotencyStore shared.IdempotencyStore
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisIdempotencyStore(cfg.Redis)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		idempotencyStore = redisStore
		log.Info("redis idempotency store connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
		log.Warn("redis disabled, idempotency keys are process-local")
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("error closing idempotency store", zap.Error(err))
		}
	}()

	// Object storage for claim documents
	var objectStorage claimsapp.ObjectStorageService
	switch cfg.Storage.Provider {
	case "s3":
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("failed to ensure storage bucket", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("object storage ready", zap.String("bucket", cfg.Storage.Bucket))
	default:
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("storage provider is stub, presigned URLs are not real")
	}

	// Repositories
	claimRepo := persistence.NewClaimRepository(db.DB)
	itemRepo := persistence.NewClaimItemRepository(db.DB)
	docRepo := persistence.NewClaimDocumentRepository(db.DB)
	noteRepo := persistence.NewClaimNoteRepository(db.DB)
	adjustmentRepo := persistence.NewClaimAdjustmentRepository(db.DB)
	subrogationRepo := persistence.NewSubrogationRepository(db.DB)
	timelineRepo := persistence.NewTimelineRepository(db.DB)

	// Application services
	timeline := claimsapp.NewTimelineRecorder(timelineRepo)
	idempotencyCfg := shared.IdempotencyConfig{
		TTL:     cfg.Claims.IdempotencyTTL,
		Enabled: true,
	}

	claimService := claimsapp.NewClaimService(claimRepo, itemRepo, docRepo, noteRepo, timeline,
		claimsapp.WithNumbering(claimsapp.NumberingConfig{
			Prefix:      cfg.Claims.NumberPrefix,
			MaxAttempts: cfg.Claims.NumberMaxAttempts,
		}))
	resolutionService := claimsapp.NewResolutionService(claimRepo, adjustmentRepo, timeline,
		claimsapp.WithIdempotencyStore(idempotencyStore, idempotencyCfg))
	subrogationService := claimsapp.NewSubrogationService(claimRepo, subrogationRepo, timeline,
		claimsapp.WithRecoveryIdempotencyStore(idempotencyStore, idempotencyCfg))
	attachmentService := claimsapp.NewAttachmentService(claimRepo, itemRepo, docRepo, noteRepo,
		timeline, objectStorage, claimsapp.AttachmentServiceConfig{
			UploadURLExpiry:   cfg.Storage.UploadURLExpiry,
			DownloadURLExpiry: cfg.Storage.DownloadURLExpiry,
		})

	jwtService := auth.NewJWTService(cfg.JWT)

	engine, err := router.New(router.Dependencies{
		Config:      cfg,
		Logger:      log,
		JWTService:  jwtService,
		Claims:      handler.NewClaimHandler(claimService, timeline),
		Resolution:  handler.NewResolutionHandler(resolutionService),
		Subrogation: handler.NewSubrogationHandler(subrogationService),
		Attachment:  handler.NewAttachmentHandler(attachmentService),
		HealthCheck: db.Ping,
	})
	if err != nil {
		log.Fatal("failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("forced shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
