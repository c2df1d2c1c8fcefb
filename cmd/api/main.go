package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/healthmate-pk/healthmate-api/internal/ai"
	"github.com/healthmate-pk/healthmate-api/internal/config"
	v1 "github.com/healthmate-pk/healthmate-api/internal/handler/v1"
	"github.com/healthmate-pk/healthmate-api/internal/repository"
	"github.com/healthmate-pk/healthmate-api/internal/service"
	"github.com/healthmate-pk/healthmate-api/internal/storage"
	"github.com/healthmate-pk/healthmate-api/pkg/auth"
	"github.com/healthmate-pk/healthmate-api/pkg/database"
	"github.com/healthmate-pk/healthmate-api/pkg/logger"
	"github.com/healthmate-pk/healthmate-api/pkg/metrics"
	"github.com/healthmate-pk/healthmate-api/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}

	if err := database.Migrate(db, log); err != nil {
		return err
	}

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	collector := metrics.NewCollector("healthmate")
	jwtManager := auth.NewJWTManager(cfg.JWT)

	store, err := storage.NewS3Store(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}

	analyzer, err := ai.NewGeminiAnalyzer(ctx, cfg.Gemini, log)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	vitalsRepo := repository.NewVitalsRepository(db)
	reportRepo := repository.NewReportRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditService := service.NewAuditService(auditRepo, collector, log)
	defer auditService.Shutdown()

	authService := service.NewAuthService(userRepo, jwtManager, log)
	vitalsService := service.NewVitalsService(vitalsRepo, familyRepo, collector, log)
	reportService := service.NewReportService(
		reportRepo, familyRepo, store, analyzer,
		cfg.Storage.KeyPrefix, cfg.Upload.MaxFileSizeBytes,
		collector, log,
	)
	familyService := service.NewFamilyService(familyRepo, reportRepo, vitalsRepo, userRepo, log)
	timelineService := service.NewTimelineService(reportRepo, vitalsRepo, familyRepo, log)

	router := v1.NewRouter(v1.RouterDeps{
		Config:     cfg,
		Log:        log,
		Metrics:    collector,
		JWTManager: jwtManager,
		DB:         db,

		Auth:     v1.NewAuthHandler(authService, auditService),
		Vitals:   v1.NewVitalsHandler(vitalsService, auditService),
		Reports:  v1.NewReportHandler(reportService, auditService),
		Family:   v1.NewFamilyHandler(familyService, auditService),
		Timeline: v1.NewTimelineHandler(timelineService),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
