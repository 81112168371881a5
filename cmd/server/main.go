package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/caselink/analytics-backend-go/internal/api"
	"github.com/caselink/analytics-backend-go/internal/cache"
	"github.com/caselink/analytics-backend-go/internal/config"
	"github.com/caselink/analytics-backend-go/internal/database"
	"github.com/caselink/analytics-backend-go/internal/graph"
	"github.com/caselink/analytics-backend-go/internal/handler"
	"github.com/caselink/analytics-backend-go/internal/repository"
	"github.com/caselink/analytics-backend-go/internal/service"
)

// warmCenterHour seeds the progressive position load in the middle of the
// simulation window.
const warmCenterHour = 36

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(database.Config{Path: cfg.DBPath}, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrationManager(db, logger)
	if err := migrator.RunMigrations(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	if cfg.SeedDemo {
		if err := database.Seed(db, logger); err != nil {
			logger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	positionRepo := repository.NewPositionRepository(db)
	towerRepo := repository.NewTowerRepository(db)
	entityRepo := repository.NewEntityRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	socialRepo := repository.NewSocialRepository(db)

	heatmapSvc := service.NewHeatmapService(
		positionRepo, towerRepo, cache.NewPositionCache(), cache.NewHotspotCache(), logger)
	entitySvc := service.NewEntityService(entityRepo, heatmapSvc, logger)
	graphSvc := service.NewGraphService(entityRepo, socialRepo, graph.DefaultConfig(), logger)
	caseSvc := service.NewCaseService(caseRepo)
	analyticsSvc := service.NewAnalyticsService(positionRepo, socialRepo, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the position cache in the background; requests served meanwhile
	// fall through to the database per hour.
	go func() {
		if err := heatmapSvc.Warm(ctx, warmCenterHour, 0); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("position cache warm failed", zap.Error(err))
		}
	}()

	router := api.SetupRouter(cfg, logger, api.Handlers{
		Heatmap: handler.NewHeatmapHandler(heatmapSvc),
		Entity:  handler.NewEntityHandler(entitySvc),
		Graph:   handler.NewGraphHandler(graphSvc),
		Case:    handler.NewCaseHandler(caseSvc),
		Log:     handler.NewLogHandler(analyticsSvc),
		Export:  handler.NewExportHandler(entitySvc),
		Auth:    handler.NewAuthHandler(cfg.JWTSecret),
	})

	srv := &http.Server{Addr: cfg.Port, Handler: router}

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
