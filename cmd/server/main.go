package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdadvisor/internal/config"
	"github.com/mamadbah2/herdadvisor/internal/metrics"
	"github.com/mamadbah2/herdadvisor/internal/repository"
	"github.com/mamadbah2/herdadvisor/internal/repository/memory"
	"github.com/mamadbah2/herdadvisor/internal/repository/mongodb"
	"github.com/mamadbah2/herdadvisor/internal/repository/sheets"
	"github.com/mamadbah2/herdadvisor/internal/scheduler"
	"github.com/mamadbah2/herdadvisor/internal/server/handlers"
	"github.com/mamadbah2/herdadvisor/internal/server/router"
	"github.com/mamadbah2/herdadvisor/internal/service/feeding"
	"github.com/mamadbah2/herdadvisor/internal/service/health"
	"github.com/mamadbah2/herdadvisor/internal/service/market"
	"github.com/mamadbah2/herdadvisor/pkg/clients/whatsapp"
	"github.com/mamadbah2/herdadvisor/pkg/logger"
)

// backend is what the advisory services need from storage.
type backend interface {
	repository.ReferenceStore
	repository.Ledger
	repository.HealthRecordSink
	repository.PriceWriter
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	metrics.Init()

	var store backend
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named(baseLogger, "repo.mongo"))
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		store = mongoRepo
	} else {
		memStore := memory.NewStore()
		if err := memory.Seed(memStore, time.Now()); err != nil {
			baseLogger.Fatal("failed to seed in-memory store", zap.Error(err))
		}
		baseLogger.Warn("mongodb uri missing, serving the seeded in-memory catalogue")
		store = memStore
	}

	var healthSink repository.HealthRecordSink = store
	jobs := scheduler.Jobs{}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		healthSink = sheets.NewHealthAudit(store, sheetsRepo, logger.Named(baseLogger, "repo.sheets.audit"))
		jobs.Prices = sheets.NewPriceSheet(sheetsRepo, sheets.DefaultPriceRange, logger.Named(baseLogger, "repo.sheets.prices"))
		jobs.PriceSink = store
		baseLogger.Info("google sheets enabled")
	} else {
		baseLogger.Warn("google sheets not configured, price sync and health audit disabled")
	}

	feedingSvc := feeding.NewService(store, logger.Named(baseLogger, "svc.feeding"))
	healthSvc := health.NewService(store, healthSink, logger.Named(baseLogger, "svc.health"))
	marketSvc := market.NewService(store, store, logger.Named(baseLogger, "svc.market"))
	jobs.Advisor = marketSvc

	if cfg.WhatsApp.Enabled() {
		whatsClient, err := whatsapp.NewClient(cfg.WhatsApp)
		if err != nil {
			baseLogger.Fatal("failed to init whatsapp client", zap.Error(err))
		}
		jobs.Messenger = whatsClient
		baseLogger.Info("whatsapp client enabled")
	}

	advisoryHandler := handlers.NewAdvisoryHandler(feedingSvc, healthSvc, marketSvc, logger.Named(baseLogger, "handlers.advisory"))
	engine := router.New(advisoryHandler, logger.Named(baseLogger, "router"))

	sched, err := scheduler.NewScheduler(cfg.Scheduler, jobs, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
