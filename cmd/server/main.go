package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/JesVite28/products-front/internal/alerts"
	"github.com/JesVite28/products-front/internal/config"
	"github.com/JesVite28/products-front/internal/repository/sheets"
	"github.com/JesVite28/products-front/internal/scheduler"
	"github.com/JesVite28/products-front/internal/server/handlers"
	"github.com/JesVite28/products-front/internal/server/router"
	accountsvc "github.com/JesVite28/products-front/internal/service/account"
	catalogsvc "github.com/JesVite28/products-front/internal/service/catalog"
	directorysvc "github.com/JesVite28/products-front/internal/service/directory"
	reportingsvc "github.com/JesVite28/products-front/internal/service/reporting"
	"github.com/JesVite28/products-front/internal/session"
	"github.com/JesVite28/products-front/pkg/clients/accounts"
	"github.com/JesVite28/products-front/pkg/clients/inventory"
	"github.com/JesVite28/products-front/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	sess := session.New(cfg.Session.TokenPath, baseLogger.Named("session"))
	alertStore := alerts.NewStore()

	inventoryClient := inventory.NewClient(cfg.API.ProductURL, sess, baseLogger.Named("clients.inventory"))
	accountsClient := accounts.NewClient(cfg.API.AuthRootURL(), sess, baseLogger.Named("clients.accounts"))

	catalogSvc := catalogsvc.NewService(inventoryClient, sess, alertStore, baseLogger.Named("svc.catalog"))
	directorySvc := directorysvc.NewService(accountsClient, sess, alertStore, baseLogger.Named("svc.directory"))
	accountSvc := accountsvc.NewService(accountsClient, sess, alertStore, baseLogger.Named("svc.account"))

	// Logout discards every cached list, override and open selection.
	accountSvc.OnLogout(catalogSvc.Reset)
	accountSvc.OnLogout(directorySvc.Reset)
	accountSvc.OnLogout(alertStore.Reset)

	// Snapshot export is optional; without credentials the panel runs
	// without it.
	var exportSvc *reportingsvc.Service
	if cfg.SnapshotEnabled() {
		snapshotRepo, err := sheets.NewSnapshotRepository(context.Background(), cfg.Snapshot, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exportSvc = reportingsvc.NewService(snapshotRepo, catalogSvc, baseLogger.Named("svc.reporting"))
		baseLogger.Info("stock snapshot export enabled")
	} else {
		baseLogger.Warn("sheets credentials missing, snapshot export disabled")
	}

	authHandler := handlers.NewAuthHandler(accountSvc, baseLogger.Named("handlers.auth"))
	productHandler := handlers.NewProductHandler(catalogSvc, baseLogger.Named("handlers.products"))
	userHandler := handlers.NewUserHandler(directorySvc, baseLogger.Named("handlers.users"))
	engine := router.New(authHandler, productHandler, userHandler, alertStore, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, catalogSvc, exportSvc, sess, baseLogger.Named("scheduler"))
	sched.Start()
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
