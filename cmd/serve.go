package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/junaidrashid-git/yoruwear-api/cache"
	"github.com/junaidrashid-git/yoruwear-api/database"
	"github.com/junaidrashid-git/yoruwear-api/routes"
	"github.com/junaidrashid-git/yoruwear-api/scheduler"
	"github.com/junaidrashid-git/yoruwear-api/tracing"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	shutdownTimeout     = 15 * time.Second
	limiterCleanupEvery = 10 * time.Minute
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}

		shutdownTracing, err := tracing.Setup(cmd.Context(), cfg.Tracing, routes.Version, log)
		if err != nil {
			return err
		}

		db, err := database.Open(cfg.Database, log)
		if err != nil {
			return err
		}
		defer closeDB(db, log)

		if !skipMigrate {
			if err := database.Migrate(db); err != nil {
				return err
			}
		}

		catalogCache, err := cache.New(cfg.RedisURL, cfg.CatalogCacheTTL, log)
		if err != nil {
			return err
		}
		defer catalogCache.Close()

		deps := routes.NewDeps(cfg, db, catalogCache, log)
		router := routes.NewRouter(deps)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		jobs := scheduler.New(log)
		if err := jobs.AddCatalogWarmup(cfg.CatalogRefresh, deps.Catalog); err != nil {
			return err
		}
		jobs.Start()
		go func() {
			if err := deps.Catalog.Warm(ctx); err != nil {
				log.WithError(err).Warn("initial catalog warm-up failed")
			}
		}()

		stopCleanup := make(chan struct{})
		deps.AuthLimiter.StartCleanup(limiterCleanupEvery, stopCleanup)

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           tracing.Middleware(cfg.Tracing.ServiceName, router),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.WithFields(logrus.Fields{
				"port":        cfg.Port,
				"environment": cfg.Environment,
			}).Info("server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return err
			}
		case <-ctx.Done():
			log.Info("shutting down")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// websocket connections are hijacked and not tracked by Shutdown
		deps.Feed.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
		close(stopCleanup)
		jobs.Stop(shutdownCtx)
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.WithError(err).Warn("flush traces")
		}
		log.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not run AutoMigrate on startup")
}

func closeDB(db *gorm.DB, log *logrus.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.WithError(err).Warn("close database")
	}
}
