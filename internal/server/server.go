// Package server boots and runs the shop: config, database, cache, storage,
// queue workers, event listeners, the HTTP API and the gRPC health endpoint,
// with graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/sweetshop/app/jobs"
	"github.com/shashiranjanraj/sweetshop/app/listeners"
	"github.com/shashiranjanraj/sweetshop/config"
	"github.com/shashiranjanraj/sweetshop/pkg/cache"
	"github.com/shashiranjanraj/sweetshop/pkg/database"
	grpcserver "github.com/shashiranjanraj/sweetshop/pkg/grpc"
	"github.com/shashiranjanraj/sweetshop/pkg/logger"
	"github.com/shashiranjanraj/sweetshop/pkg/migration"
	"github.com/shashiranjanraj/sweetshop/pkg/queue"
	"github.com/shashiranjanraj/sweetshop/pkg/storage"
)

// Start boots every subsystem and serves until a shutdown signal arrives.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Database is mandatory; everything else degrades gracefully.
	if err := database.Connect(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	// Apply pending migrations so a fresh install serves immediately.
	if err := migration.New(database.DB).Run(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("cache: redis unavailable, caching disabled", "error", err)
	}

	storage.Connect()

	// Optional Mongo log sink for aggregated structured logs.
	var mongoSink interface{ Close() }
	if uri := config.MongoLogURI(); uri != "" {
		sink, err := logger.EnableMongoSink(uri, config.MongoLogDB(), config.MongoLogCollection())
		if err != nil {
			logger.Warn("logger: mongo sink disabled", "error", err)
		} else {
			mongoSink = sink
		}
	}

	// Background jobs: registry, driver, workers, listeners.
	jobs.RegisterJobs()
	if config.QueueDriver() == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseDB(database.DB)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	queue.StartWorkers(workerCtx, 4)

	listeners.Register()
	go listeners.StockHub.Run()

	// gRPC health endpoint.
	grpcSrv, _, err := grpcserver.Start(config.GRPCPort())
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           buildHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: server starting", "addr", httpSrv.Addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http: %w", err)
	case sig := <-stop:
		logger.Info("server: shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http: shutdown", "error", err)
	}

	grpcserver.Stop(grpcSrv)
	stopWorkers()

	if mongoSink != nil {
		mongoSink.Close()
	}

	logger.Info("server: stopped")
	return nil
}
