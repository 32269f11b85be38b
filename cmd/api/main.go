// Package main is the entry point for the CashSplit API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cashsplit/backend/config"
	"github.com/cashsplit/backend/internal/application/adapter"
	"github.com/cashsplit/backend/internal/infra/db"
	"github.com/cashsplit/backend/internal/infra/dependency"
	"github.com/cashsplit/backend/internal/integration/cache"
	"github.com/cashsplit/backend/internal/integration/email"
	"github.com/cashsplit/backend/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.Level,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting CashSplit API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"database_driver", cfg.Database.Driver,
	)

	if err := run(cfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}

func run(cfg *config.Config) error {
	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := database.AutoMigrate(model.All()...); err != nil {
		return err
	}
	slog.Info("Database migrations completed successfully")

	var redisCache *cache.RedisBalanceCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedisBalanceCache(cfg.Redis)
		if err != nil {
			// Balances are still served, only without caching.
			slog.Warn("Redis unavailable, balance cache disabled", "error", err)
			redisCache = nil
		} else {
			defer func() {
				if err := redisCache.Close(); err != nil {
					slog.Error("Failed to close Redis connection", "error", err)
				}
			}()
		}
	}

	var sender adapter.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		resendClient, err := email.NewResendClient(cfg.Email)
		if err != nil {
			return err
		}
		sender = resendClient
	} else {
		slog.Warn("RESEND_API_KEY not set, emails will be logged and discarded")
		sender = email.LogEmailSender{}
	}

	injector, err := dependency.NewInjector(cfg, database, redisCache, sender)
	if err != nil {
		return err
	}

	engine := injector.Router.Setup(cfg.Server.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	if cfg.Email.WorkerEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			injector.EmailWorker.Start(workerCtx)
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case runErr = <-serverErr:
		slog.Error("Server failed", "error", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		runErr = errors.Join(runErr, err)
	}

	stopWorker()
	wg.Wait()

	return runErr
}
