package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zenboard/internal/config"
	"zenboard/internal/coordinator"
	"zenboard/internal/fetcher"
	"zenboard/internal/logging"
	"zenboard/internal/quote"
	"zenboard/internal/server"
	"zenboard/internal/user"
	"zenboard/internal/zen"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure process-wide structured logging
	logger, err := logging.Setup(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	logger.Info("application startup")

	// Connect the record store
	store, err := user.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect record store: %v", err)
	}
	defer store.Close()

	// Build the two fetchers for the fan-out demonstration
	fetchers := []fetcher.Fetcher{
		zen.NewFetcher(cfg.ZenBaseURL, cfg.FetchTimeout, cfg.ProcessingDelay),
		quote.NewFetcher(cfg.ProcessingDelay),
	}
	coord := coordinator.New(fetchers, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.New(store, coord, store, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Handle interrupt signals for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		logger.Info("received interrupt signal, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.ListenAddr, "zen_base_url", cfg.ZenBaseURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}

	logger.Info("shutdown complete")
}
