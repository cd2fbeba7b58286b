package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/leozw/whois-lookup/internal/api"
	"github.com/leozw/whois-lookup/internal/config"
	"github.com/leozw/whois-lookup/internal/logging"
	"github.com/leozw/whois-lookup/internal/lookup"
	"github.com/leozw/whois-lookup/internal/metrics"
	"github.com/leozw/whois-lookup/internal/normalize"
	"github.com/leozw/whois-lookup/internal/upstream"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Setup logger
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Upstream.Provider == config.ProviderWhoisXML && cfg.Upstream.APIKey == "" {
		logger.Warn("No upstream API key configured, lookups will be rejected by the provider")
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsCollector := metrics.NewCollector(cfg.Mimir, reg)

	fetcher, err := upstream.NewFetcher(cfg.Upstream)
	if err != nil {
		logger.Fatal("Failed to build upstream fetcher", zap.Error(err))
	}

	normalizer := normalize.New(
		normalize.WithLogger(logger),
		normalize.WithObserver(metricsCollector),
	)
	service := lookup.NewService(fetcher, normalizer, metricsCollector, logger)

	// API Server
	server := api.NewServer(cfg, service, reg, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           server.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Mimir.URL != "" {
		go metricsCollector.StartRemoteWrite(ctx, logger)
		logger.Info("Remote write enabled", zap.String("url", cfg.Mimir.URL))
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("API server started",
		zap.String("addr", srv.Addr),
		zap.String("provider", fetcher.Name()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
