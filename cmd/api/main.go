package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/flood-risk-service/internal/adapter/aqueduct"
	"github.com/couchcryptid/flood-risk-service/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/flood-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/flood-risk-service/internal/config"
	"github.com/couchcryptid/flood-risk-service/internal/domain"
	"github.com/couchcryptid/flood-risk-service/internal/observability"
	"github.com/couchcryptid/flood-risk-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := aqueduct.NewClient(cfg.HazardBaseURL, cfg.HazardToken, cfg.HazardTimeout, metrics, logger)
	var provider domain.HazardProvider = aqueduct.NewCachedProvider(client, cfg.HazardCacheSize, metrics)

	// Result publishing is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.ResultPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaResultsTopic, logger)
		publisher = kafkaPublisher
		logger.Info("result publishing enabled", "topic", cfg.KafkaResultsTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("result publishing disabled")
	}

	analyzer := pipeline.New(provider, publisher, logger, metrics, cfg.MaxAssets)
	srv := httpapi.NewServer(cfg.HTTPAddr, analyzer, client, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Verify the provider connection once at startup. A failure is logged,
	// not fatal: readiness keeps reporting not-ready until it recovers.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := client.Ping(pingCtx); err != nil {
		logger.Warn("hazard provider unreachable at startup", "error", err, "base_url", cfg.HazardBaseURL)
	} else {
		logger.Info("hazard provider connected", "base_url", cfg.HazardBaseURL)
	}
	cancel()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
