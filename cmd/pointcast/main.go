package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cirruswx/pointcast/internal/adapter/gm"
	"github.com/cirruswx/pointcast/internal/adapter/httpapi"
	kafkaadapter "github.com/cirruswx/pointcast/internal/adapter/kafka"
	"github.com/cirruswx/pointcast/internal/adapter/nws"
	"github.com/cirruswx/pointcast/internal/adapter/spc"
	"github.com/cirruswx/pointcast/internal/config"
	"github.com/cirruswx/pointcast/internal/observability"
	"github.com/cirruswx/pointcast/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	modelClient := gm.NewClient(cfg.ModelBaseURL, cfg.ModelAPIKey, cfg.ModelTimeout, logger)
	nationalClient := nws.NewClient(cfg.NationalBaseURL, cfg.AlertsBaseURL, cfg.NationalTimeout, logger)
	spcClient := spc.NewClient(cfg.SPCBaseURL, cfg.SPCTimeout, logger)

	// Outlook refresh events are published only when Kafka is configured.
	var publisher spc.Publisher
	var kafkaPub *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPub = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPub
		logger.Info("kafka egress enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka egress disabled")
	}

	cache := spc.NewCache(spcClient, cfg.OutlookCachePath, cfg.OutlookRefreshInterval, logger, metrics, publisher)
	forecaster := pipeline.New(modelClient, nationalClient, cache, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, forecaster, forecaster, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start outlook refresh loop.
	go func() {
		if err := cache.Run(ctx); err != nil {
			logger.Error("outlook cache error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
