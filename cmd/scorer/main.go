// The scorer consumes raw observation messages from Kafka, runs each one
// through the AQI prediction pipeline, and publishes scored events to the
// sink topic. It exposes health, readiness, and metrics over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/AshVenn/openaq-aqi-predictor/internal/adapter/http"
	kafkaadapter "github.com/AshVenn/openaq-aqi-predictor/internal/adapter/kafka"
	"github.com/AshVenn/openaq-aqi-predictor/internal/config"
	"github.com/AshVenn/openaq-aqi-predictor/internal/model"
	"github.com/AshVenn/openaq-aqi-predictor/internal/observability"
	"github.com/AshVenn/openaq-aqi-predictor/internal/pipeline"
	"github.com/AshVenn/openaq-aqi-predictor/internal/predict"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	artifacts, err := model.Load(cfg.ArtifactPaths())
	if err != nil {
		logger.Error("failed to load model artifacts", "error", err)
		os.Exit(1)
	}
	metrics.ModelLoaded.Set(1)
	logger.Info("model artifacts loaded",
		"model", artifacts.Meta.ModelName,
		"version", artifacts.Meta.Version,
		"features", len(artifacts.Schema.Columns),
	)

	svc := predict.New(artifacts, logger)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(svc, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
