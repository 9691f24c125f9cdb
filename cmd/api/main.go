// The api binary serves on-demand AQI predictions over HTTP: a client posts
// a location, a timestamp, and whatever pollutant readings it has, and gets
// back the estimated AQI plus per-pollutant diagnostics.
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
	"github.com/AshVenn/openaq-aqi-predictor/internal/config"
	"github.com/AshVenn/openaq-aqi-predictor/internal/model"
	"github.com/AshVenn/openaq-aqi-predictor/internal/observability"
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
	srv := httpadapter.NewAPIServer(cfg.HTTPAddr, svc, artifacts, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	logger.Info("shutdown complete")
}
