// Command impactd serves the impact and deflection engine over HTTP and,
// when KAFKA_ENABLED is set, over a request/report topic pair.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/TEC-Andres/HackSAERO/internal/adapter/http"
	kafkaadapter "github.com/TEC-Andres/HackSAERO/internal/adapter/kafka"
	"github.com/TEC-Andres/HackSAERO/internal/adapter/mapbox"
	"github.com/TEC-Andres/HackSAERO/internal/config"
	"github.com/TEC-Andres/HackSAERO/internal/domain"
	"github.com/TEC-Andres/HackSAERO/internal/engine"
	"github.com/TEC-Andres/HackSAERO/internal/observability"
	"github.com/TEC-Andres/HackSAERO/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, logger)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	opts := []engine.Option{
		engine.WithResultCache(cfg.ResultCacheSize),
		engine.WithIntegrator(domain.Integrator{
			AltitudeStepM: domain.DefaultAltitudeStepM,
			MaxSteps:      cfg.EntryMaxSteps,
		}),
	}

	// Site enrichment is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		geocoder, err := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		if err != nil {
			logger.Error("failed to create geocoder", "error", err)
			os.Exit(1)
		}
		opts = append(opts, engine.WithGeocoder(geocoder))
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	svc := engine.New(logger, metrics, opts...)
	if err := svc.SelfCheck(); err != nil {
		// Keep serving; /readyz reports the failure.
		logger.Error("engine self-check failed", "error", err)
	}

	checkers := []httpadapter.ReadinessChecker{svc}

	var (
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	pipelineDone := make(chan struct{})
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		p := pipeline.New(reader, pipeline.NewTransformer(svc, logger), writer, logger, metrics, cfg.BatchSize)
		checkers = append(checkers, p)

		go func() {
			defer close(pipelineDone)
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		close(pipelineDone)
		logger.Info("kafka pipeline disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, httpadapter.AllReady(checkers...), logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-pipelineDone:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	observability.ShutdownTracing(shutdownCtx, shutdownTracing, logger)

	logger.Info("shutdown complete")
}
