package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/adapter/httpapi"
	kafkaadapter "github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/adapter/kafka"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/adapter/kakao"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/adapter/openweather"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/adapter/tmap"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/config"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/observability"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/place"
	"github.com/Hanshin-OSS-Hub/capstone25-tripgpt/internal/trip"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	heuristics := place.DefaultHeuristics()
	if cfg.HeuristicsPath != "" {
		heuristics, err = place.LoadHeuristics(cfg.HeuristicsPath)
		if err != nil {
			logger.Error("failed to load heuristics file", "path", cfg.HeuristicsPath, "error", err)
			os.Exit(1)
		}
		logger.Info("loaded heuristics overrides", "path", cfg.HeuristicsPath)
	}

	client := kakao.NewClient(cfg.KakaoRESTKey, cfg.KakaoTimeout, metrics, logger)
	provider := kakao.NewCachedProvider(client, cfg.KakaoCacheSize, metrics)
	resolver := place.NewResolver(provider, heuristics, cfg.KakaoTimeout, logger)

	// Audit sink is feature-flagged via KAFKA_BROKERS.
	var sink trip.EventSink
	var writer *kafkaadapter.Writer
	if cfg.EventsEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sink = writer
		logger.Info("resolution event sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaEventsTopic)
	} else {
		logger.Info("resolution event sink disabled")
	}

	service := trip.NewService(resolver, sink, metrics, logger)

	var weather trip.WeatherSource
	if cfg.OpenWeatherKey != "" {
		weather = openweather.NewClient(cfg.OpenWeatherKey, cfg.TmapTimeout, logger)
		logger.Info("destination weather enabled")
	}

	routes := tmap.NewClient(cfg.TmapAppKey, cfg.TmapTimeout, logger)
	directions := trip.NewDirections(service, routes, weather, metrics, logger)

	ready := httpapi.ReadyFunc(func(context.Context) error {
		if cfg.KakaoRESTKey == "" {
			return errors.New("KAKAO_REST_KEY is not configured")
		}
		return nil
	})

	srv := httpapi.NewServer(cfg.HTTPAddr, service, directions, ready, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
