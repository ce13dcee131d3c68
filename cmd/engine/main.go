package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/aldennoronha2228/postharvest/internal/adapter/http"
	kafkaadapter "github.com/aldennoronha2228/postharvest/internal/adapter/kafka"
	"github.com/aldennoronha2228/postharvest/internal/config"
	"github.com/aldennoronha2228/postharvest/internal/domain"
	"github.com/aldennoronha2228/postharvest/internal/engine"
	"github.com/aldennoronha2228/postharvest/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	session, err := engine.NewSession(domain.DefaultRegistry(), engine.Seed{
		Crop:   cfg.Crop,
		Temp:   cfg.SeedTemp,
		GForce: cfg.SeedGForce,
		Tilt:   cfg.SeedTilt,
	}, clock, logger, metrics)
	if err != nil {
		logger.Error("failed to create trip session", "error", err)
		os.Exit(1)
	}

	// Incident publishing is feature-flagged via KAFKA_ENABLED.
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger, metrics)
		session.AddNotifier(publisher)
		logger.Info("kafka incident publishing enabled", "topic", cfg.KafkaIncidentTopic)
	} else {
		logger.Info("kafka incident publishing disabled")
	}

	seed := cfg.SimSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	logger.Info("simulator seeded", "seed", seed)

	simulator := engine.NewSimulator(session, clock, cfg.TickInterval, rng, logger, metrics)
	if cfg.AutoStart {
		simulator.Start()
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, session, simulator, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	simulator.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
