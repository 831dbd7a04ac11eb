package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	matchupengine "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine"
	postgresadapter "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/adapters/postgres"
	workerapp "github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/application/workers"
	"github.com/atomtables/summer-of-making/contexts/community-voting/matchup-engine/domain/pairing"
	"github.com/atomtables/summer-of-making/internal/platform/config"
	"github.com/atomtables/summer-of-making/internal/platform/db"
	"github.com/atomtables/summer-of-making/internal/platform/httpserver"
	"github.com/atomtables/summer-of-making/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	relayEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if strings.TrimSpace(cfg.VoteSigningSecret) == "" {
		return nil, errors.New("VOTE_SIGNING_SECRET is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := matchupengine.NewModule(matchupengine.Dependencies{
		Catalog:       repo,
		Votes:         repo,
		Idempotency:   repo,
		Outbox:        repo,
		Clock:         postgresadapter.SystemClock{},
		IDGen:         postgresadapter.UUIDGenerator{},
		SigningSecret: []byte(cfg.VoteSigningSecret),
		Policy: pairing.Policy{
			Decay:       cfg.PairingDecay,
			MaxAttempts: cfg.PairingMaxAttempts,
			BandLow:     cfg.PairingBandLow,
			BandHigh:    cfg.PairingBandHigh,
		},
		MinRationaleLength: cfg.MinRationaleLength,
		IdempotencyTTL:     7 * 24 * time.Hour,
		Logger:             logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus, err := messaging.NewBus(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: bus,
			Clock:     postgresadapter.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"relay_enabled", w.relayEnabled,
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.relayEnabled {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
