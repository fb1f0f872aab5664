package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"tradelog/internal/application/port"
	"tradelog/internal/application/service"
	"tradelog/internal/infrastructure/config"
	"tradelog/internal/infrastructure/logger"
	"tradelog/internal/infrastructure/storage"
	"tradelog/internal/infrastructure/storage/composite"
	"tradelog/internal/infrastructure/storage/csvsheet"
	"tradelog/internal/infrastructure/storage/postgres"
	"tradelog/internal/infrastructure/storage/redisrepo"
	"tradelog/internal/infrastructure/storage/sqlite"
	"tradelog/internal/interfaces/httpapi"
)

func main() {
	logger.Setup()

	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openLedger(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("open trade ledger failed")
	}
	defer repo.Close()

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		mirror := redisrepo.New(rdb, cfg.Redis.Prefix, cfg.Redis.Stream)
		repo = composite.New(repo, mirror)
		log.Info().Str("addr", cfg.Redis.Addr).Str("stream", cfg.Redis.Stream).Msg("redis trade mirror enabled")
	}

	hub := httpapi.NewHub()
	ingest := service.NewIngestService(repo, hub)
	pnl := service.NewPnLService(repo)
	srv := httpapi.NewServer(cfg.Server.Addr, cfg.Server.AuthToken, ingest, pnl, hub)

	log.Info().
		Str("config", *configPath).
		Str("addr", cfg.Server.Addr).
		Str("backend", cfg.Storage.Backend).
		Msg("tradelog started")

	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("webhook server exited")
	}
}

func openLedger(cfg *config.Config) (port.TradeRepository, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return storage.NewMemoryRepo(), nil
	case config.BackendCSV:
		return csvsheet.New(cfg.Storage.CSVPath)
	case config.BackendPostgres:
		return postgres.New(cfg.Storage.PostgresDSN)
	default:
		return sqlite.New(cfg.Storage.SQLitePath)
	}
}
