package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Backends accepted by storage.backend.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
)

type Config struct {
	Server struct {
		Addr      string `toml:"addr"`
		AuthToken string `toml:"auth_token"`
	} `toml:"server"`

	Storage struct {
		Backend     string `toml:"backend"`
		SQLitePath  string `toml:"sqlite_path"`
		CSVPath     string `toml:"csv_path"`
		PostgresDSN string `toml:"postgres_dsn"`
	} `toml:"storage"`

	Redis struct {
		Enabled bool   `toml:"enabled"`
		Addr    string `toml:"addr"`
		Prefix  string `toml:"prefix"`
		Stream  string `toml:"stream"`
	} `toml:"redis"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = ":8080"
	}
	if strings.TrimSpace(cfg.Storage.Backend) == "" {
		cfg.Storage.Backend = BackendSQLite
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "data/tradelog.db"
	}
	if cfg.Storage.CSVPath == "" {
		cfg.Storage.CSVPath = "data/trades.csv"
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "tradelog"
	}
	if cfg.Redis.Stream == "" {
		cfg.Redis.Stream = cfg.Redis.Prefix + ":trades"
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Server.AuthToken) == "" {
		return errors.New("server.auth_token is empty")
	}

	switch cfg.Storage.Backend {
	case BackendMemory, BackendSQLite, BackendCSV:
	case BackendPostgres:
		if strings.TrimSpace(cfg.Storage.PostgresDSN) == "" {
			return errors.New("storage.postgres_dsn empty but backend is postgres")
		}
	default:
		return fmt.Errorf("unknown storage.backend %q", cfg.Storage.Backend)
	}

	if cfg.Redis.Enabled && strings.TrimSpace(cfg.Redis.Addr) == "" {
		return errors.New("redis.addr empty but enabled")
	}
	return nil
}
