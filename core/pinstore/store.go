package pinstore

import (
	"context"
	"fmt"
	"strings"

	"greenspring/core/database"
	"greenspring/core/reconcile"
	"greenspring/core/storage"

	"go.uber.org/zap"
)

// Config holds configuration for the pin document store.
type Config struct {
	// Driver selects the backend: file, s3, sql or memory.
	Driver string `mapstructure:"driver" default:"file"`
	// Dir is the directory holding the documents for the file backend.
	Dir string `mapstructure:"dir" default:"data"`
	// ConfigName is the name of the topology document.
	ConfigName string `mapstructure:"config_name" default:"config.json"`
	// StateName is the name of the state document.
	StateName string `mapstructure:"state_name" default:"state.json"`
	// Prefix is prepended to object keys for the s3 backend.
	Prefix string `mapstructure:"prefix" default:"greenspring/"`
}

const (
	DriverFile   = "file"
	DriverS3     = "s3"
	DriverSQL    = "sql"
	DriverMemory = "memory"
)

func (c Config) names() (string, string) {
	cfgName, stateName := c.ConfigName, c.StateName
	if cfgName == "" {
		cfgName = "config.json"
	}
	if stateName == "" {
		stateName = "state.json"
	}
	return cfgName, stateName
}

// Open builds the configured backend, connecting to object storage or the database
// when needed.
func Open(ctx context.Context, cfg Config, storageCfg storage.Config, dbCfg database.Config, logger *zap.Logger) (reconcile.Store, error) {
	cfgName, stateName := cfg.names()

	switch strings.ToLower(cfg.Driver) {
	case "", DriverFile:
		return NewFileStore(cfg.Dir, cfgName, stateName, logger), nil

	case DriverS3:
		client, err := storage.NewClient(storageCfg)
		if err != nil {
			return nil, err
		}
		s := NewObjectStore(client, storageCfg.Bucket, cfg.Prefix, cfgName, stateName, logger)
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil

	case DriverSQL:
		db, err := database.Connect(dbCfg)
		if err != nil {
			return nil, err
		}
		s := NewSQLStore(db, cfgName, stateName, logger)
		if err := s.Migrate(); err != nil {
			return nil, err
		}
		return s, nil

	case DriverMemory:
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// decodeConfig turns raw document bytes into a topology, falling back to an empty one.
func decodeConfig(logger *zap.Logger, source string, data []byte) reconcile.PinConfig {
	cfg, err := reconcile.DecodeConfig(data)
	if err != nil {
		logger.Warn("Ignoring unreadable pin configuration", zap.String("source", source), zap.Error(err))
		return reconcile.EmptyConfig()
	}
	return cfg
}

// decodeState turns raw document bytes into a state mapping, falling back to an empty one.
func decodeState(logger *zap.Logger, source string, data []byte) reconcile.PinState {
	state, err := reconcile.DecodeState(data)
	if err != nil {
		logger.Warn("Ignoring unreadable pin state", zap.String("source", source), zap.Error(err))
		return reconcile.PinState{}
	}
	return state
}
