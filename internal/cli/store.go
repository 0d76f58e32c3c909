package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/turing/internal/adapters/file"
	"github.com/aretw0/turing/internal/adapters/redis"
	"github.com/aretw0/turing/internal/adapters/sqlite"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/ports"
)

// OpenStore builds the MachineStore selected by cfg.Store.Driver.
// The returned close function releases the backend and is never nil.
func OpenStore(cfg config.Config, logger *slog.Logger) (ports.MachineStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case config.DriverFile:
		logger.Debug("using file store", "dir", cfg.Store.Dir)
		return file.New(cfg.Store.Dir), noop, nil
	case config.DriverSQLite:
		logger.Debug("using sqlite store", "path", cfg.Store.SQLitePath)
		if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLitePath), 0755); err != nil {
			return nil, noop, fmt.Errorf("failed to create store directory: %w", err)
		}
		s, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case config.DriverRedis:
		rc := cfg.Store.Redis
		logger.Debug("using redis store", "addr", rc.Addr, "db", rc.DB)
		s := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix), redis.WithTTL(rc.TTL))
		return s, s.Close, nil
	case config.DriverMemory:
		return memory.NewStore(), noop, nil
	}
	return nil, noop, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Store.Driver)
}
