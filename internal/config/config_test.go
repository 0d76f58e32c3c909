package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, time.Second, cfg.StepDelay)
	assert.Equal(t, "-", cfg.DefaultSymbol)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	doc := `
step_delay: 250ms
default_symbol: "0"
log_level: debug
max_steps: 42
store:
  driver: redis
  redis:
    addr: redis:6379
    db: 2
    ttl: 1h
http:
  addr: 127.0.0.1:9000
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.StepDelay)
	assert.Equal(t, "0", cfg.DefaultSymbol)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 42, cfg.MaxSteps)
	assert.Equal(t, config.DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, "turing:machine:", cfg.Store.Redis.Prefix, "unset keys keep defaults")
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
}

func TestDecode_Empty(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "colour: red"},
		{"bad duration", "step_delay: soon"},
		{"negative delay", "step_delay: -1s"},
		{"zero max steps", "max_steps: 0"},
		{"long symbol", "default_symbol: abcde"},
		{"unknown driver", "store:\n  driver: etcd"},
		{"bad yaml", "step_delay: [1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Decode(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}

	_, err := config.Decode(strings.NewReader("default_symbol: abcde"))
	assert.ErrorIs(t, err, domain.ErrSymbolTooLong)
	_, err = config.Decode(strings.NewReader("store:\n  driver: etcd"))
	assert.ErrorIs(t, err, config.ErrUnknownDriver)
}

func TestResolve(t *testing.T) {
	cfg := config.Default().Resolve("/srv/project")
	assert.Equal(t, filepath.Join("/srv/project", ".turing", "machines"), cfg.Store.Dir)
	assert.Equal(t, filepath.Join("/srv/project", ".turing", "machines.db"), cfg.Store.SQLitePath)

	abs := config.Default()
	abs.Store.Dir = "/var/lib/turing"
	assert.Equal(t, "/var/lib/turing", abs.Resolve("/srv/project").Store.Dir)
	assert.Equal(t, config.Default(), config.Default().Resolve(""))
}
