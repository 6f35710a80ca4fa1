package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pointsx/internal/ledger"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pointsx.cue")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, Config{
		DB:           "pointsx.db",
		MaxOpenConns: 1,
		LogLevel:     "info",
		Format:       "text",
		DefaultOrder: "desc",
		UniqueNames:  false,
	}, cfg)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Equal(t, ledger.OrderDesc, cfg.Order())
	assert.False(t, cfg.InMemory())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.cue"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialOverride(t *testing.T) {
	path := writeConfig(t, `
db:             ":memory:"
format:         "json"
default_order:  "asc"
max_open_conns: 4
log_level:      "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DB)
	assert.True(t, cfg.InMemory())
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 4, cfg.MaxOpenConns)
	assert.Equal(t, ledger.OrderAsc, cfg.Order())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.False(t, cfg.UniqueNames)
}

func TestLoad_JSONIsValidCUE(t *testing.T) {
	path := writeConfig(t, `{"unique_names": true, "log_level": "warn"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.UniqueNames)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
	assert.Equal(t, "pointsx.db", cfg.DB)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"bad format", `format: "yaml"`, "format"},
		{"zero conns", `max_open_conns: 0`, "max_open_conns"},
		{"unknown field", `color: true`, "color"},
		{"bad order", `default_order: "up"`, "default_order"},
		{"syntax", `db: `, "invalid config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
