// Package config loads pointsx settings from a CUE file.
//
// The file is unified with an embedded #Config schema that supplies
// defaults and constraints, so a partial file (or none) still yields a
// complete Config. Command-line flags are applied on top by the caller.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/pointsx/internal/ledger"
)

//go:embed schema.cue
var schemaCUE string

// MemoryDB is the db value that selects the in-process backend.
const MemoryDB = ":memory:"

// Config holds resolved settings.
type Config struct {
	DB           string `json:"db"`
	MaxOpenConns int    `json:"max_open_conns"`
	LogLevel     string `json:"log_level"`
	Format       string `json:"format"`
	DefaultOrder string `json:"default_order"`
	UniqueNames  bool   `json:"unique_names"`
}

// Default returns the schema defaults.
func Default() Config {
	cfg, err := Parse(nil, "defaults")
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema is invalid: %v", err))
	}
	return cfg
}

// Load reads the CUE file at path. A missing file is not an error; the
// defaults are returned instead. An empty path also means defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, path)
}

// Parse validates src against the schema and decodes the result.
// filename is used in error positions only.
func Parse(src []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	file := ctx.CompileBytes(src, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}

	v := def.Unify(file)
	if err := v.Validate(); err != nil {
		return Config{}, formatCUEError(err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return Config{}, formatCUEError(err)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto slog.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Order returns DefaultOrder as a ledger.Order.
func (c Config) Order() ledger.Order {
	o, err := ledger.ParseOrder(c.DefaultOrder)
	if err != nil {
		return ledger.OrderDesc
	}
	return o
}

// InMemory reports whether DB selects the memory backend.
func (c Config) InMemory() bool {
	return c.DB == MemoryDB
}

// formatCUEError flattens a CUE error list into one error, keeping the
// position of each entry.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) <= 1 {
		return fmt.Errorf("invalid config: %s", cueerrors.Details(err, nil))
	}
	return fmt.Errorf("invalid config: %d errors:\n%s", len(errs), cueerrors.Details(err, nil))
}
