package di

import (
	"go.uber.org/zap"
)

// NewLogger creates a production zap logger writing JSON on stderr
// at the given level ("debug", "info", "warn", "error").
// An empty level is "info".
func NewLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	return cfg.Build()
}

func keyField(key Key) zap.Field {
	return zap.Stringer("key", key)
}

func lifetimeField(l Lifetime) zap.Field {
	return zap.Stringer("lifetime", l)
}
