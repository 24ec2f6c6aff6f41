package di

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures a root Container created with New.
// Child containers inherit the configuration of their parent.
type Option func(*containerCore) error

// WithLogger sets the logger of the container.
// The default logger discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(core *containerCore) error {
		if logger == nil {
			return errors.New("could not use a nil logger")
		}
		core.logger = logger
		return nil
	}
}

// WithMetrics registers the resolution metrics in reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(core *containerCore) error {
		if reg == nil {
			return errors.New("could not use a nil prometheus registerer")
		}
		m, err := newMetrics(reg)
		if err != nil {
			return err
		}
		core.metrics = m
		return nil
	}
}

// WithCatalog sets the catalog used to find constructors
// and the types scanned by AutoRegister.
func WithCatalog(cat *Catalog) Option {
	return func(core *containerCore) error {
		if cat == nil {
			return errors.New("could not use a nil catalog")
		}
		core.catalog = cat
		return nil
	}
}

// WithMessenger registers a Hub as MessengerHub in the root container.
func WithMessenger() Option {
	return func(core *containerCore) error {
		core.messenger = true
		return nil
	}
}

// WithDefaultResolveOptions sets the policy used when Resolve
// is called without WithResolveOptions.
func WithDefaultResolveOptions(options ResolveOptions) Option {
	return func(core *containerCore) error {
		core.defaultOptions = options
		return nil
	}
}
