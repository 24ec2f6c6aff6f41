package di

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// DuplicateImplementationAction defines what AutoRegister does
// when an interface has several implementations.
type DuplicateImplementationAction int

const (
	// RegisterSingle registers the first implementation found.
	RegisterSingle DuplicateImplementationAction = iota
	// RegisterMultiple registers all the implementations, named after their type.
	RegisterMultiple
	// FailOnDuplicate makes AutoRegister fail with an AutoRegistrationError.
	FailOnDuplicate
)

func (a DuplicateImplementationAction) String() string {
	switch a {
	case RegisterSingle:
		return "register_single"
	case RegisterMultiple:
		return "register_multiple"
	case FailOnDuplicate:
		return "fail"
	}
	return fmt.Sprintf("DuplicateImplementationAction(%d)", int(a))
}

type autoRegisterConfig struct {
	catalogs  []*Catalog
	duplicate DuplicateImplementationAction
	predicate func(reflect.Type) bool
}

// AutoRegisterOption customizes AutoRegister.
type AutoRegisterOption func(*autoRegisterConfig)

// FromCatalogs scans the given catalogs instead of the container catalog.
func FromCatalogs(catalogs ...*Catalog) AutoRegisterOption {
	return func(cfg *autoRegisterConfig) {
		cfg.catalogs = append(cfg.catalogs, catalogs...)
	}
}

// OnDuplicate sets the action used when an interface has several implementations.
func OnDuplicate(action DuplicateImplementationAction) AutoRegisterOption {
	return func(cfg *autoRegisterConfig) {
		cfg.duplicate = action
	}
}

// WithPredicate only registers the types for which predicate returns true.
func WithPredicate(predicate func(reflect.Type) bool) AutoRegisterOption {
	return func(cfg *autoRegisterConfig) {
		cfg.predicate = predicate
	}
}

// containerTypes are the types of this package that AutoRegister ignores.
var containerTypes = map[reflect.Type]struct{}{
	containerType:                   {},
	TypeOf[*Catalog]():              {},
	TypeOf[*Constructor]():          {},
	TypeOf[LifetimeProvider]():      {},
	TypeOf[*LifetimeCell]():         {},
	TypeOf[Disposer]():              {},
	TypeOf[MessengerHub]():          {},
	TypeOf[*Hub]():                  {},
	TypeOf[*RegisterOptions]():      {},
	TypeOf[*ResolutionError]():      {},
	TypeOf[Key]():                   {},
	TypeOf[Parameters]():            {},
	TypeOf[ResolveOptions]():        {},
	TypeOf[SubscriptionToken]():     {},
	TypeOf[FactoryFunc]():           {},
	TypeOf[*MultiRegisterOptions](): {},
}

func isIgnoredType(typ reflect.Type) bool {
	if _, ok := containerTypes[typ]; ok {
		return true
	}
	return isPrimitive(typ) || isStdlibType(typ)
}

// AutoRegister registers the types of the catalogs:
//   - each concrete type with a constructor is registered as itself,
//   - each interface is registered with its implementations found in the catalogs.
//
// The types of the standard library and of this package are ignored.
// Existing registrations with the same key are replaced.
func (c Container) AutoRegister(opts ...AutoRegisterOption) error {
	cfg := autoRegisterConfig{duplicate: RegisterSingle}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.catalogs) == 0 {
		cfg.catalogs = []*Catalog{c.core.catalog}
	}

	c.core.autoRegisterMu.Lock()
	defer c.core.autoRegisterMu.Unlock()

	var types []reflect.Type
	seen := map[reflect.Type]struct{}{}

	for _, cat := range cfg.catalogs {
		for _, typ := range cat.Types() {
			if _, ok := seen[typ]; ok {
				continue
			}
			seen[typ] = struct{}{}
			if isIgnoredType(typ) || (cfg.predicate != nil && !cfg.predicate(typ)) {
				continue
			}
			types = append(types, typ)
		}
	}

	var concretes, interfaces []reflect.Type

	for _, typ := range types {
		switch {
		case typ.Kind() == reflect.Interface:
			interfaces = append(interfaces, typ)
		case c.hasConstructor(typ):
			concretes = append(concretes, typ)
		}
	}

	for _, typ := range concretes {
		if err := c.RegisterType(typ, typ, "").Err(); err != nil {
			return err
		}
	}

	for _, iface := range interfaces {
		var impls []reflect.Type
		for _, typ := range concretes {
			if typ.Implements(iface) {
				impls = append(impls, typ)
			}
		}

		if len(impls) == 0 {
			continue
		}

		if len(impls) > 1 && cfg.duplicate == FailOnDuplicate {
			return &AutoRegistrationError{Type: iface, Implementations: impls}
		}

		var err error

		if cfg.duplicate == RegisterMultiple {
			err = c.RegisterMultiple(iface, impls).Err()
		} else {
			err = c.RegisterType(iface, impls[0], "").Err()
		}

		if err != nil {
			return err
		}
	}

	c.core.logger.Debug(
		"auto registration done",
		zap.Int("concrete_types", len(concretes)),
		zap.Int("interfaces", len(interfaces)),
		zap.Stringer("duplicate_action", cfg.duplicate),
	)

	return nil
}

// hasConstructor reports whether typ can be built by the container.
// The constructors of the other catalogs are not used.
func (c Container) hasConstructor(typ reflect.Type) bool {
	return len(c.core.catalog.Constructors(typ)) > 0
}
