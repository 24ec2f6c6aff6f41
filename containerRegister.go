package di

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// defaultFactory returns the factory used when no lifetime is specified:
// a singleton for interface contracts, a new object each time otherwise.
func defaultFactory(contract, impl reflect.Type) objectFactory {
	if contract.Kind() == reflect.Interface {
		return newSingletonFactory(contract, impl, nil)
	}
	return newMultiInstanceFactory(contract, impl, nil)
}

func defaultLifetime(contract reflect.Type) Lifetime {
	if contract != nil && contract.Kind() == reflect.Interface {
		return Singleton
	}
	return MultiInstance
}

// RegisterType registers impl as the implementation of contract.
// impl must be a concrete type assignable to contract.
// A registration with the same contract and name is replaced.
//
// Interface contracts are singletons by default,
// other contracts build a new object on each resolution.
func (c Container) RegisterType(contract, impl reflect.Type, name string) *RegisterOptions {
	if err := checkImplementation(contract, impl, defaultLifetime(contract)); err != nil {
		return &RegisterOptions{err: err}
	}
	return c.register(Key{Type: contract, Name: name}, defaultFactory(contract, impl))
}

// RegisterInstance registers an object that is returned on each resolution.
// It is disposed with the container if it implements Disposer or io.Closer.
func (c Container) RegisterInstance(contract reflect.Type, obj any, name string) *RegisterOptions {
	if obj == nil || contract == nil || !reflect.TypeOf(obj).AssignableTo(contract) {
		return &RegisterOptions{err: &RegistrationTypeError{Type: reflect.TypeOf(obj), Factory: Instance.String()}}
	}
	return c.register(Key{Type: contract, Name: name}, newInstanceFactory(contract, obj))
}

// RegisterFactory registers a function called on each resolution.
func (c Container) RegisterFactory(contract reflect.Type, fn FactoryFunc, name string) *RegisterOptions {
	if fn == nil {
		return &RegisterOptions{err: &RegistrationTypeError{Type: contract, Factory: Delegate.String()}}
	}
	return c.RegisterFactoryRef(contract, &fn, name)
}

// RegisterFactoryRef is like RegisterFactory but the function is given by pointer.
// With WithWeakReference, the registration only works as long as
// the caller keeps this pointer alive.
func (c Container) RegisterFactoryRef(contract reflect.Type, fn *FactoryFunc, name string) *RegisterOptions {
	if contract == nil || fn == nil || *fn == nil {
		return &RegisterOptions{err: &RegistrationTypeError{Type: contract, Factory: Delegate.String()}}
	}
	return c.register(Key{Type: contract, Name: name}, newDelegateFactory(contract, fn))
}

// RegisterMultiple registers several implementations of contract.
// Each one is named after its type, like `*app.ConsoleLogger`.
// They can be resolved all at once with ResolveAll or by requesting a slice.
func (c Container) RegisterMultiple(contract reflect.Type, impls []reflect.Type) *MultiRegisterOptions {
	seen := map[reflect.Type]struct{}{}

	for _, impl := range impls {
		if err := checkImplementation(contract, impl, defaultLifetime(contract)); err != nil {
			return &MultiRegisterOptions{err: err}
		}
		if _, ok := seen[impl]; ok {
			return &MultiRegisterOptions{err: fmt.Errorf("could not register `%v` twice for `%v`", impl, contract)}
		}
		seen[impl] = struct{}{}
	}

	opts := make([]*RegisterOptions, 0, len(impls))

	for _, impl := range impls {
		opts = append(opts, c.register(Key{Type: contract, Name: impl.String()}, defaultFactory(contract, impl)))
	}

	return &MultiRegisterOptions{opts: opts}
}

// Unregister removes a registration from this container
// and disposes the objects it owns.
// It returns false if the registration does not exist.
// The registrations of the parent containers are not affected.
func (c Container) Unregister(contract reflect.Type, name string) bool {
	key := Key{Type: contract, Name: name}

	ok, err := c.core.registry.remove(key)
	if err != nil {
		c.core.logger.Warn("could not dispose the removed registration", keyField(key), zap.Error(err))
	}

	if ok {
		c.core.logger.Debug("unregistered", keyField(key))
	}

	return ok
}

func (c Container) register(key Key, f objectFactory) *RegisterOptions {
	if c.core.closed.Load() {
		return &RegisterOptions{err: fmt.Errorf("could not register `%s`: %w", key, ErrContainerDisposed)}
	}

	if err := c.core.registry.set(key, f); err != nil {
		c.core.logger.Warn("could not dispose the replaced registration", keyField(key), zap.Error(err))
	}

	c.core.logger.Debug("registered", keyField(key), lifetimeField(f.lifetime()), zap.Stringer("type", f.createdType()))

	return &RegisterOptions{c: c, key: key}
}
