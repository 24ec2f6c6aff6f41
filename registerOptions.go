package di

import (
	"errors"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// RegisterOptions changes a registration after it has been added.
// The methods can be chained:
//
//	err := c.RegisterType(loggerType, consoleLoggerType, "").
//		AsMultiInstance().
//		UsingConstructor(NewConsoleLogger, "prefix").
//		Err()
//
// Once a method fails, the next ones do nothing and Err returns the first error.
type RegisterOptions struct {
	c   Container
	key Key
	err error
}

// Key returns the key of the registration.
func (o *RegisterOptions) Key() Key {
	return o.key
}

// Err returns the first error of the registration and the chained calls.
func (o *RegisterOptions) Err() error {
	return o.err
}

// AsSingleton makes the registration build its object once.
func (o *RegisterOptions) AsSingleton() *RegisterOptions {
	return o.convert(toSingleton, nil)
}

// AsMultiInstance makes the registration build a new object on each resolution.
func (o *RegisterOptions) AsMultiInstance() *RegisterOptions {
	return o.convert(toMultiInstance, nil)
}

// WithWeakReference makes an instance or factory registration
// hold its object weakly. Instances must be pointers.
func (o *RegisterOptions) WithWeakReference() *RegisterOptions {
	return o.convert(toWeakReference, nil)
}

// WithStrongReference makes a weak registration hold its object strongly again.
func (o *RegisterOptions) WithStrongReference() *RegisterOptions {
	return o.convert(toStrongReference, nil)
}

// UsingLifetime stores the object of the registration in provider.
func (o *RegisterOptions) UsingLifetime(provider LifetimeProvider) *RegisterOptions {
	if o.err == nil && provider == nil {
		o.err = errors.New("could not use a nil lifetime provider for `" + o.key.String() + "`")
	}
	return o.convert(toCustomLifetime, provider)
}

// UsingConstructor selects the constructor of the registration
// instead of letting the container pick the most greedy one.
// fn is a constructor function or a *Constructor.
func (o *RegisterOptions) UsingConstructor(fn any, paramNames ...string) *RegisterOptions {
	if o.err != nil {
		return o
	}

	ctor, err := NewConstructor(fn, paramNames...)
	if err != nil {
		o.err = &ConstructorSelectionError{Type: o.key.Type, Reason: err.Error()}
		return o
	}

	_, _, o.err = o.c.core.registry.update(o.key, func(f objectFactory) (objectFactory, error) {
		return withConstructor(f, ctor)
	})

	if o.err == nil {
		o.c.core.logger.Debug("constructor selected", keyField(o.key), zap.Stringer("constructor", ctor))
	}

	return o
}

func (o *RegisterOptions) convert(conv conversion, provider LifetimeProvider) *RegisterOptions {
	if o.err != nil {
		return o
	}

	f, prev, err := o.c.core.registry.update(o.key, func(f objectFactory) (objectFactory, error) {
		return convertFactory(f, conv, provider)
	})
	if err != nil {
		o.err = err
		return o
	}

	releaseConverted(prev, f)

	o.c.core.logger.Debug("lifetime changed", keyField(o.key), lifetimeField(f.lifetime()))

	return o
}

// MultiRegisterOptions applies each change to all the registrations
// created by RegisterMultiple.
type MultiRegisterOptions struct {
	opts []*RegisterOptions
	err  error
}

// Err returns the errors of all the registrations.
func (o *MultiRegisterOptions) Err() error {
	err := o.err
	for _, opt := range o.opts {
		err = multierr.Append(err, opt.Err())
	}
	return err
}

// Keys returns the keys of the registrations.
func (o *MultiRegisterOptions) Keys() []Key {
	keys := make([]Key, len(o.opts))
	for i, opt := range o.opts {
		keys[i] = opt.key
	}
	return keys
}

func (o *MultiRegisterOptions) each(fn func(*RegisterOptions)) *MultiRegisterOptions {
	for _, opt := range o.opts {
		fn(opt)
	}
	return o
}

// AsSingleton calls AsSingleton on each registration.
func (o *MultiRegisterOptions) AsSingleton() *MultiRegisterOptions {
	return o.each(func(opt *RegisterOptions) { opt.AsSingleton() })
}

// AsMultiInstance calls AsMultiInstance on each registration.
func (o *MultiRegisterOptions) AsMultiInstance() *MultiRegisterOptions {
	return o.each(func(opt *RegisterOptions) { opt.AsMultiInstance() })
}

// UsingLifetime calls UsingLifetime on each registration.
// Each registration needs its own provider, so newProvider is called once per registration.
func (o *MultiRegisterOptions) UsingLifetime(newProvider func() LifetimeProvider) *MultiRegisterOptions {
	return o.each(func(opt *RegisterOptions) { opt.UsingLifetime(newProvider()) })
}
