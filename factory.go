package di

import (
	"fmt"
	"io"
	"reflect"
	"runtime/debug"
	"sync"
)

// objectFactory produces the objects of a registration.
// The implementations are the Lifetime variants.
type objectFactory interface {
	lifetime() Lifetime
	contractType() reflect.Type
	createdType() reflect.Type
	// assumeConstruction is true when the factory does not call a constructor,
	// so the created type does not need one to be resolvable.
	assumeConstruction() bool
	constructor() *Constructor
	getObject(requested reflect.Type, c Container, params Parameters, options ResolveOptions) (any, error)
	dispose() error
}

// conversion is a lifetime change requested with RegisterOptions.
type conversion int

const (
	toSingleton conversion = iota
	toMultiInstance
	toWeakReference
	toStrongReference
	toCustomLifetime
)

func (conv conversion) String() string {
	switch conv {
	case toSingleton:
		return "AsSingleton"
	case toMultiInstance:
		return "AsMultiInstance"
	case toWeakReference:
		return "WithWeakReference"
	case toStrongReference:
		return "WithStrongReference"
	case toCustomLifetime:
		return "UsingLifetime"
	}
	return fmt.Sprintf("conversion(%d)", int(conv))
}

func conversionError(conv conversion, f objectFactory, err error) error {
	return &RegistrationConversionError{
		Operation: conv.String(),
		Lifetime:  f.lifetime(),
		Err:       err,
	}
}

// convertFactory returns the factory matching the requested lifetime.
// The result may be f itself when it already has this lifetime.
// The replaced factory is not disposed. A replaced CustomLifetime factory
// must release its provider object with releaseConverted.
func convertFactory(f objectFactory, conv conversion, provider LifetimeProvider) (objectFactory, error) {
	switch f := f.(type) {
	case *multiInstanceFactory:
		switch conv {
		case toSingleton:
			return newSingletonFactory(f.contract, f.impl, f.ctor), nil
		case toMultiInstance:
			return f, nil
		case toCustomLifetime:
			return newCustomLifetimeFactory(f.contract, f.impl, f.ctor, provider), nil
		}

	case *singletonFactory:
		switch conv {
		case toSingleton:
			return f, nil
		case toMultiInstance:
			return newMultiInstanceFactory(f.contract, f.impl, f.ctor), nil
		case toCustomLifetime:
			return newCustomLifetimeFactory(f.contract, f.impl, f.ctor, provider), nil
		}

	case *customLifetimeFactory:
		switch conv {
		case toSingleton:
			return newSingletonFactory(f.contract, f.impl, f.ctor), nil
		case toMultiInstance:
			return newMultiInstanceFactory(f.contract, f.impl, f.ctor), nil
		case toCustomLifetime:
			return newCustomLifetimeFactory(f.contract, f.impl, f.ctor, provider), nil
		}

	case *instanceFactory:
		switch conv {
		case toMultiInstance:
			return newMultiInstanceFactory(f.contract, f.impl, nil), nil
		case toWeakReference:
			wf, err := newWeakInstanceFactory(f.contract, f.obj)
			if err != nil {
				return nil, conversionError(conv, f, err)
			}
			return wf, nil
		case toStrongReference:
			return f, nil
		}

	case *weakInstanceFactory:
		switch conv {
		case toMultiInstance:
			return newMultiInstanceFactory(f.contract, f.impl, nil), nil
		case toWeakReference:
			return f, nil
		case toStrongReference:
			obj, ok := f.ref.value()
			if !ok {
				return nil, &WeakReferenceError{Type: f.impl}
			}
			return newInstanceFactory(f.contract, obj), nil
		}

	case *delegateFactory:
		switch conv {
		case toWeakReference:
			return newWeakDelegateFactory(f.contract, f.fn), nil
		case toStrongReference:
			return f, nil
		}

	case *weakDelegateFactory:
		switch conv {
		case toWeakReference:
			return f, nil
		case toStrongReference:
			fn, ok := f.value()
			if !ok {
				return nil, &WeakReferenceError{Type: f.contract}
			}
			return newDelegateFactory(f.contract, fn), nil
		}
	}

	return nil, conversionError(conv, f, nil)
}

// releaseConverted releases the provider object of a CustomLifetime factory
// replaced by a conversion. It calls user code, so the registry lock must not be held.
func releaseConverted(prev, next objectFactory) {
	if prev == next {
		return
	}
	if f, ok := prev.(*customLifetimeFactory); ok {
		f.provider.ReleaseObject()
	}
}

// withConstructor returns a copy of f using ctor.
// Only the factories that call constructors accept one.
func withConstructor(f objectFactory, ctor *Constructor) (objectFactory, error) {
	if f.assumeConstruction() {
		return nil, &ConstructorSelectionError{
			Type:   f.contractType(),
			Reason: "a " + f.lifetime().String() + " registration does not use constructors",
		}
	}

	if ctor.returns != f.createdType() {
		return nil, &ConstructorSelectionError{
			Type:   f.createdType(),
			Reason: "the constructor returns `" + ctor.returns.String() + "`",
		}
	}

	switch f := f.(type) {
	case *multiInstanceFactory:
		return newMultiInstanceFactory(f.contract, f.impl, ctor), nil
	case *singletonFactory:
		return newSingletonFactory(f.contract, f.impl, ctor), nil
	case *customLifetimeFactory:
		return newCustomLifetimeFactory(f.contract, f.impl, ctor, f.provider), nil
	}

	return nil, &ConstructorSelectionError{Type: f.contractType(), Reason: "unknown registration"}
}

// factoryForChildContainer returns the factory to use when a child container
// resolves a registration of its parent. The objects shared with the parent
// are built with the parent container, so they only depend on parent registrations.
// parent must carry the resolution chain of the child, including the resolved key.
func factoryForChildContainer(f objectFactory, parent Container) (objectFactory, error) {
	switch f.(type) {
	case *singletonFactory, *customLifetimeFactory:
		if _, err := f.getObject(f.contractType(), parent, nil, parent.core.defaultOptions); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// typeFactory contains the fields of the factories
// building their objects with a constructor.
type typeFactory struct {
	contract reflect.Type
	impl     reflect.Type
	ctor     *Constructor
}

func (f *typeFactory) contractType() reflect.Type { return f.contract }
func (f *typeFactory) createdType() reflect.Type  { return f.impl }
func (f *typeFactory) assumeConstruction() bool   { return false }
func (f *typeFactory) constructor() *Constructor  { return f.ctor }

// construct builds the object and anchors a resolution failure
// to the requested contract when it differs from the created type.
func (f *typeFactory) construct(requested reflect.Type, c Container, params Parameters, options ResolveOptions) (any, error) {
	obj, err := c.constructType(f.impl, f.ctor, params, options)
	if err != nil && requested != f.impl && isResolutionError(err) {
		return nil, newResolutionError(requested, "", err)
	}
	return obj, err
}

// multiInstanceFactory builds a new object each time.
type multiInstanceFactory struct {
	typeFactory
}

func newMultiInstanceFactory(contract, impl reflect.Type, ctor *Constructor) *multiInstanceFactory {
	return &multiInstanceFactory{typeFactory{contract: contract, impl: impl, ctor: ctor}}
}

func (f *multiInstanceFactory) lifetime() Lifetime { return MultiInstance }

func (f *multiInstanceFactory) getObject(requested reflect.Type, c Container, params Parameters, options ResolveOptions) (any, error) {
	return f.construct(requested, c, params, options)
}

func (f *multiInstanceFactory) dispose() error { return nil }

// singletonFactory builds the object once.
// A failed construction is retried on the next call.
type singletonFactory struct {
	typeFactory
	m     sync.Mutex
	obj   any
	built bool
}

func newSingletonFactory(contract, impl reflect.Type, ctor *Constructor) *singletonFactory {
	return &singletonFactory{typeFactory: typeFactory{contract: contract, impl: impl, ctor: ctor}}
}

func (f *singletonFactory) lifetime() Lifetime { return Singleton }

func (f *singletonFactory) getObject(requested reflect.Type, c Container, params Parameters, options ResolveOptions) (any, error) {
	if len(params) > 0 {
		return nil, fmt.Errorf("could not resolve `%v`: %w", f.contract, ErrSingletonParameters)
	}

	f.m.Lock()
	defer f.m.Unlock()

	if f.built {
		return f.obj, nil
	}

	obj, err := f.construct(requested, c, nil, options)
	if err != nil {
		return nil, err
	}

	f.obj = obj
	f.built = true

	return obj, nil
}

func (f *singletonFactory) dispose() error {
	f.m.Lock()
	obj, built := f.obj, f.built
	f.obj = nil
	f.built = false
	f.m.Unlock()

	if !built {
		return nil
	}

	return disposeObject(f.impl, obj)
}

// customLifetimeFactory stores its object in a LifetimeProvider.
// Parameters are ignored: the object is shared like a singleton.
type customLifetimeFactory struct {
	typeFactory
	m        sync.Mutex
	provider LifetimeProvider
}

func newCustomLifetimeFactory(contract, impl reflect.Type, ctor *Constructor, provider LifetimeProvider) *customLifetimeFactory {
	return &customLifetimeFactory{
		typeFactory: typeFactory{contract: contract, impl: impl, ctor: ctor},
		provider:    provider,
	}
}

func (f *customLifetimeFactory) lifetime() Lifetime { return CustomLifetime }

func (f *customLifetimeFactory) getObject(requested reflect.Type, c Container, _ Parameters, options ResolveOptions) (any, error) {
	f.m.Lock()
	defer f.m.Unlock()

	if obj := f.provider.GetObject(); obj != nil {
		return obj, nil
	}

	obj, err := f.construct(requested, c, nil, options)
	if err != nil {
		return nil, err
	}

	f.provider.SetObject(obj)

	return obj, nil
}

func (f *customLifetimeFactory) dispose() error {
	f.provider.ReleaseObject()
	return nil
}

// Disposer is implemented by the objects that need to release resources
// when the container owning them is disposed. io.Closer is also supported.
type Disposer interface {
	Dispose() error
}

// disposeObject calls Dispose or Close on obj if it implements one of them.
// A panic is returned as an error.
func disposeObject(typ reflect.Type, obj any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("could not dispose `%v` because it panicked: %v, stack: %s", typ, r, debug.Stack())
		}
	}()

	switch o := obj.(type) {
	case Container:
		// A container registered in itself or resolved from a parent
		// is not owned by the registration.
		return nil
	case Disposer:
		err = o.Dispose()
	case io.Closer:
		err = o.Close()
	default:
		return nil
	}

	if err != nil {
		return fmt.Errorf("could not dispose `%v`: %w", typ, err)
	}

	return nil
}

// checkImplementation returns an error if impl can not be built for contract.
func checkImplementation(contract, impl reflect.Type, lifetime Lifetime) error {
	if impl == nil || contract == nil || impl.Kind() == reflect.Interface || !impl.AssignableTo(contract) {
		return &RegistrationTypeError{Type: impl, Factory: lifetime.String()}
	}
	return nil
}
