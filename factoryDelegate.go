package di

import (
	"fmt"
	"reflect"
	"weak"
)

// FactoryFunc is a user function building the object of a registration.
// It receives the container that resolves the object,
// and the parameters given to Resolve.
type FactoryFunc func(c Container, params Parameters) (any, error)

// callFactoryFunc calls fn and turns a panic into an error.
func callFactoryFunc(fn FactoryFunc, contract reflect.Type, c Container, params Parameters) (obj any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newResolutionError(contract, "", fmt.Errorf("the factory function panicked: %+v", r))
		}
	}()

	obj, err = fn(c, params)
	if err != nil {
		return nil, newResolutionError(contract, "", err)
	}

	if obj != nil && !reflect.TypeOf(obj).AssignableTo(contract) {
		return nil, newResolutionError(contract, "", fmt.Errorf("the factory function returned a `%T`", obj))
	}

	return obj, nil
}

// delegateFactory calls a FactoryFunc on each resolution.
// It holds a pointer to the function, so that it can be weakly referenced later.
type delegateFactory struct {
	contract reflect.Type
	fn       *FactoryFunc
}

func newDelegateFactory(contract reflect.Type, fn *FactoryFunc) *delegateFactory {
	return &delegateFactory{contract: contract, fn: fn}
}

func (f *delegateFactory) lifetime() Lifetime          { return Delegate }
func (f *delegateFactory) contractType() reflect.Type { return f.contract }
func (f *delegateFactory) createdType() reflect.Type  { return f.contract }
func (f *delegateFactory) assumeConstruction() bool   { return true }
func (f *delegateFactory) constructor() *Constructor  { return nil }

func (f *delegateFactory) getObject(_ reflect.Type, c Container, params Parameters, _ ResolveOptions) (any, error) {
	return callFactoryFunc(*f.fn, f.contract, c, params)
}

func (f *delegateFactory) dispose() error { return nil }

// weakDelegateFactory calls a FactoryFunc that can be garbage-collected.
// Only the caller of RegisterFactoryRef can keep it alive.
type weakDelegateFactory struct {
	contract reflect.Type
	fn       weak.Pointer[FactoryFunc]
}

func newWeakDelegateFactory(contract reflect.Type, fn *FactoryFunc) *weakDelegateFactory {
	return &weakDelegateFactory{contract: contract, fn: weak.Make(fn)}
}

func (f *weakDelegateFactory) lifetime() Lifetime          { return WeakDelegate }
func (f *weakDelegateFactory) contractType() reflect.Type { return f.contract }
func (f *weakDelegateFactory) createdType() reflect.Type  { return f.contract }
func (f *weakDelegateFactory) assumeConstruction() bool   { return true }
func (f *weakDelegateFactory) constructor() *Constructor  { return nil }

func (f *weakDelegateFactory) value() (*FactoryFunc, bool) {
	fn := f.fn.Value()
	return fn, fn != nil
}

func (f *weakDelegateFactory) getObject(_ reflect.Type, c Container, params Parameters, _ ResolveOptions) (any, error) {
	fn, ok := f.value()
	if !ok {
		return nil, &WeakReferenceError{Type: f.contract}
	}
	return callFactoryFunc(*fn, f.contract, c, params)
}

func (f *weakDelegateFactory) dispose() error { return nil }
