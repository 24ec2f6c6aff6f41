package di

import (
	"reflect"
)

// instanceFactory always returns the object given at registration.
type instanceFactory struct {
	contract reflect.Type
	impl     reflect.Type
	obj      any
}

func newInstanceFactory(contract reflect.Type, obj any) *instanceFactory {
	return &instanceFactory{
		contract: contract,
		impl:     reflect.TypeOf(obj),
		obj:      obj,
	}
}

func (f *instanceFactory) lifetime() Lifetime          { return Instance }
func (f *instanceFactory) contractType() reflect.Type { return f.contract }
func (f *instanceFactory) createdType() reflect.Type  { return f.impl }
func (f *instanceFactory) assumeConstruction() bool   { return true }
func (f *instanceFactory) constructor() *Constructor  { return nil }

func (f *instanceFactory) getObject(reflect.Type, Container, Parameters, ResolveOptions) (any, error) {
	return f.obj, nil
}

func (f *instanceFactory) dispose() error {
	return disposeObject(f.impl, f.obj)
}

// weakInstanceFactory returns the object given at registration
// as long as something else keeps it alive.
type weakInstanceFactory struct {
	contract reflect.Type
	impl     reflect.Type
	ref      *weakRef
}

func newWeakInstanceFactory(contract reflect.Type, obj any) (*weakInstanceFactory, error) {
	ref, err := newWeakRef(obj)
	if err != nil {
		return nil, err
	}
	return &weakInstanceFactory{
		contract: contract,
		impl:     reflect.TypeOf(obj),
		ref:      ref,
	}, nil
}

func (f *weakInstanceFactory) lifetime() Lifetime          { return WeakInstance }
func (f *weakInstanceFactory) contractType() reflect.Type { return f.contract }
func (f *weakInstanceFactory) createdType() reflect.Type  { return f.impl }
func (f *weakInstanceFactory) assumeConstruction() bool   { return true }
func (f *weakInstanceFactory) constructor() *Constructor  { return nil }

func (f *weakInstanceFactory) getObject(reflect.Type, Container, Parameters, ResolveOptions) (any, error) {
	obj, ok := f.ref.value()
	if !ok {
		return nil, &WeakReferenceError{Type: f.impl}
	}
	return obj, nil
}

func (f *weakInstanceFactory) dispose() error {
	obj, ok := f.ref.value()
	if !ok {
		return nil
	}
	return disposeObject(f.impl, obj)
}
