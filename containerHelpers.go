package di

import (
	"fmt"
)

func optionalName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// Register registers TImpl as the implementation of TContract.
//
//	di.Register[Logger, *ConsoleLogger](c)
//	di.Register[Logger, *FileLogger](c, "file")
func Register[TContract, TImpl any](c Container, name ...string) *RegisterOptions {
	return c.RegisterType(TypeOf[TContract](), TypeOf[TImpl](), optionalName(name))
}

// RegisterSelf registers T as its own implementation.
func RegisterSelf[T any](c Container, name ...string) *RegisterOptions {
	return c.RegisterType(TypeOf[T](), TypeOf[T](), optionalName(name))
}

// RegisterInstance registers obj as the object returned for T.
func RegisterInstance[T any](c Container, obj T, name ...string) *RegisterOptions {
	return c.RegisterInstance(TypeOf[T](), obj, optionalName(name))
}

// RegisterFactory registers a function building T.
func RegisterFactory[T any](c Container, fn func(c Container, params Parameters) (T, error), name ...string) *RegisterOptions {
	if fn == nil {
		return c.RegisterFactory(TypeOf[T](), nil, optionalName(name))
	}
	return c.RegisterFactory(TypeOf[T](), func(c Container, params Parameters) (any, error) {
		return fn(c, params)
	}, optionalName(name))
}

// Resolve resolves T.
//
//	logger, err := di.Resolve[Logger](c, di.Named("console"))
func Resolve[T any](c Container, opts ...ResolveOption) (T, error) {
	var zero T

	obj, err := c.Resolve(TypeOf[T](), opts...)
	if err != nil {
		return zero, err
	}

	return cast[T](obj)
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c Container, opts ...ResolveOption) T {
	obj, err := Resolve[T](c, opts...)
	if err != nil {
		panic(err)
	}
	return obj
}

// TryResolve resolves T. A resolution failure returns false instead of an error.
func TryResolve[T any](c Container, opts ...ResolveOption) (T, bool, error) {
	var zero T

	obj, ok, err := c.TryResolve(TypeOf[T](), opts...)
	if !ok || err != nil {
		return zero, ok, err
	}

	t, err := cast[T](obj)
	if err != nil {
		return zero, false, err
	}

	return t, true, nil
}

// CanResolve returns true if T can be resolved.
func CanResolve[T any](c Container, opts ...ResolveOption) bool {
	return c.CanResolve(TypeOf[T](), opts...)
}

// ResolveAll resolves all the registrations of T.
func ResolveAll[T any](c Container, includeUnnamed bool) ([]T, error) {
	objs, err := c.ResolveAll(TypeOf[T](), includeUnnamed)
	if err != nil {
		return nil, err
	}

	res := make([]T, len(objs))

	for i, obj := range objs {
		if res[i], err = cast[T](obj); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// Unregister removes the registration of T.
func Unregister[T any](c Container, name ...string) bool {
	return c.Unregister(TypeOf[T](), optionalName(name))
}

func cast[T any](obj any) (T, error) {
	if obj == nil {
		var zero T
		return zero, nil
	}

	t, ok := obj.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("could not cast `%T` to `%v`", obj, TypeOf[T]())
	}

	return t, nil
}
