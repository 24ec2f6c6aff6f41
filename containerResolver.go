package di

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"
)

func (c Container) newRequest(opts []ResolveOption) resolveRequest {
	req := resolveRequest{options: c.core.defaultOptions}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// Resolve returns an object of the given type.
//
// The container looks for, in this order:
//   - a registration in this container,
//   - a registration in the parent containers,
//   - the unnamed registration, if the named one is missing
//     and the policy is AttemptUnnamedResolution,
//   - a lazy factory, if typ is func() T, func(string) T or func(string, Parameters) T,
//     each optionally returning an error,
//   - all the named registrations of T, if typ is []T,
//   - a constructor of typ, if typ is concrete and the policy allows it.
//
// The returned object can be cast to typ.
func (c Container) Resolve(typ reflect.Type, opts ...ResolveOption) (any, error) {
	req := c.newRequest(opts)

	start := time.Now()
	obj, err := c.resolve(Key{Type: typ, Name: req.name}, req.params, req.options)
	c.core.metrics.observe(start, err)

	if err != nil {
		c.core.logger.Debug("resolution failed", keyField(Key{Type: typ, Name: req.name}), zap.Error(err))
	}

	return obj, err
}

// TryResolve is like Resolve, but a resolution failure
// is returned as false instead of an error.
// The other errors, like a reclaimed weak reference
// or parameters given to a singleton, are still returned.
func (c Container) TryResolve(typ reflect.Type, opts ...ResolveOption) (any, bool, error) {
	obj, err := c.Resolve(typ, opts...)
	if err == nil {
		return obj, true, nil
	}
	if isResolutionError(err) {
		return nil, false, nil
	}
	return nil, false, err
}

// CanResolve returns true if Resolve would find a way to build the object.
// It does not call any constructor or factory function.
// A lazy factory or a slice can always be resolved.
func (c Container) CanResolve(typ reflect.Type, opts ...ResolveOption) bool {
	req := c.newRequest(opts)

	visited := map[Key]struct{}{}
	for e := c.chain; e != nil; e = e.prev {
		visited[e.key] = struct{}{}
	}

	return c.canResolve(Key{Type: typ, Name: req.name}, req.params, req.options, visited)
}

// ResolveAll returns the objects of all the registrations of typ,
// in this container and then in its parents.
// A registration found in several containers is only resolved once,
// with the closest container.
// If includeUnnamed is false, the default registration is not included.
func (c Container) ResolveAll(typ reflect.Type, includeUnnamed bool) ([]any, error) {
	return c.resolveAll(typ, includeUnnamed, c.core.defaultOptions)
}

// Fill resolves the type pointed by dst and stores the object in dst.
//
//	var logger Logger
//	err := c.Fill(&logger)
func (c Container) Fill(dst any, opts ...ResolveOption) error {
	t := reflect.TypeOf(dst)
	if t == nil || t.Kind() != reflect.Pointer {
		return fmt.Errorf("could not fill `%T` because it is not a pointer", dst)
	}

	obj, err := c.Resolve(t.Elem(), opts...)
	if err != nil {
		return err
	}

	return fill(obj, dst)
}

func (c Container) resolve(key Key, params Parameters, options ResolveOptions) (any, error) {
	if key.Type == nil {
		return nil, errors.New("could not resolve a nil type")
	}

	if c.core.closed.Load() {
		return nil, fmt.Errorf("could not resolve `%s`: %w", key, ErrContainerDisposed)
	}

	if c.chain.has(key) {
		return nil, newResolutionError(key.Type, key.Name, fmt.Errorf("%w: %s -> %s", ErrCycle, c.chain, key))
	}

	inner := c.withKey(key)

	if obj, ok, err := inner.resolveRegistered(key, params, options); ok {
		return obj, err
	}

	if key.Name != "" {
		if options.NamedResolutionFailure == FailNamed {
			return nil, newResolutionError(key.Type, key.Name, nil)
		}
		if obj, ok, err := inner.withKey(key.Unnamed()).resolveRegistered(key.Unnamed(), params, options); ok {
			return obj, err
		}
	}

	if isLazyFactoryType(key.Type) {
		return c.lazyFactory(key.Type).Interface(), nil
	}

	if isSliceRequest(key.Type) {
		return inner.resolveSlice(key.Type, options)
	}

	if c.canConstructUnregistered(key.Type, options) {
		return inner.constructType(key.Type, nil, params, options)
	}

	return nil, newResolutionError(key.Type, key.Name, nil)
}

// resolveRegistered resolves key with the registration of this container
// or the closest parent. The boolean is false if there is no registration.
func (c Container) resolveRegistered(key Key, params Parameters, options ResolveOptions) (any, bool, error) {
	if f, ok := c.core.registry.tryGet(key); ok {
		obj, err := f.getObject(key.Type, c, params, options)
		return obj, true, err
	}

	for p := c.core.parent; p != nil; p = p.parent {
		if p.closed.Load() {
			continue
		}

		f, ok := p.registry.tryGet(key)
		if !ok {
			continue
		}

		f, err := factoryForChildContainer(f, Container{core: p, chain: c.chain})
		if err != nil {
			return nil, true, err
		}

		obj, err := f.getObject(key.Type, c, params, options)
		return obj, true, err
	}

	return nil, false, nil
}

// findRegistration returns the factory of the registration of this container
// or the closest parent.
func (c Container) findRegistration(key Key) (objectFactory, bool) {
	for core := c.core; core != nil; core = core.parent {
		if core.closed.Load() {
			continue
		}
		if f, ok := core.registry.tryGet(key); ok {
			return f, true
		}
	}
	return nil, false
}

// canConstructUnregistered reports whether the policy allows
// building typ without a registration.
func (c Container) canConstructUnregistered(typ reflect.Type, options ResolveOptions) bool {
	if typ.Kind() == reflect.Interface {
		return false
	}

	switch options.UnregisteredResolution {
	case AttemptResolve:
		return true
	case GenericsOnly:
		return isGeneric(typ)
	}

	return false
}

func (c Container) canResolve(key Key, params Parameters, options ResolveOptions, visited map[Key]struct{}) bool {
	if key.Type == nil || c.core.closed.Load() {
		return false
	}

	if _, ok := visited[key]; ok {
		return false
	}

	visited[key] = struct{}{}
	defer delete(visited, key)

	if f, ok := c.findRegistration(key); ok {
		return c.canUseFactory(f, params, options, visited)
	}

	if key.Name != "" {
		if options.NamedResolutionFailure == FailNamed {
			return false
		}
		if f, ok := c.findRegistration(key.Unnamed()); ok {
			return c.canUseFactory(f, params, options, visited)
		}
	}

	if isLazyFactoryType(key.Type) || isSliceRequest(key.Type) {
		return true
	}

	if c.canConstructUnregistered(key.Type, options) {
		return c.bestConstructor(key.Type, params, options, visited) != nil
	}

	return false
}

func (c Container) canUseFactory(f objectFactory, params Parameters, options ResolveOptions, visited map[Key]struct{}) bool {
	if f.assumeConstruction() {
		return true
	}
	if ctor := f.constructor(); ctor != nil {
		return c.canConstruct(ctor, params, options, visited)
	}
	return c.bestConstructor(f.createdType(), params, options, visited) != nil
}

// resolveAll resolves the distinct keys registered for typ,
// starting with this container.
func (c Container) resolveAll(typ reflect.Type, includeUnnamed bool, options ResolveOptions) ([]any, error) {
	if c.core.closed.Load() {
		return nil, fmt.Errorf("could not resolve all `%v`: %w", typ, ErrContainerDisposed)
	}

	seen := map[Key]struct{}{}
	var keys []Key

	for core := c.core; core != nil; core = core.parent {
		if core.closed.Load() {
			continue
		}
		for _, key := range core.registry.keysFor(typ) {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			if key.Name == "" && !includeUnnamed {
				continue
			}
			keys = append(keys, key)
		}
	}

	objs := make([]any, 0, len(keys))

	for _, key := range keys {
		obj, err := c.resolve(key, nil, options)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}

	return objs, nil
}

// isSliceRequest reports whether typ is a slice of resolvable elements.
func isSliceRequest(typ reflect.Type) bool {
	return typ.Kind() == reflect.Slice && !isPrimitive(typ.Elem())
}

func (c Container) resolveSlice(typ reflect.Type, options ResolveOptions) (any, error) {
	objs, err := c.resolveAll(typ.Elem(), false, options)
	if err != nil {
		return nil, err
	}

	s := reflect.MakeSlice(typ, len(objs), len(objs))

	for i, obj := range objs {
		s.Index(i).Set(valueAs(obj, typ.Elem()))
	}

	return s.Interface(), nil
}
