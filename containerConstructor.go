package di

import (
	"fmt"
	"reflect"
)

// constructType builds impl with ctor, or with the best constructor if ctor is nil.
func (c Container) constructType(impl reflect.Type, ctor *Constructor, params Parameters, options ResolveOptions) (any, error) {
	if impl.Kind() == reflect.Interface || isPrimitive(impl) {
		return nil, newResolutionError(impl, "", fmt.Errorf("`%v` has no constructor", impl))
	}

	if ctor == nil {
		visited := map[Key]struct{}{}
		for e := c.chain; e != nil; e = e.prev {
			visited[e.key] = struct{}{}
		}

		ctor = c.bestConstructor(impl, params, options, visited)
	}

	if ctor == nil {
		// Nothing can be built. The least greedy constructor
		// gives the most meaningful error.
		ctors := c.core.catalog.Constructors(impl)
		if len(ctors) == 0 {
			return nil, newResolutionError(impl, "", fmt.Errorf("`%v` has no constructor in the catalog `%s`", impl, c.core.catalog.Name()))
		}
		ctor = ctors[len(ctors)-1]
	}

	args := make([]reflect.Value, len(ctor.params))

	for i, p := range ctor.params {
		arg, err := c.argument(p, params, options)
		if err != nil {
			return nil, newResolutionError(impl, "", err)
		}
		args[i] = arg
	}

	obj, err := ctor.call(args)
	if err != nil {
		return nil, newResolutionError(impl, "", err)
	}

	return obj, nil
}

// argument returns the value of a constructor parameter,
// from the overrides or from the container.
func (c Container) argument(p Param, params Parameters, options ResolveOptions) (reflect.Value, error) {
	if v, ok := params.lookup(p.Name); ok {
		arg, err := argumentValue(v, p.Type)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("could not use the parameter `%s`: %w", p.Name, err)
		}
		return arg, nil
	}

	if isPrimitive(p.Type) {
		return reflect.Value{}, fmt.Errorf("the parameter `%s` of type `%v` must be given with WithParameters", p.Name, p.Type)
	}

	obj, err := c.resolve(Key{Type: p.Type}, nil, options)
	if err != nil {
		return reflect.Value{}, err
	}

	return valueAs(obj, p.Type), nil
}

// bestConstructor returns the most greedy constructor of typ
// that can be satisfied, or nil if there is none.
func (c Container) bestConstructor(typ reflect.Type, params Parameters, options ResolveOptions, visited map[Key]struct{}) *Constructor {
	if typ.Kind() == reflect.Interface || isPrimitive(typ) {
		return nil
	}

	for _, ctor := range c.core.catalog.Constructors(typ) {
		if c.canConstruct(ctor, params, options, visited) {
			return ctor
		}
	}

	return nil
}

// canConstruct reports whether all the parameters of ctor
// are overridden or can be resolved.
func (c Container) canConstruct(ctor *Constructor, params Parameters, options ResolveOptions, visited map[Key]struct{}) bool {
	for _, p := range ctor.params {
		if v, ok := params.lookup(p.Name); ok {
			if _, err := argumentValue(v, p.Type); err != nil {
				return false
			}
			continue
		}

		if isPrimitive(p.Type) {
			return false
		}

		if !c.canResolve(Key{Type: p.Type}, nil, options, visited) {
			return false
		}
	}

	return true
}
