package di

import (
	"reflect"
)

var (
	stringType     = TypeOf[string]()
	parametersType = TypeOf[Parameters]()
)

// isLazyFactoryType reports whether typ is one of the lazy factory shapes:
//
//	func() T
//	func(name string) T
//	func(name string, params Parameters) T
//
// each optionally returning (T, error).
func isLazyFactoryType(typ reflect.Type) bool {
	if typ.Kind() != reflect.Func || typ.IsVariadic() {
		return false
	}

	switch typ.NumOut() {
	case 1:
		if typ.Out(0) == errorType {
			return false
		}
	case 2:
		if typ.Out(0) == errorType || typ.Out(1) != errorType {
			return false
		}
	default:
		return false
	}

	switch typ.NumIn() {
	case 0:
		return true
	case 1:
		return typ.In(0) == stringType
	case 2:
		return typ.In(0) == stringType && typ.In(1) == parametersType
	}

	return false
}

// lazyFactory returns a function of type typ resolving its result type
// with c each time it is called.
// The function panics on failure, unless it returns an error.
func (c Container) lazyFactory(typ reflect.Type) reflect.Value {
	ctn := Container{core: c.core}
	objType := typ.Out(0)
	hasErr := typ.NumOut() == 2

	return reflect.MakeFunc(typ, func(args []reflect.Value) []reflect.Value {
		opts := make([]ResolveOption, 0, 2)

		if len(args) > 0 {
			opts = append(opts, Named(args[0].String()))
		}
		if len(args) > 1 {
			opts = append(opts, WithParameters(args[1].Interface().(Parameters)))
		}

		obj, err := ctn.Resolve(objType, opts...)

		if !hasErr {
			if err != nil {
				panic(err)
			}
			return []reflect.Value{valueAs(obj, objType)}
		}

		errValue := reflect.Zero(errorType)
		if err != nil {
			errValue = reflect.ValueOf(&err).Elem()
			obj = nil
		}

		return []reflect.Value{valueAs(obj, objType), errValue}
	})
}
