package di

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

var errorType = TypeOf[error]()

// Param describes a constructor parameter.
type Param struct {
	Name string
	Type reflect.Type
}

// Constructor is a function that builds a concrete type.
// The function takes the dependencies as arguments
// and returns the object, optionally followed by an error:
//
//	func(logger Logger, size int) *Widget
//	func(logger Logger) (*Widget, error)
//
// Go does not keep parameter names at runtime, so they are given
// when the Constructor is created. Unnamed parameters are called arg0, arg1, ...
type Constructor struct {
	fn      reflect.Value
	params  []Param
	returns reflect.Type
	hasErr  bool
	zero    bool
}

// NewConstructor wraps a constructor function.
func NewConstructor(fn any, paramNames ...string) (*Constructor, error) {
	if ctor, ok := fn.(*Constructor); ok {
		return ctor, nil
	}

	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("a constructor must be a non-nil function, not `%T`", fn)
	}

	t := v.Type()

	if t.IsVariadic() {
		return nil, fmt.Errorf("the constructor `%v` can not be variadic", t)
	}

	if len(paramNames) > t.NumIn() {
		return nil, fmt.Errorf("the constructor `%v` has %d parameters but %d names were given", t, t.NumIn(), len(paramNames))
	}

	ctor := &Constructor{fn: v}

	switch {
	case t.NumOut() == 1 && t.Out(0) != errorType:
	case t.NumOut() == 2 && t.Out(0) != errorType && t.Out(1) == errorType:
		ctor.hasErr = true
	default:
		return nil, fmt.Errorf("the constructor `%v` must return a value, optionally followed by an error", t)
	}

	ctor.returns = t.Out(0)
	ctor.params = make([]Param, t.NumIn())

	seen := map[string]struct{}{}

	for i := range ctor.params {
		name := "arg" + strconv.Itoa(i)
		if i < len(paramNames) && paramNames[i] != "" {
			name = paramNames[i]
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("the constructor `%v` has two parameters named `%s`", t, name)
		}
		seen[name] = struct{}{}
		ctor.params[i] = Param{Name: name, Type: t.In(i)}
	}

	return ctor, nil
}

// MustConstructor is like NewConstructor but panics on error.
func MustConstructor(fn any, paramNames ...string) *Constructor {
	ctor, err := NewConstructor(fn, paramNames...)
	if err != nil {
		panic(err)
	}
	return ctor
}

// zeroConstructor is the implicit parameterless constructor
// of struct and pointer to struct types.
func zeroConstructor(typ reflect.Type) *Constructor {
	return &Constructor{
		returns: typ,
		zero:    true,
	}
}

// Returns is the type built by the constructor.
func (ctor *Constructor) Returns() reflect.Type {
	return ctor.returns
}

// Params returns a copy of the constructor parameters.
func (ctor *Constructor) Params() []Param {
	params := make([]Param, len(ctor.params))
	copy(params, ctor.params)
	return params
}

func (ctor *Constructor) String() string {
	if ctor.zero {
		return "new(" + ctor.returns.String() + ")"
	}
	return ctor.fn.Type().String()
}

// call invokes the constructor. Panics are turned into errors.
func (ctor *Constructor) call(args []reflect.Value) (obj any, err error) {
	if ctor.zero {
		if ctor.returns.Kind() == reflect.Pointer {
			return reflect.New(ctor.returns.Elem()).Interface(), nil
		}
		return reflect.New(ctor.returns).Elem().Interface(), nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("the constructor `%v` panicked: %+v", ctor.fn.Type(), r)
		}
	}()

	out := ctor.fn.Call(args)

	if ctor.hasErr && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}

	return out[0].Interface(), nil
}

// isConstructibleKind reports whether a type without registered constructors
// can still be built with its zero value.
func isConstructibleKind(typ reflect.Type) bool {
	if typ.Kind() == reflect.Struct {
		return true
	}
	return typ.Kind() == reflect.Pointer && typ.Elem().Kind() == reflect.Struct
}

// isPrimitive reports whether the type is a basic kind
// that can never be resolved from the container.
func isPrimitive(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String, reflect.UnsafePointer:
		return true
	}
	return false
}

// argumentValue converts a parameter override to the parameter type.
func argumentValue(value any, typ reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch typ.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
			return reflect.Zero(typ), nil
		}
		return reflect.Value{}, fmt.Errorf("nil can not be used as `%v`", typ)
	}

	v := reflect.ValueOf(value)

	if !v.Type().AssignableTo(typ) {
		return reflect.Value{}, errors.New("`" + v.Type().String() + "` is not assignable to `" + typ.String() + "`")
	}

	return v, nil
}
