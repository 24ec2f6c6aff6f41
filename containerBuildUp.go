package di

import (
	"fmt"
	"reflect"

	"go.uber.org/multierr"
)

// BuildUp sets the nil exported fields of the struct pointed by obj
// with objects resolved from the container.
// Only the fields that can be nil are considered:
// pointers, interfaces, maps, slices, functions and channels.
//
// The `di` tag selects a named registration, `di:"-"` skips the field:
//
//	type Handler struct {
//		Logger Logger `di:"console"`
//		Cache  Cache
//		Debug  func() `di:"-"`
//	}
//
// Fields that can not be resolved are left nil.
// The other errors, like a reclaimed weak reference, are returned.
func (c Container) BuildUp(obj any, opts ...ResolveOption) error {
	v := reflect.ValueOf(obj)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("could not build up `%T` because it is not a pointer to a struct", obj)
	}

	req := c.newRequest(opts)

	v = v.Elem()
	t := v.Type()

	var errs error

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)

		if !field.IsExported() || !fv.CanSet() || !isNillable(field.Type) || !fv.IsNil() {
			continue
		}

		name, ok := field.Tag.Lookup("di")
		if ok && name == "-" {
			continue
		}

		dep, err := c.Resolve(field.Type, Named(name), WithResolveOptions(req.options))
		if err != nil {
			if !isResolutionError(err) {
				errs = multierr.Append(errs, fmt.Errorf("could not set the field `%s`: %w", field.Name, err))
			}
			continue
		}

		fv.Set(valueAs(dep, field.Type))
	}

	return errs
}

func isNillable(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
