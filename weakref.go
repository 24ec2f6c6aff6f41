package di

import (
	"fmt"
	"reflect"
	"unsafe"
	"weak"
)

// weakRef is a weak reference to a heap allocated pointer of any type.
// The weak package is generic, but the container only knows types at runtime,
// so the pointer is stored as a *byte and rebuilt with reflect.
type weakRef struct {
	typ reflect.Type
	ptr weak.Pointer[byte]
}

// newWeakRef creates a weak reference to obj.
// obj must be a non-nil pointer to a type with a non-zero size,
// otherwise all the pointers share the same address and are never collected.
func newWeakRef(obj any) (*weakRef, error) {
	rv := reflect.ValueOf(obj)

	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, fmt.Errorf("only non-nil pointers can be weakly referenced, not `%T`", obj)
	}

	if rv.Type().Elem().Size() == 0 {
		return nil, fmt.Errorf("`%T` points to a zero size type and can not be weakly referenced", obj)
	}

	return &weakRef{
		typ: rv.Type(),
		ptr: weak.Make((*byte)(rv.UnsafePointer())),
	}, nil
}

// value returns the referenced pointer, or false if it has been reclaimed.
func (r *weakRef) value() (any, bool) {
	p := r.ptr.Value()
	if p == nil {
		return nil, false
	}
	return reflect.NewAt(r.typ.Elem(), unsafe.Pointer(p)).Interface(), true
}
