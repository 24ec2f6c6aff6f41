package di

import (
	"reflect"
	"strconv"
)

// Key identifies a registration inside a Container.
// It combines the contract type requested by the caller
// and an optional name. An empty name is the default registration.
// Names are compared exactly (case-sensitive).
type Key struct {
	Type reflect.Type
	Name string
}

// Unnamed returns the default registration key for the same type.
func (k Key) Unnamed() Key {
	return Key{Type: k.Type}
}

// String returns `pkg.Type` or `pkg.Type("name")`.
func (k Key) String() string {
	typeName := "<nil>"
	if k.Type != nil {
		typeName = k.Type.String()
	}
	if k.Name == "" {
		return typeName
	}
	return typeName + "(" + strconv.Quote(k.Name) + ")"
}

// TypeOf returns the reflect.Type of T.
// Unlike reflect.TypeOf, it also works for interface types:
//
//	TypeOf[io.Writer]() // the io.Writer interface type
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
