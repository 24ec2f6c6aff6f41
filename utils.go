package di

import (
	"fmt"
	"reflect"
	"strings"
)

// resolutionChain is the list of the keys
// that a container is currently resolving.
// It is an immutable linked list: each resolution step
// creates a new element pointing to the previous one,
// so the chains of concurrent resolutions never interfere.
type resolutionChain struct {
	key  Key
	prev *resolutionChain
}

// push returns a new chain ending with key.
func (l *resolutionChain) push(key Key) *resolutionChain {
	return &resolutionChain{key: key, prev: l}
}

// has checks if the chain contains the given key.
func (l *resolutionChain) has(key Key) bool {
	for e := l; e != nil; e = e.prev {
		if e.key == key {
			return true
		}
	}
	return false
}

// orderedList returns the keys of the chain in the order they were pushed.
func (l *resolutionChain) orderedList() []Key {
	var keys []Key

	for e := l; e != nil; e = e.prev {
		keys = append(keys, e.key)
	}

	for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
		keys[i], keys[j] = keys[j], keys[i]
	}

	return keys
}

func (l *resolutionChain) String() string {
	keys := l.orderedList()
	s := make([]string, len(keys))

	for i, key := range keys {
		s[i] = key.String()
	}

	return strings.Join(s, " -> ")
}

// fill copies src in dest. dest should be a pointer to src type.
func fill(src, dest any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d := reflect.TypeOf(dest)
			s := reflect.TypeOf(src)
			err = fmt.Errorf("the fill destination should be a pointer to a `%s`, but you used a `%s`", s, d)
		}
	}()

	v := reflect.ValueOf(dest).Elem()

	if src == nil {
		v.Set(reflect.Zero(v.Type()))
		return nil
	}

	v.Set(reflect.ValueOf(src))

	return err
}

// valueAs returns obj as a reflect.Value of type typ.
// A nil obj is the zero value of typ.
func valueAs(obj any, typ reflect.Type) reflect.Value {
	v := reflect.New(typ).Elem()
	if obj != nil {
		v.Set(reflect.ValueOf(obj))
	}
	return v
}

// isGeneric reports whether typ is an instantiated generic type,
// like Repository[User] or *Repository[User].
func isGeneric(typ reflect.Type) bool {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return strings.Contains(typ.Name(), "[")
}

// isStdlibType reports whether typ is declared in the standard library.
// Only named types are considered.
func isStdlibType(typ reflect.Type) bool {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	pkg := typ.PkgPath()
	if pkg == "" {
		return typ.Name() != ""
	}

	first, _, _ := strings.Cut(pkg, "/")

	return !strings.Contains(first, ".")
}
