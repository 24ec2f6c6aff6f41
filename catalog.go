package di

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Catalog is an explicit registry of types and constructors.
// It is the source used by the container to find how to build a concrete type,
// and the list of types scanned by AutoRegister.
//
// A Catalog is usually filled at startup by each package of the application:
//
//	catalog.Add(NewUserRepository, NewMailer)  // constructors
//	catalog.Add(di.TypeOf[Notifier]())         // an interface to auto register
//
// It is safe for concurrent use.
type Catalog struct {
	m     sync.RWMutex
	name  string
	types []reflect.Type
	known map[reflect.Type]struct{}
	ctors map[reflect.Type][]*Constructor
}

// NewCatalog creates an empty Catalog.
func NewCatalog(name string) *Catalog {
	return &Catalog{
		name:  name,
		known: map[reflect.Type]struct{}{},
		ctors: map[reflect.Type][]*Constructor{},
	}
}

// Name returns the name given to NewCatalog.
func (cat *Catalog) Name() string {
	return cat.name
}

// Add adds types and constructors to the Catalog.
// Each value can be:
//   - a reflect.Type, added as a type,
//   - a *Constructor,
//   - a constructor function, wrapped with NewConstructor without parameter names.
//
// The type returned by a constructor is added to the Catalog.
func (cat *Catalog) Add(values ...any) error {
	for _, value := range values {
		if err := cat.add(value); err != nil {
			return err
		}
	}
	return nil
}

func (cat *Catalog) add(value any) error {
	if typ, ok := value.(reflect.Type); ok {
		if typ == nil {
			return fmt.Errorf("could not add a nil type to the catalog `%s`", cat.name)
		}
		cat.m.Lock()
		cat.addType(typ)
		cat.m.Unlock()
		return nil
	}

	ctor, err := NewConstructor(value)
	if err != nil {
		return fmt.Errorf("could not add `%T` to the catalog `%s`: %w", value, cat.name, err)
	}

	cat.m.Lock()
	cat.addType(ctor.returns)
	cat.ctors[ctor.returns] = append(cat.ctors[ctor.returns], ctor)
	cat.m.Unlock()

	return nil
}

// addType must be called with the lock held.
func (cat *Catalog) addType(typ reflect.Type) {
	if _, ok := cat.known[typ]; ok {
		return
	}
	cat.known[typ] = struct{}{}
	cat.types = append(cat.types, typ)
}

// AddType adds T to the catalog.
func AddType[T any](cat *Catalog) {
	cat.m.Lock()
	cat.addType(TypeOf[T]())
	cat.m.Unlock()
}

// Types returns the types of the Catalog in insertion order.
func (cat *Catalog) Types() []reflect.Type {
	cat.m.RLock()
	defer cat.m.RUnlock()

	types := make([]reflect.Type, len(cat.types))
	copy(types, cat.types)
	return types
}

// Constructors returns the constructors building typ,
// from the most greedy to the least greedy.
// Struct and pointer to struct types without constructors
// get an implicit constructor returning their zero value.
func (cat *Catalog) Constructors(typ reflect.Type) []*Constructor {
	var ctors []*Constructor

	if cat != nil {
		cat.m.RLock()
		ctors = make([]*Constructor, len(cat.ctors[typ]), len(cat.ctors[typ])+1)
		copy(ctors, cat.ctors[typ])
		cat.m.RUnlock()
	}

	if len(ctors) == 0 && isConstructibleKind(typ) {
		ctors = append(ctors, zeroConstructor(typ))
	}

	sort.SliceStable(ctors, func(i, j int) bool {
		return len(ctors[i].params) > len(ctors[j].params)
	})

	return ctors
}
