package di

import (
	"reflect"
	"sync"

	"go.uber.org/multierr"
)

// registry is the registration table of a container.
// It keeps the insertion order of the keys,
// so that ResolveAll returns the objects in registration order.
// Factories that leave the table are disposed after the lock is released,
// because disposing may call user code.
type registry struct {
	m         sync.RWMutex
	factories map[Key]objectFactory
	order     []Key
}

func newRegistry() *registry {
	return &registry{
		factories: map[Key]objectFactory{},
	}
}

// set adds or replaces the factory for key.
// It returns the error of the replaced factory disposal.
func (r *registry) set(key Key, f objectFactory) error {
	r.m.Lock()
	old, ok := r.factories[key]
	r.factories[key] = f
	if !ok {
		r.order = append(r.order, key)
	}
	r.m.Unlock()

	if ok && old != f {
		return old.dispose()
	}

	return nil
}

// update replaces the factory for key with the result of fn,
// atomically with respect to the other operations on the table.
// It returns the new and the previous factories.
// The previous factory is not disposed: fn must not call user code,
// the caller releases what the previous factory owns once update returns.
func (r *registry) update(key Key, fn func(objectFactory) (objectFactory, error)) (objectFactory, objectFactory, error) {
	r.m.Lock()
	defer r.m.Unlock()

	prev, ok := r.factories[key]
	if !ok {
		return nil, nil, newResolutionError(key.Type, key.Name, nil)
	}

	f, err := fn(prev)
	if err != nil {
		return nil, nil, err
	}

	r.factories[key] = f

	return f, prev, nil
}

func (r *registry) tryGet(key Key) (objectFactory, bool) {
	r.m.RLock()
	f, ok := r.factories[key]
	r.m.RUnlock()
	return f, ok
}

// remove deletes key from the table and disposes its factory.
// The boolean is false if the key was not registered.
func (r *registry) remove(key Key) (bool, error) {
	r.m.Lock()
	f, ok := r.factories[key]
	if ok {
		delete(r.factories, key)
		for i, k := range r.order {
			if k == key {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.m.Unlock()

	if !ok {
		return false, nil
	}

	return true, f.dispose()
}

// clear empties the table and disposes all the factories
// in the reverse order of registration.
func (r *registry) clear() error {
	r.m.Lock()
	factories := make([]objectFactory, 0, len(r.order))
	for _, key := range r.order {
		factories = append(factories, r.factories[key])
	}
	r.factories = map[Key]objectFactory{}
	r.order = nil
	r.m.Unlock()

	var err error

	for i := len(factories) - 1; i >= 0; i-- {
		err = multierr.Append(err, factories[i].dispose())
	}

	return err
}

// keys returns all the keys in registration order.
func (r *registry) keys() []Key {
	r.m.RLock()
	defer r.m.RUnlock()

	keys := make([]Key, len(r.order))
	copy(keys, r.order)
	return keys
}

// keysFor returns the keys registered for typ in registration order.
func (r *registry) keysFor(typ reflect.Type) []Key {
	r.m.RLock()
	defer r.m.RUnlock()

	var keys []Key

	for _, key := range r.order {
		if key.Type == typ {
			keys = append(keys, key)
		}
	}

	return keys
}
