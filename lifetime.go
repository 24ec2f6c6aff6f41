package di

import (
	"fmt"
	"sync"
)

// Lifetime describes how a registration produces its objects.
type Lifetime int

const (
	// MultiInstance builds a new object on every resolution.
	MultiInstance Lifetime = iota
	// Singleton builds the object once and reuses it.
	Singleton
	// Instance returns an object given at registration.
	Instance
	// WeakInstance returns an object given at registration
	// without preventing it from being garbage-collected.
	WeakInstance
	// Delegate calls a user FactoryFunc on every resolution.
	Delegate
	// WeakDelegate calls a user FactoryFunc that is only weakly referenced.
	WeakDelegate
	// CustomLifetime stores the object in a LifetimeProvider.
	CustomLifetime
)

func (l Lifetime) String() string {
	switch l {
	case MultiInstance:
		return "multi-instance"
	case Singleton:
		return "singleton"
	case Instance:
		return "instance"
	case WeakInstance:
		return "weak instance"
	case Delegate:
		return "delegate"
	case WeakDelegate:
		return "weak delegate"
	case CustomLifetime:
		return "custom lifetime"
	}
	return fmt.Sprintf("Lifetime(%d)", int(l))
}

// LifetimeProvider stores the object of a CustomLifetime registration.
// The container asks for the object with GetObject and, on a miss (nil),
// builds it and stores it with SetObject.
// ReleaseObject is called when the registration is disposed or converted.
//
// A provider decides how long the object lives:
// per goroutine, per request, until a cache expires...
type LifetimeProvider interface {
	GetObject() any
	SetObject(obj any)
	ReleaseObject()
}

// LifetimeCell is a LifetimeProvider holding one object.
// The host can call ReleaseObject at any time, for example
// at the end of a unit of work, to make the container build a new object.
type LifetimeCell struct {
	m   sync.Mutex
	obj any
	// OnRelease is called with the released object, if any.
	OnRelease func(obj any)
}

// NewLifetimeCell creates an empty LifetimeCell.
func NewLifetimeCell() *LifetimeCell {
	return &LifetimeCell{}
}

func (c *LifetimeCell) GetObject() any {
	c.m.Lock()
	defer c.m.Unlock()
	return c.obj
}

func (c *LifetimeCell) SetObject(obj any) {
	c.m.Lock()
	c.obj = obj
	c.m.Unlock()
}

func (c *LifetimeCell) ReleaseObject() {
	c.m.Lock()
	obj := c.obj
	c.obj = nil
	c.m.Unlock()

	if obj != nil && c.OnRelease != nil {
		c.OnRelease(obj)
	}
}
