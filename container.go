// Package di is an inversion of control container.
//
// Types are registered in a Container against a contract type
// (usually an interface) and an optional name. They can then be resolved:
// the container picks the constructor it can satisfy with the most parameters,
// resolves its dependencies recursively and returns the object.
//
//	c, _ := di.New()
//	di.Register[Logger, *ConsoleLogger](c)
//	logger, err := di.Resolve[Logger](c)
//
// Objects can be built on each resolution, shared (singleton), given at registration,
// built by a user function, or stored in a custom LifetimeProvider.
// Child containers see the registrations of their parents.
package di

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var containerType = TypeOf[Container]()

// Container is a dependency injection container.
// It can be created with New or GetChildContainer.
//
// A Container is a small value that can be copied.
// All the copies share the same registrations.
// The Container given to constructors and factory functions is a copy
// that also remembers the keys being resolved, to detect cycles.
type Container struct {
	// core contains the container data.
	// Several Container can share the same core.
	// In this case they represent the same entity,
	// but at a different stage of an object construction.
	// They differ by their chain field.
	core *containerCore

	// chain contains the keys the Container is resolving.
	// Each time a Container is passed to a constructor or a FactoryFunc,
	// it is in fact a new Container with the same core but a longer chain.
	chain *resolutionChain
}

// containerCore contains the data of a Container.
// It can not resolve objects on its own.
// It should be used inside a Container.
type containerCore struct {
	id     string
	parent *containerCore
	closed atomic.Bool

	registry       *registry
	catalog        *Catalog
	defaultOptions ResolveOptions

	logger    *zap.Logger
	metrics   *metrics
	messenger bool

	// autoRegisterMu serializes the AutoRegister sweeps.
	autoRegisterMu sync.Mutex
}

// New creates a root Container.
// The container registers itself as Container,
// and the messenger hub as MessengerHub if WithMessenger is used.
func New(opts ...Option) (Container, error) {
	core := &containerCore{
		id:             uuid.NewString(),
		registry:       newRegistry(),
		catalog:        NewCatalog("default"),
		defaultOptions: DefaultResolveOptions(),
		logger:         zap.NewNop(),
	}

	for _, opt := range opts {
		if err := opt(core); err != nil {
			return Container{}, err
		}
	}

	core.logger = core.logger.With(zap.String("container_id", core.id))

	c := Container{core: core}
	c.registerSelf()

	if core.messenger {
		logger := core.logger
		err := c.RegisterType(messengerHubType, hubType, "").
			UsingConstructor(func() *Hub { return NewHub(logger) }).
			Err()
		if err != nil {
			return Container{}, err
		}
	}

	core.logger.Debug("container created")

	return c, nil
}

func (c Container) registerSelf() {
	// The registration table is empty, nothing can be disposed.
	_ = c.core.registry.set(Key{Type: containerType}, newInstanceFactory(containerType, Container{core: c.core}))
}

// ID returns the unique identifier of the container.
// It is also logged as `container_id`.
func (c Container) ID() string {
	return c.core.id
}

// Catalog returns the catalog used to find constructors.
// It is shared by all the containers of a tree.
func (c Container) Catalog() *Catalog {
	return c.core.catalog
}

// Logger returns the logger of the container.
func (c Container) Logger() *zap.Logger {
	return c.core.logger
}

// DefaultResolveOptions returns the policy used when Resolve is called
// without WithResolveOptions.
func (c Container) DefaultResolveOptions() ResolveOptions {
	return c.core.defaultOptions
}

// Registration describes a registration of the container.
type Registration struct {
	Key      Key
	Lifetime Lifetime
	// Type is the type of the created objects.
	// For delegates, it is the contract type.
	Type reflect.Type
}

// Registrations returns the registrations of this container in registration order.
// The registrations of the parent containers are not included.
func (c Container) Registrations() []Registration {
	keys := c.core.registry.keys()
	regs := make([]Registration, 0, len(keys))

	for _, key := range keys {
		f, ok := c.core.registry.tryGet(key)
		if !ok {
			continue
		}
		regs = append(regs, Registration{
			Key:      key,
			Lifetime: f.lifetime(),
			Type:     f.createdType(),
		})
	}

	return regs
}

// IsRegistered returns true if there is a registration for the given type and name
// in this container or one of its parents.
func (c Container) IsRegistered(typ reflect.Type, name string) bool {
	key := Key{Type: typ, Name: name}

	for core := c.core; core != nil; core = core.parent {
		if _, ok := core.registry.tryGet(key); ok {
			return true
		}
	}

	return false
}

// withKey returns a Container with the same core
// and key added at the end of the resolution chain.
func (c Container) withKey(key Key) Container {
	return Container{
		core:  c.core,
		chain: c.chain.push(key),
	}
}
