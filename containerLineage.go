package di

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Parent returns the parent container.
// The boolean is false for a root container.
func (c Container) Parent() (Container, bool) {
	if c.core.parent == nil {
		return Container{}, false
	}
	return Container{core: c.core.parent}, true
}

// GetChildContainer creates an empty container whose parent is c.
// The child resolves the registrations of its parents,
// but its own registrations are not visible from the parents.
// It shares the catalog, the logger and the metrics of c.
//
// Singletons registered in a parent are always built by the parent,
// so they can not depend on the registrations of the child.
func (c Container) GetChildContainer() (Container, error) {
	if c.core.closed.Load() {
		return Container{}, fmt.Errorf("could not create a child container: %w", ErrContainerDisposed)
	}

	id := uuid.NewString()

	child := Container{
		core: &containerCore{
			id:             id,
			parent:         c.core,
			registry:       newRegistry(),
			catalog:        c.core.catalog,
			defaultOptions: c.core.defaultOptions,
			logger:         c.core.logger.With(zap.String("child_id", id)),
			metrics:        c.core.metrics,
		},
	}

	child.registerSelf()

	child.core.logger.Debug("child container created")

	return child, nil
}
