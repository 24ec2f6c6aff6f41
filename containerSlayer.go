package di

import (
	"go.uber.org/zap"
)

// Dispose removes all the registrations of the container
// and disposes the objects it owns: instances, singletons
// and the objects of custom lifetime providers.
// Objects are disposed in the reverse order of registration.
// The errors are aggregated in the returned error.
//
// The parent and the child containers are not disposed.
// Once disposed, the container can not register or resolve anything.
// Calling Dispose several times is safe.
func (c Container) Dispose() error {
	if !c.core.closed.CompareAndSwap(false, true) {
		return nil
	}

	err := c.core.registry.clear()
	if err != nil {
		c.core.logger.Warn("could not dispose all the registrations", zap.Error(err))
	}

	c.core.logger.Debug("container disposed")

	return err
}

// IsDisposed returns true if Dispose has been called.
func (c Container) IsDisposed() bool {
	return c.core.closed.Load()
}
