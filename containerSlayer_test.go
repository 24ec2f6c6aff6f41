package di

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispose(t *testing.T) {
	app := newTestContainer(t)
	request, err := app.GetChildContainer()
	require.Nil(t, err)

	appCloser := &mockCloser{}
	reqCloser := &mockCloser{}

	require.Nil(t, RegisterInstance(app, appCloser).Err())
	require.Nil(t, RegisterInstance(request, reqCloser, "request").Err())

	require.Nil(t, RegisterSelf[*mockDisposer](request).AsSingleton().Err())
	disposer, err := Resolve[*mockDisposer](request)
	require.Nil(t, err)

	require.False(t, app.IsDisposed())
	require.False(t, request.IsDisposed())

	// dispose the request
	require.Nil(t, request.Dispose())

	require.True(t, request.IsDisposed())
	require.False(t, app.IsDisposed(), "the parent is not disposed")
	require.Equal(t, 1, reqCloser.Closed)
	require.Equal(t, 1, disposer.Disposed)
	require.Equal(t, 0, appCloser.Closed)

	// dispose again
	require.Nil(t, request.Dispose())
	require.Equal(t, 1, reqCloser.Closed)

	// dispose the app
	require.Nil(t, app.Dispose())

	require.True(t, app.IsDisposed())
	require.Equal(t, 1, appCloser.Closed)
}

func TestDisposeDoesNotDisposeChildren(t *testing.T) {
	app := newTestContainer(t)
	request, err := app.GetChildContainer()
	require.Nil(t, err)

	closer := &mockCloser{}
	require.Nil(t, RegisterInstance(request, closer).Err())

	require.Nil(t, app.Dispose())

	require.False(t, request.IsDisposed())
	require.Equal(t, 0, closer.Closed)

	obj, err := Resolve[*mockCloser](request)
	require.Nil(t, err)
	require.Same(t, closer, obj)
}

func TestDisposeWithErrors(t *testing.T) {
	c := newTestContainer(t)

	errClose := errors.New("close error")

	require.Nil(t, RegisterInstance(c, &mockCloser{Err: errClose}).Err())
	require.Nil(t, RegisterInstance(c, &panicDisposer{}).Err())
	require.Nil(t, RegisterInstance(c, &mockDisposer{}).Err())

	err := c.Dispose()
	require.NotNil(t, err)
	require.True(t, errors.Is(err, errClose))
	require.Contains(t, err.Error(), "dispose panic")
	require.True(t, c.IsDisposed())
}

func TestDisposeOnlyDisposesBuiltSingletons(t *testing.T) {
	c := newTestContainer(t)

	var built []*mockDisposer

	require.Nil(t, RegisterSelf[*mockDisposer](c).
		AsSingleton().
		UsingConstructor(func() *mockDisposer {
			d := &mockDisposer{}
			built = append(built, d)
			return d
		}).
		Err())

	require.Nil(t, c.Dispose())
	require.Empty(t, built)
}

func TestDisposedContainer(t *testing.T) {
	c := newTestContainer(t)

	require.Nil(t, Register[Logger, *ConsoleLogger](c).Err())
	require.Nil(t, c.Dispose())

	_, err := Resolve[Logger](c)
	require.True(t, errors.Is(err, ErrContainerDisposed))

	_, ok, err := TryResolve[Logger](c)
	require.False(t, ok)
	require.True(t, errors.Is(err, ErrContainerDisposed))

	require.False(t, CanResolve[Logger](c))

	err = Register[Logger, *ConsoleLogger](c).Err()
	require.True(t, errors.Is(err, ErrContainerDisposed))

	require.Empty(t, c.Registrations())
}

func TestChildOfDisposedParentStillResolvesItsOwnRegistrations(t *testing.T) {
	app := newTestContainer(t)
	child, err := app.GetChildContainer()
	require.Nil(t, err)

	require.Nil(t, Register[Logger, *ConsoleLogger](app).Err())
	require.Nil(t, Register[Clock, *fixedClock](child).Err())

	require.Nil(t, app.Dispose())

	_, err = Resolve[Clock](child)
	require.Nil(t, err)

	_, err = Resolve[Logger](child)
	require.True(t, errors.Is(err, ErrResolution))
}
