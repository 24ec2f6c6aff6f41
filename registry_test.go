package di

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := newRegistry()

	loggerType := TypeOf[Logger]()
	k1 := Key{Type: loggerType}
	k2 := Key{Type: loggerType, Name: "file"}
	k3 := Key{Type: TypeOf[Clock]()}

	c1 := &mockCloser{}
	c2 := &mockCloser{}

	require.Nil(t, r.set(k1, newInstanceFactory(loggerType, &ConsoleLogger{})))
	require.Nil(t, r.set(k2, newInstanceFactory(loggerType, &FileLogger{})))
	require.Nil(t, r.set(k3, newInstanceFactory(TypeOf[*mockCloser](), c1)))

	require.Equal(t, []Key{k1, k2, k3}, r.keys())
	require.Equal(t, []Key{k1, k2}, r.keysFor(loggerType))

	_, ok := r.tryGet(Key{Type: loggerType, Name: "FILE"})
	require.False(t, ok)

	// replace
	require.Nil(t, r.set(k3, newInstanceFactory(TypeOf[*mockCloser](), c2)))
	require.Equal(t, 1, c1.Closed)
	require.Equal(t, []Key{k1, k2, k3}, r.keys(), "a replaced key keeps its position")

	// remove
	ok, err := r.remove(k1)
	require.True(t, ok)
	require.Nil(t, err)
	require.Equal(t, []Key{k2, k3}, r.keys())

	ok, err = r.remove(k1)
	require.False(t, ok)
	require.Nil(t, err)

	// update
	f, prev, err := r.update(k2, func(f objectFactory) (objectFactory, error) {
		return convertFactory(f, toMultiInstance, nil)
	})
	require.Nil(t, err)
	require.Equal(t, MultiInstance, f.lifetime())
	require.Equal(t, Instance, prev.lifetime())

	_, _, err = r.update(k1, func(f objectFactory) (objectFactory, error) {
		return f, nil
	})
	require.True(t, errors.Is(err, ErrResolution))

	_, _, err = r.update(k2, func(f objectFactory) (objectFactory, error) {
		return convertFactory(f, toWeakReference, nil)
	})
	require.True(t, errors.Is(err, ErrRegistrationConversion))

	f, _ = r.tryGet(k2)
	require.Equal(t, MultiInstance, f.lifetime(), "a failed update does not change the table")

	// clear
	require.Nil(t, r.clear())
	require.Equal(t, 1, c2.Closed)
	require.Empty(t, r.keys())
}

func TestRegistryClearOrder(t *testing.T) {
	r := newRegistry()

	var order []string

	for _, name := range []string{"a", "b", "c"} {
		cell := NewLifetimeCell()
		cell.SetObject(name)
		cell.OnRelease = func(obj any) { order = append(order, obj.(string)) }

		f := newCustomLifetimeFactory(TypeOf[Logger](), TypeOf[*ConsoleLogger](), nil, cell)
		require.Nil(t, r.set(Key{Type: TypeOf[Logger](), Name: name}, f))
	}

	require.Nil(t, r.clear())
	require.Equal(t, []string{"c", "b", "a"}, order)
}
