package di

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Error kinds. Every error returned by the package matches one of them with errors.Is.
var (
	ErrResolution             = errors.New("resolution failed")
	ErrRegistrationType       = errors.New("invalid registration type")
	ErrRegistrationConversion = errors.New("invalid registration conversion")
	ErrWeakReference          = errors.New("weak reference has been reclaimed")
	ErrConstructorSelection   = errors.New("invalid constructor selection")
	ErrAutoRegistration       = errors.New("multiple implementations found")
	ErrCycle                  = errors.New("cycle in the object graph")
	ErrSingletonParameters    = errors.New("parameters can not be specified for a singleton")
	ErrContainerDisposed      = errors.New("the container has been disposed")
)

// ResolutionError is returned when a type could not be produced by any strategy.
// Err contains the nested failure, if any.
type ResolutionError struct {
	Type reflect.Type
	Name string
	Err  error
}

func newResolutionError(typ reflect.Type, name string, err error) *ResolutionError {
	return &ResolutionError{Type: typ, Name: name, Err: err}
}

func (e *ResolutionError) Error() string {
	msg := "could not resolve `" + Key{Type: e.Type, Name: e.Name}.String() + "`"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}

// RegistrationTypeError is returned when a lifetime that needs
// a concrete type is given an interface type.
type RegistrationTypeError struct {
	Type    reflect.Type
	Factory string
}

func (e *RegistrationTypeError) Error() string {
	return fmt.Sprintf("could not register `%v` as %s: the type is not concrete or does not implement the contract", e.Type, e.Factory)
}

func (e *RegistrationTypeError) Is(target error) bool {
	return target == ErrRegistrationType
}

// RegistrationConversionError is returned when a registration
// can not switch to the requested lifetime.
type RegistrationConversionError struct {
	Operation string
	Lifetime  Lifetime
	Err       error
}

func (e *RegistrationConversionError) Error() string {
	msg := fmt.Sprintf("could not apply %s to a %s registration", e.Operation, e.Lifetime)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RegistrationConversionError) Unwrap() error {
	return e.Err
}

func (e *RegistrationConversionError) Is(target error) bool {
	return target == ErrRegistrationConversion
}

// WeakReferenceError is returned when a weakly held instance or factory
// has been garbage-collected.
type WeakReferenceError struct {
	Type reflect.Type
}

func (e *WeakReferenceError) Error() string {
	return fmt.Sprintf("could not use the weak reference registered for `%v` because it has been reclaimed", e.Type)
}

func (e *WeakReferenceError) Is(target error) bool {
	return target == ErrWeakReference
}

// ConstructorSelectionError is returned when an explicit constructor
// can not be used for a registration.
type ConstructorSelectionError struct {
	Type   reflect.Type
	Reason string
}

func (e *ConstructorSelectionError) Error() string {
	return fmt.Sprintf("could not select a constructor for `%v`: %s", e.Type, e.Reason)
}

func (e *ConstructorSelectionError) Is(target error) bool {
	return target == ErrConstructorSelection
}

// AutoRegistrationError is returned by AutoRegister when an interface
// has several implementations and duplicates are not allowed.
type AutoRegistrationError struct {
	Type            reflect.Type
	Implementations []reflect.Type
}

func (e *AutoRegistrationError) Error() string {
	names := make([]string, len(e.Implementations))
	for i, impl := range e.Implementations {
		names[i] = impl.String()
	}
	return fmt.Sprintf(
		"could not auto register `%v` because it has %d implementations: %s",
		e.Type, len(e.Implementations), strings.Join(names, ", "),
	)
}

func (e *AutoRegistrationError) Is(target error) bool {
	return target == ErrAutoRegistration
}

// isResolutionError reports whether err is an ordinary resolution failure,
// the only kind TryResolve turns into a false result.
// Only the outermost error is checked: a reclaimed weak reference
// hit while building a dependency is a resolution failure of the dependent,
// but a reclaimed weak reference for the requested key is not.
func isResolutionError(err error) bool {
	_, ok := err.(*ResolutionError)
	return ok
}
