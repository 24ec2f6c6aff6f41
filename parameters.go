package di

import (
	"fmt"
	"strings"
)

// Parameters maps constructor parameter names to the values
// that must be used instead of resolving them from the container.
// Keys are unique and case-sensitive. Insertion order is irrelevant.
// The overrides only apply to the constructor of the requested type,
// not to the constructors of its dependencies.
type Parameters map[string]any

func (p Parameters) lookup(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p[name]
	return v, ok
}

// UnregisteredResolutionAction defines what Resolve does
// when the requested type has no registration.
type UnregisteredResolutionAction int

const (
	// AttemptResolve builds any concrete type with a usable constructor.
	AttemptResolve UnregisteredResolutionAction = iota
	// FailUnregistered fails when the type is not registered.
	FailUnregistered
	// GenericsOnly only builds instantiated generic types, like Repository[User].
	GenericsOnly
)

func (a UnregisteredResolutionAction) String() string {
	switch a {
	case AttemptResolve:
		return "attempt_resolve"
	case FailUnregistered:
		return "fail"
	case GenericsOnly:
		return "generics_only"
	}
	return fmt.Sprintf("UnregisteredResolutionAction(%d)", int(a))
}

// ParseUnregisteredResolutionAction parses the value returned by String.
func ParseUnregisteredResolutionAction(s string) (UnregisteredResolutionAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "attempt_resolve":
		return AttemptResolve, nil
	case "fail":
		return FailUnregistered, nil
	case "generics_only":
		return GenericsOnly, nil
	}
	return AttemptResolve, fmt.Errorf("unknown unregistered resolution action `%s`", s)
}

// NamedResolutionFailureAction defines what Resolve does
// when a named registration is missing.
type NamedResolutionFailureAction int

const (
	// FailNamed fails when the named registration does not exist.
	FailNamed NamedResolutionFailureAction = iota
	// AttemptUnnamedResolution falls back to the default registration of the type.
	AttemptUnnamedResolution
)

func (a NamedResolutionFailureAction) String() string {
	switch a {
	case FailNamed:
		return "fail"
	case AttemptUnnamedResolution:
		return "attempt_unnamed"
	}
	return fmt.Sprintf("NamedResolutionFailureAction(%d)", int(a))
}

// ParseNamedResolutionFailureAction parses the value returned by String.
func ParseNamedResolutionFailureAction(s string) (NamedResolutionFailureAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail":
		return FailNamed, nil
	case "attempt_unnamed":
		return AttemptUnnamedResolution, nil
	}
	return FailNamed, fmt.Errorf("unknown named resolution failure action `%s`", s)
}

// ResolveOptions is the resolution policy.
// The zero value is the default policy:
// unregistered concrete types are built, missing named registrations fail.
type ResolveOptions struct {
	UnregisteredResolution UnregisteredResolutionAction
	NamedResolutionFailure NamedResolutionFailureAction
}

// DefaultResolveOptions returns the default policy.
func DefaultResolveOptions() ResolveOptions {
	return ResolveOptions{
		UnregisteredResolution: AttemptResolve,
		NamedResolutionFailure: FailNamed,
	}
}

// resolveRequest gathers the arguments of a resolution call.
type resolveRequest struct {
	name    string
	params  Parameters
	options ResolveOptions
}

// ResolveOption customizes a single Resolve, TryResolve, CanResolve or Fill call.
type ResolveOption func(*resolveRequest)

// Named selects a named registration.
func Named(name string) ResolveOption {
	return func(r *resolveRequest) {
		r.name = name
	}
}

// WithParameters overrides constructor parameters by name.
func WithParameters(params Parameters) ResolveOption {
	return func(r *resolveRequest) {
		r.params = params
	}
}

// WithResolveOptions replaces the container default policy for this call.
func WithResolveOptions(options ResolveOptions) ResolveOption {
	return func(r *resolveRequest) {
		r.options = options
	}
}
