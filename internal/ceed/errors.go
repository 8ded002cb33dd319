package ceed

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrBackendNotFound       = errors.New("no backend matches resource")
	ErrInvalidResource       = errors.New("invalid resource")
	ErrDuplicateRegistration = errors.New("backend prefix already registered")
	ErrAlreadyDelegated      = errors.New("delegate already set")
	ErrDelegateCycle         = errors.New("delegate chain would form a cycle")
	ErrNotImplemented        = errors.New("not implemented")
	ErrDestroyed             = errors.New("use of destroyed object")
	ErrSealed                = errors.New("dispatch table is sealed")
	ErrAccess                = errors.New("array access violation")
	ErrDimension             = errors.New("incompatible dimensions")
	ErrUnsupported           = errors.New("unsupported")
)

// NotImplementedError reports a method that no context in a delegate chain provides.
type NotImplementedError struct {
	Class  string
	Method string
}

// Error implements the error interface.
func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Class, e.Method, ErrNotImplemented)
}

// Is reports whether target is ErrNotImplemented.
func (e *NotImplementedError) Is(target error) bool {
	return target == ErrNotImplemented
}

// ResourceError reports a resource string a backend refused to initialize.
type ResourceError struct {
	Backend  string // Backend name, may be empty
	Resource string
	Reason   string
}

// Error implements the error interface.
func (e *ResourceError) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("%s backend cannot use resource %q: %s", e.Backend, e.Resource, e.Reason)
	}
	return fmt.Sprintf("cannot use resource %q: %s", e.Resource, e.Reason)
}

// Is reports whether target is ErrInvalidResource.
func (e *ResourceError) Is(target error) bool {
	return target == ErrInvalidResource
}

// CheckResource returns a ResourceError unless resource is one of accepted.
// Backends call it from their init function to validate the full resource.
func CheckResource(backend, resource string, accepted ...string) error {
	for _, a := range accepted {
		if resource == a {
			return nil
		}
	}
	return &ResourceError{Backend: backend, Resource: resource, Reason: "unsupported variant"}
}
