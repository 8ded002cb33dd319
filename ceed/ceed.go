// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ceed

import (
	"sync"

	"github.com/born-ml/ceed/internal/backend"
	internal "github.com/born-ml/ceed/internal/ceed"
)

// Core types.
type (
	// Ceed is a library Context bound to one backend.
	Ceed = internal.Ceed
	// Registry is the list of available backends.
	Registry = internal.Registry
	// RegistryOption configures a Registry.
	RegistryOption = internal.RegistryOption
	// Entry is one registered backend.
	Entry = internal.Entry
	// InitFunc initializes a Context for a backend.
	InitFunc = internal.InitFunc
	// Func is the uniform signature of backend methods.
	Func = internal.Func
	// Call describes one dispatched method call.
	Call = internal.Call
	// Key names a dispatchable method.
	Key = internal.Key
	// Object is a value bound to a Context.
	Object = internal.Object
	// ContractKernel is the kernel a TensorContract runs.
	ContractKernel = internal.ContractKernel

	Scalar           = internal.Scalar
	Vector           = internal.Vector
	ElemRestriction  = internal.ElemRestriction
	Basis            = internal.Basis
	TensorContract   = internal.TensorContract
	QFunction        = internal.QFunction
	QFunctionContext = internal.QFunctionContext
	QFunctionUser    = internal.QFunctionUser
	QFunctionField   = internal.QFunctionField

	MemType       = internal.MemType
	CopyMode      = internal.CopyMode
	NormType      = internal.NormType
	TransposeMode = internal.TransposeMode
	EvalMode      = internal.EvalMode

	// NotImplementedError reports a method no Context in the chain provides.
	NotImplementedError = internal.NotImplementedError
	// ResourceError reports a resource a backend does not accept.
	ResourceError = internal.ResourceError
)

// Enumerations.
const (
	MemHost   = internal.MemHost
	MemDevice = internal.MemDevice

	CopyValues = internal.CopyValues
	UsePointer = internal.UsePointer
	OwnPointer = internal.OwnPointer

	Norm1   = internal.Norm1
	Norm2   = internal.Norm2
	NormMax = internal.NormMax

	NoTranspose = internal.NoTranspose
	Transpose   = internal.Transpose

	EvalNone   = internal.EvalNone
	EvalInterp = internal.EvalInterp
	EvalGrad   = internal.EvalGrad
	EvalWeight = internal.EvalWeight
)

// Errors.
var (
	ErrBackendNotFound       = internal.ErrBackendNotFound
	ErrInvalidResource       = internal.ErrInvalidResource
	ErrDuplicateRegistration = internal.ErrDuplicateRegistration
	ErrAlreadyDelegated      = internal.ErrAlreadyDelegated
	ErrDelegateCycle         = internal.ErrDelegateCycle
	ErrNotImplemented        = internal.ErrNotImplemented
	ErrDestroyed             = internal.ErrDestroyed
	ErrSealed                = internal.ErrSealed
	ErrAccess                = internal.ErrAccess
	ErrDimension             = internal.ErrDimension
	ErrUnsupported           = internal.ErrUnsupported
)

// Registry options.
var (
	WithLogger        = internal.WithLogger
	WithRootDepth     = internal.WithRootDepth
	WithRootSeparator = internal.WithRootSeparator
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the process-wide registry, populated with the built-in
// backends on first use.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry = internal.NewRegistry()
		defaultErr = backend.RegisterAll(defaultRegistry)
	})
	return defaultRegistry, defaultErr
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	return internal.NewRegistry(opts...)
}

// RegisterBuiltin adds the built-in backends to r.
func RegisterBuiltin(r *Registry) error {
	return backend.RegisterAll(r)
}

// Register adds a backend to the default registry.
func Register(prefix string, init InitFunc, priority int) error {
	r, err := Default()
	if err != nil {
		return err
	}
	return r.Register(prefix, init, priority)
}

// Init creates a Context for resource from the default registry.
func Init(resource string) (*Ceed, error) {
	r, err := Default()
	if err != nil {
		return nil, err
	}
	return r.Init(resource)
}

// GalleryNames lists the QFunctions available by name.
func GalleryNames() []string {
	return internal.GalleryNames()
}
