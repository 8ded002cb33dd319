// Package ref implements the reference CPU backend. It provides every method
// other backends may delegate to and favours clarity over speed.
package ref

import (
	"github.com/born-ml/ceed/internal/ceed"
)

// Registered prefix and priority of the reference backend.
const (
	Prefix   = "/cpu/self/ref/serial"
	Priority = 10
)

// Register adds the reference backend to r.
func Register(r *ceed.Registry) error {
	return r.Register(Prefix, Init, Priority)
}

// Init fills c with the reference implementations.
func Init(resource string, c *ceed.Ceed) error {
	if err := ceed.CheckResource("reference", resource, "/cpu/self", "/cpu/self/ref", Prefix); err != nil {
		return err
	}
	c.SetDeterministic(true)
	return SetFunctions(c)
}

// SetFunctions installs the reference methods on c. Backends that want the
// reference behaviour without a delegate Context may call it directly.
func SetFunctions(c *ceed.Ceed) error {
	tables := map[string]map[string]ceed.Func{
		ceed.ClassCeed: {
			"VectorCreate":          vectorCreate,
			"ElemRestrictionCreate": restrictionCreate,
			"BasisCreateTensorH1":   basisCreate,
			"TensorContractCreate":  contractCreate,
			"QFunctionCreate":       qfunctionCreate,
		},
		ceed.ClassVector: {
			"SetArray":         vectorSetArray,
			"SetValue":         vectorSetValue,
			"TakeArray":        vectorTakeArray,
			"GetArray":         vectorGetArray,
			"GetArrayRead":     vectorGetArrayRead,
			"GetArrayWrite":    vectorGetArrayWrite,
			"RestoreArray":     vectorRestore,
			"RestoreArrayRead": vectorRestore,
			"Norm":             vectorNorm,
			"Scale":            vectorScale,
			"AXPY":             vectorAXPY,
			ceed.MethodDestroy: vectorDestroy,
		},
		ceed.ClassElemRestriction: {
			"Apply": restrictionApply,
		},
		ceed.ClassBasis: {
			"Apply":            basisApply,
			ceed.MethodDestroy: basisDestroy,
		},
		ceed.ClassTensorContract: {
			"Apply": contractApply,
		},
		ceed.ClassQFunction: {
			"Apply":            qfunctionApply,
			ceed.MethodDestroy: qfunctionDestroy,
		},
	}
	for _, class := range []string{
		ceed.ClassCeed, ceed.ClassVector, ceed.ClassElemRestriction,
		ceed.ClassBasis, ceed.ClassTensorContract, ceed.ClassQFunction,
	} {
		if err := c.SetBackendFunctions(class, tables[class]); err != nil {
			return err
		}
	}
	return nil
}
