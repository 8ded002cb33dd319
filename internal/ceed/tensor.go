package ceed

import "fmt"

// ContractKernel computes v[a,j,c] (+)= sum_b t[j,b] u[a,b,c] for a < A,
// b < B, c < C, j < J. Under Transpose, t is read as t[b,j].
type ContractKernel func(A, B, C, J int, t []Scalar, tmode TransposeMode, add bool, u, v []Scalar)

// TensorContract applies one-dimensional operators along a tensor axis.
// Specialized backends override its construction to install faster kernels.
type TensorContract struct {
	object
}

// TensorContractCreate creates a tensor contraction.
func (c *Ceed) TensorContractCreate() (*TensorContract, error) {
	if c.destroyed.Load() {
		return nil, ErrDestroyed
	}
	tc := &TensorContract{object: newObject(c, ClassTensorContract)}
	if err := create(c, &tc.object, tc, "TensorContractCreate"); err != nil {
		return nil, err
	}
	return tc, nil
}

// Apply runs the contraction.
func (tc *TensorContract) Apply(A, B, C, J int, t []Scalar, tmode TransposeMode, add bool, u, v []Scalar) error {
	if A < 0 || B < 0 || C < 0 || J < 0 {
		return fmt.Errorf("tensor contract: negative extent: %w", ErrDimension)
	}
	if len(t) < B*J || len(u) < A*B*C || len(v) < A*J*C {
		return fmt.Errorf("tensor contract: arrays %d/%d/%d too short for A=%d B=%d C=%d J=%d: %w",
			len(t), len(u), len(v), A, B, C, J, ErrDimension)
	}
	_, err := tc.dispatch(tc, "Apply", A, B, C, J, t, tmode, add, u, v)
	return err
}

// Destroy releases the contraction.
func (tc *TensorContract) Destroy() error {
	if tc == nil {
		return nil
	}
	return tc.destroy(tc)
}
