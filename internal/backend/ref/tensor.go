package ref

import (
	"github.com/born-ml/ceed/internal/ceed"
)

// Contract is the reference tensor contraction kernel.
func Contract(A, B, C, J int, t []ceed.Scalar, tmode ceed.TransposeMode, add bool, u, v []ceed.Scalar) {
	tstrideJ, tstrideB := B, 1
	if tmode == ceed.Transpose {
		tstrideJ, tstrideB = 1, J
	}
	if !add {
		clear(v[:A*J*C])
	}

	for a := range A {
		for b := range B {
			for j := range J {
				tq := t[j*tstrideJ+b*tstrideB]
				for c := range C {
					v[(a*J+j)*C+c] += tq * u[(a*B+b)*C+c]
				}
			}
		}
	}
}

func contractCreate(call *ceed.Call) (any, error) {
	tc, err := ceed.ObjectAs[*ceed.TensorContract](call)
	if err != nil {
		return nil, err
	}
	tc.SetData(ceed.ContractKernel(Contract))
	return nil, nil
}

// contractApply runs whichever kernel the creating backend installed.
func contractApply(call *ceed.Call) (any, error) {
	tc, err := ceed.ObjectAs[*ceed.TensorContract](call)
	if err != nil {
		return nil, err
	}
	kernel, err := ceed.Data[ceed.ContractKernel](tc)
	if err != nil {
		return nil, err
	}

	var ext [4]int
	for i := range ext {
		if ext[i], err = ceed.Arg[int](call, i); err != nil {
			return nil, err
		}
	}
	t, err := ceed.Arg[[]ceed.Scalar](call, 4)
	if err != nil {
		return nil, err
	}
	tmode, err := ceed.Arg[ceed.TransposeMode](call, 5)
	if err != nil {
		return nil, err
	}
	add, err := ceed.Arg[bool](call, 6)
	if err != nil {
		return nil, err
	}
	u, err := ceed.Arg[[]ceed.Scalar](call, 7)
	if err != nil {
		return nil, err
	}
	v, err := ceed.Arg[[]ceed.Scalar](call, 8)
	if err != nil {
		return nil, err
	}

	kernel(ext[0], ext[1], ext[2], ext[3], t, tmode, add, u, v)
	return nil, nil
}
