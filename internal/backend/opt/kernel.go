package opt

import (
	"github.com/born-ml/ceed/internal/ceed"
	"github.com/born-ml/ceed/internal/parallel"
)

// Kernel returns Contract split into blocks as BlockedKernel does.
func Kernel(cfg parallel.Config) ceed.ContractKernel {
	return BlockedKernel(cfg, Contract)
}

// BlockedKernel wraps contract so that the leading extent A is split into
// blocks run according to cfg. Blocks write disjoint parts of v, so the result
// does not depend on scheduling.
func BlockedKernel(cfg parallel.Config, contract ceed.ContractKernel) ceed.ContractKernel {
	return func(A, B, C, J int, t []ceed.Scalar, tmode ceed.TransposeMode, add bool, u, v []ceed.Scalar) {
		parallel.Blocks(A, func(start, end int) {
			contract(end-start, B, C, J, t, tmode, add, u[start*B*C:end*B*C], v[start*J*C:end*J*C])
		}, cfg)
	}
}

// Contract computes the contraction with j outside b so every output entry is
// accumulated in a register when C is 1.
func Contract(A, B, C, J int, t []ceed.Scalar, tmode ceed.TransposeMode, add bool, u, v []ceed.Scalar) {
	tstrideJ, tstrideB := B, 1
	if tmode == ceed.Transpose {
		tstrideJ, tstrideB = 1, J
	}

	if C == 1 {
		for a := range A {
			ua := u[a*B : (a+1)*B]
			for j := range J {
				var sum ceed.Scalar
				if add {
					sum = v[a*J+j]
				}
				for b, ub := range ua {
					sum += t[j*tstrideJ+b*tstrideB] * ub
				}
				v[a*J+j] = sum
			}
		}
		return
	}

	if !add {
		clear(v[:A*J*C])
	}
	for a := range A {
		for j := range J {
			vj := v[(a*J+j)*C : (a*J+j+1)*C]
			for b := range B {
				tq := t[j*tstrideJ+b*tstrideB]
				ub := u[(a*B+b)*C : (a*B+b+1)*C]
				for c, x := range ub {
					vj[c] += tq * x
				}
			}
		}
	}
}
