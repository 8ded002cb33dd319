package avx

import (
	"github.com/born-ml/ceed/internal/ceed"
)

// Contract computes the contraction with the innermost loop unrolled by four
// so the compiler keeps four independent accumulation chains in registers.
func Contract(A, B, C, J int, t []ceed.Scalar, tmode ceed.TransposeMode, add bool, u, v []ceed.Scalar) {
	tstrideJ, tstrideB := B, 1
	if tmode == ceed.Transpose {
		tstrideJ, tstrideB = 1, J
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

				c := 0
				for ; c+4 <= C; c += 4 {
					vj[c] += tq * ub[c]
					vj[c+1] += tq * ub[c+1]
					vj[c+2] += tq * ub[c+2]
					vj[c+3] += tq * ub[c+3]
				}
				for ; c < C; c++ {
					vj[c] += tq * ub[c]
				}
			}
		}
	}
}
