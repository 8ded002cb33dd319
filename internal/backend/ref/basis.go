package ref

import (
	"errors"
	"fmt"

	"github.com/born-ml/ceed/internal/ceed"
)

// basis is the backend data of a reference tensor basis.
type basis struct {
	contract *ceed.TensorContract
	scratch  [2][]ceed.Scalar
}

// basisCreate builds the contraction from the Context the call started on so
// that backends overriding TensorContractCreate accelerate reference bases.
func basisCreate(call *ceed.Call) (any, error) {
	b, err := ceed.ObjectAs[*ceed.Basis](call)
	if err != nil {
		return nil, err
	}
	contract, err := call.Ceed.TensorContractCreate()
	if err != nil {
		return nil, err
	}

	size := b.NumComponents() * ipow(max(b.NumNodes1D(), b.NumQuadraturePoints1D()), b.Dimension())
	b.SetData(&basis{
		contract: contract,
		scratch:  [2][]ceed.Scalar{make([]ceed.Scalar, size), make([]ceed.Scalar, size)},
	})
	return nil, nil
}

func basisDestroy(call *ceed.Call) (any, error) {
	b, err := ceed.ObjectAs[*ceed.Basis](call)
	if err != nil {
		return nil, err
	}
	impl, err := ceed.Data[*basis](b)
	if err != nil {
		return nil, err
	}
	return nil, impl.contract.Destroy()
}

// tensorApply contracts every axis of in with mats[axis], axis 0 varying fastest.
func (impl *basis) tensorApply(b *ceed.Basis, mats [][]ceed.Scalar, tmode ceed.TransposeMode, add bool, in, out []ceed.Scalar) error {
	dim := b.Dimension()
	B, J := b.NumNodes1D(), b.NumQuadraturePoints1D()
	if tmode == ceed.Transpose {
		B, J = J, B
	}

	pre, post := b.NumComponents()*ipow(B, dim-1), 1
	src := in
	for d := range dim {
		dst := out
		if d < dim-1 {
			dst = impl.scratch[d%2]
		}
		if err := impl.contract.Apply(pre, B, post, J, mats[d], tmode, add && d == dim-1, src, dst); err != nil {
			return err
		}
		pre /= B
		post *= J
		src = dst
	}
	return nil
}

func basisApply(call *ceed.Call) (_ any, err error) {
	b, err := ceed.ObjectAs[*ceed.Basis](call)
	if err != nil {
		return nil, err
	}
	impl, err := ceed.Data[*basis](b)
	if err != nil {
		return nil, err
	}
	numElem, err := ceed.Arg[int](call, 0)
	if err != nil {
		return nil, err
	}
	tmode, err := ceed.Arg[ceed.TransposeMode](call, 1)
	if err != nil {
		return nil, err
	}
	emode, err := ceed.Arg[ceed.EvalMode](call, 2)
	if err != nil {
		return nil, err
	}
	u, err := ceed.Arg[*ceed.Vector](call, 3)
	if err != nil {
		return nil, err
	}
	v, err := ceed.Arg[*ceed.Vector](call, 4)
	if err != nil {
		return nil, err
	}

	out, err := v.GetArrayWrite(ceed.MemHost)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, v.RestoreArray(&out)) }()

	if emode == ceed.EvalWeight {
		weights(b, numElem, out)
		return nil, nil
	}

	in, err := u.GetArrayRead(ceed.MemHost)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, u.RestoreArrayRead(&in)) }()

	dim, numComp := b.Dimension(), b.NumComponents()
	nodes, qpts := numComp*b.NumNodes(), numComp*b.NumQuadraturePoints()
	mats := make([][]ceed.Scalar, dim)

	for e := range numElem {
		switch {
		case emode == ceed.EvalInterp && tmode == ceed.NoTranspose:
			fill(mats, b.Interp1D(), nil, -1)
			err = impl.tensorApply(b, mats, tmode, false, in[e*nodes:(e+1)*nodes], out[e*qpts:(e+1)*qpts])
		case emode == ceed.EvalInterp:
			fill(mats, b.Interp1D(), nil, -1)
			err = impl.tensorApply(b, mats, tmode, false, in[e*qpts:(e+1)*qpts], out[e*nodes:(e+1)*nodes])
		case emode == ceed.EvalGrad && tmode == ceed.NoTranspose:
			for dd := range dim {
				fill(mats, b.Interp1D(), b.Grad1D(), dd)
				o := (e*dim + dd) * qpts
				if err = impl.tensorApply(b, mats, tmode, false, in[e*nodes:(e+1)*nodes], out[o:o+qpts]); err != nil {
					break
				}
			}
		case emode == ceed.EvalGrad:
			clear(out[e*nodes : (e+1)*nodes])
			for dd := range dim {
				fill(mats, b.Interp1D(), b.Grad1D(), dd)
				i := (e*dim + dd) * qpts
				if err = impl.tensorApply(b, mats, tmode, true, in[i:i+qpts], out[e*nodes:(e+1)*nodes]); err != nil {
					break
				}
			}
		default:
			return nil, fmt.Errorf("basis apply: eval mode %s: %w", emode, ceed.ErrUnsupported)
		}
		if err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// fill sets every axis to interp except axis dd, which gets grad.
func fill(mats [][]ceed.Scalar, interp, grad []ceed.Scalar, dd int) {
	for d := range mats {
		mats[d] = interp
		if d == dd {
			mats[d] = grad
		}
	}
}

// weights writes the tensor product quadrature weights of every element.
func weights(b *ceed.Basis, numElem int, out []ceed.Scalar) {
	dim, q1d := b.Dimension(), b.NumQuadraturePoints1D()
	qpts := b.NumQuadraturePoints()
	w := b.QWeight1D()
	for q := range qpts {
		prod, idx := ceed.Scalar(1), q
		for range dim {
			prod *= w[idx%q1d]
			idx /= q1d
		}
		for e := range numElem {
			out[e*qpts+q] = prod
		}
	}
}

func ipow(base, exp int) int {
	out := 1
	for range exp {
		out *= base
	}
	return out
}
