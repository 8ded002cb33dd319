package ref

import (
	"errors"

	"github.com/born-ml/ceed/internal/ceed"
)

func restrictionCreate(call *ceed.Call) (any, error) {
	_, err := ceed.ObjectAs[*ceed.ElemRestriction](call)
	return nil, err
}

// lindex returns the L-vector index of node i, component k of element e.
func lindex(r *ceed.ElemRestriction, e, k, i int) int {
	if r.IsStrided() {
		s := r.Strides()
		return i*s[0] + k*s[1] + e*s[2]
	}
	return int(r.Offsets()[e*r.ElementSize()+i]) + k*r.CompStride()
}

func restrictionApply(call *ceed.Call) (_ any, err error) {
	r, err := ceed.ObjectAs[*ceed.ElemRestriction](call)
	if err != nil {
		return nil, err
	}
	tmode, err := ceed.Arg[ceed.TransposeMode](call, 0)
	if err != nil {
		return nil, err
	}
	u, err := ceed.Arg[*ceed.Vector](call, 1)
	if err != nil {
		return nil, err
	}
	ru, err := ceed.Arg[*ceed.Vector](call, 2)
	if err != nil {
		return nil, err
	}

	in, err := u.GetArrayRead(ceed.MemHost)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, u.RestoreArrayRead(&in)) }()

	var out []ceed.Scalar
	if tmode == ceed.Transpose {
		out, err = ru.GetArray(ceed.MemHost)
	} else {
		out, err = ru.GetArrayWrite(ceed.MemHost)
	}
	if err != nil {
		return nil, err
	}

	numComp, elemSize := r.NumComponents(), r.ElementSize()
	for e := range r.NumElements() {
		for k := range numComp {
			for i := range elemSize {
				l := lindex(r, e, k, i)
				ev := (e*numComp+k)*elemSize + i
				if tmode == ceed.Transpose {
					out[l] += in[ev]
				} else {
					out[ev] = in[l]
				}
			}
		}
	}
	return nil, ru.RestoreArray(&out)
}
