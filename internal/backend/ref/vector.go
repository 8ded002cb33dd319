package ref

import (
	"fmt"
	"math"

	"github.com/born-ml/ceed/internal/ceed"
)

// vector is the backend data of a reference Vector.
type vector struct {
	array []ceed.Scalar
}

func vectorData(call *ceed.Call) (*ceed.Vector, *vector, error) {
	v, err := ceed.ObjectAs[*ceed.Vector](call)
	if err != nil {
		return nil, nil, err
	}
	impl, err := ceed.Data[*vector](v)
	if err != nil {
		return nil, nil, err
	}
	return v, impl, nil
}

func hostOnly(call *ceed.Call) error {
	mem, err := ceed.Arg[ceed.MemType](call, 0)
	if err != nil {
		return err
	}
	if mem != ceed.MemHost {
		return fmt.Errorf("%s: %s memory: %w", call.Key(), mem, ceed.ErrUnsupported)
	}
	return nil
}

func vectorCreate(call *ceed.Call) (any, error) {
	v, err := ceed.ObjectAs[*ceed.Vector](call)
	if err != nil {
		return nil, err
	}
	v.SetData(&vector{})
	return nil, nil
}

func vectorSetArray(call *ceed.Call) (any, error) {
	v, impl, err := vectorData(call)
	if err != nil {
		return nil, err
	}
	if err := hostOnly(call); err != nil {
		return nil, err
	}
	mode, err := ceed.Arg[ceed.CopyMode](call, 1)
	if err != nil {
		return nil, err
	}
	data, err := ceed.Arg[[]ceed.Scalar](call, 2)
	if err != nil {
		return nil, err
	}

	switch {
	case data == nil:
		impl.array = nil
	case mode == ceed.CopyValues:
		impl.array = make([]ceed.Scalar, v.Length())
		copy(impl.array, data)
	default:
		impl.array = data
	}
	return nil, nil
}

func vectorSetValue(call *ceed.Call) (any, error) {
	v, impl, err := vectorData(call)
	if err != nil {
		return nil, err
	}
	x, err := ceed.Arg[ceed.Scalar](call, 0)
	if err != nil {
		return nil, err
	}
	if impl.array == nil {
		impl.array = make([]ceed.Scalar, v.Length())
	}
	for i := range impl.array {
		impl.array[i] = x
	}
	return nil, nil
}

func vectorTakeArray(call *ceed.Call) (any, error) {
	_, impl, err := vectorData(call)
	if err != nil {
		return nil, err
	}
	if err := hostOnly(call); err != nil {
		return nil, err
	}
	if impl.array == nil {
		return nil, fmt.Errorf("vector take array: %w: no array set", ceed.ErrAccess)
	}
	arr := impl.array
	impl.array = nil
	return arr, nil
}

func vectorGetArray(call *ceed.Call) (any, error) {
	_, impl, err := vectorData(call)
	if err != nil {
		return nil, err
	}
	if err := hostOnly(call); err != nil {
		return nil, err
	}
	if impl.array == nil {
		return nil, fmt.Errorf("%s: %w: no array set", call.Key(), ceed.ErrAccess)
	}
	return impl.array, nil
}

func vectorGetArrayRead(call *ceed.Call) (any, error) {
	return vectorGetArray(call)
}

func vectorGetArrayWrite(call *ceed.Call) (any, error) {
	v, impl, err := vectorData(call)
	if err != nil {
		return nil, err
	}
	if err := hostOnly(call); err != nil {
		return nil, err
	}
	if impl.array == nil {
		impl.array = make([]ceed.Scalar, v.Length())
	}
	return impl.array, nil
}

// vectorRestore is a no-op: host views alias the backend array.
func vectorRestore(_ *ceed.Call) (any, error) {
	return nil, nil
}

func vectorNorm(call *ceed.Call) (any, error) {
	_, impl, err := vectorData(call)
	if err != nil {
		return nil, err
	}
	t, err := ceed.Arg[ceed.NormType](call, 0)
	if err != nil {
		return nil, err
	}

	var norm ceed.Scalar
	switch t {
	case ceed.Norm1:
		for _, x := range impl.array {
			norm += math.Abs(x)
		}
	case ceed.Norm2:
		for _, x := range impl.array {
			norm += x * x
		}
		norm = math.Sqrt(norm)
	case ceed.NormMax:
		for _, x := range impl.array {
			norm = max(norm, math.Abs(x))
		}
	default:
		return nil, fmt.Errorf("vector norm type %d: %w", t, ceed.ErrUnsupported)
	}
	return norm, nil
}

func vectorScale(call *ceed.Call) (any, error) {
	_, impl, err := vectorData(call)
	if err != nil {
		return nil, err
	}
	alpha, err := ceed.Arg[ceed.Scalar](call, 0)
	if err != nil {
		return nil, err
	}
	for i := range impl.array {
		impl.array[i] *= alpha
	}
	return nil, nil
}

func vectorAXPY(call *ceed.Call) (any, error) {
	v, impl, err := vectorData(call)
	if err != nil {
		return nil, err
	}
	alpha, err := ceed.Arg[ceed.Scalar](call, 0)
	if err != nil {
		return nil, err
	}
	x, err := ceed.Arg[*ceed.Vector](call, 1)
	if err != nil {
		return nil, err
	}

	xs, err := x.GetArrayRead(ceed.MemHost)
	if err != nil {
		return nil, err
	}
	if impl.array == nil {
		impl.array = make([]ceed.Scalar, v.Length())
	}
	for i, xi := range xs {
		impl.array[i] += alpha * xi
	}
	return nil, x.RestoreArrayRead(&xs)
}

func vectorDestroy(call *ceed.Call) (any, error) {
	_, impl, err := vectorData(call)
	if err != nil {
		return nil, err
	}
	impl.array = nil
	return nil, nil
}
