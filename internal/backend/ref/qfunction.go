package ref

import (
	"errors"
	"fmt"

	"github.com/born-ml/ceed/internal/ceed"
)

// qfunction is the backend data of a reference QFunction. The view slices are
// sized once to FieldMax and reused by every Apply.
type qfunction struct {
	inputs  [][]ceed.Scalar
	outputs [][]ceed.Scalar
}

func qfunctionCreate(call *ceed.Call) (any, error) {
	qf, err := ceed.ObjectAs[*ceed.QFunction](call)
	if err != nil {
		return nil, err
	}
	qf.SetData(&qfunction{
		inputs:  make([][]ceed.Scalar, ceed.FieldMax),
		outputs: make([][]ceed.Scalar, ceed.FieldMax),
	})
	return nil, nil
}

func qfunctionDestroy(call *ceed.Call) (any, error) {
	qf, err := ceed.ObjectAs[*ceed.QFunction](call)
	if err != nil {
		return nil, err
	}
	impl, err := ceed.Data[*qfunction](qf)
	if err != nil {
		return nil, err
	}
	impl.inputs, impl.outputs = nil, nil
	return nil, nil
}

// qfunctionApply borrows the context data, a read view of every input and a
// write view of every output, runs the user function, and returns every view it
// took on all exit paths: inputs first, then outputs, then the context data.
func qfunctionApply(call *ceed.Call) (_ any, err error) {
	qf, err := ceed.ObjectAs[*ceed.QFunction](call)
	if err != nil {
		return nil, err
	}
	impl, err := ceed.Data[*qfunction](qf)
	if err != nil {
		return nil, err
	}
	q, err := ceed.Arg[int](call, 0)
	if err != nil {
		return nil, err
	}
	u, err := ceed.Arg[[]*ceed.Vector](call, 1)
	if err != nil {
		return nil, err
	}
	v, err := ceed.Arg[[]*ceed.Vector](call, 2)
	if err != nil {
		return nil, err
	}
	numIn, numOut := qf.NumArgs()

	ctxData, err := qf.ContextData()
	if err != nil {
		return nil, err
	}

	var restores []func() error
	defer func() {
		for _, restore := range restores {
			err = errors.Join(err, restore())
		}
		err = errors.Join(err, qf.RestoreContextData())
	}()

	for i := range numIn {
		arr, err := u[i].GetArrayRead(ceed.MemHost)
		if err != nil {
			return nil, fmt.Errorf("qfunction input %q: %w", qf.Inputs()[i].Name, err)
		}
		impl.inputs[i] = arr
		restores = append(restores, func() error { return u[i].RestoreArrayRead(&impl.inputs[i]) })
	}
	for i := range numOut {
		arr, err := v[i].GetArrayWrite(ceed.MemHost)
		if err != nil {
			return nil, fmt.Errorf("qfunction output %q: %w", qf.Outputs()[i].Name, err)
		}
		impl.outputs[i] = arr
		restores = append(restores, func() error { return v[i].RestoreArray(&impl.outputs[i]) })
	}

	return nil, qf.UserFunction()(ctxData, q, impl.inputs[:numIn], impl.outputs[:numOut])
}
