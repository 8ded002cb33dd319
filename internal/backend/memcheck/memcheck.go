// Package memcheck implements a debugging CPU backend that catches QFunction
// outputs left unwritten by user kernels.
package memcheck

import (
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/ceed/internal/backend/ref"
	"github.com/born-ml/ceed/internal/ceed"
)

// Registered prefix and priority.
const (
	Prefix   = "/cpu/self/memcheck/serial"
	Priority = 5
)

// ErrUnwrittenOutput is returned when a user kernel leaves output entries unset.
var ErrUnwrittenOutput = errors.New("qfunction output not written")

// Register adds the backend to r.
func Register(r *ceed.Registry) error {
	return r.Register(Prefix, Init, Priority)
}

// Init delegates everything to the reference backend except QFunction.Apply.
func Init(resource string, c *ceed.Ceed) error {
	if err := ceed.CheckResource("memcheck", resource, "/cpu/self/memcheck", Prefix); err != nil {
		return err
	}
	c.SetDeterministic(true)

	if err := c.InitDelegate(ref.Prefix); err != nil {
		return err
	}

	return c.SetBackendFunction(ceed.ClassQFunction, "Apply", qfunctionApply)
}

// qfunctionApply poisons the outputs with NaN, runs the delegate's Apply and
// reports any output entry still holding NaN.
func qfunctionApply(call *ceed.Call) (any, error) {
	qf, err := ceed.ObjectAs[*ceed.QFunction](call)
	if err != nil {
		return nil, err
	}
	q, err := ceed.Arg[int](call, 0)
	if err != nil {
		return nil, err
	}
	v, err := ceed.Arg[[]*ceed.Vector](call, 2)
	if err != nil {
		return nil, err
	}

	outputs := qf.Outputs()
	for i, f := range outputs {
		if err := poison(v[i], q*f.Size); err != nil {
			return nil, err
		}
	}

	res, err := call.Super()
	if err != nil {
		return res, err
	}

	for i, f := range outputs {
		if err := check(v[i], f.Name, q*f.Size); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func poison(v *ceed.Vector, n int) error {
	arr, err := v.GetArrayWrite(ceed.MemHost)
	if err != nil {
		return err
	}
	for i := range n {
		arr[i] = math.NaN()
	}
	return v.RestoreArray(&arr)
}

func check(v *ceed.Vector, name string, n int) (err error) {
	arr, err := v.GetArrayRead(ceed.MemHost)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, v.RestoreArrayRead(&arr)) }()

	for i := range n {
		if math.IsNaN(arr[i]) {
			return fmt.Errorf("memcheck: output %q entry %d: %w", name, i, ErrUnwrittenOutput)
		}
	}
	return nil
}
