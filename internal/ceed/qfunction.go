package ceed

import (
	"errors"
	"fmt"
)

// QFunctionUser is a pointwise kernel evaluated at q quadrature points. in and
// out hold one array per declared field, each q*size long.
type QFunctionUser func(ctx any, q int, in, out [][]Scalar) error

// QFunctionField describes one QFunction input or output.
type QFunctionField struct {
	Name     string
	Size     int
	EvalMode EvalMode
}

// QFunction wraps a user pointwise kernel and its field declarations.
type QFunction struct {
	object
	vlength int
	user    QFunctionUser
	source  string
	inputs  []QFunctionField
	outputs []QFunctionField
	ctx     *QFunctionContext
}

// QFunctionCreateInterior creates a QFunction evaluated at interior quadrature
// points. Apply requires the point count to be a multiple of vlength.
func (c *Ceed) QFunctionCreateInterior(vlength int, user QFunctionUser, source string) (*QFunction, error) {
	if vlength < 1 {
		return nil, fmt.Errorf("qfunction create: vector length %d: %w", vlength, ErrDimension)
	}
	if user == nil {
		return nil, errors.New("qfunction create: nil user function")
	}
	if c.destroyed.Load() {
		return nil, ErrDestroyed
	}

	qf := &QFunction{
		object:  newObject(c, ClassQFunction),
		vlength: vlength,
		user:    user,
		source:  source,
	}
	if err := create(c, &qf.object, qf, "QFunctionCreate"); err != nil {
		return nil, err
	}
	return qf, nil
}

// AddInput declares an input field.
func (qf *QFunction) AddInput(name string, size int, mode EvalMode) error {
	if len(qf.inputs) >= FieldMax {
		return fmt.Errorf("qfunction add input %q: more than %d inputs: %w", name, FieldMax, ErrDimension)
	}
	if mode == EvalWeight && size != 1 {
		return fmt.Errorf("qfunction add input %q: weight field of size %d: %w", name, size, ErrDimension)
	}
	if size < 1 {
		return fmt.Errorf("qfunction add input %q: size %d: %w", name, size, ErrDimension)
	}
	qf.inputs = append(qf.inputs, QFunctionField{Name: name, Size: size, EvalMode: mode})
	return nil
}

// AddOutput declares an output field.
func (qf *QFunction) AddOutput(name string, size int, mode EvalMode) error {
	if len(qf.outputs) >= FieldMax {
		return fmt.Errorf("qfunction add output %q: more than %d outputs: %w", name, FieldMax, ErrDimension)
	}
	if mode == EvalWeight {
		return fmt.Errorf("qfunction add output %q: weight output: %w", name, ErrUnsupported)
	}
	if size < 1 {
		return fmt.Errorf("qfunction add output %q: size %d: %w", name, size, ErrDimension)
	}
	qf.outputs = append(qf.outputs, QFunctionField{Name: name, Size: size, EvalMode: mode})
	return nil
}

// SetContext attaches user context data passed to every user function call.
func (qf *QFunction) SetContext(ctx *QFunctionContext) {
	qf.ctx = ctx
}

// Context returns the attached user context or nil.
func (qf *QFunction) Context() *QFunctionContext { return qf.ctx }

// NumArgs returns the number of inputs and outputs.
func (qf *QFunction) NumArgs() (int, int) { return len(qf.inputs), len(qf.outputs) }

// Inputs returns the input fields.
func (qf *QFunction) Inputs() []QFunctionField { return qf.inputs }

// Outputs returns the output fields.
func (qf *QFunction) Outputs() []QFunctionField { return qf.outputs }

// VectorLength returns the point count granularity.
func (qf *QFunction) VectorLength() int { return qf.vlength }

// Source returns the user function source locator.
func (qf *QFunction) Source() string { return qf.source }

// UserFunction returns the user kernel.
func (qf *QFunction) UserFunction() QFunctionUser { return qf.user }

// ContextData borrows the user context data; nil without a context.
// Pair every successful call with RestoreContextData.
func (qf *QFunction) ContextData() (any, error) {
	if qf.ctx == nil {
		return nil, nil
	}
	return qf.ctx.GetData()
}

// RestoreContextData returns data borrowed by ContextData.
func (qf *QFunction) RestoreContextData() error {
	if qf.ctx == nil {
		return nil
	}
	return qf.ctx.RestoreData()
}

// Apply evaluates the QFunction at q points reading u and writing v.
func (qf *QFunction) Apply(q int, u, v []*Vector) error {
	if q < 0 || q%qf.vlength != 0 {
		return fmt.Errorf("qfunction apply: %d points not a multiple of vector length %d: %w", q, qf.vlength, ErrDimension)
	}
	if len(u) != len(qf.inputs) || len(v) != len(qf.outputs) {
		return fmt.Errorf("qfunction apply: %d inputs and %d outputs, want %d and %d: %w",
			len(u), len(v), len(qf.inputs), len(qf.outputs), ErrDimension)
	}
	for i, f := range qf.inputs {
		if u[i].Length() < q*f.Size {
			return fmt.Errorf("qfunction apply: input %q has %d entries, want %d: %w", f.Name, u[i].Length(), q*f.Size, ErrDimension)
		}
	}
	for i, f := range qf.outputs {
		if v[i].Length() < q*f.Size {
			return fmt.Errorf("qfunction apply: output %q has %d entries, want %d: %w", f.Name, v[i].Length(), q*f.Size, ErrDimension)
		}
	}
	_, err := qf.dispatch(qf, "Apply", q, u, v)
	return err
}

// Destroy releases the QFunction. The user context is not destroyed.
func (qf *QFunction) Destroy() error {
	if qf == nil {
		return nil
	}
	return qf.destroy(qf)
}

// QFunctionContext holds user data for QFunction kernels and tracks borrows.
type QFunctionContext struct {
	object
	user     any
	borrowed int
}

// QFunctionContextCreate creates an empty user context.
func (c *Ceed) QFunctionContextCreate() (*QFunctionContext, error) {
	if c.destroyed.Load() {
		return nil, ErrDestroyed
	}
	return &QFunctionContext{object: newObject(c, ClassQFunctionContext)}, nil
}

// SetUserData replaces the user data.
func (qc *QFunctionContext) SetUserData(data any) error {
	if qc.borrowed > 0 {
		return fmt.Errorf("qfunction context set data: %w: %d borrows outstanding", ErrAccess, qc.borrowed)
	}
	qc.user = data
	return nil
}

// GetData borrows the user data.
func (qc *QFunctionContext) GetData() (any, error) {
	if qc.destroyed {
		return nil, ErrDestroyed
	}
	qc.borrowed++
	return qc.user, nil
}

// RestoreData returns a borrow taken by GetData.
func (qc *QFunctionContext) RestoreData() error {
	if qc.borrowed == 0 {
		return fmt.Errorf("qfunction context restore data: %w: nothing borrowed", ErrAccess)
	}
	qc.borrowed--
	return nil
}

// Borrowed returns the number of outstanding borrows.
func (qc *QFunctionContext) Borrowed() int { return qc.borrowed }

// Destroy releases the context.
func (qc *QFunctionContext) Destroy() error {
	if qc == nil {
		return nil
	}
	if qc.borrowed > 0 {
		return fmt.Errorf("qfunction context destroy: %w: %d borrows outstanding", ErrAccess, qc.borrowed)
	}
	return qc.destroy(qc)
}
