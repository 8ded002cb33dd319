package ceed

import "fmt"

// Vector is a distributed array of Scalar values owned by a backend.
//
// The core tracks array views: any number of read views, or a single
// read-write view. Every view must be restored before a conflicting one is taken.
type Vector struct {
	object
	length     int
	state      uint64
	numReaders int
	writing    bool
}

// VectorCreate creates a vector of length n.
func (c *Ceed) VectorCreate(n int) (*Vector, error) {
	if n < 0 {
		return nil, fmt.Errorf("vector create: negative length %d: %w", n, ErrDimension)
	}
	if c.destroyed.Load() {
		return nil, ErrDestroyed
	}
	v := &Vector{object: newObject(c, ClassVector), length: n}
	if err := create(c, &v.object, v, "VectorCreate", n); err != nil {
		return nil, err
	}
	return v, nil
}

// Length returns the number of entries.
func (v *Vector) Length() int { return v.length }

// State is incremented on every modification.
func (v *Vector) State() uint64 { return v.state }

func (v *Vector) checkIdle(op string) error {
	if v.writing || v.numReaders > 0 {
		return fmt.Errorf("vector %s: %w: %d read views, write view held %v", op, ErrAccess, v.numReaders, v.writing)
	}
	return nil
}

// SetArray hands data to the backend according to mode.
func (v *Vector) SetArray(mem MemType, mode CopyMode, data []Scalar) error {
	if err := v.checkIdle("set array"); err != nil {
		return err
	}
	if data != nil && len(data) != v.length {
		return fmt.Errorf("vector set array: got %d values for length %d: %w", len(data), v.length, ErrDimension)
	}
	if _, err := v.dispatch(v, "SetArray", mem, mode, data); err != nil {
		return err
	}
	v.state++
	return nil
}

// SetValue sets every entry to x.
func (v *Vector) SetValue(x Scalar) error {
	if err := v.checkIdle("set value"); err != nil {
		return err
	}
	if _, err := v.dispatch(v, "SetValue", x); err != nil {
		return err
	}
	v.state++
	return nil
}

// TakeArray returns the backend array and releases the vector's hold on it.
func (v *Vector) TakeArray(mem MemType) ([]Scalar, error) {
	if err := v.checkIdle("take array"); err != nil {
		return nil, err
	}
	arr, err := result[[]Scalar](v.dispatch(v, "TakeArray", mem))
	if err != nil {
		return nil, err
	}
	v.state++
	return arr, nil
}

// GetArray returns a read-write view. Restore it with RestoreArray.
func (v *Vector) GetArray(mem MemType) ([]Scalar, error) {
	return v.getWrite("GetArray", mem)
}

// GetArrayWrite returns a write-only view whose prior contents are undefined.
// Restore it with RestoreArray.
func (v *Vector) GetArrayWrite(mem MemType) ([]Scalar, error) {
	return v.getWrite("GetArrayWrite", mem)
}

func (v *Vector) getWrite(method string, mem MemType) ([]Scalar, error) {
	if err := v.checkIdle("get array"); err != nil {
		return nil, err
	}
	arr, err := result[[]Scalar](v.dispatch(v, method, mem))
	if err != nil {
		return nil, err
	}
	v.writing = true
	return arr, nil
}

// GetArrayRead returns a read-only view. Restore it with RestoreArrayRead.
func (v *Vector) GetArrayRead(mem MemType) ([]Scalar, error) {
	if v.writing {
		return nil, fmt.Errorf("vector get array read: %w: write view held", ErrAccess)
	}
	arr, err := result[[]Scalar](v.dispatch(v, "GetArrayRead", mem))
	if err != nil {
		return nil, err
	}
	v.numReaders++
	return arr, nil
}

// RestoreArray returns a view taken by GetArray or GetArrayWrite and clears *arr.
func (v *Vector) RestoreArray(arr *[]Scalar) error {
	if !v.writing {
		return fmt.Errorf("vector restore array: %w: no write view held", ErrAccess)
	}
	if _, err := v.dispatch(v, "RestoreArray", arr); err != nil {
		return err
	}
	v.writing = false
	v.state++
	*arr = nil
	return nil
}

// RestoreArrayRead returns a view taken by GetArrayRead and clears *arr.
func (v *Vector) RestoreArrayRead(arr *[]Scalar) error {
	if v.numReaders == 0 {
		return fmt.Errorf("vector restore array read: %w: no read view held", ErrAccess)
	}
	if _, err := v.dispatch(v, "RestoreArrayRead", arr); err != nil {
		return err
	}
	v.numReaders--
	*arr = nil
	return nil
}

// Norm computes the requested norm.
func (v *Vector) Norm(t NormType) (Scalar, error) {
	if v.writing {
		return 0, fmt.Errorf("vector norm: %w: write view held", ErrAccess)
	}
	return result[Scalar](v.dispatch(v, "Norm", t))
}

// Scale multiplies every entry by alpha.
func (v *Vector) Scale(alpha Scalar) error {
	if err := v.checkIdle("scale"); err != nil {
		return err
	}
	if _, err := v.dispatch(v, "Scale", alpha); err != nil {
		return err
	}
	v.state++
	return nil
}

// AXPY computes v = alpha*x + v.
func (v *Vector) AXPY(alpha Scalar, x *Vector) error {
	if x.length != v.length {
		return fmt.Errorf("vector axpy: lengths %d and %d: %w", v.length, x.length, ErrDimension)
	}
	if err := v.checkIdle("axpy"); err != nil {
		return err
	}
	if x.writing {
		return fmt.Errorf("vector axpy: %w: write view held on x", ErrAccess)
	}
	if _, err := v.dispatch(v, "AXPY", alpha, x); err != nil {
		return err
	}
	v.state++
	return nil
}

// Destroy releases the vector. Outstanding views are an error.
func (v *Vector) Destroy() error {
	if v == nil {
		return nil
	}
	if err := v.checkIdle("destroy"); err != nil {
		return err
	}
	return v.destroy(v)
}
