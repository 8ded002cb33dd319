package ceed

import "fmt"

// ElemRestriction maps between an L-vector of unique degrees of freedom and an
// E-vector laid out element by element, component by component.
type ElemRestriction struct {
	object
	numElem    int
	elemSize   int
	numComp    int
	compStride int
	lsize      int
	offsets    []int32
	strides    [3]int
	strided    bool
}

// ElemRestrictionCreate creates an offset based restriction. Node i of element
// e, component k maps to L-vector entry offsets[e*elemSize+i] + k*compStride.
func (c *Ceed) ElemRestrictionCreate(numElem, elemSize, numComp, compStride, lsize int, offsets []int32) (*ElemRestriction, error) {
	if numElem < 0 || elemSize < 1 || numComp < 1 || lsize < 0 {
		return nil, fmt.Errorf("elem restriction create: %w: elements %d, size %d, components %d", ErrDimension, numElem, elemSize, numComp)
	}
	if numComp > 1 && compStride < 1 {
		return nil, fmt.Errorf("elem restriction create: %w: component stride %d", ErrDimension, compStride)
	}
	if len(offsets) != numElem*elemSize {
		return nil, fmt.Errorf("elem restriction create: %d offsets for %d elements of size %d: %w", len(offsets), numElem, elemSize, ErrDimension)
	}
	for i, o := range offsets {
		if o < 0 || int(o)+(numComp-1)*compStride >= lsize {
			return nil, fmt.Errorf("elem restriction create: offset %d at %d outside L-vector of size %d: %w", o, i, lsize, ErrDimension)
		}
	}

	r := &ElemRestriction{
		numElem:    numElem,
		elemSize:   elemSize,
		numComp:    numComp,
		compStride: compStride,
		lsize:      lsize,
		offsets:    append([]int32(nil), offsets...),
	}
	if err := r.create(c); err != nil {
		return nil, err
	}
	return r, nil
}

// ElemRestrictionCreateStrided creates a restriction where node i of element e,
// component k maps to i*strides[0] + k*strides[1] + e*strides[2].
func (c *Ceed) ElemRestrictionCreateStrided(numElem, elemSize, numComp, lsize int, strides [3]int) (*ElemRestriction, error) {
	if numElem < 0 || elemSize < 1 || numComp < 1 || lsize < 0 {
		return nil, fmt.Errorf("elem restriction create strided: %w: elements %d, size %d, components %d", ErrDimension, numElem, elemSize, numComp)
	}
	if numElem > 0 {
		lo, hi := 0, 0
		for axis, n := range [3]int{elemSize, numComp, numElem} {
			span := (n - 1) * strides[axis]
			lo += min(span, 0)
			hi += max(span, 0)
		}
		if lo < 0 || hi >= lsize {
			return nil, fmt.Errorf("elem restriction create strided: indices [%d, %d] outside L-vector of size %d: %w", lo, hi, lsize, ErrDimension)
		}
	}

	r := &ElemRestriction{
		numElem:  numElem,
		elemSize: elemSize,
		numComp:  numComp,
		lsize:    lsize,
		strides:  strides,
		strided:  true,
	}
	if err := r.create(c); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ElemRestriction) create(c *Ceed) error {
	if c.destroyed.Load() {
		return ErrDestroyed
	}
	r.object = newObject(c, ClassElemRestriction)
	return create(c, &r.object, r, "ElemRestrictionCreate")
}

// NumElements returns the number of elements.
func (r *ElemRestriction) NumElements() int { return r.numElem }

// ElementSize returns the number of nodes per element.
func (r *ElemRestriction) ElementSize() int { return r.elemSize }

// NumComponents returns the number of field components.
func (r *ElemRestriction) NumComponents() int { return r.numComp }

// CompStride returns the L-vector distance between components.
func (r *ElemRestriction) CompStride() int { return r.compStride }

// LVectorSize returns the L-vector length.
func (r *ElemRestriction) LVectorSize() int { return r.lsize }

// EVectorSize returns the E-vector length.
func (r *ElemRestriction) EVectorSize() int { return r.numElem * r.elemSize * r.numComp }

// IsStrided reports whether the restriction uses strides instead of offsets.
func (r *ElemRestriction) IsStrided() bool { return r.strided }

// Strides returns the node, component and element strides.
func (r *ElemRestriction) Strides() [3]int { return r.strides }

// Offsets returns the offsets array. Callers must not modify it.
func (r *ElemRestriction) Offsets() []int32 { return r.offsets }

// Apply gathers the L-vector u into the E-vector ru. With Transpose, u is an
// E-vector whose entries are summed into the L-vector ru.
func (r *ElemRestriction) Apply(tmode TransposeMode, u, ru *Vector) error {
	in, out := r.lsize, r.EVectorSize()
	if tmode == Transpose {
		in, out = out, in
	}
	if u.Length() != in || ru.Length() != out {
		return fmt.Errorf("elem restriction apply: vectors of length %d and %d, want %d and %d: %w",
			u.Length(), ru.Length(), in, out, ErrDimension)
	}
	_, err := r.dispatch(r, "Apply", tmode, u, ru)
	return err
}

// Destroy releases the restriction.
func (r *ElemRestriction) Destroy() error {
	if r == nil {
		return nil
	}
	return r.destroy(r)
}
