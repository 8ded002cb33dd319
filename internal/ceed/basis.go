package ceed

import "fmt"

// Basis evaluates a tensor product H1 finite element basis at quadrature points.
//
// E-vector layouts per element: nodal values [comp][node], interpolated values
// [comp][qpt], gradients [dim][comp][qpt], weights [qpt].
type Basis struct {
	object
	dim       int
	numComp   int
	p1d       int
	q1d       int
	interp1d  []Scalar
	grad1d    []Scalar
	qref1d    []Scalar
	qweight1d []Scalar
}

// BasisCreateTensorH1 creates a tensor product basis from one-dimensional
// Q1d x P1d interpolation and gradient matrices (row major) and quadrature data.
func (c *Ceed) BasisCreateTensorH1(dim, numComp, p1d, q1d int, interp1d, grad1d, qref1d, qweight1d []Scalar) (*Basis, error) {
	if dim < 1 || numComp < 1 || p1d < 1 || q1d < 1 {
		return nil, fmt.Errorf("basis create: %w: dim %d, components %d, P %d, Q %d", ErrDimension, dim, numComp, p1d, q1d)
	}
	if len(interp1d) != q1d*p1d || len(grad1d) != q1d*p1d {
		return nil, fmt.Errorf("basis create: interp/grad need %d entries, got %d/%d: %w", q1d*p1d, len(interp1d), len(grad1d), ErrDimension)
	}
	if len(qref1d) != q1d || len(qweight1d) != q1d {
		return nil, fmt.Errorf("basis create: quadrature needs %d points, got %d/%d: %w", q1d, len(qref1d), len(qweight1d), ErrDimension)
	}
	if c.destroyed.Load() {
		return nil, ErrDestroyed
	}

	b := &Basis{
		object:    newObject(c, ClassBasis),
		dim:       dim,
		numComp:   numComp,
		p1d:       p1d,
		q1d:       q1d,
		interp1d:  append([]Scalar(nil), interp1d...),
		grad1d:    append([]Scalar(nil), grad1d...),
		qref1d:    append([]Scalar(nil), qref1d...),
		qweight1d: append([]Scalar(nil), qweight1d...),
	}
	if err := create(c, &b.object, b, "BasisCreateTensorH1"); err != nil {
		return nil, err
	}
	return b, nil
}

// Dimension returns the spatial dimension.
func (b *Basis) Dimension() int { return b.dim }

// NumComponents returns the number of field components.
func (b *Basis) NumComponents() int { return b.numComp }

// NumNodes1D returns P1d.
func (b *Basis) NumNodes1D() int { return b.p1d }

// NumQuadraturePoints1D returns Q1d.
func (b *Basis) NumQuadraturePoints1D() int { return b.q1d }

// NumNodes returns P1d^dim.
func (b *Basis) NumNodes() int { return ipow(b.p1d, b.dim) }

// NumQuadraturePoints returns Q1d^dim.
func (b *Basis) NumQuadraturePoints() int { return ipow(b.q1d, b.dim) }

// Interp1D returns the Q1d x P1d interpolation matrix. Callers must not modify it.
func (b *Basis) Interp1D() []Scalar { return b.interp1d }

// Grad1D returns the Q1d x P1d derivative matrix. Callers must not modify it.
func (b *Basis) Grad1D() []Scalar { return b.grad1d }

// QRef1D returns the reference quadrature points.
func (b *Basis) QRef1D() []Scalar { return b.qref1d }

// QWeight1D returns the quadrature weights.
func (b *Basis) QWeight1D() []Scalar { return b.qweight1d }

// Apply evaluates the basis for numElem elements. u is ignored for EvalWeight.
func (b *Basis) Apply(numElem int, tmode TransposeMode, emode EvalMode, u, v *Vector) error {
	nodes := numElem * b.numComp * b.NumNodes()
	var qpts int
	switch emode {
	case EvalInterp:
		qpts = numElem * b.numComp * b.NumQuadraturePoints()
	case EvalGrad:
		qpts = numElem * b.dim * b.numComp * b.NumQuadraturePoints()
	case EvalWeight:
		if tmode == Transpose {
			return fmt.Errorf("basis apply: weight in transpose mode: %w", ErrUnsupported)
		}
		if v.Length() != numElem*b.NumQuadraturePoints() {
			return fmt.Errorf("basis apply weight: vector length %d, want %d: %w", v.Length(), numElem*b.NumQuadraturePoints(), ErrDimension)
		}
		_, err := b.dispatch(b, "Apply", numElem, tmode, emode, u, v)
		return err
	default:
		return fmt.Errorf("basis apply: eval mode %s: %w", emode, ErrUnsupported)
	}

	in, out := nodes, qpts
	if tmode == Transpose {
		in, out = out, in
	}
	if u == nil || u.Length() != in || v.Length() != out {
		return fmt.Errorf("basis apply %s: want vectors of length %d and %d: %w", emode, in, out, ErrDimension)
	}
	_, err := b.dispatch(b, "Apply", numElem, tmode, emode, u, v)
	return err
}

// Destroy releases the basis.
func (b *Basis) Destroy() error {
	if b == nil {
		return nil
	}
	return b.destroy(b)
}

func ipow(base, exp int) int {
	out := 1
	for range exp {
		out *= base
	}
	return out
}
