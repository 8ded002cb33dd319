package cli

import (
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/ceed/internal/ceed"
)

// massUser computes v = u * w * detJ; the context holds detJ.
func massUser(ctx any, q int, in, out [][]ceed.Scalar) error {
	detJ, ok := ctx.(ceed.Scalar)
	if !ok {
		return fmt.Errorf("mass: context is %T, want scalar: %w", ctx, ceed.ErrUnsupported)
	}
	u, w, v := in[0], in[1], out[0]
	for i := range q {
		v[i] = u[i] * w[i] * detJ
	}
	return nil
}

// linearGauss3 returns the 1D linear basis tabulated at 3 Gauss points.
func linearGauss3() (interp, grad, qref, qweight []ceed.Scalar) {
	x := math.Sqrt(3.0 / 5.0)
	qref = []ceed.Scalar{-x, 0, x}
	qweight = []ceed.Scalar{5.0 / 9.0, 8.0 / 9.0, 5.0 / 9.0}
	for _, p := range qref {
		interp = append(interp, (1-p)/2, (1+p)/2)
		grad = append(grad, -0.5, 0.5)
	}
	return interp, grad, qref, qweight
}

// MassVolume applies the 1D mass operator of n linear elements on [0,1] to
// the constant one and returns the sum of the result, which is the domain
// length.
func MassVolume(c *ceed.Ceed, n int) (vol ceed.Scalar, err error) {
	const p, q = 2, 3
	var cleanup []func() error
	defer func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			err = errors.Join(err, cleanup[i]())
		}
	}()

	offsets := make([]int32, 0, n*p)
	for e := range n {
		offsets = append(offsets, int32(e), int32(e+1))
	}
	restr, err := c.ElemRestrictionCreate(n, p, 1, 1, n+1, offsets)
	if err != nil {
		return 0, err
	}
	cleanup = append(cleanup, restr.Destroy)

	interp, grad, qref, qweight := linearGauss3()
	basis, err := c.BasisCreateTensorH1(1, 1, p, q, interp, grad, qref, qweight)
	if err != nil {
		return 0, err
	}
	cleanup = append(cleanup, basis.Destroy)

	ctx, err := c.QFunctionContextCreate()
	if err != nil {
		return 0, err
	}
	cleanup = append(cleanup, ctx.Destroy)
	if err := ctx.SetUserData(ceed.Scalar(0.5 / float64(n))); err != nil {
		return 0, err
	}

	qf, err := c.QFunctionCreateInterior(1, massUser, "mass")
	if err != nil {
		return 0, err
	}
	cleanup = append(cleanup, qf.Destroy)
	if err := qf.AddInput("u", 1, ceed.EvalInterp); err != nil {
		return 0, err
	}
	if err := qf.AddInput("weights", 1, ceed.EvalWeight); err != nil {
		return 0, err
	}
	if err := qf.AddOutput("v", 1, ceed.EvalInterp); err != nil {
		return 0, err
	}
	qf.SetContext(ctx)

	vectors := make(map[string]*ceed.Vector)
	for name, size := range map[string]int{
		"u": n + 1, "v": n + 1, "ue": n * p, "ve": n * p, "uq": n * q, "wq": n * q, "vq": n * q,
	} {
		vec, err := c.VectorCreate(size)
		if err != nil {
			return 0, err
		}
		cleanup = append(cleanup, vec.Destroy)
		vectors[name] = vec
	}
	if err := vectors["u"].SetValue(1); err != nil {
		return 0, err
	}
	if err := vectors["v"].SetValue(0); err != nil {
		return 0, err
	}

	steps := []func() error{
		func() error { return restr.Apply(ceed.NoTranspose, vectors["u"], vectors["ue"]) },
		func() error { return basis.Apply(n, ceed.NoTranspose, ceed.EvalInterp, vectors["ue"], vectors["uq"]) },
		func() error { return basis.Apply(n, ceed.NoTranspose, ceed.EvalWeight, nil, vectors["wq"]) },
		func() error {
			return qf.Apply(n*q, []*ceed.Vector{vectors["uq"], vectors["wq"]}, []*ceed.Vector{vectors["vq"]})
		},
		func() error { return basis.Apply(n, ceed.Transpose, ceed.EvalInterp, vectors["vq"], vectors["ve"]) },
		func() error { return restr.Apply(ceed.Transpose, vectors["ve"], vectors["v"]) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return 0, err
		}
	}
	return vectors["v"].Norm(ceed.Norm1)
}

func (a *App) run(resource string, n int) (err error) {
	c, err := a.registry.Init(resource)
	if err != nil {
		return err
	}
	defer func() {
		if derr := c.Destroy(); err == nil {
			err = derr
		}
	}()

	a.logger.Info("Running mass problem.", "ceed_id", c.ID(), "backend", c.Backend(), "elements", n)
	vol, err := MassVolume(c, n)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "backend: %s\nelements: %d\nvolume: %.12f\nerror: %.3e\n", c.Backend(), n, vol, math.Abs(vol-1))
	return nil
}
