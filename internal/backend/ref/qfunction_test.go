package ref

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ceed/internal/ceed"
)

// viewCounts records vector views taken and returned through dispatch.
type viewCounts struct {
	reads, readRestores   int
	writes, writeRestores int
}

// countingRegistry registers a backend that delegates to the reference
// backend and counts vector views on the way through.
func countingRegistry(t *testing.T, counts *viewCounts) *ceed.Registry {
	t.Helper()
	r := ceed.NewRegistry()
	require.NoError(t, Register(r))

	counted := func(n *int) ceed.Func {
		return func(call *ceed.Call) (any, error) {
			*n++
			return call.Super()
		}
	}
	require.NoError(t, r.Register("/cpu/self/counting", func(_ string, c *ceed.Ceed) error {
		d, err := c.Init(Prefix)
		if err != nil {
			return err
		}
		if err := c.SetDelegate(d); err != nil {
			return err
		}
		if err := d.Destroy(); err != nil {
			return err
		}
		return c.SetBackendFunctions(ceed.ClassVector, map[string]ceed.Func{
			"GetArrayRead":     counted(&counts.reads),
			"RestoreArrayRead": counted(&counts.readRestores),
			"GetArrayWrite":    counted(&counts.writes),
			"RestoreArray":     counted(&counts.writeRestores),
		})
	}, 1))
	return r
}

func TestQFunctionApplyReturnsEveryView(t *testing.T) {
	errKernel := errors.New("kernel failed")

	for _, tt := range []struct {
		name    string
		failing bool
	}{
		{"success", false},
		{"kernel error", true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			var counts viewCounts
			c, err := countingRegistry(t, &counts).Init("/cpu/self/counting")
			require.NoError(t, err)
			defer c.Destroy()

			var gotCtx any
			qf, err := c.QFunctionCreateInterior(1, func(ctx any, q int, in, out [][]ceed.Scalar) error {
				gotCtx = ctx
				if tt.failing {
					return errKernel
				}
				for i := range q {
					out[0][i] = in[0][i] * in[1][i]
				}
				return nil
			}, "product")
			require.NoError(t, err)
			defer qf.Destroy()
			require.NoError(t, qf.AddInput("a", 1, ceed.EvalInterp))
			require.NoError(t, qf.AddInput("b", 1, ceed.EvalInterp))
			require.NoError(t, qf.AddOutput("ab", 1, ceed.EvalInterp))

			qctx, err := c.QFunctionContextCreate()
			require.NoError(t, err)
			defer qctx.Destroy()
			require.NoError(t, qctx.SetUserData("user data"))
			qf.SetContext(qctx)

			a := newVector(t, c, []ceed.Scalar{1, 2, 3})
			b := newVector(t, c, []ceed.Scalar{4, 5, 6})
			out, err := c.VectorCreate(3)
			require.NoError(t, err)
			defer out.Destroy()

			counts = viewCounts{}
			err = qf.Apply(3, []*ceed.Vector{a, b}, []*ceed.Vector{out})
			if tt.failing {
				require.ErrorIs(t, err, errKernel)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, viewCounts{reads: 2, readRestores: 2, writes: 1, writeRestores: 1}, counts)
			assert.Equal(t, "user data", gotCtx)
			assert.Equal(t, 0, qctx.Borrowed())

			if !tt.failing {
				assert.Equal(t, []ceed.Scalar{4, 10, 18}, values(t, out))
			}
			// Every view is back: exclusive access works again.
			require.NoError(t, a.SetValue(0))
			require.NoError(t, out.SetValue(0))
		})
	}
}

// TestQFunctionApplyPartialViews verifies views already taken are returned
// when a later one cannot be.
func TestQFunctionApplyPartialViews(t *testing.T) {
	var counts viewCounts
	c, err := countingRegistry(t, &counts).Init("/cpu/self/counting")
	require.NoError(t, err)
	defer c.Destroy()

	called := false
	qf, err := c.QFunctionCreateInterior(1, func(any, int, [][]ceed.Scalar, [][]ceed.Scalar) error {
		called = true
		return nil
	}, "never")
	require.NoError(t, err)
	defer qf.Destroy()
	require.NoError(t, qf.AddInput("a", 1, ceed.EvalInterp))
	require.NoError(t, qf.AddInput("b", 1, ceed.EvalInterp))

	a := newVector(t, c, []ceed.Scalar{1, 2})
	empty, err := c.VectorCreate(2)
	require.NoError(t, err)
	defer empty.Destroy()

	err = qf.Apply(2, []*ceed.Vector{a, empty}, nil)
	require.ErrorIs(t, err, ceed.ErrAccess)
	assert.Contains(t, err.Error(), `input "b"`)
	assert.False(t, called)
	assert.Equal(t, 2, counts.reads)
	assert.Equal(t, 1, counts.readRestores)
	require.NoError(t, a.SetValue(3))
}
