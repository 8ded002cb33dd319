package memcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ceed/internal/backend/ref"
	"github.com/born-ml/ceed/internal/ceed"
)

func newCeed(t *testing.T) *ceed.Ceed {
	t.Helper()
	r := ceed.NewRegistry()
	require.NoError(t, ref.Register(r))
	require.NoError(t, Register(r))
	c, err := r.Init("/cpu/self/memcheck")
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Destroy()) })
	return c
}

func setup(t *testing.T, c *ceed.Ceed, user ceed.QFunctionUser) (*ceed.QFunction, *ceed.Vector, *ceed.Vector) {
	t.Helper()
	qf, err := c.QFunctionCreateInterior(1, user, "test")
	require.NoError(t, err)
	require.NoError(t, qf.AddInput("u", 1, ceed.EvalInterp))
	require.NoError(t, qf.AddOutput("v", 2, ceed.EvalInterp))

	u, err := c.VectorCreate(3)
	require.NoError(t, err)
	require.NoError(t, u.SetValue(1))
	v, err := c.VectorCreate(6)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, v.Destroy())
		assert.NoError(t, u.Destroy())
		assert.NoError(t, qf.Destroy())
	})
	return qf, u, v
}

func TestInit(t *testing.T) {
	c := newCeed(t)
	assert.Equal(t, Prefix, c.Backend())
	assert.True(t, c.IsDeterministic())
	assert.Equal(t, ref.Prefix, c.Delegate().Backend())

	p, err := c.Provider(ceed.ClassQFunction, "Apply")
	require.NoError(t, err)
	assert.Same(t, c, p)
}

// TestMemcheckNotSelectedByRoot verifies the low priority keeps memcheck out of
// plain /cpu/self requests.
func TestMemcheckNotSelectedByRoot(t *testing.T) {
	r := ceed.NewRegistry()
	require.NoError(t, ref.Register(r))
	require.NoError(t, Register(r))

	e, err := r.Resolve("/cpu/self")
	require.NoError(t, err)
	assert.Equal(t, ref.Prefix, e.Prefix)

	_, err = r.Init("/cpu/self/memcheck/parallel")
	require.ErrorIs(t, err, ceed.ErrInvalidResource)
}

func TestDetectsUnwrittenOutput(t *testing.T) {
	c := newCeed(t)
	qf, u, v := setup(t, c, func(_ any, q int, in, out [][]ceed.Scalar) error {
		// Writes only the first of two output components.
		for i := range q {
			out[0][i] = in[0][i]
		}
		return nil
	})

	err := qf.Apply(3, []*ceed.Vector{u}, []*ceed.Vector{v})
	require.ErrorIs(t, err, ErrUnwrittenOutput)
	assert.Contains(t, err.Error(), `output "v" entry 3`)

	// Views are all returned.
	require.NoError(t, v.SetValue(0))
}

func TestPassesWrittenOutput(t *testing.T) {
	c := newCeed(t)
	qf, u, v := setup(t, c, func(_ any, q int, in, out [][]ceed.Scalar) error {
		for i := range q {
			out[0][i] = in[0][i]
			out[0][q+i] = 2 * in[0][i]
		}
		return nil
	})

	require.NoError(t, qf.Apply(3, []*ceed.Vector{u}, []*ceed.Vector{v}))
	arr, err := v.TakeArray(ceed.MemHost)
	require.NoError(t, err)
	assert.Equal(t, []ceed.Scalar{1, 1, 1, 2, 2, 2}, arr)
}
