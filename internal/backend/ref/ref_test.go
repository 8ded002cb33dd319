package ref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ceed/internal/ceed"
)

// newCeed returns a reference Context destroyed at the end of the test.
func newCeed(t *testing.T) *ceed.Ceed {
	t.Helper()
	r := ceed.NewRegistry()
	require.NoError(t, Register(r))
	c, err := r.Init("/cpu/self/ref/serial")
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Destroy()) })
	return c
}

// newVector creates a vector holding vals.
func newVector(t *testing.T, c *ceed.Ceed, vals []ceed.Scalar) *ceed.Vector {
	t.Helper()
	v, err := c.VectorCreate(len(vals))
	require.NoError(t, err)
	require.NoError(t, v.SetArray(ceed.MemHost, ceed.CopyValues, vals))
	t.Cleanup(func() { assert.NoError(t, v.Destroy()) })
	return v
}

// values copies the contents of v.
func values(t *testing.T, v *ceed.Vector) []ceed.Scalar {
	t.Helper()
	arr, err := v.GetArrayRead(ceed.MemHost)
	require.NoError(t, err)
	out := append([]ceed.Scalar(nil), arr...)
	require.NoError(t, v.RestoreArrayRead(&arr))
	return out
}

func TestInit(t *testing.T) {
	r := ceed.NewRegistry()
	require.NoError(t, Register(r))

	for _, resource := range []string{"/cpu/self", "/cpu/self/ref", Prefix} {
		c, err := r.Init(resource)
		require.NoError(t, err, resource)
		assert.True(t, c.IsDeterministic())
		assert.Nil(t, c.Delegate())
		require.NoError(t, c.Destroy())
	}

	_, err := r.Init("/cpu/self/ref/blocked")
	require.ErrorIs(t, err, ceed.ErrInvalidResource)

	require.ErrorIs(t, Register(r), ceed.ErrDuplicateRegistration)
}

func TestMethods(t *testing.T) {
	c := newCeed(t)
	keys := make(map[ceed.Key]bool)
	for _, k := range c.Methods() {
		keys[k] = true
	}
	for _, k := range []ceed.Key{
		{Class: ceed.ClassCeed, Method: "VectorCreate"},
		{Class: ceed.ClassCeed, Method: "TensorContractCreate"},
		{Class: ceed.ClassVector, Method: "AXPY"},
		{Class: ceed.ClassElemRestriction, Method: "Apply"},
		{Class: ceed.ClassBasis, Method: "Apply"},
		{Class: ceed.ClassTensorContract, Method: "Apply"},
		{Class: ceed.ClassQFunction, Method: "Apply"},
	} {
		assert.True(t, keys[k], k.String())
	}
	assert.False(t, keys[ceed.Key{Class: ceed.ClassCeed, Method: ceed.MethodDestroy}])
}
