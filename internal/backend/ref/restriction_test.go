package ref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ceed/internal/ceed"
)

func TestRestrictionOffsets(t *testing.T) {
	c := newCeed(t)
	const numElem = 3

	r, err := c.ElemRestrictionCreate(numElem, 2, 1, 1, numElem+1, []int32{0, 1, 1, 2, 2, 3})
	require.NoError(t, err)
	defer r.Destroy()

	x := newVector(t, c, []ceed.Scalar{10, 11, 12, 13})
	y, err := c.VectorCreate(2 * numElem)
	require.NoError(t, err)
	defer y.Destroy()

	require.NoError(t, r.Apply(ceed.NoTranspose, x, y))
	got := values(t, y)
	for i, v := range got {
		assert.Equal(t, ceed.Scalar(10+(i+1)/2), v, "entry %d", i)
	}

	// Transpose sums shared nodes.
	e := newVector(t, c, []ceed.Scalar{1, 1, 1, 1, 1, 1})
	l := newVector(t, c, []ceed.Scalar{0, 0, 0, 0})
	require.NoError(t, r.Apply(ceed.Transpose, e, l))
	assert.Equal(t, []ceed.Scalar{1, 2, 2, 1}, values(t, l))

	// and accumulates into existing values.
	require.NoError(t, r.Apply(ceed.Transpose, e, l))
	assert.Equal(t, []ceed.Scalar{2, 4, 4, 2}, values(t, l))
}

func TestRestrictionStrided(t *testing.T) {
	c := newCeed(t)
	const numElem = 3

	r, err := c.ElemRestrictionCreateStrided(numElem, 2, 1, numElem*2, [3]int{1, 2, 2})
	require.NoError(t, err)
	defer r.Destroy()
	assert.True(t, r.IsStrided())
	assert.Equal(t, [3]int{1, 2, 2}, r.Strides())

	vals := make([]ceed.Scalar, numElem*2)
	for i := range vals {
		vals[i] = ceed.Scalar(10 + i)
	}
	x := newVector(t, c, vals)
	y, err := c.VectorCreate(numElem * 2)
	require.NoError(t, err)
	defer y.Destroy()

	require.NoError(t, r.Apply(ceed.NoTranspose, x, y))
	assert.Equal(t, vals, values(t, y))
}

func TestRestrictionComponents(t *testing.T) {
	c := newCeed(t)

	// Two elements of two nodes on three nodes, two components stored 3 apart.
	r, err := c.ElemRestrictionCreate(2, 2, 2, 3, 6, []int32{0, 1, 1, 2})
	require.NoError(t, err)
	defer r.Destroy()
	assert.Equal(t, 8, r.EVectorSize())

	x := newVector(t, c, []ceed.Scalar{1, 2, 3, 10, 20, 30})
	y, err := c.VectorCreate(8)
	require.NoError(t, err)
	defer y.Destroy()

	require.NoError(t, r.Apply(ceed.NoTranspose, x, y))
	// E-vector layout: [element][component][node].
	assert.Equal(t, []ceed.Scalar{1, 2, 10, 20, 2, 3, 20, 30}, values(t, y))

	l := newVector(t, c, make([]ceed.Scalar, 6))
	require.NoError(t, r.Apply(ceed.Transpose, y, l))
	assert.Equal(t, []ceed.Scalar{1, 4, 3, 10, 40, 30}, values(t, l))
}
