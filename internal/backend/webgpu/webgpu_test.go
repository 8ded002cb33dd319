package webgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ceed/internal/backend/ref"
	"github.com/born-ml/ceed/internal/ceed"
)

type fakeDevice struct {
	id       int
	released *int
}

func (d *fakeDevice) Name() string { return "fake" }
func (d *fakeDevice) Release()     { *d.released++ }

// withFakeDevice swaps the device opener for the duration of the test and
// returns the number of devices released so far.
func withFakeDevice(t *testing.T) *int {
	t.Helper()
	released := new(int)
	old := openDevice
	openDevice = func(id int) (Device, error) {
		return &fakeDevice{id: id, released: released}, nil
	}
	t.Cleanup(func() { openDevice = old })
	return released
}

func newRegistry(t *testing.T) *ceed.Registry {
	t.Helper()
	r := ceed.NewRegistry()
	require.NoError(t, ref.Register(r))
	require.NoError(t, RegisterWith(r))
	return r
}

func TestRegisterSkipsWithoutDevice(t *testing.T) {
	old := openDevice
	openDevice = func(int) (Device, error) { return nil, ErrUnavailable }
	t.Cleanup(func() { openDevice = old })

	r := ceed.NewRegistry()
	require.NoError(t, Register(r))
	assert.Empty(t, r.Entries())
	assert.False(t, IsAvailable())
}

func TestRegisterWithDevice(t *testing.T) {
	withFakeDevice(t)

	r := ceed.NewRegistry()
	require.NoError(t, Register(r))
	require.Len(t, r.Entries(), 2)
	assert.Equal(t, PrefixRef, r.Entries()[0].Prefix)
	assert.Equal(t, PrefixShared, r.Entries()[1].Prefix)
}

func TestRefDelegatesToCPU(t *testing.T) {
	released := withFakeDevice(t)
	r := newRegistry(t)

	c, err := r.Init(PrefixRef)
	require.NoError(t, err)
	assert.Equal(t, PrefixRef, c.Backend())
	assert.True(t, c.IsDeterministic())
	require.NotNil(t, c.Delegate())
	assert.Equal(t, ref.Prefix, c.Delegate().Backend())

	p, err := c.Provider(ceed.ClassCeed, "VectorCreate")
	require.NoError(t, err)
	assert.Same(t, c.Delegate(), p)

	v, err := c.VectorCreate(4)
	require.NoError(t, err)
	require.NoError(t, v.SetValue(2))
	norm, err := v.Norm(ceed.NormMax)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, norm, 1e-15)
	require.NoError(t, v.Destroy())

	require.NoError(t, c.Destroy())
	assert.Equal(t, 1, *released)
}

func TestSharedComposesRef(t *testing.T) {
	released := withFakeDevice(t)
	r := newRegistry(t)

	c, err := r.Init("/gpu/webgpu")
	require.NoError(t, err)
	assert.Equal(t, PrefixShared, c.Backend())

	inner := c.Delegate()
	require.NotNil(t, inner)
	assert.Equal(t, PrefixRef, inner.Backend())
	require.NotNil(t, inner.Delegate())
	assert.Equal(t, ref.Prefix, inner.Delegate().Backend())

	v, err := c.VectorCreate(3)
	require.NoError(t, err)
	require.NoError(t, v.Destroy())

	require.NoError(t, c.Destroy())
	assert.True(t, inner.IsDestroyed())
	assert.Equal(t, 2, *released)
}

func TestDeviceIDOption(t *testing.T) {
	withFakeDevice(t)
	r := newRegistry(t)

	c, err := r.Init(PrefixShared + ":device_id=1")
	require.NoError(t, err)
	defer c.Destroy()

	b, ok := c.Data().(*Backend)
	require.True(t, ok)
	assert.Equal(t, 1, b.DeviceID)

	inner, ok := c.Delegate().Data().(*Backend)
	require.True(t, ok)
	assert.Equal(t, 1, inner.DeviceID)
}

func TestRejectsBadResources(t *testing.T) {
	withFakeDevice(t)
	r := newRegistry(t)

	_, err := r.Init(PrefixShared + ":device_id=x")
	require.ErrorIs(t, err, ceed.ErrInvalidResource)

	_, err = r.Init("/gpu/webgpu/gen")
	require.ErrorIs(t, err, ceed.ErrInvalidResource)
}

func TestOpenFailureReleasesOuterDevice(t *testing.T) {
	released := withFakeDevice(t)
	r := newRegistry(t)

	calls := 0
	openDevice = func(id int) (Device, error) {
		calls++
		if calls == 2 {
			return nil, ErrUnavailable
		}
		return &fakeDevice{id: id, released: released}, nil
	}

	_, err := r.Init(PrefixShared)
	require.ErrorIs(t, err, ErrUnavailable)
	// The outer device was opened and must be released by the failed init.
	assert.Equal(t, 1, *released)
}
