package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ceed/internal/backend/avx"
	"github.com/born-ml/ceed/internal/backend/memcheck"
	"github.com/born-ml/ceed/internal/backend/opt"
	"github.com/born-ml/ceed/internal/backend/ref"
	"github.com/born-ml/ceed/internal/ceed"
)

func TestRegisterAll(t *testing.T) {
	r := ceed.NewRegistry()
	require.NoError(t, RegisterAll(r))

	prefixes := make(map[string]int)
	for _, e := range r.Entries() {
		prefixes[e.Prefix] = e.Priority
	}
	assert.Equal(t, ref.Priority, prefixes[ref.Prefix])
	assert.Equal(t, opt.PrioritySerial, prefixes[opt.PrefixSerial])
	assert.Equal(t, opt.PriorityBlocked, prefixes[opt.PrefixBlocked])
	assert.Equal(t, memcheck.Priority, prefixes[memcheck.Prefix])

	// Registering twice collides on the first family.
	err := RegisterAll(r)
	require.ErrorIs(t, err, ceed.ErrDuplicateRegistration)
	assert.Contains(t, err.Error(), "register ref backends")
}

func TestDefaultCPUResolution(t *testing.T) {
	r := ceed.NewRegistry()
	require.NoError(t, RegisterAll(r))

	want := opt.PrefixBlocked
	if avx.DetectFeatures().Supported() {
		want = avx.PrefixBlocked
	}
	e, err := r.Resolve("/cpu/self")
	require.NoError(t, err)
	assert.Equal(t, want, e.Prefix)

	c, err := r.Init("/cpu/self")
	require.NoError(t, err)
	defer c.Destroy()
	assert.Equal(t, want, c.Backend())
	assert.True(t, c.IsDeterministic())
}

func TestExplicitResources(t *testing.T) {
	r := ceed.NewRegistry()
	require.NoError(t, RegisterAll(r))

	tests := []struct {
		resource string
		backend  string
	}{
		{"/cpu/self/ref", ref.Prefix},
		{"/cpu/self/ref/serial", ref.Prefix},
		{"/cpu/self/opt", opt.PrefixBlocked},
		{"/cpu/self/opt/serial", opt.PrefixSerial},
		{"/cpu/self/memcheck", memcheck.Prefix},
	}
	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			c, err := r.Init(tt.resource)
			require.NoError(t, err)
			defer c.Destroy()
			assert.Equal(t, tt.backend, c.Backend())
		})
	}
}
