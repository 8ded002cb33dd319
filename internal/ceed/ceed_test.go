package ceed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainRegistry registers "/lib/base/x", which answers Name and Hello, and
// "/lib/top/x", which delegates to it and overrides Name.
func chainRegistry(t *testing.T, destroyed map[string]int) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register("/lib/base/x", func(_ string, c *Ceed) error {
		c.SetData("base data")
		return c.SetBackendFunctions(ClassCeed, map[string]Func{
			"Name":   func(call *Call) (any, error) { return "base", nil },
			"Hello":  func(call *Call) (any, error) { return "hello from " + call.Provider.Backend(), nil },
			"Origin": func(call *Call) (any, error) { return call.Ceed, nil },
			MethodDestroy: func(call *Call) (any, error) {
				destroyed[call.Ceed.Backend()]++
				return nil, nil
			},
		})
	}, 1))
	require.NoError(t, r.Register("/lib/top/x", func(_ string, c *Ceed) error {
		d, err := c.Init("/lib/base/x")
		if err != nil {
			return err
		}
		if err := c.SetDelegate(d); err != nil {
			return err
		}
		if err := d.Destroy(); err != nil {
			return err
		}
		return c.SetBackendFunction(ClassCeed, "Name", func(call *Call) (any, error) {
			inner, err := call.Super()
			if err != nil {
				return nil, err
			}
			return "top over " + inner.(string), nil
		})
	}, 1))
	require.NoError(t, r.Register("/lib/mid/x", func(_ string, c *Ceed) error {
		return c.InitDelegate("/lib/base/x")
	}, 1))
	require.NoError(t, r.Register("/lib/outer/x", func(_ string, c *Ceed) error {
		return c.InitDelegate("/lib/mid/x")
	}, 1))
	return r
}

func TestDispatchFallsBackToDelegate(t *testing.T) {
	destroyed := map[string]int{}
	c, err := chainRegistry(t, destroyed).Init("/lib/top/x")
	require.NoError(t, err)

	res, err := c.Dispatch(ClassCeed, "Hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello from /lib/base/x", res)

	p, err := c.Provider(ClassCeed, "Hello")
	require.NoError(t, err)
	assert.Same(t, c.Delegate(), p)

	p, err = c.Provider(ClassCeed, "Name")
	require.NoError(t, err)
	assert.Same(t, c, p)

	_, err = c.Dispatch(ClassCeed, "Missing", nil)
	var nie *NotImplementedError
	require.ErrorAs(t, err, &nie)
	assert.Equal(t, ClassCeed, nie.Class)
	assert.Equal(t, "Missing", nie.Method)
	require.ErrorIs(t, err, ErrNotImplemented)

	_, err = c.Provider(ClassVector, "Norm")
	require.ErrorIs(t, err, ErrNotImplemented)

	require.NoError(t, c.Destroy())
	assert.Equal(t, map[string]int{"/lib/base/x": 1}, destroyed)
}

func TestDispatchThroughTwoDelegates(t *testing.T) {
	destroyed := map[string]int{}
	outer, err := chainRegistry(t, destroyed).Init("/lib/outer/x")
	require.NoError(t, err)

	mid := outer.Delegate()
	require.NotNil(t, mid)
	base := mid.Delegate()
	require.NotNil(t, base)
	assert.Equal(t, "/lib/mid/x", mid.Backend())
	assert.Equal(t, "/lib/base/x", base.Backend())

	p, err := outer.Provider(ClassCeed, "Hello")
	require.NoError(t, err)
	assert.Same(t, base, p)

	res, err := outer.Dispatch(ClassCeed, "Hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello from /lib/base/x", res)

	res, err = outer.Dispatch(ClassCeed, "Origin", nil)
	require.NoError(t, err)
	assert.Same(t, outer, res)

	_, err = outer.Dispatch(ClassCeed, "Missing", nil)
	require.ErrorIs(t, err, ErrNotImplemented)

	require.NoError(t, outer.Destroy())
	assert.True(t, mid.IsDestroyed())
	assert.True(t, base.IsDestroyed())
	assert.Equal(t, map[string]int{"/lib/base/x": 1}, destroyed)
}

func TestInitDelegateReleasesUnattached(t *testing.T) {
	destroyed := map[string]int{}
	r := chainRegistry(t, destroyed)
	require.NoError(t, r.Register("/lib/twice/x", func(_ string, c *Ceed) error {
		if err := c.InitDelegate("/lib/base/x"); err != nil {
			return err
		}
		return c.InitDelegate("/lib/base/x")
	}, 1))

	_, err := r.Init("/lib/twice/x")
	require.ErrorIs(t, err, ErrAlreadyDelegated)
	assert.Equal(t, map[string]int{"/lib/base/x": 2}, destroyed)
}

func TestCallSuper(t *testing.T) {
	c, err := chainRegistry(t, map[string]int{}).Init("/lib/top/x")
	require.NoError(t, err)
	defer c.Destroy()

	res, err := c.Dispatch(ClassCeed, "Name", nil)
	require.NoError(t, err)
	assert.Equal(t, "top over base", res)

	// Super past the end of the chain.
	base := c.Delegate()
	require.NoError(t, base.Registry().Register("/lib/solo/x", func(_ string, s *Ceed) error {
		return s.SetBackendFunction(ClassCeed, "Name", func(call *Call) (any, error) {
			return call.Super()
		})
	}, 1))
	solo, err := base.Registry().Init("/lib/solo/x")
	require.NoError(t, err)
	defer solo.Destroy()
	_, err = solo.Dispatch(ClassCeed, "Name", nil)
	require.ErrorIs(t, err, ErrNotImplemented)
}

func TestDispatchPassesErrorsThrough(t *testing.T) {
	errBackend := errors.New("backend exploded")
	r := NewRegistry()
	require.NoError(t, r.Register("/lib/err/x", func(_ string, c *Ceed) error {
		return c.SetBackendFunction(ClassCeed, "Boom", func(*Call) (any, error) { return nil, errBackend })
	}, 1))
	c, err := r.Init("/lib/err/x")
	require.NoError(t, err)
	defer c.Destroy()

	_, err = c.Dispatch(ClassCeed, "Boom", nil)
	assert.Same(t, errBackend, err)
}

func TestMethods(t *testing.T) {
	c, err := chainRegistry(t, map[string]int{}).Init("/lib/top/x")
	require.NoError(t, err)
	defer c.Destroy()

	assert.Equal(t, []Key{
		{Class: ClassCeed, Method: MethodDestroy},
		{Class: ClassCeed, Method: "Hello"},
		{Class: ClassCeed, Method: "Name"},
		{Class: ClassCeed, Method: "Origin"},
	}, c.Methods())
	assert.Equal(t, "Ceed.Hello", Key{Class: ClassCeed, Method: "Hello"}.String())
}

func TestSetDelegateErrors(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("/lib/a/x", noopInit, 1))
	newCtx := func() *Ceed {
		c, err := r.Init("/lib/a/x")
		require.NoError(t, err)
		return c
	}
	a, b, d := newCtx(), newCtx(), newCtx()
	defer a.Destroy()
	defer b.Destroy()

	require.ErrorIs(t, a.SetDelegate(a), ErrDelegateCycle)
	require.NoError(t, a.SetDelegate(b))
	require.ErrorIs(t, a.SetDelegate(d), ErrAlreadyDelegated)
	require.ErrorIs(t, b.SetDelegate(a), ErrDelegateCycle)
	require.Error(t, d.SetDelegate(nil))

	require.NoError(t, d.Destroy())
	require.ErrorIs(t, b.SetDelegate(d), ErrDestroyed)
}

func TestReferenceCounting(t *testing.T) {
	destroyed := map[string]int{}
	c, err := chainRegistry(t, destroyed).Init("/lib/base/x")
	require.NoError(t, err)

	ref, err := c.Reference()
	require.NoError(t, err)
	assert.Same(t, c, ref)
	require.NoError(t, c.Destroy())
	assert.False(t, c.IsDestroyed())
	assert.Equal(t, "base data", c.Data())

	require.NoError(t, c.Destroy())
	assert.True(t, c.IsDestroyed())
	assert.Equal(t, 1, destroyed["/lib/base/x"])
	assert.Nil(t, c.Data())

	require.ErrorIs(t, c.Destroy(), ErrDestroyed)
	_, err = c.Reference()
	require.ErrorIs(t, err, ErrDestroyed)
	_, err = c.Dispatch(ClassCeed, "Name", nil)
	require.ErrorIs(t, err, ErrDestroyed)
	_, err = c.Init("/lib/base/x")
	require.ErrorIs(t, err, ErrDestroyed)
	_, err = c.Provider(ClassCeed, "Name")
	require.ErrorIs(t, err, ErrDestroyed)
	require.ErrorIs(t, c.SetBackendFunction(ClassCeed, "X", func(*Call) (any, error) { return nil, nil }), ErrDestroyed)

	var nilCtx *Ceed
	assert.NoError(t, nilCtx.Destroy())
}

// TestDelegateOutlivesCreator verifies the delegate stays alive while a
// Context that delegates to it holds a reference.
func TestDelegateOutlivesCreator(t *testing.T) {
	destroyed := map[string]int{}
	c, err := chainRegistry(t, destroyed).Init("/lib/top/x")
	require.NoError(t, err)

	d := c.Delegate()
	require.NotNil(t, d)
	assert.False(t, d.IsDestroyed())
	assert.Equal(t, "base data", d.Data())

	require.NoError(t, c.Destroy())
	assert.True(t, d.IsDestroyed())
	assert.Nil(t, c.Delegate())
}

func TestArgHelpers(t *testing.T) {
	call := &Call{Args: []any{3, "x"}, key: Key{Class: ClassVector, Method: "Scale"}}

	n, err := Arg[int](call, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = Arg[int](call, 1)
	require.ErrorIs(t, err, ErrUnsupported)
	_, err = Arg[int](call, 2)
	require.ErrorIs(t, err, ErrDimension)

	_, err = ObjectAs[*Vector](call)
	require.ErrorIs(t, err, ErrUnsupported)

	_, err = result[int]("nope", nil)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestBackendData(t *testing.T) {
	o := &object{}
	o.SetData(42)

	v, err := Data[int](o)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = Data[string](o)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestCheckResource(t *testing.T) {
	require.NoError(t, CheckResource("ref", "/cpu/self", "/cpu/self", "/cpu/self/ref"))

	err := CheckResource("ref", "/cpu/self/other", "/cpu/self")
	require.ErrorIs(t, err, ErrInvalidResource)
	var re *ResourceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "/cpu/self/other", re.Resource)
}
