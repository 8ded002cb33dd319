package ceed

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
)

// Ceed is a Context: a live instance of one resolved backend. It owns the
// backend data and dispatch table and holds a counted reference to its delegate.
type Ceed struct {
	id       uuid.UUID
	resource string
	backend  string
	registry *Registry
	logger   *slog.Logger

	// parent is the Context whose init is creating this one; nil once sealed.
	parent *Ceed

	data          any
	funcs         map[Key]Func
	delegate      *Ceed
	deterministic bool

	refs      atomic.Int32
	sealed    bool
	destroyed atomic.Bool
}

func newCeed(r *Registry, resource, backend string, parent *Ceed) *Ceed {
	c := &Ceed{
		id:       uuid.New(),
		resource: resource,
		backend:  backend,
		registry: r,
		logger:   r.logger,
		parent:   parent,
		funcs:    make(map[Key]Func),
	}
	c.refs.Store(1)
	return c
}

// ID returns the unique identifier of the Context.
func (c *Ceed) ID() uuid.UUID { return c.id }

// Resource returns the resource string the Context was created from.
func (c *Ceed) Resource() string { return c.resource }

// Backend returns the registered prefix of the backend that initialized the Context.
func (c *Ceed) Backend() string { return c.backend }

// Registry returns the registry the Context was created from.
func (c *Ceed) Registry() *Registry { return c.registry }

// Logger returns the Context logger.
func (c *Ceed) Logger() *slog.Logger { return c.logger }

// IsDeterministic reports whether the backend promised bitwise reproducible output.
func (c *Ceed) IsDeterministic() bool { return c.deterministic }

// SetDeterministic records whether the backend produces reproducible output.
func (c *Ceed) SetDeterministic(v bool) { c.deterministic = v }

// Data returns the backend data.
func (c *Ceed) Data() any { return c.data }

// SetData attaches backend data. It is released by the backend's Destroy method.
func (c *Ceed) SetData(data any) { c.data = data }

// Delegate returns the delegate Context or nil.
func (c *Ceed) Delegate() *Ceed { return c.delegate }

// Init creates another Context from the same registry, typically a delegate.
// Creating a backend that is already initializing up the chain fails with
// ErrDelegateCycle.
func (c *Ceed) Init(resource string) (*Ceed, error) {
	if c.destroyed.Load() {
		return nil, ErrDestroyed
	}
	return c.registry.init(resource, c)
}

// SetDelegate attaches d as the fallback for methods missing from c.
// The Context takes its own reference on d, so the creator may Destroy its handle.
func (c *Ceed) SetDelegate(d *Ceed) error {
	if d == nil {
		return errors.New("set delegate: nil delegate")
	}
	if c.destroyed.Load() || d.destroyed.Load() {
		return fmt.Errorf("set delegate: %w", ErrDestroyed)
	}
	if c.delegate != nil {
		return fmt.Errorf("set delegate on %s: %w", c.backend, ErrAlreadyDelegated)
	}
	for cur := d; cur != nil; cur = cur.delegate {
		if cur == c {
			return fmt.Errorf("set delegate %s -> %s: %w", c.backend, d.backend, ErrDelegateCycle)
		}
	}

	d.refs.Add(1)
	c.delegate = d
	c.logger.Debug("Delegate attached.", "ceed_id", c.id, "delegate_id", d.id, "delegate", d.backend)
	return nil
}

// InitDelegate creates a Context for resource and attaches it as the delegate
// of c. The delegate is destroyed again if it cannot be attached.
func (c *Ceed) InitDelegate(resource string) error {
	d, err := c.Init(resource)
	if err != nil {
		return err
	}
	if err := c.SetDelegate(d); err != nil {
		return errors.Join(err, d.Destroy())
	}
	return d.Destroy()
}

// Reference takes another reference on c and returns it. A destroyed Context
// cannot be revived.
func (c *Ceed) Reference() (*Ceed, error) {
	if c.destroyed.Load() {
		return nil, fmt.Errorf("reference: %w", ErrDestroyed)
	}
	c.refs.Add(1)
	return c, nil
}

// Destroy drops one reference. When the last reference goes, the Destroy method
// the backend set on this Context releases the backend data and the delegate
// reference is dropped.
func (c *Ceed) Destroy() error {
	if c == nil {
		return nil
	}
	if c.destroyed.Load() {
		return ErrDestroyed
	}
	if c.refs.Add(-1) > 0 {
		return nil
	}

	// Backend data belongs to this Context, so only its own Destroy runs.
	var errs []error
	key := Key{Class: ClassCeed, Method: MethodDestroy}
	if fn, ok := c.funcs[key]; ok {
		if _, err := fn(&Call{Ceed: c, Provider: c, key: key}); err != nil {
			errs = append(errs, err)
		}
	}
	if c.delegate != nil {
		errs = append(errs, c.delegate.Destroy())
	}

	c.destroyed.Store(true)
	c.data = nil
	c.funcs = nil
	c.delegate = nil
	c.logger.Debug("Context destroyed.", "ceed_id", c.id, "backend", c.backend)
	return errors.Join(errs...)
}

// IsDestroyed reports whether the last reference to c was dropped.
func (c *Ceed) IsDestroyed() bool {
	return c.destroyed.Load()
}
