package ceed

import (
	"errors"
	"fmt"
)

// Object is a handle created within one Context whose methods dispatch
// through that Context.
type Object interface {
	Ceed() *Ceed
	Class() string
}

// DataHolder exposes backend-private data.
type DataHolder interface {
	Data() any
}

// object carries what every bound object shares: the owning Context (with a
// reference held for the object's lifetime), its class, and backend data.
type object struct {
	ceed      *Ceed
	class     string
	data      any
	destroyed bool
}

// newObject takes a reference on c. Constructors check that c is alive first.
func newObject(c *Ceed, class string) object {
	c.refs.Add(1)
	return object{ceed: c, class: class}
}

// Ceed returns the owning Context.
func (o *object) Ceed() *Ceed { return o.ceed }

// Class returns the dispatch class name.
func (o *object) Class() string { return o.class }

// Data returns the backend-private data.
func (o *object) Data() any { return o.data }

// SetData attaches backend-private data, released by the backend's Destroy method.
func (o *object) SetData(data any) { o.data = data }

func (o *object) dispatch(self Object, method string, args ...any) (any, error) {
	if o.destroyed {
		return nil, fmt.Errorf("%s.%s: %w", o.class, method, ErrDestroyed)
	}
	return o.ceed.Dispatch(o.class, method, self, args...)
}

func (o *object) destroy(self Object) error {
	if o.destroyed {
		return nil
	}
	var errs []error
	if _, err := o.ceed.Dispatch(o.class, MethodDestroy, self); err != nil && !errors.Is(err, ErrNotImplemented) {
		errs = append(errs, err)
	}
	o.destroyed = true
	o.data = nil
	errs = append(errs, o.ceed.Destroy())
	return errors.Join(errs...)
}

// create runs the Ceed.<method> constructor for a freshly allocated object and
// drops the object's Context reference if the backend fails.
func create(c *Ceed, o *object, self Object, method string, args ...any) error {
	if _, err := c.Dispatch(ClassCeed, method, self, args...); err != nil {
		o.destroyed = true
		if derr := c.Destroy(); derr != nil {
			return errors.Join(err, derr)
		}
		return err
	}
	return nil
}

// Data returns the backend data of h as T.
func Data[T any](h DataHolder) (T, error) {
	var zero T
	v, ok := h.Data().(T)
	if !ok {
		return zero, fmt.Errorf("backend data is %T, want %T: %w", h.Data(), zero, ErrUnsupported)
	}
	return v, nil
}
