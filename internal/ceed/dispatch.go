package ceed

import (
	"fmt"
	"sort"
)

// Class names used as the first half of a dispatch key.
const (
	ClassCeed             = "Ceed"
	ClassVector           = "Vector"
	ClassElemRestriction  = "ElemRestriction"
	ClassBasis            = "Basis"
	ClassTensorContract   = "TensorContract"
	ClassQFunction        = "QFunction"
	ClassQFunctionContext = "QFunctionContext"
)

// MethodDestroy releases backend data of a Context or bound object.
const MethodDestroy = "Destroy"

// Key identifies one entry of a dispatch table.
type Key struct {
	Class  string
	Method string
}

// String returns "Class.Method".
func (k Key) String() string {
	return k.Class + "." + k.Method
}

// Func is a backend implementation of one method.
type Func func(call *Call) (any, error)

// Call carries the arguments of one dispatched method.
type Call struct {
	// Ceed is the Context the dispatch started on.
	Ceed *Ceed
	// Provider is the Context whose table supplied the implementation.
	Provider *Ceed
	// Object is the bound object the method operates on, nil for Ceed methods.
	Object Object
	// Args are the positional method arguments.
	Args []any

	key Key
}

// Key returns the dispatched key.
func (call *Call) Key() Key {
	return call.key
}

// Super invokes the implementation the provider's delegate chain would have
// used had the provider not overridden the method.
func (call *Call) Super() (any, error) {
	next := call.Provider.delegate
	if next == nil {
		return nil, &NotImplementedError{Class: call.key.Class, Method: call.key.Method}
	}
	fn, provider := next.lookup(call.key)
	if fn == nil {
		return nil, &NotImplementedError{Class: call.key.Class, Method: call.key.Method}
	}
	return fn(&Call{Ceed: call.Ceed, Provider: provider, Object: call.Object, Args: call.Args, key: call.key})
}

// SetBackendFunction sets the implementation of class.method for c, replacing
// any previous one. It is only allowed while the backend initializes c.
func (c *Ceed) SetBackendFunction(class, method string, fn Func) error {
	if c.destroyed.Load() {
		return ErrDestroyed
	}
	if c.sealed {
		return fmt.Errorf("set %s.%s on %s: %w", class, method, c.backend, ErrSealed)
	}
	if fn == nil {
		return fmt.Errorf("set %s.%s: nil implementation", class, method)
	}
	c.funcs[Key{Class: class, Method: method}] = fn
	return nil
}

// SetBackendFunctions sets several methods of one class.
func (c *Ceed) SetBackendFunctions(class string, fns map[string]Func) error {
	names := make([]string, 0, len(fns))
	for name := range fns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c.SetBackendFunction(class, name, fns[name]); err != nil {
			return err
		}
	}
	return nil
}

// lookup walks c and its delegate chain for key.
func (c *Ceed) lookup(key Key) (Func, *Ceed) {
	for cur := c; cur != nil; cur = cur.delegate {
		if fn, ok := cur.funcs[key]; ok {
			return fn, cur
		}
	}
	return nil, nil
}

// Provider returns the Context that implements class.method for c.
func (c *Ceed) Provider(class, method string) (*Ceed, error) {
	if c.destroyed.Load() {
		return nil, ErrDestroyed
	}
	_, p := c.lookup(Key{Class: class, Method: method})
	if p == nil {
		return nil, &NotImplementedError{Class: class, Method: method}
	}
	return p, nil
}

// Dispatch invokes class.method on c, falling back along the delegate chain.
// Errors returned by the implementation are passed through unchanged.
func (c *Ceed) Dispatch(class, method string, obj Object, args ...any) (any, error) {
	if c.destroyed.Load() {
		return nil, fmt.Errorf("dispatch %s.%s: %w", class, method, ErrDestroyed)
	}
	key := Key{Class: class, Method: method}
	fn, provider := c.lookup(key)
	if fn == nil {
		return nil, &NotImplementedError{Class: class, Method: method}
	}
	return fn(&Call{Ceed: c, Provider: provider, Object: obj, Args: args, key: key})
}

// Methods lists the keys c resolves, own and inherited, sorted.
func (c *Ceed) Methods() []Key {
	seen := make(map[Key]struct{})
	for cur := c; cur != nil; cur = cur.delegate {
		for k := range cur.funcs {
			seen[k] = struct{}{}
		}
	}
	keys := make([]Key, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Class != keys[j].Class {
			return keys[i].Class < keys[j].Class
		}
		return keys[i].Method < keys[j].Method
	})
	return keys
}

// Arg returns positional argument i of call as T.
func Arg[T any](call *Call, i int) (T, error) {
	var zero T
	if i >= len(call.Args) {
		return zero, fmt.Errorf("%s: missing argument %d: %w", call.key, i, ErrDimension)
	}
	v, ok := call.Args[i].(T)
	if !ok {
		return zero, fmt.Errorf("%s: argument %d is %T, want %T: %w", call.key, i, call.Args[i], zero, ErrUnsupported)
	}
	return v, nil
}

// ObjectAs returns the bound object of call as T.
func ObjectAs[T Object](call *Call) (T, error) {
	v, ok := call.Object.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: object is %T, want %T: %w", call.key, call.Object, zero, ErrUnsupported)
	}
	return v, nil
}

// result converts a dispatch result to T.
func result[T any](res any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("backend returned %T, want %T: %w", res, zero, ErrUnsupported)
	}
	return v, nil
}
