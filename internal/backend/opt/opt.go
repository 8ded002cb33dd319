// Package opt implements the optimized CPU backends. They delegate to the
// reference backend and only replace tensor contraction kernels.
package opt

import (
	"github.com/born-ml/ceed/internal/backend/ref"
	"github.com/born-ml/ceed/internal/ceed"
	"github.com/born-ml/ceed/internal/parallel"
)

// Registered prefixes and priorities.
const (
	PrefixSerial    = "/cpu/self/opt/serial"
	PrioritySerial  = 20
	PrefixBlocked   = "/cpu/self/opt/blocked"
	PriorityBlocked = 25
)

// Backend is the backend data of an optimized Context.
type Backend struct {
	Parallel parallel.Config
}

// Register adds the serial and blocked backends to r.
func Register(r *ceed.Registry) error {
	if err := r.Register(PrefixSerial, initSerial, PrioritySerial); err != nil {
		return err
	}
	return r.Register(PrefixBlocked, initBlocked, PriorityBlocked)
}

func initSerial(resource string, c *ceed.Ceed) error {
	if err := ceed.CheckResource("serial optimized", resource, "/cpu/self", "/cpu/self/opt", PrefixSerial); err != nil {
		return err
	}
	return setup(c, parallel.Serial())
}

func initBlocked(resource string, c *ceed.Ceed) error {
	if err := ceed.CheckResource("blocked optimized", resource, "/cpu/self", "/cpu/self/opt", PrefixBlocked); err != nil {
		return err
	}
	return setup(c, parallel.DefaultConfig())
}

func setup(c *ceed.Ceed, cfg parallel.Config) error {
	c.SetDeterministic(true)
	c.SetData(&Backend{Parallel: cfg})

	// Reference Context that implementation will be dispatched through unless overridden.
	if err := c.InitDelegate(ref.Prefix); err != nil {
		return err
	}

	return c.SetBackendFunction(ceed.ClassCeed, "TensorContractCreate", contractCreate)
}

func contractCreate(call *ceed.Call) (any, error) {
	tc, err := ceed.ObjectAs[*ceed.TensorContract](call)
	if err != nil {
		return nil, err
	}
	cfg := parallel.Serial()
	if b, err := ceed.Data[*Backend](call.Provider); err == nil {
		cfg = b.Parallel
	}
	tc.SetData(Kernel(cfg))
	return nil, nil
}
