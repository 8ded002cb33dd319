// Package avx implements CPU backends for processors with AVX2 and FMA. They
// delegate to the optimized backends and install an unrolled contraction.
package avx

import (
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/born-ml/ceed/internal/backend/opt"
	"github.com/born-ml/ceed/internal/ceed"
	"github.com/born-ml/ceed/internal/parallel"
)

// Registered prefixes and priorities.
const (
	PrefixSerial    = "/cpu/self/avx/serial"
	PrioritySerial  = 30
	PrefixBlocked   = "/cpu/self/avx/blocked"
	PriorityBlocked = 35
)

// Features describes the CPU capabilities the backends require.
type Features struct {
	HasAVX2      bool
	HasFMA       bool
	Architecture string
}

// DetectFeatures reports the features of the current processor.
func DetectFeatures() Features {
	return Features{
		HasAVX2:      cpu.X86.HasAVX2,
		HasFMA:       cpu.X86.HasFMA,
		Architecture: runtime.GOARCH,
	}
}

// Supported reports whether f is enough to run the backends.
func (f Features) Supported() bool {
	return f.HasAVX2 && f.HasFMA
}

// Register adds the backends to r when the processor supports them.
func Register(r *ceed.Registry) error {
	return RegisterWith(r, DetectFeatures())
}

// RegisterWith adds the backends to r if f is supported and does nothing otherwise.
func RegisterWith(r *ceed.Registry, f Features) error {
	if !f.Supported() {
		r.Logger().Debug("Skipping AVX backends.", "arch", f.Architecture, "avx2", f.HasAVX2, "fma", f.HasFMA)
		return nil
	}
	if err := r.Register(PrefixSerial, initSerial, PrioritySerial); err != nil {
		return err
	}
	return r.Register(PrefixBlocked, initBlocked, PriorityBlocked)
}

func initSerial(resource string, c *ceed.Ceed) error {
	if err := ceed.CheckResource("serial AVX", resource, "/cpu/self", "/cpu/self/avx", PrefixSerial); err != nil {
		return err
	}
	return setup(c, opt.PrefixSerial, parallel.Serial())
}

func initBlocked(resource string, c *ceed.Ceed) error {
	if err := ceed.CheckResource("blocked AVX", resource, "/cpu/self", "/cpu/self/avx", PrefixBlocked); err != nil {
		return err
	}
	return setup(c, opt.PrefixBlocked, parallel.DefaultConfig())
}

func setup(c *ceed.Ceed, delegateResource string, cfg parallel.Config) error {
	c.SetDeterministic(true)
	c.SetData(&opt.Backend{Parallel: cfg})

	if err := c.InitDelegate(delegateResource); err != nil {
		return err
	}

	return c.SetBackendFunction(ceed.ClassCeed, "TensorContractCreate", contractCreate)
}

func contractCreate(call *ceed.Call) (any, error) {
	tc, err := ceed.ObjectAs[*ceed.TensorContract](call)
	if err != nil {
		return nil, err
	}
	b, err := ceed.Data[*opt.Backend](call.Provider)
	if err != nil {
		return nil, err
	}
	tc.SetData(opt.BlockedKernel(b.Parallel, Contract))
	return nil, nil
}
