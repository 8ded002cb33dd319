// Package backend lists the built-in backends.
package backend

import (
	"fmt"

	"github.com/born-ml/ceed/internal/backend/avx"
	"github.com/born-ml/ceed/internal/backend/memcheck"
	"github.com/born-ml/ceed/internal/backend/opt"
	"github.com/born-ml/ceed/internal/backend/ref"
	"github.com/born-ml/ceed/internal/backend/webgpu"
	"github.com/born-ml/ceed/internal/ceed"
)

// Registrar adds one family of backends to a registry.
type Registrar struct {
	Name     string
	Register func(*ceed.Registry) error
}

// Builtin returns the built-in backend families in registration order.
func Builtin() []Registrar {
	return []Registrar{
		{Name: "ref", Register: ref.Register},
		{Name: "opt", Register: opt.Register},
		{Name: "avx", Register: avx.Register},
		{Name: "memcheck", Register: memcheck.Register},
		{Name: "webgpu", Register: webgpu.Register},
	}
}

// RegisterAll adds every built-in backend to r.
func RegisterAll(r *ceed.Registry) error {
	for _, b := range Builtin() {
		if err := b.Register(r); err != nil {
			return fmt.Errorf("register %s backends: %w", b.Name, err)
		}
	}
	return nil
}
