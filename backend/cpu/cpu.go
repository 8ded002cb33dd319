// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	"github.com/born-ml/ceed/internal/backend/avx"
	"github.com/born-ml/ceed/internal/backend/memcheck"
	"github.com/born-ml/ceed/internal/backend/opt"
	"github.com/born-ml/ceed/internal/backend/ref"
	"github.com/born-ml/ceed/internal/ceed"
)

// Resources of the CPU backends.
const (
	Root      = "/cpu/self"
	Reference = ref.Prefix
	Optimized = opt.PrefixBlocked
	OptSerial = opt.PrefixSerial
	AVX       = avx.PrefixBlocked
	AVXSerial = avx.PrefixSerial
	MemCheck  = memcheck.Prefix
)

// Features describes the SIMD support of the host CPU.
type Features = avx.Features

// DetectFeatures reports the SIMD support of the host CPU.
func DetectFeatures() Features {
	return avx.DetectFeatures()
}

// ErrUnwrittenOutput is returned by the memcheck backend when a QFunction
// leaves output entries unset.
var ErrUnwrittenOutput = memcheck.ErrUnwrittenOutput

// Register adds every CPU backend supported by the host to r.
func Register(r *ceed.Registry) error {
	for _, register := range []func(*ceed.Registry) error{
		ref.Register, opt.Register, avx.Register, memcheck.Register,
	} {
		if err := register(r); err != nil {
			return err
		}
	}
	return nil
}

// SetReferenceFunctions installs the reference methods on a Context that is
// being initialized. Custom backends use it instead of a delegate.
func SetReferenceFunctions(c *ceed.Ceed) error {
	return ref.SetFunctions(c)
}
