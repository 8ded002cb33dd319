// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu exposes the pure Go CPU backends.
//
// # Overview
//
// Four backend families share the "/cpu/self" root:
//   - ref: reference implementation of every method (priority 10)
//   - opt: tensor contraction kernels tuned for cache reuse, serial or
//     blocked across goroutines (priority 20 and 25)
//   - avx: unrolled contraction kernels, registered only when the CPU
//     reports AVX2 and FMA (priority 30 and 35)
//   - memcheck: the reference backend with QFunction output checks (priority 5)
//
// Specialized backends delegate to the reference backend for everything they
// do not override.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/ceed/backend/cpu"
//	    "github.com/born-ml/ceed/ceed"
//	)
//
//	func main() {
//	    r := ceed.NewRegistry()
//	    if err := cpu.Register(r); err != nil {
//	        log.Fatal(err)
//	    }
//	    c, _ := r.Init(cpu.Optimized)
//	    defer c.Destroy()
//	}
//
// # Determinism
//
// All CPU backends produce bitwise reproducible results. The blocked
// variants split work across elements only, never across a reduction.
package cpu
