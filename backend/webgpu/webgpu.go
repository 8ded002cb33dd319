// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu exposes the WebGPU backends.
//
// WebGPU is a cross-platform graphics and compute API. Device acquisition is
// currently implemented on Windows; other platforms report the backend as
// unavailable and Register adds nothing.
//
// Two resources are provided:
//   - /gpu/webgpu/ref opens a device and delegates to the CPU reference backend
//   - /gpu/webgpu/shared opens a device and delegates to a nested
//     /gpu/webgpu/ref Context
//
// The device index is selected with the device_id option:
//
//	c, err := r.Init("/gpu/webgpu/shared:device_id=0")
//
// Example:
//
//	if webgpu.IsAvailable() {
//	    _ = webgpu.Register(r)
//	}
package webgpu

import (
	internalwebgpu "github.com/born-ml/ceed/internal/backend/webgpu"
	"github.com/born-ml/ceed/internal/ceed"
)

// Resources of the WebGPU backends.
const (
	Ref    = internalwebgpu.PrefixRef
	Shared = internalwebgpu.PrefixShared
)

// ErrUnavailable is returned when no WebGPU adapter can be opened.
var ErrUnavailable = internalwebgpu.ErrUnavailable

// IsAvailable checks if WebGPU is available on the current system.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}

// Register adds the WebGPU backends to r when a device is available.
func Register(r *ceed.Registry) error {
	return internalwebgpu.Register(r)
}
