// Package webgpu implements GPU backends on WebGPU. A Context opens a device
// and delegates the operations it does not accelerate to the CPU reference
// backend. The shared variant composes a nested /gpu/webgpu/ref Context.
package webgpu

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/born-ml/ceed/internal/backend/ref"
	"github.com/born-ml/ceed/internal/ceed"
)

// Registered prefixes and priorities.
const (
	PrefixRef      = "/gpu/webgpu/ref"
	PriorityRef    = 20
	PrefixShared   = "/gpu/webgpu/shared"
	PriorityShared = 25
)

// ErrUnavailable is returned when no WebGPU adapter can be opened.
var ErrUnavailable = errors.New("webgpu: not available")

// Device is an open GPU device.
type Device interface {
	Name() string
	Release()
}

// openDevice opens device id. Tests replace it.
var openDevice = openNativeDevice

// Backend is the backend data of a WebGPU Context.
type Backend struct {
	DeviceID int
	Device   Device
}

// IsAvailable reports whether a WebGPU device can be opened.
func IsAvailable() bool {
	dev, err := openDevice(0)
	if err != nil {
		return false
	}
	dev.Release()
	return true
}

// Register adds the backends to r when a device is available.
func Register(r *ceed.Registry) error {
	if !IsAvailable() {
		r.Logger().Debug("Skipping WebGPU backends.", "reason", ErrUnavailable)
		return nil
	}
	return RegisterWith(r)
}

// RegisterWith adds the backends to r unconditionally.
func RegisterWith(r *ceed.Registry) error {
	if err := r.Register(PrefixRef, initRef, PriorityRef); err != nil {
		return err
	}
	return r.Register(PrefixShared, initShared, PriorityShared)
}

func initRef(resource string, c *ceed.Ceed) error {
	base := c.Registry().Base(resource)
	if err := ceed.CheckResource("WebGPU", base, "/gpu/webgpu", PrefixRef); err != nil {
		return err
	}
	if err := open(resource, c); err != nil {
		return err
	}

	return c.InitDelegate(ref.Prefix)
}

func initShared(resource string, c *ceed.Ceed) error {
	base := c.Registry().Base(resource)
	if err := ceed.CheckResource("WebGPU shared", base, "/gpu/webgpu", PrefixShared); err != nil {
		return err
	}
	if err := open(resource, c); err != nil {
		return err
	}

	// The nested Context gets the same device options.
	return c.InitDelegate(PrefixRef + resource[len(base):])
}

// open parses the device_id option, opens the device and installs Destroy.
func open(resource string, c *ceed.Ceed) error {
	opts, err := c.Registry().Options(resource)
	if err != nil {
		return err
	}
	id := 0
	if s, ok := opts["device_id"]; ok {
		if id, err = strconv.Atoi(s); err != nil || id < 0 {
			return &ceed.ResourceError{Backend: "WebGPU", Resource: resource, Reason: fmt.Sprintf("bad device_id %q", s)}
		}
	}

	dev, err := openDevice(id)
	if err != nil {
		return err
	}
	c.SetDeterministic(true)
	c.SetData(&Backend{DeviceID: id, Device: dev})
	c.Logger().Debug("WebGPU device opened.", "ceed_id", c.ID(), "device", dev.Name(), "device_id", id)
	return c.SetBackendFunction(ceed.ClassCeed, ceed.MethodDestroy, destroy)
}

// destroy releases the device of the Context being destroyed.
func destroy(call *ceed.Call) (any, error) {
	b, ok := call.Ceed.Data().(*Backend)
	if !ok || b.Device == nil {
		return nil, nil
	}
	b.Device.Release()
	b.Device = nil
	return nil, nil
}
