//go:build windows

package webgpu

import (
	"fmt"

	"github.com/go-webgpu/webgpu/wgpu"
)

// nativeDevice holds the WebGPU objects backing one Context.
type nativeDevice struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	name     string
}

func openNativeDevice(id int) (dev Device, err error) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			dev = nil
			err = fmt.Errorf("%w: native library not available: %v", ErrUnavailable, r)
		}
	}()
	if id != 0 {
		return nil, fmt.Errorf("%w: device_id %d: only the default adapter is supported", ErrUnavailable, id)
	}

	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: failed to request adapter: %v", ErrUnavailable, err)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: failed to request device: %v", ErrUnavailable, err)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: failed to get queue", ErrUnavailable)
	}

	return &nativeDevice{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    queue,
		name:     fmt.Sprintf("webgpu:%d", id),
	}, nil
}

// Name returns the device label.
func (d *nativeDevice) Name() string { return d.name }

// Release releases all WebGPU resources.
func (d *nativeDevice) Release() {
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}
