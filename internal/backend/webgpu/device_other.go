//go:build !windows

package webgpu

func openNativeDevice(_ int) (Device, error) {
	return nil, ErrUnavailable
}
