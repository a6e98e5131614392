package platform

import (
	"runtime"

	"github.com/bluetuith-org/hidprofile/api/bluetooth"
)

type BluetoothStack string

const (
	BluezStack BluetoothStack = "BlueZ (DBus)"
	ShimStack  BluetoothStack = BluetoothStack("Shim (" + runtime.GOOS + ")")
)

// ProxyBinder is a profile proxy binder that owns a connection to the
// platform's Bluetooth service, which Close releases.
type ProxyBinder interface {
	bluetooth.ProxyBinder

	Close() error
}

// PlatformInfo describes platform-specific information.
type PlatformInfo struct {
	OS    string         `json:"os,omitempty"`
	Stack BluetoothStack `json:"bluetooth_stack,omitempty"`
}

// NewPlatformInfo returns a new PlatformInfo.
func NewPlatformInfo(stack BluetoothStack) PlatformInfo {
	return PlatformInfo{
		OS:    runtime.GOOS + " (" + runtime.GOARCH + ")",
		Stack: stack,
	}
}

// String converts a BluetoothStack to a string.
func (b BluetoothStack) String() string {
	return string(b)
}
