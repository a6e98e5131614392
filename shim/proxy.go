//go:build !linux

package shim

import (
	"sync/atomic"
	"time"

	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/bluetuith-org/hidprofile/api/errorkinds"
	"github.com/bluetuith-org/hidprofile/shim/internal/commands"
)

// hidProxy is the HID Device profile proxy over shim commands.
//
// The shim has no command to register the HID Device role, so the proxy
// cannot observe the role's own connections. It reports connected hosts
// instead: computers and phones which do not advertise the HID service
// themselves. Keyboards, mice and other HID peripherals connected to the
// local HID host are never reported.
type hidProxy struct {
	execute commands.ExecuteFunc
	timeout time.Duration

	closed atomic.Bool
}

var _ bluetooth.ProfileProxy = (*hidProxy)(nil)

func newHidProxy(execute commands.ExecuteFunc, timeout time.Duration) *hidProxy {
	return &hidProxy{execute: execute, timeout: timeout}
}

// ConnectedDevices returns the connected hosts paired with every adapter.
func (p *hidProxy) ConnectedDevices() ([]bluetooth.DeviceData, error) {
	if p.closed.Load() {
		return nil, errorkinds.ErrProxyClosed
	}

	adapters, err := commands.GetAdapters().ExecuteWith(p.execute, p.timeout)
	if err != nil {
		return nil, err
	}

	var devices []bluetooth.DeviceData
	for _, adapter := range adapters {
		paired, err := commands.GetPairedDevices(adapter.Address).ExecuteWith(p.execute, p.timeout)
		if err != nil {
			return nil, err
		}

		for _, device := range paired {
			if isConnectedHost(device) {
				device.AssociatedAdapter = adapter.Address
				devices = append(devices, device)
			}
		}
	}

	return devices, nil
}

// ConnectionState returns the HID Device connection state of a host.
func (p *hidProxy) ConnectionState(address bluetooth.MacAddress) (bluetooth.ConnectionState, error) {
	if p.closed.Load() {
		return bluetooth.StateDisconnected, errorkinds.ErrProxyClosed
	}

	device, err := commands.DeviceProperties(address).ExecuteWith(p.execute, p.timeout)
	if err != nil {
		return bluetooth.StateDisconnected, err
	}

	if isConnectedHost(device) {
		return bluetooth.StateConnected, nil
	}

	return bluetooth.StateDisconnected, nil
}

// Disconnect disconnects the HID profile from a host.
func (p *hidProxy) Disconnect(address bluetooth.MacAddress) error {
	if p.closed.Load() {
		return errorkinds.ErrProxyClosed
	}

	_, err := commands.DisconnectProfile(address, bluetooth.HidDeviceUUID).ExecuteWith(p.execute, p.timeout)

	return err
}

func (p *hidProxy) close() {
	p.closed.Store(true)
}

// isConnectedHost reports whether a connected device can be a host of the
// HID Device role.
func isConnectedHost(device bluetooth.DeviceData) bool {
	if !device.Connected || device.HasProfile(bluetooth.HidDeviceUUID) {
		return false
	}

	switch device.Class.MajorClass() {
	case bluetooth.MajorClassComputer, bluetooth.MajorClassPhone:
		return true
	}

	return false
}
