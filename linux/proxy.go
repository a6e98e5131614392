//go:build linux

package linux

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/bluetuith-org/hidprofile/api/errorkinds"
	"github.com/godbus/dbus/v5"
)

// objectFunc returns the org.bluez object at a path.
type objectFunc func(path dbus.ObjectPath) dbus.BusObject

// hidProxy is the HID Device profile proxy over BlueZ. Connection states
// come from the registered HID Device role, device details from BlueZ.
type hidProxy struct {
	object  objectFunc
	role    *hidRole
	adapter dbus.ObjectPath
	timeout time.Duration

	closed atomic.Bool
}

var _ bluetooth.ProfileProxy = (*hidProxy)(nil)

func newHidProxy(object objectFunc, role *hidRole, adapter dbus.ObjectPath, timeout time.Duration) *hidProxy {
	return &hidProxy{
		object:  object,
		role:    role,
		adapter: adapter,
		timeout: timeout,
	}
}

// ConnectedDevices returns the hosts connected to the HID Device role.
func (p *hidProxy) ConnectedDevices() ([]bluetooth.DeviceData, error) {
	var objects managedObjects

	if err := p.call(bluezRootPath, dbusGetManagedObjects, &objects); err != nil {
		return nil, fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "hid-connected-devices"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot list BlueZ objects"),
		)
	}

	return hostDevices(p.adapter, p.role.connectedTo(p.adapter), objects), nil
}

// ConnectionState returns the HID Device role connection state of a device.
func (p *hidProxy) ConnectionState(address bluetooth.MacAddress) (bluetooth.ConnectionState, error) {
	path := devicePath(p.adapter, address)

	if p.closed.Load() {
		return bluetooth.StateDisconnected, errorkinds.ErrProxyClosed
	}

	if p.role.connected(path) {
		return bluetooth.StateConnected, nil
	}

	var props map[string]dbus.Variant
	if err := p.call(path, dbusPropertiesGetAll, &props, bluezDeviceIface); err != nil {
		if isUnknownObject(err) {
			err = errorkinds.ErrDeviceNotFound
		}

		return bluetooth.StateDisconnected, fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "hid-connection-state", "address", address.String()),
			ftag.With(ftag.NotFound),
			fmsg.With("Cannot get device properties"),
		)
	}

	return bluetooth.StateDisconnected, nil
}

// Disconnect closes the HID Device role connection of a host.
func (p *hidProxy) Disconnect(address bluetooth.MacAddress) error {
	if p.closed.Load() {
		return errorkinds.ErrProxyClosed
	}

	if !p.role.drop(devicePath(p.adapter, address)) {
		return fault.Wrap(errorkinds.ErrDeviceNotFound,
			fctx.With(context.Background(), "error_at", "hid-disconnect", "address", address.String()),
			ftag.With(ftag.NotFound),
			fmsg.With("The device is not connected to the HID Device role"),
		)
	}

	return nil
}

func (p *hidProxy) close() {
	p.closed.Store(true)
}

func (p *hidProxy) call(path dbus.ObjectPath, method string, result any, args ...any) error {
	if p.closed.Load() {
		return errorkinds.ErrProxyClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	call := p.object(path).CallWithContext(ctx, method, 0, args...)
	if call.Err != nil {
		if ctx.Err() != nil {
			return errorkinds.ErrMethodTimeout
		}

		return call.Err
	}

	if result == nil {
		return nil
	}

	return call.Store(result)
}
