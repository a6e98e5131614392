//go:build linux

package linux

import (
	"os"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

// hidRole is the org.bluez.Profile1 object registered for the HID Device role.
// BlueZ hands it one connection for every remote host that opens the HID
// control channel, and the role owns that connection until it is dropped.
type hidRole struct {
	hosts *xsync.MapOf[dbus.ObjectPath, *os.File]
	log   zerolog.Logger
}

func newHidRole(log zerolog.Logger) *hidRole {
	return &hidRole{
		hosts: xsync.NewMapOf[dbus.ObjectPath, *os.File](),
		log:   log,
	}
}

// Release is called by BlueZ when it unregisters the role.
func (r *hidRole) Release() *dbus.Error {
	r.log.Debug().Msg("HID Device role released")
	r.reset()

	return nil
}

// NewConnection is called by BlueZ when a host connects to the role.
func (r *hidRole) NewConnection(device dbus.ObjectPath, fd dbus.UnixFD, _ map[string]dbus.Variant) *dbus.Error {
	file := os.NewFile(uintptr(fd), string(device))
	if file == nil {
		return dbus.NewError(bluezErrRejected, []any{"Invalid connection descriptor"})
	}

	if previous, loaded := r.hosts.LoadAndStore(device, file); loaded {
		previous.Close()
	}

	r.log.Debug().Str("device", string(device)).Msg("HID host connected")

	return nil
}

// RequestDisconnection is called by BlueZ when a host is disconnected from the role.
func (r *hidRole) RequestDisconnection(device dbus.ObjectPath) *dbus.Error {
	if r.drop(device) {
		r.log.Debug().Str("device", string(device)).Msg("HID host disconnected")
	}

	return nil
}

func (r *hidRole) connected(device dbus.ObjectPath) bool {
	_, ok := r.hosts.Load(device)

	return ok
}

// connectedTo returns the hosts connected through an adapter.
func (r *hidRole) connectedTo(adapter dbus.ObjectPath) []dbus.ObjectPath {
	var hosts []dbus.ObjectPath

	prefix := string(adapter) + "/"
	r.hosts.Range(func(device dbus.ObjectPath, _ *os.File) bool {
		if strings.HasPrefix(string(device), prefix) {
			hosts = append(hosts, device)
		}

		return true
	})

	return hosts
}

// drop closes the connection of a host.
func (r *hidRole) drop(device dbus.ObjectPath) bool {
	file, ok := r.hosts.LoadAndDelete(device)
	if ok {
		file.Close()
	}

	return ok
}

func (r *hidRole) reset() {
	r.hosts.Range(func(device dbus.ObjectPath, _ *os.File) bool {
		r.drop(device)
		return true
	})
}
