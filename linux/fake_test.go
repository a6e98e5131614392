//go:build linux

package linux

import (
	"context"
	"io"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	classLaptop   uint32 = 0x10010c
	classKeyboard uint32 = 0x002540
	classPhone    uint32 = 0x5a020c
)

// fakeObject answers method calls for a fake org.bluez object tree.
type fakeObject struct {
	dbus.BusObject

	bus  *fakeBus
	path dbus.ObjectPath
}

type fakeCall struct {
	Path   dbus.ObjectPath
	Method string
	Args   []any
}

type fakeBus struct {
	objects     managedObjects
	err         error
	registerErr error

	calls []fakeCall
	mu    sync.Mutex
}

func (b *fakeBus) object(path dbus.ObjectPath) dbus.BusObject {
	return &fakeObject{bus: b, path: path}
}

func (b *fakeBus) recorded() []fakeCall {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]fakeCall(nil), b.calls...)
}

func (b *fakeBus) methods() []string {
	var methods []string
	for _, call := range b.recorded() {
		methods = append(methods, call.Method)
	}

	return methods
}

func (o *fakeObject) Path() dbus.ObjectPath {
	return o.path
}

func (o *fakeObject) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...any) *dbus.Call {
	o.bus.mu.Lock()
	defer o.bus.mu.Unlock()

	o.bus.calls = append(o.bus.calls, fakeCall{o.path, method, args})

	switch method {
	case bluezRegisterProfile:
		return &dbus.Call{Err: o.bus.registerErr}

	case bluezUnregisterProfile:
		return &dbus.Call{}
	}

	if o.bus.err != nil {
		return &dbus.Call{Err: o.bus.err}
	}

	switch method {
	case dbusGetManagedObjects:
		return &dbus.Call{Body: []any{o.bus.objects}}

	case dbusPropertiesGetAll:
		ifaces, ok := o.bus.objects[o.path]
		if !ok {
			return &dbus.Call{Err: dbus.Error{Name: dbusErrUnknownObject, Body: []any{"Unknown object"}}}
		}

		return &dbus.Call{Body: []any{ifaces[bluezDeviceIface]}}
	}

	return &dbus.Call{Err: dbus.Error{Name: "org.freedesktop.DBus.Error.UnknownMethod"}}
}

func adapterProps(address string) map[string]map[string]dbus.Variant {
	return map[string]map[string]dbus.Variant{
		bluezAdapterIface: {
			"Address": dbus.MakeVariant(address),
		},
	}
}

func deviceProps(address string, class uint32, connected bool, uuids ...string) map[string]map[string]dbus.Variant {
	return map[string]map[string]dbus.Variant{
		bluezDeviceIface: {
			"Address":   dbus.MakeVariant(address),
			"Name":      dbus.MakeVariant("Device " + address),
			"Connected": dbus.MakeVariant(connected),
			"Paired":    dbus.MakeVariant(true),
			"Class":     dbus.MakeVariant(class),
			"UUIDs":     dbus.MakeVariant(uuids),
		},
	}
}

// hostConnection returns a connection descriptor as BlueZ hands it to the role,
// and the peer end, which reads EOF once the role closes the connection.
func hostConnection(t *testing.T) (dbus.UnixFD, *os.File) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	fd, err := syscall.Dup(int(w.Fd()))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return dbus.UnixFD(fd), r
}

func assertConnectionClosed(t *testing.T, peer *os.File) {
	t.Helper()

	require.NoError(t, peer.SetReadDeadline(time.Now().Add(time.Second)))

	_, err := peer.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
}

type listenerEvent struct {
	connected bool
	proxy     bluetooth.ProfileProxy
}

type fakeListener struct {
	events chan listenerEvent

	onConnected func(proxy bluetooth.ProfileProxy)
}

func newFakeListener() *fakeListener {
	return &fakeListener{events: make(chan listenerEvent, 16)}
}

func (l *fakeListener) OnServiceConnected(_ bluetooth.ProfileID, proxy bluetooth.ProfileProxy) {
	if l.onConnected != nil {
		l.onConnected(proxy)
	}

	l.events <- listenerEvent{connected: true, proxy: proxy}
}

func (l *fakeListener) OnServiceDisconnected(bluetooth.ProfileID) {
	l.events <- listenerEvent{}
}
