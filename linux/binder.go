//go:build linux

// Package linux binds Bluetooth profile proxies from BlueZ over the system D-Bus.
package linux

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/bluetuith-org/hidprofile/api/config"
	"github.com/bluetuith-org/hidprofile/api/errorkinds"
	"github.com/bluetuith-org/hidprofile/api/logger"
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

// BluezBinder binds the HID Device profile proxy from BlueZ.
//
// The binder exports a HID Device role object and registers it with the
// BlueZ profile manager, so remote hosts connect to the local adapter as an
// input device. bluetoothd must run without its input plugin, which otherwise
// owns the HID channels for the HID Host role.
//
// The proxy is bound while the org.bluez bus name has an owner and the role is
// registered. All listener callbacks are made from a single dispatch goroutine.
type BluezBinder struct {
	cfg config.Configuration
	log zerolog.Logger

	conn    *dbus.Conn
	object  objectFunc
	signals chan *dbus.Signal

	role       *hidRole
	registered bool

	listener bluetooth.ServiceListener
	proxy    *hidProxy

	cancel  context.CancelFunc
	done    chan struct{}
	calling atomic.Bool

	mu sync.Mutex
}

var _ bluetooth.ProxyBinder = (*BluezBinder)(nil)

// NewBluezBinder returns a new BlueZ binder. The system bus is connected
// when a proxy is first requested.
func NewBluezBinder(cfg config.Configuration) *BluezBinder {
	log := logger.WithComponent("bluez")

	return &BluezBinder{
		cfg:  cfg.WithDefaults(),
		log:  log,
		role: newHidRole(log),
	}
}

// BindProfileProxy starts watching BlueZ for the profile. The listener is
// notified asynchronously with the bound proxy if BlueZ is already running.
func (b *BluezBinder) BindProfileProxy(id bluetooth.ProfileID, listener bluetooth.ServiceListener) error {
	if id != bluetooth.ProfileHidDevice {
		return fault.Wrap(errorkinds.ErrNotSupported,
			fctx.With(context.Background(), "profile", id.String()),
			ftag.With(ftag.InvalidArgument),
			fmsg.With("BlueZ binder only provides the HID Device profile"),
		)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.listener != nil {
		return errorkinds.ErrAlreadyBound
	}

	if b.conn == nil {
		conn, err := dbus.ConnectSystemBus()
		if err != nil {
			return fault.Wrap(err,
				fctx.With(context.Background(), "error_at", "connect-system-bus"),
				ftag.With(ftag.Internal),
				fmsg.With("Cannot connect to the system bus"),
			)
		}

		b.conn = conn
		b.object = func(path dbus.ObjectPath) dbus.BusObject {
			return conn.Object(bluezBusName, path)
		}
	}

	if err := b.conn.Export(b.role, hidRolePath, bluezProfileIface); err != nil {
		return fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "export-hid-role"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot export the HID Device role"),
		)
	}

	if err := b.conn.AddMatchSignal(ownerMatchOptions()...); err != nil {
		b.conn.Export(nil, hidRolePath, bluezProfileIface)

		return fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "watch-bluez"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot watch the BlueZ service"),
		)
	}

	var running bool
	if err := b.conn.BusObject().Call(dbusNameHasOwner, 0, bluezBusName).Store(&running); err != nil {
		b.conn.RemoveMatchSignal(ownerMatchOptions()...)
		b.conn.Export(nil, hidRolePath, bluezProfileIface)

		return fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "check-bluez"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot check if the BlueZ service is running"),
		)
	}

	b.signals = make(chan *dbus.Signal, 16)
	b.conn.Signal(b.signals)

	b.start(listener, b.signals, running)

	return nil
}

// CloseProfileProxy stops watching BlueZ, unregisters the HID Device role
// and invalidates the proxy. The listener is not notified.
//
// It may be called from a listener callback, in which case it returns
// without waiting for that callback to finish.
func (b *BluezBinder) CloseProfileProxy(id bluetooth.ProfileID, proxy bluetooth.ProfileProxy) error {
	if id != bluetooth.ProfileHidDevice {
		return errorkinds.ErrNotSupported
	}

	if p, ok := proxy.(*hidProxy); ok && p != nil {
		p.close()
	}

	b.stop()

	err := b.unregister()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil && b.signals != nil {
		b.conn.RemoveSignal(b.signals)
		b.signals = nil

		if merr := b.conn.RemoveMatchSignal(ownerMatchOptions()...); merr != nil && err == nil {
			err = fault.Wrap(merr,
				fctx.With(context.Background(), "error_at", "unwatch-bluez"),
				ftag.With(ftag.Internal),
				fmsg.With("Cannot stop watching the BlueZ service"),
			)
		}

		b.conn.Export(nil, hidRolePath, bluezProfileIface)
	}

	return err
}

// Close stops the binder and closes the system bus connection.
func (b *BluezBinder) Close() error {
	b.mu.Lock()
	proxy, listening := b.proxy, b.listener != nil
	b.mu.Unlock()

	var err error
	if listening {
		err = b.CloseProfileProxy(bluetooth.ProfileHidDevice, proxy)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil {
		if cerr := b.conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
		b.conn = nil
	}

	return err
}

// start launches the dispatch goroutine. It must be called with b.mu held.
func (b *BluezBinder) start(listener bluetooth.ServiceListener, signals <-chan *dbus.Signal, running bool) {
	ctx, cancel := context.WithCancel(context.Background())

	b.listener = listener
	b.cancel = cancel
	b.done = make(chan struct{})

	go b.dispatch(ctx, b.done, signals, running)
}

// stop cancels the dispatch goroutine. It waits for the goroutine to exit,
// unless a listener callback is running, since the caller may be that callback.
// No callback starts once stop returns.
func (b *BluezBinder) stop() {
	b.mu.Lock()
	cancel, done := b.cancel, b.done
	b.cancel, b.done = nil, nil
	b.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	if !b.calling.Load() {
		<-done
	}

	b.mu.Lock()
	if b.proxy != nil {
		b.proxy.close()
		b.proxy = nil
	}
	b.listener = nil
	b.mu.Unlock()

	b.role.reset()
}

func (b *BluezBinder) dispatch(ctx context.Context, done chan struct{}, signals <-chan *dbus.Signal, running bool) {
	defer close(done)

	if running {
		b.bind(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case signal, ok := <-signals:
			if !ok {
				b.unbind(ctx)
				return
			}

			owner, ok := nameOwner(signal)
			if !ok {
				continue
			}

			b.log.Debug().Str("owner", owner).Msg("BlueZ service owner changed")
			b.unbind(ctx)
			if owner != "" {
				b.bind(ctx)
			}
		}
	}
}

func (b *BluezBinder) bind(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	if err := b.register(ctx); err != nil {
		b.log.Error().Err(err).Str("adapter", b.cfg.Adapter).Msg("Cannot register the HID Device role")
		return
	}

	b.mu.Lock()
	if ctx.Err() != nil || b.listener == nil {
		b.mu.Unlock()
		return
	}

	proxy := newHidProxy(b.object, b.role, adapterPath(b.cfg.Adapter), b.cfg.CallTimeout)
	b.proxy = proxy
	listener := b.listener
	b.mu.Unlock()

	b.log.Debug().Str("adapter", b.cfg.Adapter).Msg("HID Device proxy bound")
	b.notify(func() {
		listener.OnServiceConnected(bluetooth.ProfileHidDevice, proxy)
	})
}

func (b *BluezBinder) unbind(ctx context.Context) {
	b.mu.Lock()
	proxy := b.proxy
	b.proxy = nil
	b.registered = false
	listener := b.listener
	b.mu.Unlock()

	// The connections end with the BlueZ service.
	b.role.reset()

	if proxy == nil {
		return
	}

	proxy.close()
	if ctx.Err() != nil || listener == nil {
		return
	}

	b.log.Debug().Str("adapter", b.cfg.Adapter).Msg("HID Device proxy unbound")
	b.notify(func() {
		listener.OnServiceDisconnected(bluetooth.ProfileHidDevice)
	})
}

func (b *BluezBinder) notify(callback func()) {
	b.calling.Store(true)
	defer b.calling.Store(false)

	callback()
}

// register registers the HID Device role with the BlueZ profile manager.
func (b *BluezBinder) register(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.CallTimeout)
	defer cancel()

	call := b.object(bluezManagerPath).CallWithContext(ctx, bluezRegisterProfile, 0,
		hidRolePath, bluetooth.HidDeviceUUID.String(), roleOptions(),
	)
	if call.Err != nil {
		return fault.Wrap(call.Err,
			fctx.With(ctx, "error_at", "register-hid-role"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot register the HID Device role"),
		)
	}

	b.mu.Lock()
	b.registered = true
	b.mu.Unlock()

	return nil
}

// unregister removes the HID Device role from the BlueZ profile manager, if registered.
func (b *BluezBinder) unregister() error {
	b.mu.Lock()
	registered := b.registered
	b.registered = false
	b.mu.Unlock()

	if !registered {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.CallTimeout)
	defer cancel()

	if call := b.object(bluezManagerPath).CallWithContext(ctx, bluezUnregisterProfile, 0, hidRolePath); call.Err != nil {
		return fault.Wrap(call.Err,
			fctx.With(ctx, "error_at", "unregister-hid-role"),
			ftag.With(ftag.Internal),
			fmsg.With("Cannot unregister the HID Device role"),
		)
	}

	return nil
}

func ownerMatchOptions() []dbus.MatchOption {
	return []dbus.MatchOption{
		dbus.WithMatchSender(dbusBusName),
		dbus.WithMatchInterface(dbusBusName),
		dbus.WithMatchMember(dbusNameOwnerChanged),
		dbus.WithMatchArg(0, bluezBusName),
	}
}
