// Package hiddevice provides the profile adapter for the Bluetooth HID Device role,
// where the local adapter acts as an input device for a remote host.
package hiddevice

import (
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/bluetuith-org/hidprofile/api/errorkinds"
	"github.com/bluetuith-org/hidprofile/api/eventbus"
	"github.com/bluetuith-org/hidprofile/api/logger"
	"github.com/bluetuith-org/hidprofile/api/resources"
	"github.com/rs/zerolog"
)

const (
	// Name is the display name of the profile.
	Name = "HID DEVICE"

	// Ordinal is the position of the profile in a device's profile list.
	Ordinal = 18

	// PreferredValue is the fixed preference value; the profile is always preferred.
	PreferredValue = -1
)

// Profile adapts the platform's HID Device profile proxy to the device registry.
type Profile struct {
	binder   bluetooth.ProxyBinder
	registry bluetooth.DeviceRegistry
	log      zerolog.Logger

	service bluetooth.ProfileProxy
	ready   bool

	mu sync.RWMutex
}

// Option configures a Profile.
type Option func(p *Profile)

// WithLogger sets the logger of the profile.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Profile) {
		p.log = log
	}
}

var _ bluetooth.LocalProfile = (*Profile)(nil)
var _ bluetooth.ServiceListener = (*Profile)(nil)

// New returns a new Profile, and requests the HID Device proxy from the binder.
// The profile becomes ready once the binder delivers the proxy.
func New(binder bluetooth.ProxyBinder, registry bluetooth.DeviceRegistry, opts ...Option) (*Profile, error) {
	if binder == nil || registry == nil {
		return nil, fault.Wrap(errorkinds.ErrMethodCall,
			ftag.With(ftag.InvalidArgument),
			fmsg.With("A proxy binder and device registry are required"),
		)
	}

	p := &Profile{
		binder:   binder,
		registry: registry,
		log:      logger.WithComponent("hid-device-profile"),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := binder.BindProfileProxy(bluetooth.ProfileHidDevice, p); err != nil {
		return nil, fault.Wrap(err,
			ftag.With(ftag.Internal),
			fmsg.With("Cannot bind to the HID Device profile service"),
		)
	}

	return p, nil
}

// OnServiceConnected is called when the HID Device proxy is bound.
// Every device the proxy reports as connected is marked connected in the registry.
func (p *Profile) OnServiceConnected(id bluetooth.ProfileID, proxy bluetooth.ProfileProxy) {
	p.log.Debug().Stringer("profile", id).Msg("Bluetooth service connected")
	if proxy == nil {
		p.log.Warn().Stringer("profile", id).Msg("Bound without a proxy, ignoring")
		return
	}

	p.mu.Lock()
	p.service = proxy
	p.mu.Unlock()

	devices, err := proxy.ConnectedDevices()
	if err != nil {
		p.log.Warn().Err(err).Msg("Cannot list connected devices")
	}

	for _, next := range devices {
		device, ok := p.registry.FindDevice(next.Address)
		if !ok {
			// Connected devices are normally already known to the registry.
			p.log.Warn().Stringer("address", next.Address).Msg("HID Device profile found new device")
			device = p.registry.AddDevice(next)
		}

		p.log.Debug().Stringer("address", next.Address).Msg("Connection status changed")
		device.OnProfileStateChanged(p, bluetooth.StateConnected)
		device.Refresh()
	}

	p.setReady(id, true)
}

// OnServiceDisconnected is called when the HID Device proxy is unbound.
func (p *Profile) OnServiceDisconnected(id bluetooth.ProfileID) {
	p.log.Debug().Stringer("profile", id).Msg("Bluetooth service disconnected")

	p.mu.Lock()
	p.service = nil
	p.mu.Unlock()

	p.setReady(id, false)
}

func (p *Profile) setReady(id bluetooth.ProfileID, ready bool) {
	p.mu.Lock()
	p.ready = ready
	p.mu.Unlock()

	eventbus.Publish(eventbus.ProfileServiceEvent, bluetooth.ProfileServiceEventData{
		Profile: id,
		Ready:   ready,
	})
}

func (p *Profile) proxy() bluetooth.ProfileProxy {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.service
}

// IsProfileReady reports whether the HID Device proxy is bound.
func (p *Profile) IsProfileReady() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.ready
}

// ProfileID returns bluetooth.ProfileHidDevice.
func (p *Profile) ProfileID() bluetooth.ProfileID {
	return bluetooth.ProfileHidDevice
}

// Ordinal returns the position of the profile in a device's profile list.
func (p *Profile) Ordinal() int {
	return Ordinal
}

// String returns the display name of the profile.
func (p *Profile) String() string {
	return Name
}

// AccessProfileEnabled reports whether the profile is shown to users.
func (p *Profile) AccessProfileEnabled() bool {
	return true
}

// IsAutoConnectable reports whether the profile is connected automatically.
func (p *Profile) IsAutoConnectable() bool {
	return false
}

// Connect always returns false. The HID Device role is only ever initiated by
// the remote host, never from settings.
func (p *Profile) Connect(bluetooth.MacAddress) bool {
	return false
}

// Disconnect disconnects the HID Device profile from the device.
// It returns false if the proxy is not bound or the request fails.
func (p *Profile) Disconnect(address bluetooth.MacAddress) bool {
	service := p.proxy()
	if service == nil {
		return false
	}

	if err := service.Disconnect(address); err != nil {
		p.log.Debug().Err(err).Stringer("address", address).Msg("Cannot disconnect device")
		return false
	}

	return true
}

// ConnectionStatus returns the HID Device connection state of the device.
// It returns bluetooth.StateDisconnected if the proxy is not bound or the query fails.
func (p *Profile) ConnectionStatus(address bluetooth.MacAddress) bluetooth.ConnectionState {
	service := p.proxy()
	if service == nil {
		return bluetooth.StateDisconnected
	}

	state, err := service.ConnectionState(address)
	if err != nil {
		p.log.Debug().Err(err).Stringer("address", address).Msg("Cannot get connection state")
		return bluetooth.StateDisconnected
	}

	return state
}

// IsPreferred reports whether the device is connected through the profile.
func (p *Profile) IsPreferred(address bluetooth.MacAddress) bool {
	return p.ConnectionStatus(address) != bluetooth.StateDisconnected
}

// Preferred returns PreferredValue.
func (p *Profile) Preferred(bluetooth.MacAddress) int {
	return PreferredValue
}

// SetPreferred cannot store a preference. Setting it to false disconnects the device.
func (p *Profile) SetPreferred(address bluetooth.MacAddress, preferred bool) {
	if preferred {
		return
	}

	service := p.proxy()
	if service == nil {
		p.log.Debug().Stringer("address", address).Msg("Profile not bound, ignoring preference change")
		return
	}

	if err := service.Disconnect(address); err != nil {
		p.log.Debug().Err(err).Stringer("address", address).Msg("Cannot disconnect device")
	}
}

// NameResource returns the display name resource of the profile.
func (p *Profile) NameResource(bluetooth.MacAddress) resources.ID {
	return resources.ProfileHID
}

// SummaryResource returns the summary resource for the device's connection state.
func (p *Profile) SummaryResource(address bluetooth.MacAddress) resources.ID {
	return Summary(p.ConnectionStatus(address))
}

// DrawableResource returns the icon of the profile.
func (p *Profile) DrawableResource(bluetooth.DeviceClass) resources.Icon {
	return resources.IconMiscHID
}

// Summary selects the summary resource for a HID Device connection state.
func Summary(state bluetooth.ConnectionState) resources.ID {
	switch state {
	case bluetooth.StateDisconnected:
		return resources.HIDSummaryUseFor

	case bluetooth.StateConnected:
		return resources.HIDSummaryConnected
	}

	return ConnectionStateSummary(state)
}

// ConnectionStateSummary returns the generic summary resource of a connection state.
func ConnectionStateSummary(state bluetooth.ConnectionState) resources.ID {
	switch state {
	case bluetooth.StateConnecting:
		return resources.StateConnecting

	case bluetooth.StateConnected:
		return resources.StateConnected

	case bluetooth.StateDisconnecting:
		return resources.StateDisconnecting
	}

	return resources.StateDisconnected
}

// Close releases the HID Device proxy. Errors from the binder are logged and
// otherwise ignored. Close may be called more than once.
func (p *Profile) Close() {
	p.mu.Lock()
	service := p.service
	p.service = nil
	p.mu.Unlock()

	p.log.Debug().Msg("Closing HID Device profile")
	if service == nil {
		return
	}

	if err := p.binder.CloseProfileProxy(bluetooth.ProfileHidDevice, service); err != nil {
		p.log.Warn().Err(err).Msg("Error cleaning up HID Device proxy")
	}
}
