// Package devicecache holds the registry of remote devices known to the profile adapters.
package devicecache

import (
	"slices"
	"sync"

	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/bluetuith-org/hidprofile/api/eventbus"
	"github.com/puzpuzpuz/xsync/v3"
)

// Cache is a concurrency-safe bluetooth.DeviceRegistry.
type Cache struct {
	devices *xsync.MapOf[bluetooth.MacAddress, *Device]
}

// Device is a cached record of a remote device.
type Device struct {
	data   bluetooth.DeviceData
	states *xsync.MapOf[bluetooth.ProfileID, bluetooth.ConnectionState]

	// profiles holds the profiles the device is connected through, in connection order.
	profiles []bluetooth.ProfileID

	mu sync.Mutex
}

// New returns an empty device cache.
func New() *Cache {
	return &Cache{devices: xsync.NewMapOf[bluetooth.MacAddress, *Device]()}
}

// FindDevice looks up a device record by its address.
func (c *Cache) FindDevice(address bluetooth.MacAddress) (bluetooth.CachedDevice, bool) {
	d, ok := c.devices.Load(address)
	if !ok {
		return nil, false
	}

	return d, true
}

// Device returns the concrete record of a device.
func (c *Cache) Device(address bluetooth.MacAddress) (*Device, bool) {
	return c.devices.Load(address)
}

// AddDevice inserts a record for a new device and returns it.
// If a record already exists for the address, it is returned unchanged.
func (c *Cache) AddDevice(data bluetooth.DeviceData) bluetooth.CachedDevice {
	d, _ := c.devices.LoadOrCompute(data.Address, func() *Device {
		return newDevice(data)
	})

	return d
}

// Remove removes a device record.
func (c *Cache) Remove(address bluetooth.MacAddress) bool {
	_, ok := c.devices.LoadAndDelete(address)

	return ok
}

// Devices returns all device records, ordered by address.
func (c *Cache) Devices() []*Device {
	devices := make([]*Device, 0, c.devices.Size())
	c.devices.Range(func(_ bluetooth.MacAddress, d *Device) bool {
		devices = append(devices, d)
		return true
	})

	slices.SortFunc(devices, func(a, b *Device) int {
		return slices.Compare(a.data.Address[:], b.data.Address[:])
	})

	return devices
}

// Len returns the number of device records.
func (c *Cache) Len() int {
	return c.devices.Size()
}

func newDevice(data bluetooth.DeviceData) *Device {
	return &Device{
		data:   data,
		states: xsync.NewMapOf[bluetooth.ProfileID, bluetooth.ConnectionState](),
	}
}

// Data returns the device information.
func (d *Device) Data() bluetooth.DeviceData {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.data
}

// ProfileState returns the last recorded connection state of a profile.
func (d *Device) ProfileState(id bluetooth.ProfileID) bluetooth.ConnectionState {
	d.mu.Lock()
	defer d.mu.Unlock()

	state, ok := d.states.Load(id)
	if !ok {
		return bluetooth.StateDisconnected
	}

	return state
}

// ConnectedProfiles returns the profiles the device is connected through.
func (d *Device) ConnectedProfiles() []bluetooth.ProfileID {
	d.mu.Lock()
	defer d.mu.Unlock()

	return slices.Clone(d.profiles)
}

// OnProfileStateChanged records the connection state of a profile for the device.
// The state and the connected profile list change together.
func (d *Device) OnProfileStateChanged(profile bluetooth.LocalProfile, state bluetooth.ConnectionState) {
	id := profile.ProfileID()

	d.mu.Lock()
	d.states.Store(id, state)
	switch state {
	case bluetooth.StateConnected:
		if !slices.Contains(d.profiles, id) {
			d.profiles = append(d.profiles, id)
		}
		d.data.Connected = true

	case bluetooth.StateDisconnected:
		d.profiles = slices.DeleteFunc(d.profiles, func(p bluetooth.ProfileID) bool {
			return p == id
		})
		d.data.Connected = len(d.profiles) > 0
	}
	address := d.data.Address
	d.mu.Unlock()

	eventbus.Publish(eventbus.DeviceProfileEvent, bluetooth.DeviceProfileEventData{
		Address: address,
		Profile: id,
		State:   state,
	})
}

// Refresh publishes a snapshot of the record on the event bus.
func (d *Device) Refresh() {
	d.mu.Lock()
	ev := bluetooth.DeviceRefreshEventData{
		Device:   d.data,
		Profiles: slices.Clone(d.profiles),
	}
	d.mu.Unlock()

	eventbus.Publish(eventbus.DeviceRefreshEvent, ev)
}

// String converts the record to a string.
func (d *Device) String() string {
	data := d.Data()

	return data.Address.String() + " (" + data.DisplayName() + ")"
}
