package bluetooth

import (
	"slices"

	"github.com/google/uuid"
)

// DeviceClass holds the Bluetooth class of device.
type DeviceClass uint32

// MajorClass returns the major device class bits.
func (c DeviceClass) MajorClass() uint32 {
	return uint32(c) & 0x1f00
}

// Major device classes.
const (
	MajorClassComputer   uint32 = 0x0100
	MajorClassPhone      uint32 = 0x0200
	MajorClassPeripheral uint32 = 0x0500
)

// DeviceData holds the information of a remote Bluetooth device.
type DeviceData struct {
	// Name holds the remote-assigned name of the device.
	Name string `json:"name,omitempty" codec:"Name,omitempty"`

	// Alias holds the user-assigned name of the device.
	Alias string `json:"alias,omitempty" codec:"Alias,omitempty"`

	// Address holds the Bluetooth MAC address of the device.
	Address MacAddress `json:"address,omitempty" codec:"Address,omitempty"`

	// AssociatedAdapter holds the address of the adapter the device is known to.
	AssociatedAdapter MacAddress `json:"associated_adapter,omitempty" codec:"AssociatedAdapter,omitempty"`

	// Class holds the class of device.
	Class DeviceClass `json:"class,omitempty" codec:"Class,omitempty"`

	// Paired indicates whether the device is paired.
	Paired bool `json:"paired,omitempty" codec:"Paired,omitempty"`

	// Connected indicates whether the device is connected.
	Connected bool `json:"connected,omitempty" codec:"Connected,omitempty"`

	// UUIDs holds the service profile UUIDs advertised by the device.
	UUIDs uuid.UUIDs `json:"uuids,omitempty" codec:"UUIDs,omitempty"`
}

// HasProfile reports whether the device advertises the given profile UUID.
func (d DeviceData) HasProfile(profile uuid.UUID) bool {
	return slices.Contains(d.UUIDs, profile)
}

// DisplayName returns the alias of the device, or its name or address.
func (d DeviceData) DisplayName() string {
	switch {
	case d.Alias != "":
		return d.Alias
	case d.Name != "":
		return d.Name
	}

	return d.Address.String()
}

// CachedDevice describes a registry record of a remote device.
type CachedDevice interface {
	// OnProfileStateChanged records the connection state of a profile for the device.
	OnProfileStateChanged(profile LocalProfile, state ConnectionState)

	// Refresh notifies observers that the record has changed.
	Refresh()
}

// DeviceRegistry describes the collection of known remote devices.
type DeviceRegistry interface {
	// FindDevice looks up a device record by its address.
	FindDevice(address MacAddress) (CachedDevice, bool)

	// AddDevice inserts a record for a new device and returns it.
	AddDevice(device DeviceData) CachedDevice
}
