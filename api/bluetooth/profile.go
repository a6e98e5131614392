package bluetooth

import (
	"fmt"

	"github.com/bluetuith-org/hidprofile/api/resources"
	"github.com/google/uuid"
)

// ProfileID identifies a Bluetooth profile role.
type ProfileID int

// ProfileHidDevice is the HID Device role, where the local adapter acts as an input device.
const ProfileHidDevice ProfileID = 19

// HidDeviceUUID is the service class UUID of the Human Interface Device profile.
var HidDeviceUUID = uuid.MustParse("00001124-0000-1000-8000-00805f9b34fb")

// String converts a ProfileID to a string.
func (p ProfileID) String() string {
	switch p {
	case ProfileHidDevice:
		return "hid-device"
	}

	return fmt.Sprintf("profile-%d", int(p))
}

// ConnectionState describes the connection state of a profile with a remote device.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateDisconnecting
)

// String converts a ConnectionState to a string.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	}

	return fmt.Sprintf("unknown(%d)", int(s))
}

// ProfileProxy describes the local binding to the platform's implementation of a profile.
type ProfileProxy interface {
	// ConnectedDevices returns all remote devices currently connected through the profile.
	ConnectedDevices() ([]DeviceData, error)

	// ConnectionState returns the profile connection state of a remote device.
	ConnectionState(address MacAddress) (ConnectionState, error)

	// Disconnect requests the profile to be disconnected from a remote device.
	Disconnect(address MacAddress) error
}

// ServiceListener is notified when a profile proxy becomes bound or unbound.
type ServiceListener interface {
	OnServiceConnected(id ProfileID, proxy ProfileProxy)
	OnServiceDisconnected(id ProfileID)
}

// ProxyBinder binds profile proxies from the platform's Bluetooth service.
type ProxyBinder interface {
	// BindProfileProxy requests a proxy for the profile. The listener is invoked
	// asynchronously once the proxy is bound, and again whenever it is unbound.
	BindProfileProxy(id ProfileID, listener ServiceListener) error

	// CloseProfileProxy releases a proxy previously delivered to a listener.
	CloseProfileProxy(id ProfileID, proxy ProfileProxy) error
}

// LocalProfile describes a profile adapter, as used by device records and UI screens.
type LocalProfile interface {
	fmt.Stringer

	IsProfileReady() bool
	ProfileID() ProfileID
	Ordinal() int

	AccessProfileEnabled() bool
	IsAutoConnectable() bool

	Connect(address MacAddress) bool
	Disconnect(address MacAddress) bool
	ConnectionStatus(address MacAddress) ConnectionState

	IsPreferred(address MacAddress) bool
	Preferred(address MacAddress) int
	SetPreferred(address MacAddress, preferred bool)

	NameResource(address MacAddress) resources.ID
	SummaryResource(address MacAddress) resources.ID
	DrawableResource(class DeviceClass) resources.Icon
}
