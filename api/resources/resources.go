// Package resources holds the identifiers of the user-visible strings and icons
// that profile adapters select, and renders them for a locale.
package resources

// ID identifies a localizable string.
type ID string

// Icon holds a freedesktop icon name.
type Icon string

const (
	ProfileHID ID = "bluetooth_profile_hid"

	HIDSummaryUseFor    ID = "bluetooth_hid_profile_summary_use_for"
	HIDSummaryConnected ID = "bluetooth_hid_profile_summary_connected"

	StateConnected     ID = "bluetooth_connected"
	StateConnecting    ID = "bluetooth_connecting"
	StateDisconnected  ID = "bluetooth_disconnected"
	StateDisconnecting ID = "bluetooth_disconnecting"
)

const IconMiscHID Icon = "input-keyboard"

// String converts an ID to a string.
func (i ID) String() string {
	return string(i)
}

// String converts an Icon to a string.
func (i Icon) String() string {
	return string(i)
}
