package bluetooth

// AdapterData holds the static information of a local Bluetooth adapter.
type AdapterData struct {
	// Name holds the system-assigned name of the adapter.
	Name string `json:"name,omitempty" codec:"Name,omitempty"`

	// UniqueName holds a unique name for the adapter.
	// For example, on Linux it can be "hci0".
	UniqueName string `json:"unique_name,omitempty" codec:"UniqueName,omitempty"`

	// Address holds the Bluetooth MAC address of the adapter.
	Address MacAddress `json:"address,omitempty" codec:"Address,omitempty"`
}
