package bluetooth

// ProfileServiceEventData describes a change in the binding of a profile proxy.
type ProfileServiceEventData struct {
	Profile ProfileID `json:"profile"`
	Ready   bool      `json:"ready"`
}

// DeviceProfileEventData describes a change in a device's profile connection state.
type DeviceProfileEventData struct {
	Address MacAddress      `json:"address"`
	Profile ProfileID       `json:"profile"`
	State   ConnectionState `json:"state"`
}

// DeviceRefreshEventData holds a snapshot of a device record after a refresh.
type DeviceRefreshEventData struct {
	Device   DeviceData  `json:"device"`
	Profiles []ProfileID `json:"profiles,omitempty"`
}
