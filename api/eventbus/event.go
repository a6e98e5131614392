package eventbus

import "sync"

// EventID describes an identifier of a published event.
type EventID interface {
	Value() uint
	String() string
}

// Event identifies the events published by profile adapters and device records.
type Event uint

const (
	// ProfileServiceEvent is published with bluetooth.ProfileServiceEventData when a
	// profile proxy is bound or unbound.
	ProfileServiceEvent Event = iota + 1

	// DeviceProfileEvent is published with bluetooth.DeviceProfileEventData when a
	// device's profile connection state changes.
	DeviceProfileEvent

	// DeviceRefreshEvent is published with bluetooth.DeviceRefreshEventData when a
	// device record is refreshed.
	DeviceRefreshEvent
)

// Value returns the numeric value of the event.
func (e Event) Value() uint {
	return uint(e)
}

// String converts the event to a string.
func (e Event) String() string {
	switch e {
	case ProfileServiceEvent:
		return "profile-service"
	case DeviceProfileEvent:
		return "device-profile"
	case DeviceRefreshEvent:
		return "device-refresh"
	}

	return "unknown"
}

// SubscriberID holds a subscription to an event stream.
type SubscriberID struct {
	// C receives the published event data.
	C chan any

	active bool
	unsub  func()
	once   *sync.Once
}

// IsActive reports whether the subscription receives events.
func (s SubscriberID) IsActive() bool {
	return s.active
}

// Unsubscribe stops the subscription. C is closed asynchronously.
func (s SubscriberID) Unsubscribe() {
	if !s.active || s.unsub == nil {
		return
	}

	s.once.Do(s.unsub)
}
