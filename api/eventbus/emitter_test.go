package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, s SubscriberID) any {
	t.Helper()

	select {
	case data, ok := <-s.C:
		require.True(t, ok, "subscription closed")
		return data

	case <-time.After(time.Second):
		require.FailNow(t, "timed out waiting for event")
	}

	return nil
}

func TestPublishSubscribe(t *testing.T) {
	RegisterEventHandler(DefaultHandler())

	sub := Subscribe(ProfileServiceEvent)
	defer sub.Unsubscribe()
	require.True(t, sub.IsActive())

	other := Subscribe(DeviceRefreshEvent)
	defer other.Unsubscribe()

	Publish(ProfileServiceEvent, "bound")
	assert.Equal(t, "bound", receive(t, sub))

	select {
	case data := <-other.C:
		t.Fatalf("unexpected event on another topic: %v", data)
	default:
	}
}

func TestDisableEvents(t *testing.T) {
	DisableEvents()
	defer RegisterEventHandler(DefaultHandler())

	sub := Subscribe(DeviceProfileEvent)
	assert.False(t, sub.IsActive())

	Publish(DeviceProfileEvent, "dropped")

	_, ok := <-sub.C
	assert.False(t, ok)

	sub.Unsubscribe()
}

func TestPublishNilID(t *testing.T) {
	RegisterEventHandler(DefaultHandler())

	Publish(nil, "ignored")
	assert.False(t, Subscribe(nil).IsActive())
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "profile-service", ProfileServiceEvent.String())
	assert.Equal(t, "device-profile", DeviceProfileEvent.String())
	assert.Equal(t, "device-refresh", DeviceRefreshEvent.String())
	assert.Equal(t, "unknown", Event(0).String())
	assert.Equal(t, uint(3), DeviceRefreshEvent.Value())
}
