package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintEvents(t *testing.T) {
	service := make(chan any, 1)
	refresh := make(chan any, 1)

	address, err := bluetooth.ParseMAC("AA:BB:CC:DD:EE:02")
	require.NoError(t, err)

	service <- bluetooth.ProfileServiceEventData{Profile: bluetooth.ProfileHidDevice, Ready: true}
	refresh <- bluetooth.DeviceRefreshEventData{
		Device:   bluetooth.DeviceData{Address: address, Alias: "Work laptop"},
		Profiles: []bluetooth.ProfileID{bluetooth.ProfileHidDevice},
	}
	close(service)
	close(refresh)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	require.NoError(t, printEvents(ctx, &out, service, refresh))

	assert.Contains(t, out.String(), "ready=true")
	assert.Contains(t, out.String(), "AA:BB:CC:DD:EE:02 Work laptop")
}

func TestPrintEventsWithClosedChannels(t *testing.T) {
	service := make(chan any)
	refresh := make(chan any)
	close(service)
	close(refresh)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		var out bytes.Buffer
		done <- printEvents(ctx, &out, service, refresh)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		require.FailNow(t, "printing events did not stop with its context")
	}
}
