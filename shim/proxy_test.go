//go:build !linux

package shim

import (
	"strings"
	"testing"
	"time"

	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/bluetuith-org/hidprofile/api/errorkinds"
	"github.com/bluetuith-org/hidprofile/shim/internal/commands"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hidUUID = "00001124-0000-1000-8000-00805f9b34fb"

// fakeShim replies to commands with canned JSON keyed by the command name.
type fakeShim struct {
	replies map[string]string
	sent    [][]string
}

func (f *fakeShim) execute(params []string) (chan commands.CommandRawData, error) {
	f.sent = append(f.sent, params)

	name := []string{}
	for _, p := range params {
		if strings.HasPrefix(p, "--") {
			break
		}
		name = append(name, p)
	}

	reply, ok := f.replies[strings.Join(name, " ")]
	if !ok {
		reply = `{"status":"error","error":{"name":"UnknownCommand"}}`
	}

	ch := make(chan commands.CommandRawData, 1)
	ch <- commands.CommandRawData{RawData: []byte(reply)}

	return ch, nil
}

func TestShimProxy(t *testing.T) {
	shim := &fakeShim{replies: map[string]string{
		"adapter list": `{"status":"ok","data":{"adapters":[{"address":"00:1A:7D:DA:71:13"}]}}`,
		"adapter get-paired-devices": `{"status":"ok","data":{"devices":[
			{"address":"AA:BB:CC:DD:EE:01","class":1048844,"connected":true},
			{"address":"AA:BB:CC:DD:EE:02","class":1048844,"connected":false},
			{"address":"AA:BB:CC:DD:EE:10","class":9536,"connected":true,"uuids":["` + hidUUID + `"]}
		]}}`,
		"device properties":         `{"status":"ok","data":{"device":{"address":"AA:BB:CC:DD:EE:01","class":1048844,"connected":true}}}`,
		"device disconnect profile": `{"status":"ok"}`,
	}}
	proxy := newHidProxy(shim.execute, time.Second)

	devices, err := proxy.ConnectedDevices()
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "AA:BB:CC:DD:EE:01", devices[0].Address.String())
	assert.Equal(t, "00:1A:7D:DA:71:13", devices[0].AssociatedAdapter.String())

	address := devices[0].Address
	state, err := proxy.ConnectionState(address)
	require.NoError(t, err)
	assert.Equal(t, bluetooth.StateConnected, state)

	require.NoError(t, proxy.Disconnect(address))
	assert.Contains(t, shim.sent[len(shim.sent)-1], hidUUID)

	proxy.close()
	_, err = proxy.ConnectedDevices()
	assert.ErrorIs(t, err, errorkinds.ErrProxyClosed)
	assert.ErrorIs(t, proxy.Disconnect(address), errorkinds.ErrProxyClosed)
}

func TestIsConnectedHost(t *testing.T) {
	laptop := bluetooth.DeviceData{Class: 0x10010c, Connected: true}
	phone := bluetooth.DeviceData{Class: 0x5a020c, Connected: true}
	keyboard := bluetooth.DeviceData{Class: 0x002540, Connected: true, UUIDs: uuid.UUIDs{bluetooth.HidDeviceUUID}}
	headset := bluetooth.DeviceData{Class: 0x240404, Connected: true}

	assert.True(t, isConnectedHost(laptop))
	assert.True(t, isConnectedHost(phone))
	assert.False(t, isConnectedHost(keyboard))
	assert.False(t, isConnectedHost(headset))

	laptop.Connected = false
	assert.False(t, isConnectedHost(laptop))

	phone.UUIDs = uuid.UUIDs{bluetooth.HidDeviceUUID}
	assert.False(t, isConnectedHost(phone))
}
