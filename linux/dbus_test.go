//go:build linux

package linux

import (
	"errors"
	"testing"

	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hidUUID = "00001124-0000-1000-8000-00805f9b34fb"
const audioUUID = "0000110b-0000-1000-8000-00805f9b34fb"

func TestPaths(t *testing.T) {
	address, err := bluetooth.ParseMAC("aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)

	adapter := adapterPath("hci0")
	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci0"), adapter)
	assert.Equal(t, dbus.ObjectPath("/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF"), devicePath(adapter, address))
}

func TestNameOwner(t *testing.T) {
	signal := func(name string, body ...any) *dbus.Signal {
		return &dbus.Signal{Name: name, Body: body}
	}

	owner, ok := nameOwner(signal("org.freedesktop.DBus.NameOwnerChanged", "org.bluez", "", ":1.7"))
	assert.True(t, ok)
	assert.Equal(t, ":1.7", owner)

	owner, ok = nameOwner(signal("org.freedesktop.DBus.NameOwnerChanged", "org.bluez", ":1.7", ""))
	assert.True(t, ok)
	assert.Empty(t, owner)

	_, ok = nameOwner(signal("org.freedesktop.DBus.NameOwnerChanged", "org.freedesktop.NetworkManager", "", ":1.9"))
	assert.False(t, ok)

	_, ok = nameOwner(signal("org.freedesktop.DBus.Properties.PropertiesChanged", "org.bluez.Device1"))
	assert.False(t, ok)

	_, ok = nameOwner(nil)
	assert.False(t, ok)
}

func TestAddressFromPath(t *testing.T) {
	address, ok := addressFromPath("/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF")
	require.True(t, ok)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", address.String())

	_, ok = addressFromPath("/org/bluez/hci0")
	assert.False(t, ok)

	_, ok = addressFromPath("/org/bluez/hci0/dev_AA_BB")
	assert.False(t, ok)
}

func TestRoleOptions(t *testing.T) {
	opts := roleOptions()

	assert.Equal(t, "server", opts["Role"].Value())
	assert.Equal(t, uint16(0x11), opts["PSM"].Value())
	assert.Equal(t, false, opts["AutoConnect"].Value())
}

func TestIsUnknownObject(t *testing.T) {
	assert.True(t, isUnknownObject(dbus.Error{Name: dbusErrUnknownObject}))
	assert.True(t, isUnknownObject(dbus.Error{Name: "org.bluez.Error.DoesNotExist"}))
	assert.False(t, isUnknownObject(dbus.Error{Name: "org.bluez.Error.Failed"}))
	assert.False(t, isUnknownObject(errors.New("timeout")))
}

func TestDeviceFromProperties(t *testing.T) {
	props := deviceProps("AA:BB:CC:DD:EE:01", classLaptop, true, hidUUID, "not-a-uuid")[bluezDeviceIface]
	props["Alias"] = dbus.MakeVariant("Work laptop")

	device, err := deviceFromProperties(props)
	require.NoError(t, err)

	assert.Equal(t, "AA:BB:CC:DD:EE:01", device.Address.String())
	assert.Equal(t, "Work laptop", device.DisplayName())
	assert.True(t, device.Connected)
	assert.True(t, device.Paired)
	assert.Equal(t, bluetooth.DeviceClass(classLaptop), device.Class)
	assert.Len(t, device.UUIDs, 1)
	assert.True(t, device.HasProfile(bluetooth.HidDeviceUUID))

	_, err = deviceFromProperties(map[string]dbus.Variant{"Address": dbus.MakeVariant("bogus")})
	assert.Error(t, err)
}

func TestHostDevices(t *testing.T) {
	objects := managedObjects{
		"/org/bluez/hci0":                       adapterProps("00:11:22:33:44:55"),
		"/org/bluez/hci0/dev_AA_BB_CC_DD_EE_02": deviceProps("AA:BB:CC:DD:EE:02", classLaptop, true, audioUUID),
		"/org/bluez/hci0/dev_AA_BB_CC_DD_EE_01": deviceProps("AA:BB:CC:DD:EE:01", classPhone, false),
		"/org/bluez/hci0/dev_AA_BB_CC_DD_EE_10": deviceProps("AA:BB:CC:DD:EE:10", classKeyboard, true, hidUUID),
	}
	hosts := []dbus.ObjectPath{
		"/org/bluez/hci0/dev_AA_BB_CC_DD_EE_02",
		"/org/bluez/hci0/dev_AA_BB_CC_DD_EE_01",
		"/org/bluez/hci0/dev_AA_BB_CC_DD_EE_03",
	}

	devices := hostDevices(adapterPath("hci0"), hosts, objects)
	require.Len(t, devices, 3)

	for i, address := range []string{"AA:BB:CC:DD:EE:01", "AA:BB:CC:DD:EE:02", "AA:BB:CC:DD:EE:03"} {
		assert.Equal(t, address, devices[i].Address.String())
		assert.True(t, devices[i].Connected)
		assert.Equal(t, "00:11:22:33:44:55", devices[i].AssociatedAdapter.String())
	}

	assert.Equal(t, bluetooth.DeviceClass(classLaptop), devices[1].Class)
	assert.False(t, devices[1].HasProfile(bluetooth.HidDeviceUUID))
	assert.Empty(t, devices[2].Name)

	assert.Empty(t, hostDevices(adapterPath("hci0"), nil, objects))
}
