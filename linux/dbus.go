//go:build linux

package linux

import (
	"errors"
	"path"
	"slices"
	"strings"

	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"
)

const (
	dbusBusName           = "org.freedesktop.DBus"
	dbusNameHasOwner      = dbusBusName + ".NameHasOwner"
	dbusNameOwnerChanged  = "NameOwnerChanged"
	dbusPropertiesGetAll  = dbusBusName + ".Properties.GetAll"
	dbusGetManagedObjects = dbusBusName + ".ObjectManager.GetManagedObjects"
	dbusErrUnknownObject  = dbusBusName + ".Error.UnknownObject"

	bluezBusName           = "org.bluez"
	bluezPathPrefix        = "/org/bluez/"
	bluezAdapterIface      = bluezBusName + ".Adapter1"
	bluezDeviceIface       = bluezBusName + ".Device1"
	bluezProfileIface      = bluezBusName + ".Profile1"
	bluezProfileManager    = bluezBusName + ".ProfileManager1"
	bluezRegisterProfile   = bluezProfileManager + ".RegisterProfile"
	bluezUnregisterProfile = bluezProfileManager + ".UnregisterProfile"
	bluezErrDoesNotExist   = bluezBusName + ".Error.DoesNotExist"
	bluezErrRejected       = bluezBusName + ".Error.Rejected"

	bluezRootPath    = dbus.ObjectPath("/")
	bluezManagerPath = dbus.ObjectPath("/org/bluez")

	// hidRolePath is where the HID Device role object is exported.
	hidRolePath = dbus.ObjectPath("/org/bluetuith/hidprofile/device")

	// hidControlPSM is the L2CAP PSM of the HID control channel.
	hidControlPSM uint16 = 0x11
)

type managedObjects = map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// adapterPath returns the object path of an adapter, for example "/org/bluez/hci0".
func adapterPath(adapter string) dbus.ObjectPath {
	return dbus.ObjectPath(bluezPathPrefix + adapter)
}

// devicePath returns the object path of a device on an adapter,
// for example "/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF".
func devicePath(adapter dbus.ObjectPath, address bluetooth.MacAddress) dbus.ObjectPath {
	return adapter + "/dev_" + dbus.ObjectPath(strings.ReplaceAll(address.String(), ":", "_"))
}

// addressFromPath parses the device address from a device object path.
func addressFromPath(device dbus.ObjectPath) (bluetooth.MacAddress, bool) {
	base, ok := strings.CutPrefix(path.Base(string(device)), "dev_")
	if !ok {
		return bluetooth.MacAddress{}, false
	}

	address, err := bluetooth.ParseMAC(strings.ReplaceAll(base, "_", ":"))

	return address, err == nil
}

// roleOptions returns the RegisterProfile options of the HID Device role.
// The local adapter accepts connections from hosts and never initiates them.
func roleOptions() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"Name":                  dbus.MakeVariant("HID Device"),
		"Role":                  dbus.MakeVariant("server"),
		"PSM":                   dbus.MakeVariant(hidControlPSM),
		"RequireAuthentication": dbus.MakeVariant(true),
		"RequireAuthorization":  dbus.MakeVariant(false),
		"AutoConnect":           dbus.MakeVariant(false),
	}
}

// nameOwner returns the new owner of the org.bluez bus name from a NameOwnerChanged signal.
func nameOwner(signal *dbus.Signal) (string, bool) {
	if signal == nil || signal.Name != dbusBusName+"."+dbusNameOwnerChanged || len(signal.Body) != 3 {
		return "", false
	}

	if name, ok := signal.Body[0].(string); !ok || name != bluezBusName {
		return "", false
	}

	owner, ok := signal.Body[2].(string)

	return owner, ok
}

// isUnknownObject reports whether a method call failed because the object does not exist.
func isUnknownObject(err error) bool {
	var derr dbus.Error
	if errors.As(err, &derr) {
		return derr.Name == dbusErrUnknownObject || derr.Name == bluezErrDoesNotExist
	}

	return false
}

// deviceFromProperties converts org.bluez.Device1 properties to device data.
func deviceFromProperties(props map[string]dbus.Variant) (bluetooth.DeviceData, error) {
	var device bluetooth.DeviceData

	if v, ok := props["Address"].Value().(string); ok {
		address, err := bluetooth.ParseMAC(v)
		if err != nil {
			return device, err
		}
		device.Address = address
	}

	device.Name, _ = props["Name"].Value().(string)
	device.Alias, _ = props["Alias"].Value().(string)
	device.Paired, _ = props["Paired"].Value().(bool)
	device.Connected, _ = props["Connected"].Value().(bool)
	if class, ok := props["Class"].Value().(uint32); ok {
		device.Class = bluetooth.DeviceClass(class)
	}

	if uuids, ok := props["UUIDs"].Value().([]string); ok {
		for _, u := range uuids {
			if parsed, err := uuid.Parse(u); err == nil {
				device.UUIDs = append(device.UUIDs, parsed)
			}
		}
	}

	return device, nil
}

// hostDevices returns the device data of the hosts connected to the HID Device
// role, ordered by address. A host without a device object is reported by
// its address alone.
func hostDevices(adapter dbus.ObjectPath, hosts []dbus.ObjectPath, objects managedObjects) []bluetooth.DeviceData {
	var adapterAddress bluetooth.MacAddress
	if v, ok := objects[adapter][bluezAdapterIface]["Address"].Value().(string); ok {
		adapterAddress, _ = bluetooth.ParseMAC(v)
	}

	devices := make([]bluetooth.DeviceData, 0, len(hosts))
	for _, host := range hosts {
		device, err := deviceFromProperties(objects[host][bluezDeviceIface])
		if err != nil {
			continue
		}

		if device.Address.IsNil() {
			address, ok := addressFromPath(host)
			if !ok {
				continue
			}
			device.Address = address
		}

		device.Connected = true
		device.AssociatedAdapter = adapterAddress
		devices = append(devices, device)
	}

	slices.SortFunc(devices, func(a, b bluetooth.DeviceData) int {
		return slices.Compare(a.Address[:], b.Address[:])
	})

	return devices
}
