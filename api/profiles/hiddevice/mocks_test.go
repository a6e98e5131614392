package hiddevice

import (
	"github.com/bluetuith-org/hidprofile/api/bluetooth"
	"github.com/stretchr/testify/mock"
)

type mockProxy struct {
	mock.Mock
}

func (m *mockProxy) ConnectedDevices() ([]bluetooth.DeviceData, error) {
	args := m.Called()
	devices, _ := args.Get(0).([]bluetooth.DeviceData)

	return devices, args.Error(1)
}

func (m *mockProxy) ConnectionState(address bluetooth.MacAddress) (bluetooth.ConnectionState, error) {
	args := m.Called(address)

	return args.Get(0).(bluetooth.ConnectionState), args.Error(1)
}

func (m *mockProxy) Disconnect(address bluetooth.MacAddress) error {
	return m.Called(address).Error(0)
}

type mockBinder struct {
	mock.Mock
}

func (m *mockBinder) BindProfileProxy(id bluetooth.ProfileID, listener bluetooth.ServiceListener) error {
	return m.Called(id, listener).Error(0)
}

func (m *mockBinder) CloseProfileProxy(id bluetooth.ProfileID, proxy bluetooth.ProfileProxy) error {
	return m.Called(id, proxy).Error(0)
}

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) FindDevice(address bluetooth.MacAddress) (bluetooth.CachedDevice, bool) {
	args := m.Called(address)
	device, _ := args.Get(0).(bluetooth.CachedDevice)

	return device, args.Bool(1)
}

func (m *mockRegistry) AddDevice(device bluetooth.DeviceData) bluetooth.CachedDevice {
	return m.Called(device).Get(0).(bluetooth.CachedDevice)
}

type mockDevice struct {
	mock.Mock
}

func (m *mockDevice) OnProfileStateChanged(profile bluetooth.LocalProfile, state bluetooth.ConnectionState) {
	m.Called(profile, state)
}

func (m *mockDevice) Refresh() {
	m.Called()
}
