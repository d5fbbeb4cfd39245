package cl

import (
	"testing"

	"github.com/gocl/gocl/driver"
	"github.com/stretchr/testify/require"
)

func TestDeviceTypeMasksComplete(t *testing.T) {
	seen := make(map[driver.DeviceTypeMask]bool)
	for _, dt := range DeviceTypeValues() {
		mask := dt.Mask()
		require.NotZero(t, mask, "device type %s has no native mask", dt)
		require.False(t, seen[mask], "device type %s reuses a native mask", dt)
		seen[mask] = true
	}
	require.Equal(t, driver.DeviceTypeAllMask, DeviceTypeAll.Mask())
}

func TestAllDevicesSpecifier(t *testing.T) {
	env := newTestEnv(t)
	devices, err := AllDevices{}.ToDeviceList(env.platform)
	require.NoError(t, err)
	require.Len(t, devices, 2)
}

func TestFirstDeviceSpecifier(t *testing.T) {
	env := newTestEnv(t)
	devices, err := FirstDevice{}.ToDeviceList(env.platform)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	require.Equal(t, env.devices[0].ID(), devices[0].ID())
}

func TestSingleDeviceSpecifier(t *testing.T) {
	env := newTestEnv(t)
	devices, err := SingleDevice{Device: env.devices[1]}.ToDeviceList(env.platform)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	require.Equal(t, env.devices[1].ID(), devices[0].ID())
}

func TestDeviceListSpecifier(t *testing.T) {
	env := newTestEnv(t)
	devices, err := DeviceList{env.devices[1], env.devices[0]}.ToDeviceList(env.platform)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	require.Equal(t, env.devices[1].ID(), devices[0].ID())
}

func TestWrappingIndicesSpecifier(t *testing.T) {
	env := newTestEnv(t)

	// Indices wrap modulo the device count of the platform.
	devices, err := WrappingIndices{0, 3, 5}.ToDeviceList(env.platform)
	require.NoError(t, err)
	require.Len(t, devices, 3)
	require.Equal(t, env.devices[0].ID(), devices[0].ID())
	require.Equal(t, env.devices[1].ID(), devices[1].ID())
	require.Equal(t, env.devices[1].ID(), devices[2].ID())

	_, err = WrappingIndices{-1}.ToDeviceList(env.platform)
	require.Error(t, err)
}

func TestTypeFilterSpecifier(t *testing.T) {
	env := newTestEnv(t)

	// The soft driver exposes CPU devices only.
	devices, err := TypeFilter(DeviceTypeCPU).ToDeviceList(env.platform)
	require.NoError(t, err)
	require.Len(t, devices, 2)

	devices, err = TypeFilter(DeviceTypeGPU).ToDeviceList(env.platform)
	require.NoError(t, err)
	require.Empty(t, devices)
}

func TestDeviceInfo(t *testing.T) {
	env := newTestEnv(t)
	info, err := env.devices[0].Info()
	require.NoError(t, err)
	require.NotEmpty(t, info.Name)
	require.NotZero(t, info.GlobalMemSize)
	require.Contains(t, env.devices[0].String(), info.Name)
}

func TestPlatformVersion(t *testing.T) {
	env := newTestEnv(t)
	v, err := env.platform.Version()
	require.NoError(t, err)
	require.True(t, v.AtLeast(1, 2))
}
