package cl

import (
	"fmt"

	"github.com/gocl/gocl/driver"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// DeviceType selects devices by kind. It is a plain Go enum; the native bitfield values
// live in the explicit deviceTypeMasks table below, never in the enum discriminants.
type DeviceType int

//go:generate go tool enumer -type=DeviceType -trimprefix=DeviceType -output=gen_devicetype_enumer.go device.go

const (
	DeviceTypeDefault DeviceType = iota
	DeviceTypeCPU
	DeviceTypeGPU
	DeviceTypeAccelerator
	DeviceTypeCustom
	DeviceTypeAll
)

// deviceTypeMasks maps every DeviceType to its native wire mask. Completeness (every
// enum value mapped) is enforced by a test over DeviceTypeValues().
var deviceTypeMasks = map[DeviceType]driver.DeviceTypeMask{
	DeviceTypeDefault:     driver.DeviceTypeDefaultMask,
	DeviceTypeCPU:         driver.DeviceTypeCPUMask,
	DeviceTypeGPU:         driver.DeviceTypeGPUMask,
	DeviceTypeAccelerator: driver.DeviceTypeAcceleratorMask,
	DeviceTypeCustom:      driver.DeviceTypeCustomMask,
	DeviceTypeAll:         driver.DeviceTypeAllMask,
}

// Mask returns the native wire mask for the device type. An unmapped value is a bug in
// this package, not a recoverable condition.
func (t DeviceType) Mask() driver.DeviceTypeMask {
	mask, found := deviceTypeMasks[t]
	if !found {
		exceptions.Panicf("cl: DeviceType %s has no wire mapping", t)
	}
	return mask
}

// Device is a typed handle to one compute device. Devices are enumerated, never created,
// and need no release.
type Device struct {
	drv driver.Driver
	id  driver.DeviceID
}

// AssertValid panics if the device is nil or zero-valued.
func (d *Device) AssertValid() {
	if d == nil || d.drv == nil {
		exceptions.Panicf("cl: Device is nil or was not obtained from a Platform")
	}
}

// ID returns the raw driver handle.
func (d *Device) ID() driver.DeviceID { return d.id }

// Info queries the device attributes.
func (d *Device) Info() (*driver.DeviceInfo, error) {
	d.AssertValid()
	return d.drv.DeviceInfo(d.id)
}

// Name returns the device name, best effort.
func (d *Device) Name() string {
	info, err := d.Info()
	if err != nil {
		return fmt.Sprintf("Device(%#x)", uintptr(d.id))
	}
	return info.Name
}

// String implements fmt.Stringer.
func (d *Device) String() string {
	if d == nil {
		return "Device(nil)"
	}
	return d.Name()
}

// deviceIDList extracts the raw driver handles of a device list.
func deviceIDList(devices []*Device) []driver.DeviceID {
	ids := make([]driver.DeviceID, len(devices))
	for i, d := range devices {
		d.AssertValid()
		ids[i] = d.id
	}
	return ids
}

// DeviceSpecifier resolves to a concrete device list within a platform. A ProgramBuilder
// carries at most one.
type DeviceSpecifier interface {
	// ToDeviceList resolves the specifier against the platform. An empty result is not
	// an error here; callers that need devices check for emptiness themselves.
	ToDeviceList(p *Platform) ([]*Device, error)
}

// AllDevices selects every device of the platform.
type AllDevices struct{}

func (AllDevices) ToDeviceList(p *Platform) ([]*Device, error) {
	return p.AllDeviceList()
}

// FirstDevice selects the first device of the platform.
type FirstDevice struct{}

func (FirstDevice) ToDeviceList(p *Platform) ([]*Device, error) {
	devices, err := p.AllDeviceList()
	if err != nil || len(devices) == 0 {
		return nil, err
	}
	return devices[:1], nil
}

// SingleDevice selects one concrete device.
type SingleDevice struct {
	Device *Device
}

func (s SingleDevice) ToDeviceList(p *Platform) ([]*Device, error) {
	if s.Device == nil {
		return nil, errors.Errorf("cl: SingleDevice specifier with nil device")
	}
	return []*Device{s.Device}, nil
}

// DeviceList selects a concrete list of devices.
type DeviceList []*Device

func (l DeviceList) ToDeviceList(p *Platform) ([]*Device, error) {
	return append([]*Device(nil), l...), nil
}

// WrappingIndices selects devices by zero-based index into the platform's device list.
// Out of range indices round-robin around to 0 and count up again (modulo).
type WrappingIndices []int

func (w WrappingIndices) ToDeviceList(p *Platform) ([]*Device, error) {
	available, err := p.AllDeviceList()
	if err != nil {
		return nil, err
	}
	if len(available) == 0 || len(w) == 0 {
		return nil, nil
	}
	devices := make([]*Device, len(w))
	for i, idx := range w {
		if idx < 0 {
			return nil, errors.Errorf("cl: negative device index %d in specifier", idx)
		}
		devices[i] = available[idx%len(available)]
	}
	return devices, nil
}

// TypeFilter selects every device of the platform matching a device type.
type TypeFilter DeviceType

func (t TypeFilter) ToDeviceList(p *Platform) ([]*Device, error) {
	return p.Devices(DeviceType(t))
}
