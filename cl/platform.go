package cl

import (
	"fmt"

	"github.com/gocl/gocl/driver"
	"github.com/gomlx/exceptions"
)

// Platform is a typed handle to one native platform of a driver.
type Platform struct {
	drv driver.Driver
	id  driver.PlatformID
}

// Platforms enumerates the platforms of the given driver.
func Platforms(drv driver.Driver) ([]*Platform, error) {
	ids, err := drv.Platforms()
	if err != nil {
		return nil, err
	}
	platforms := make([]*Platform, len(ids))
	for i, id := range ids {
		platforms[i] = &Platform{drv: drv, id: id}
	}
	return platforms, nil
}

// AssertValid panics if the platform is nil or zero-valued.
func (p *Platform) AssertValid() {
	if p == nil || p.drv == nil {
		exceptions.Panicf("cl: Platform is nil or was not created through cl.Platforms")
	}
}

// ID returns the raw driver handle.
func (p *Platform) ID() driver.PlatformID { return p.id }

// Driver returns the driver this platform belongs to.
func (p *Platform) Driver() driver.Driver { return p.drv }

// Info queries the platform identity strings.
func (p *Platform) Info() (*driver.PlatformInfo, error) {
	p.AssertValid()
	return p.drv.PlatformInfo(p.id)
}

// Version parses the platform's version string, e.g. "OpenCL 1.2 <vendor>" -> 1.2.
func (p *Platform) Version() (Version, error) {
	info, err := p.Info()
	if err != nil {
		return Version{}, err
	}
	return ParseVersion(info.Version)
}

// Devices enumerates the devices of this platform matching the given type.
func (p *Platform) Devices(t DeviceType) ([]*Device, error) {
	p.AssertValid()
	ids, err := p.drv.Devices(p.id, t.Mask())
	if err != nil {
		return nil, err
	}
	devices := make([]*Device, len(ids))
	for i, id := range ids {
		devices[i] = &Device{drv: p.drv, id: id}
	}
	return devices, nil
}

// AllDeviceList is shorthand for Devices(DeviceTypeAll).
func (p *Platform) AllDeviceList() ([]*Device, error) {
	return p.Devices(DeviceTypeAll)
}

// String implements fmt.Stringer, best effort.
func (p *Platform) String() string {
	if p == nil || p.drv == nil {
		return "Platform(nil)"
	}
	info, err := p.Info()
	if err != nil {
		return fmt.Sprintf("Platform(%#x)", uintptr(p.id))
	}
	return fmt.Sprintf("Platform(%s, %s)", info.Name, info.Version)
}
