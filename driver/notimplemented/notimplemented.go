// Package notimplemented implements a driver.Driver that returns a "not implemented"
// error for every entry point.
//
// This can help bootstrap any driver implementation, and test doubles can embed
// Driver and override only the calls they care about.
package notimplemented

import (
	"unsafe"

	"github.com/gocl/gocl/driver"
	"github.com/pkg/errors"
)

// NotImplementedError is returned by every method.
//
// It doesn't contain a stack, attach one with errors.Wrapf(NotImplementedError, "...") when using it.
var NotImplementedError = driver.ErrNotImplemented

// Driver is a dummy driver that can be embedded to create mock drivers.
type Driver struct{}

var _ driver.Driver = &Driver{}

// Name returns the short name of the driver.
func (d *Driver) Name() string {
	return "notimplemented"
}

// Description is a longer description of the driver.
func (d *Driver) Description() string {
	return "Not Implemented Driver (mock driver for testing)"
}

func notImplemented(entryPoint string) error {
	return errors.Wrapf(NotImplementedError, "driver %q: %s", "notimplemented", entryPoint)
}

func (d *Driver) Platforms() ([]driver.PlatformID, error) {
	return nil, notImplemented("Platforms")
}

func (d *Driver) PlatformInfo(p driver.PlatformID) (*driver.PlatformInfo, error) {
	return nil, notImplemented("PlatformInfo")
}

func (d *Driver) Devices(p driver.PlatformID, types driver.DeviceTypeMask) ([]driver.DeviceID, error) {
	return nil, notImplemented("Devices")
}

func (d *Driver) DeviceInfo(dev driver.DeviceID) (*driver.DeviceInfo, error) {
	return nil, notImplemented("DeviceInfo")
}

func (d *Driver) CreateContext(properties []uintptr, devices []driver.DeviceID) (driver.ContextID, error) {
	return 0, notImplemented("CreateContext")
}

func (d *Driver) ReleaseContext(c driver.ContextID) error {
	return notImplemented("ReleaseContext")
}

func (d *Driver) CreateQueue(c driver.ContextID, dev driver.DeviceID, outOfOrder bool) (driver.QueueID, error) {
	return 0, notImplemented("CreateQueue")
}

func (d *Driver) ReleaseQueue(q driver.QueueID) error {
	return notImplemented("ReleaseQueue")
}

func (d *Driver) CreateBuffer(c driver.ContextID, sizeBytes int) (driver.MemID, error) {
	return 0, notImplemented("CreateBuffer")
}

func (d *Driver) ReleaseMem(m driver.MemID) error {
	return notImplemented("ReleaseMem")
}

func (d *Driver) BuildProgram(c driver.ContextID, devices []driver.DeviceID, sources []string, options string) (driver.ProgramID, error) {
	return 0, notImplemented("BuildProgram")
}

func (d *Driver) ProgramBuildStatus(p driver.ProgramID, dev driver.DeviceID) (driver.BuildStatus, error) {
	return driver.BuildNone, notImplemented("ProgramBuildStatus")
}

func (d *Driver) ProgramBuildLog(p driver.ProgramID, dev driver.DeviceID) (string, error) {
	return "", notImplemented("ProgramBuildLog")
}

func (d *Driver) ReleaseProgram(p driver.ProgramID) error {
	return notImplemented("ReleaseProgram")
}

func (d *Driver) MapBuffer(q driver.QueueID, m driver.MemID, flags driver.MapFlags, offsetBytes, sizeBytes int) (unsafe.Pointer, error) {
	return nil, notImplemented("MapBuffer")
}

func (d *Driver) UnmapBuffer(q driver.QueueID, m driver.MemID, ptr unsafe.Pointer, waitList []driver.EventID, wantEvent bool) (driver.EventID, error) {
	return 0, notImplemented("UnmapBuffer")
}

func (d *Driver) CreateUserEvent(c driver.ContextID) (driver.EventID, error) {
	return 0, notImplemented("CreateUserEvent")
}

func (d *Driver) SetUserEventStatus(e driver.EventID, status driver.CommandStatus) error {
	return notImplemented("SetUserEventStatus")
}

func (d *Driver) RetainEvent(e driver.EventID) error {
	return notImplemented("RetainEvent")
}

func (d *Driver) ReleaseEvent(e driver.EventID) error {
	return notImplemented("ReleaseEvent")
}

func (d *Driver) WaitForEvents(events []driver.EventID) error {
	return notImplemented("WaitForEvents")
}

func (d *Driver) SetEventCallback(e driver.EventID, status driver.CommandStatus, fn func(driver.EventID, driver.CommandStatus)) error {
	return notImplemented("SetEventCallback")
}

// SupportsEventCallbacks reports false: mapped regions built on this driver must be
// unmapped explicitly.
func (d *Driver) SupportsEventCallbacks() bool {
	return false
}
