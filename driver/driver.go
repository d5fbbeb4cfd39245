// Package driver defines the interface a native compute driver needs to implement to be used
// by the typed gocl layer.
//
// It is modeled on the OpenCL entry points, but nothing here calls into a native library:
// a driver may be a cgo binding to a vendor OpenCL runtime, or a pure Go implementation
// (see the sibling soft package). The gocl/cl package builds its ownership-tracked handles
// on top of this interface and never touches a raw handle directly.
//
// Handles are opaque word-sized values owned by the driver. The zero value of every handle
// type is "no handle".
package driver

import (
	"os"
	"strings"
	"unsafe"

	"github.com/pkg/errors"
)

// PlatformID identifies a platform within a driver.
type PlatformID uintptr

// DeviceID identifies a compute device within a platform.
type DeviceID uintptr

// ContextID identifies a created context.
type ContextID uintptr

// QueueID identifies a command queue.
type QueueID uintptr

// MemID identifies a device memory object.
type MemID uintptr

// ProgramID identifies a built program.
type ProgramID uintptr

// EventID identifies a completion event.
type EventID uintptr

// DeviceTypeMask is the device-type bitfield used by device enumeration, with the
// native wire values.
type DeviceTypeMask uint64

const (
	DeviceTypeDefaultMask     DeviceTypeMask = 1 << 0
	DeviceTypeCPUMask         DeviceTypeMask = 1 << 1
	DeviceTypeGPUMask         DeviceTypeMask = 1 << 2
	DeviceTypeAcceleratorMask DeviceTypeMask = 1 << 3
	DeviceTypeCustomMask      DeviceTypeMask = 1 << 4
	DeviceTypeAllMask         DeviceTypeMask = 0xFFFFFFFF
)

// Context property keys, with the native wire values. The typed property list in
// gocl/cl maps its own enum to these when packing the flat (key, value, ..., 0) array
// consumed by CreateContext.
const (
	RawContextPlatform        uintptr = 0x1084
	RawContextInteropUserSync uintptr = 0x1085
	RawGLContext              uintptr = 0x2008
	RawEGLDisplay             uintptr = 0x2009
	RawGLXDisplay             uintptr = 0x200A
	RawWGLHDC                 uintptr = 0x200B
	RawCGLSharegroup          uintptr = 0x200C
	RawD3D10Device            uintptr = 0x4014
	RawD3D11Device            uintptr = 0x401D
	RawAdapterD3D9            uintptr = 0x2025
	RawAdapterD3D9Ex          uintptr = 0x2026
	RawAdapterDXVA            uintptr = 0x2027
)

// Context info query keys.
const (
	RawContextReferenceCount uintptr = 0x1080
	RawContextDevices        uintptr = 0x1081
	RawContextProperties     uintptr = 0x1082
	RawContextNumDevices     uintptr = 0x1083
)

// BuildStatus is the per-device program build status, with the native wire values.
type BuildStatus int32

//go:generate go tool enumer -type=BuildStatus -trimprefix=Build -output=gen_buildstatus_enumer.go driver.go

const (
	BuildSuccess    BuildStatus = 0
	BuildNone       BuildStatus = -1
	BuildError      BuildStatus = -2
	BuildInProgress BuildStatus = -3
)

// CommandStatus is the execution status of an enqueued command, with the native wire
// values. Negative values are driver error codes.
type CommandStatus int32

const (
	CommandComplete  CommandStatus = 0
	CommandRunning   CommandStatus = 1
	CommandSubmitted CommandStatus = 2
	CommandQueued    CommandStatus = 3
)

// MapFlags select the access mode of a mapped buffer region.
type MapFlags uint64

const (
	MapRead                  MapFlags = 1 << 0
	MapWrite                 MapFlags = 1 << 1
	MapWriteInvalidateRegion MapFlags = 1 << 2
)

// PlatformInfo holds the identity strings of a platform.
type PlatformInfo struct {
	Profile    string
	Version    string // e.g. "OpenCL 1.2 <vendor specific>"
	Name       string
	Vendor     string
	Extensions string
}

// DeviceInfo holds the subset of device attributes the typed layer and tooling report.
type DeviceInfo struct {
	Type             DeviceTypeMask
	Name             string
	Vendor           string
	Version          string
	DriverVersion    string
	MaxComputeUnits  uint32
	MaxWorkGroupSize int
	GlobalMemSize    uint64
	LocalMemSize     uint64
	Available        bool
}

// ImageFormat is the raw image format pair passed to image creation.
type ImageFormat struct {
	ChannelOrder    uint32
	ChannelDataType uint32
}

// ImageDesc is the raw image descriptor passed to image creation.
type ImageDesc struct {
	Type       uint32
	Width      int
	Height     int
	Depth      int
	ArraySize  int
	RowPitch   int
	SlicePitch int
	MipLevels  uint32
	Samples    uint32
	Buffer     MemID
}

// BufferRegion is the raw byte-addressed (origin, size) pair defining a sub-buffer.
type BufferRegion struct {
	Origin int
	Size   int
}

// ErrNotImplemented is returned by drivers for entry points they do not support.
//
// It doesn't carry a stack; attach one with errors.Wrapf(ErrNotImplemented, "...") when
// returning it.
var ErrNotImplemented = errors.New("not implemented")

// Driver is the set of native entry points the typed layer consumes.
//
// All calls are synchronous from the host's point of view; device-side completion of
// enqueued commands is tracked through EventIDs. Drivers must be safe for concurrent
// use of distinct handles; the typed layer takes no locks of its own.
type Driver interface {
	// Name is the short registry name of the driver, e.g. "soft".
	Name() string

	// Description is a longer description of the driver that can be used to pretty-print.
	Description() string

	// Platforms enumerates the available platforms.
	Platforms() ([]PlatformID, error)

	// PlatformInfo queries the identity strings of a platform.
	PlatformInfo(p PlatformID) (*PlatformInfo, error)

	// Devices enumerates the devices of a platform matching the type mask.
	Devices(p PlatformID, types DeviceTypeMask) ([]DeviceID, error)

	// DeviceInfo queries the attributes of a device.
	DeviceInfo(d DeviceID) (*DeviceInfo, error)

	// CreateContext creates a context over the given devices. properties is the packed
	// (key, value, ..., 0) array or nil.
	CreateContext(properties []uintptr, devices []DeviceID) (ContextID, error)

	// ReleaseContext decrements the context's reference count, destroying it at zero.
	ReleaseContext(c ContextID) error

	// CreateQueue creates a command queue for one device of the context.
	CreateQueue(c ContextID, d DeviceID, outOfOrder bool) (QueueID, error)

	// ReleaseQueue decrements the queue's reference count, destroying it at zero.
	ReleaseQueue(q QueueID) error

	// CreateBuffer allocates a device memory object of the given size in bytes.
	CreateBuffer(c ContextID, sizeBytes int) (MemID, error)

	// ReleaseMem decrements the memory object's reference count, destroying it at zero.
	ReleaseMem(m MemID) error

	// BuildProgram creates a program from the given source blocks and builds it for the
	// given devices with the given compiler options, in one step. On failure no program
	// handle is returned and the error carries the build log.
	BuildProgram(c ContextID, devices []DeviceID, sources []string, options string) (ProgramID, error)

	// ProgramBuildStatus queries the build status of the program for one device.
	ProgramBuildStatus(p ProgramID, d DeviceID) (BuildStatus, error)

	// ProgramBuildLog queries the build log of the program for one device.
	ProgramBuildLog(p ProgramID, d DeviceID) (string, error)

	// ReleaseProgram decrements the program's reference count, destroying it at zero.
	ReleaseProgram(p ProgramID) error

	// MapBuffer maps a byte range of a buffer into host memory and returns the
	// host-visible pointer. The mapping stays valid until UnmapBuffer is enqueued for
	// the same pointer.
	MapBuffer(q QueueID, m MemID, flags MapFlags, offsetBytes, sizeBytes int) (unsafe.Pointer, error)

	// UnmapBuffer enqueues an unmap of a previously mapped pointer. The call returns as
	// soon as the command is queued; completion is asynchronous. When wantEvent is true
	// the returned EventID tracks completion of the unmap (the caller owns one
	// reference); otherwise the returned EventID is zero.
	UnmapBuffer(q QueueID, m MemID, ptr unsafe.Pointer, waitList []EventID, wantEvent bool) (EventID, error)

	// CreateUserEvent creates an event whose status is controlled by the host.
	CreateUserEvent(c ContextID) (EventID, error)

	// SetUserEventStatus sets the execution status of a user event. Only
	// CommandComplete or a negative error code are valid, and it may be called at most
	// once per event.
	SetUserEventStatus(e EventID, status CommandStatus) error

	// RetainEvent increments the event's reference count.
	RetainEvent(e EventID) error

	// ReleaseEvent decrements the event's reference count, destroying it at zero.
	ReleaseEvent(e EventID) error

	// WaitForEvents blocks until all listed events reach CommandComplete or one of them
	// fails.
	WaitForEvents(events []EventID) error

	// SetEventCallback registers fn to be invoked when the event reaches the given
	// status. If the event already reached it, fn is invoked before the call returns.
	// Only callable on drivers for which SupportsEventCallbacks is true.
	SetEventCallback(e EventID, status CommandStatus, fn func(e EventID, status CommandStatus)) error

	// SupportsEventCallbacks reports whether SetEventCallback works on this driver.
	// Drivers without callback support force the typed layer's mapped regions into
	// their fail-fast cleanup policy.
	SupportsEventCallbacks() bool
}

// Constructor takes a driver-specific config string (possibly empty) and returns a Driver.
type Constructor func(config string) (Driver, error)

var (
	registeredConstructors = make(map[string]Constructor)
	firstRegistered        string
)

// Register a driver constructor under the given name.
//
// To be safe, call Register during initialization of a package.
func Register(name string, constructor Constructor) {
	if len(registeredConstructors) == 0 {
		firstRegistered = name
	}
	registeredConstructors[name] = constructor
}

// DefaultConfig is the driver configuration to use if GOCL_DRIVER is not set.
//
// See NewWithConfig for the format of the configuration string.
var DefaultConfig string

// GOCL_DRIVER is the environment variable with the default driver configuration to use.
//
// The format of the configuration is "<driver_name>:<driver_configuration>", where
// "<driver_name>" is the name of a registered driver (e.g.: "soft") and
// "<driver_configuration>" is driver specific.
const GOCL_DRIVER = "GOCL_DRIVER"

// New returns a new Driver using the default configuration.
//
// The default is:
//
// 1. The environment variable GOCL_DRIVER is used as a configuration if defined.
// 2. Next the variable DefaultConfig is used as a configuration if defined.
// 3. The first registered driver is used with an empty configuration.
//
// It fails if no driver was registered.
func New() (Driver, error) {
	config, found := os.LookupEnv(GOCL_DRIVER)
	if found {
		return NewWithConfig(config)
	}
	if DefaultConfig != "" {
		return NewWithConfig(DefaultConfig)
	}
	return NewWithConfig("")
}

// NewWithConfig takes a configuration string formatted as
// "<driver_name>:<driver_configuration>" and returns the corresponding Driver.
//
// An empty driver name selects the first registered driver.
func NewWithConfig(config string) (Driver, error) {
	if len(registeredConstructors) == 0 {
		return nil, errors.Errorf(`no registered gocl drivers -- maybe import the pure Go one with import _ "github.com/gocl/gocl/driver/soft"?`)
	}
	driverName := firstRegistered
	driverConfig := config
	if idx := strings.Index(config, ":"); idx != -1 {
		driverName = config[:idx]
		driverConfig = config[idx+1:]
	} else if config != "" {
		driverName = config
		driverConfig = ""
	}
	constructor, found := registeredConstructors[driverName]
	if !found {
		return nil, errors.Errorf("can't find gocl driver %q for configuration %q given", driverName, config)
	}
	return constructor(driverConfig)
}

// Registered returns the names of the registered drivers, in no particular order.
func Registered() []string {
	names := make([]string, 0, len(registeredConstructors))
	for name := range registeredConstructors {
		names = append(names, name)
	}
	return names
}
