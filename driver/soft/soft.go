// Package soft implements a simple, pure Go, in-memory driver.Driver.
//
// It does no real device computation: buffers live in host memory, enqueued commands
// complete immediately and event callbacks are delivered synchronously. It exists so the
// typed gocl layer (and code built on it) can run and be tested without a native OpenCL
// runtime, and to document by example what a real driver must guarantee.
package soft

import (
	"runtime"
	"strconv"
	"sync"

	"github.com/gocl/gocl/driver"
	"github.com/pkg/errors"
)

// DriverName to be used in GOCL_DRIVER to specify this driver.
const DriverName = "soft"

// Registers New() as the constructor for the "soft" driver.
func init() {
	driver.Register(DriverName, New)
}

// New constructs a soft Driver. The configuration string is the virtual device count
// (default 1).
func New(config string) (driver.Driver, error) {
	numDevices := 1
	if config != "" {
		n, err := strconv.Atoi(config)
		if err != nil || n < 1 {
			return nil, errors.Errorf("driver %q: invalid device count configuration %q", DriverName, config)
		}
		numDevices = n
	}
	return newDriver(numDevices), nil
}

// softPlatform is the single platform exposed by this driver.
const softPlatform driver.PlatformID = 1

type mapping struct {
	offsetBytes int
	sizeBytes   int
}

type buffer struct {
	data     []byte
	mappings map[uintptr]mapping // keyed by the mapped pointer
}

type eventCallback struct {
	at driver.CommandStatus
	fn func(driver.EventID, driver.CommandStatus)
}

type event struct {
	user      bool
	status    driver.CommandStatus
	statusSet bool // user events only: SetUserEventStatus may run at most once
	refs      int
	done      chan struct{}
	callbacks []eventCallback
}

type program struct {
	devices []driver.DeviceID
	sources []string
	options string
	status  map[driver.DeviceID]driver.BuildStatus
	log     map[driver.DeviceID]string
}

// Driver implements driver.Driver backed by host memory.
type Driver struct {
	mu sync.Mutex

	devices  []driver.DeviceID
	contexts map[driver.ContextID][]driver.DeviceID
	queues   map[driver.QueueID]driver.ContextID
	buffers  map[driver.MemID]*buffer
	programs map[driver.ProgramID]*program
	events   map[driver.EventID]*event

	nextID uintptr
}

// Compile-time check that soft.Driver implements driver.Driver.
var _ driver.Driver = &Driver{}

func newDriver(numDevices int) *Driver {
	d := &Driver{
		contexts: make(map[driver.ContextID][]driver.DeviceID),
		queues:   make(map[driver.QueueID]driver.ContextID),
		buffers:  make(map[driver.MemID]*buffer),
		programs: make(map[driver.ProgramID]*program),
		events:   make(map[driver.EventID]*event),
		nextID:   0x100,
	}
	d.devices = make([]driver.DeviceID, numDevices)
	for i := range d.devices {
		d.devices[i] = driver.DeviceID(0x10 + i)
	}
	return d
}

// Name returns the short name of the driver.
func (d *Driver) Name() string { return DriverName }

// Description is a longer description of the driver.
func (d *Driver) Description() string {
	return "Soft Portable Driver (host-memory, no native runtime)"
}

func (d *Driver) newID() uintptr {
	id := d.nextID
	d.nextID++
	return id
}

func (d *Driver) Platforms() ([]driver.PlatformID, error) {
	return []driver.PlatformID{softPlatform}, nil
}

func (d *Driver) PlatformInfo(p driver.PlatformID) (*driver.PlatformInfo, error) {
	if p != softPlatform {
		return nil, errors.Errorf("driver %q: unknown platform %#x", DriverName, uintptr(p))
	}
	return &driver.PlatformInfo{
		Profile:    "FULL_PROFILE",
		Version:    "OpenCL 1.2 gocl-soft",
		Name:       "GoCL Soft",
		Vendor:     "gocl project",
		Extensions: "",
	}, nil
}

func (d *Driver) Devices(p driver.PlatformID, types driver.DeviceTypeMask) ([]driver.DeviceID, error) {
	if p != softPlatform {
		return nil, errors.Errorf("driver %q: unknown platform %#x", DriverName, uintptr(p))
	}
	// All virtual devices are CPU-type.
	if types&(driver.DeviceTypeCPUMask|driver.DeviceTypeDefaultMask) == 0 && types != driver.DeviceTypeAllMask {
		return nil, nil
	}
	out := make([]driver.DeviceID, len(d.devices))
	copy(out, d.devices)
	return out, nil
}

func (d *Driver) deviceIndex(dev driver.DeviceID) int {
	for i, id := range d.devices {
		if id == dev {
			return i
		}
	}
	return -1
}

func (d *Driver) DeviceInfo(dev driver.DeviceID) (*driver.DeviceInfo, error) {
	idx := d.deviceIndex(dev)
	if idx < 0 {
		return nil, errors.Errorf("driver %q: unknown device %#x", DriverName, uintptr(dev))
	}
	return &driver.DeviceInfo{
		Type:             driver.DeviceTypeCPUMask,
		Name:             "Soft Virtual Device #" + strconv.Itoa(idx),
		Vendor:           "gocl project",
		Version:          "OpenCL 1.2 gocl-soft",
		DriverVersion:    "1.0",
		MaxComputeUnits:  uint32(runtime.NumCPU()),
		MaxWorkGroupSize: 1024,
		GlobalMemSize:    1 << 31,
		LocalMemSize:     64 << 10,
		Available:        true,
	}, nil
}

func (d *Driver) CreateContext(properties []uintptr, devices []driver.DeviceID) (driver.ContextID, error) {
	if len(properties) > 0 && properties[len(properties)-1] != 0 {
		return 0, errors.Errorf("driver %q: context property list is not zero-terminated", DriverName)
	}
	if len(devices) == 0 {
		return 0, errors.Errorf("driver %q: CreateContext with no devices", DriverName)
	}
	for _, dev := range devices {
		if d.deviceIndex(dev) < 0 {
			return 0, errors.Errorf("driver %q: unknown device %#x", DriverName, uintptr(dev))
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	id := driver.ContextID(d.newID())
	ctxDevices := make([]driver.DeviceID, len(devices))
	copy(ctxDevices, devices)
	d.contexts[id] = ctxDevices
	return id, nil
}

func (d *Driver) ReleaseContext(c driver.ContextID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, found := d.contexts[c]; !found {
		return errors.Errorf("driver %q: release of unknown context %#x", DriverName, uintptr(c))
	}
	delete(d.contexts, c)
	return nil
}

func (d *Driver) CreateQueue(c driver.ContextID, dev driver.DeviceID, outOfOrder bool) (driver.QueueID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ctxDevices, found := d.contexts[c]
	if !found {
		return 0, errors.Errorf("driver %q: unknown context %#x", DriverName, uintptr(c))
	}
	inContext := false
	for _, id := range ctxDevices {
		inContext = inContext || id == dev
	}
	if !inContext {
		return 0, errors.Errorf("driver %q: device %#x not part of context %#x", DriverName, uintptr(dev), uintptr(c))
	}
	id := driver.QueueID(d.newID())
	d.queues[id] = c
	return id, nil
}

func (d *Driver) ReleaseQueue(q driver.QueueID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, found := d.queues[q]; !found {
		return errors.Errorf("driver %q: release of unknown queue %#x", DriverName, uintptr(q))
	}
	delete(d.queues, q)
	return nil
}

func (d *Driver) CreateBuffer(c driver.ContextID, sizeBytes int) (driver.MemID, error) {
	if sizeBytes <= 0 {
		return 0, errors.Errorf("driver %q: invalid buffer size %d", DriverName, sizeBytes)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, found := d.contexts[c]; !found {
		return 0, errors.Errorf("driver %q: unknown context %#x", DriverName, uintptr(c))
	}
	id := driver.MemID(d.newID())
	d.buffers[id] = &buffer{
		data:     make([]byte, sizeBytes),
		mappings: make(map[uintptr]mapping),
	}
	return id, nil
}

func (d *Driver) ReleaseMem(m driver.MemID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf, found := d.buffers[m]
	if !found {
		return errors.Errorf("driver %q: release of unknown memory object %#x", DriverName, uintptr(m))
	}
	if len(buf.mappings) > 0 {
		return errors.Errorf("driver %q: memory object %#x still has %d active mapping(s)",
			DriverName, uintptr(m), len(buf.mappings))
	}
	delete(d.buffers, m)
	return nil
}
