package soft

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/gocl/gocl/driver"
	"github.com/stretchr/testify/require"
)

// newStack builds a driver with a context over every device and a queue on the first.
func newStack(t *testing.T, numDevices int) (*Driver, driver.ContextID, driver.QueueID) {
	t.Helper()
	d := newDriver(numDevices)
	ctx, err := d.CreateContext([]uintptr{driver.RawContextPlatform, uintptr(softPlatform), 0}, d.devices)
	require.NoError(t, err)
	q, err := d.CreateQueue(ctx, d.devices[0], false)
	require.NoError(t, err)
	return d, ctx, q
}

func TestEnumeration(t *testing.T) {
	d := newDriver(3)
	platforms, err := d.Platforms()
	require.NoError(t, err)
	require.Equal(t, []driver.PlatformID{softPlatform}, platforms)

	info, err := d.PlatformInfo(softPlatform)
	require.NoError(t, err)
	require.Contains(t, info.Version, "OpenCL")

	devices, err := d.Devices(softPlatform, driver.DeviceTypeAllMask)
	require.NoError(t, err)
	require.Len(t, devices, 3)

	cpus, err := d.Devices(softPlatform, driver.DeviceTypeCPUMask)
	require.NoError(t, err)
	require.Len(t, cpus, 3)

	gpus, err := d.Devices(softPlatform, driver.DeviceTypeGPUMask)
	require.NoError(t, err)
	require.Empty(t, gpus)

	dInfo, err := d.DeviceInfo(devices[1])
	require.NoError(t, err)
	require.Contains(t, dInfo.Name, "#1")
	require.True(t, dInfo.Available)

	_, err = d.DeviceInfo(driver.DeviceID(0xDEAD))
	require.Error(t, err)
}

func TestCreateContextValidatesProperties(t *testing.T) {
	d := newDriver(1)

	// Missing zero terminator.
	_, err := d.CreateContext([]uintptr{driver.RawContextPlatform, uintptr(softPlatform)}, d.devices)
	require.Error(t, err)

	// No devices.
	_, err = d.CreateContext(nil, nil)
	require.Error(t, err)

	// Nil properties are fine.
	ctx, err := d.CreateContext(nil, d.devices)
	require.NoError(t, err)
	require.NoError(t, d.ReleaseContext(ctx))
	require.Error(t, d.ReleaseContext(ctx))
}

func TestQueueRequiresContextDevice(t *testing.T) {
	d := newDriver(2)
	ctx, err := d.CreateContext(nil, d.devices[:1])
	require.NoError(t, err)

	_, err = d.CreateQueue(ctx, d.devices[1], false)
	require.Error(t, err, "device outside the context")

	q, err := d.CreateQueue(ctx, d.devices[0], true)
	require.NoError(t, err)
	require.NoError(t, d.ReleaseQueue(q))
}

func TestMapUnmapLifecycle(t *testing.T) {
	d, ctx, q := newStack(t, 1)
	buf, err := d.CreateBuffer(ctx, 32)
	require.NoError(t, err)

	ptr, err := d.MapBuffer(q, buf, driver.MapWrite, 8, 16)
	require.NoError(t, err)
	require.NotNil(t, ptr)

	// Release is refused while the mapping is live.
	require.Error(t, d.ReleaseMem(buf))

	// Unmap of a pointer that was never mapped.
	var bogus int
	_, err = d.UnmapBuffer(q, buf, unsafe.Pointer(&bogus), nil, false)
	require.Error(t, err)

	ev, err := d.UnmapBuffer(q, buf, ptr, nil, true)
	require.NoError(t, err)
	require.NotZero(t, ev)
	require.NoError(t, d.WaitForEvents([]driver.EventID{ev}))
	require.NoError(t, d.ReleaseEvent(ev))

	_, err = d.UnmapBuffer(q, buf, ptr, nil, false)
	require.Error(t, err, "second unmap of the same pointer")

	require.NoError(t, d.ReleaseMem(buf))
}

func TestMapBufferBounds(t *testing.T) {
	d, ctx, q := newStack(t, 1)
	buf, err := d.CreateBuffer(ctx, 16)
	require.NoError(t, err)

	_, err = d.MapBuffer(q, buf, driver.MapRead, 0, 17)
	require.Error(t, err)
	_, err = d.MapBuffer(q, buf, driver.MapRead, 16, 1)
	require.Error(t, err)
	_, err = d.MapBuffer(q, buf, 0, 0, 16)
	require.Error(t, err, "flags are required")
}

func TestBuildProgram(t *testing.T) {
	d, ctx, _ := newStack(t, 2)

	id, err := d.BuildProgram(ctx, d.devices, []string{"__kernel void f() {}\n"}, " ")
	require.NoError(t, err)
	for _, dev := range d.devices {
		status, err := d.ProgramBuildStatus(id, dev)
		require.NoError(t, err)
		require.Equal(t, driver.BuildSuccess, status)
	}

	source, err := d.ProgramSource(id)
	require.NoError(t, err)
	require.Equal(t, "__kernel void f() {}\n", source)
	require.NoError(t, d.ReleaseProgram(id))

	_, err = d.BuildProgram(ctx, d.devices, []string{"line one\n#error no fp64 support\n"}, "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no fp64 support")
	require.Contains(t, err.Error(), "line 2")

	_, err = d.BuildProgram(ctx, nil, []string{"x"}, "")
	require.Error(t, err, "devices are required")
	_, err = d.BuildProgram(ctx, d.devices, nil, "")
	require.Error(t, err, "sources are required")
}

func TestUserEvents(t *testing.T) {
	d, ctx, _ := newStack(t, 1)

	ev, err := d.CreateUserEvent(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var waitErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		waitErr = d.WaitForEvents([]driver.EventID{ev})
	}()
	require.NoError(t, d.SetUserEventStatus(ev, driver.CommandComplete))
	wg.Wait()
	require.NoError(t, waitErr)

	// Status may be set at most once.
	require.Error(t, d.SetUserEventStatus(ev, driver.CommandComplete))
	require.NoError(t, d.ReleaseEvent(ev))
}

func TestFailedUserEventPropagates(t *testing.T) {
	d, ctx, _ := newStack(t, 1)

	ev, err := d.CreateUserEvent(ctx)
	require.NoError(t, err)
	require.NoError(t, d.SetUserEventStatus(ev, driver.CommandStatus(-36)))
	require.Error(t, d.WaitForEvents([]driver.EventID{ev}))
	require.NoError(t, d.ReleaseEvent(ev))
}

func TestEventCallbacks(t *testing.T) {
	d, ctx, _ := newStack(t, 1)
	require.True(t, d.SupportsEventCallbacks())

	ev, err := d.CreateUserEvent(ctx)
	require.NoError(t, err)

	fired := make(chan driver.CommandStatus, 1)
	err = d.SetEventCallback(ev, driver.CommandComplete, func(_ driver.EventID, status driver.CommandStatus) {
		fired <- status
	})
	require.NoError(t, err)

	require.NoError(t, d.SetUserEventStatus(ev, driver.CommandComplete))
	require.Equal(t, driver.CommandComplete, <-fired)

	// Registering on an already complete event fires immediately.
	err = d.SetEventCallback(ev, driver.CommandComplete, func(_ driver.EventID, status driver.CommandStatus) {
		fired <- status
	})
	require.NoError(t, err)
	require.Equal(t, driver.CommandComplete, <-fired)

	require.NoError(t, d.ReleaseEvent(ev))
}

func TestEventRefCounting(t *testing.T) {
	d, ctx, _ := newStack(t, 1)

	ev, err := d.CreateUserEvent(ctx)
	require.NoError(t, err)
	require.NoError(t, d.RetainEvent(ev))
	require.NoError(t, d.ReleaseEvent(ev))
	require.NoError(t, d.SetUserEventStatus(ev, driver.CommandComplete))
	require.NoError(t, d.ReleaseEvent(ev))

	// Gone after the last release.
	require.Error(t, d.RetainEvent(ev))
}
