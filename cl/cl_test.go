package cl

import (
	"testing"

	"github.com/gocl/gocl/driver"
	"github.com/gocl/gocl/driver/soft"
	"github.com/stretchr/testify/require"
)

// testEnv is a ready-to-use stack on the soft driver: one platform, two virtual
// devices, a context over both and a queue on the first.
type testEnv struct {
	drv      driver.Driver
	platform *Platform
	devices  []*Device
	ctx      *Context
	queue    *Queue
}

func newTestEnv(t *testing.T) *testEnv {
	drv, err := soft.New("2")
	require.NoError(t, err)

	platforms, err := Platforms(drv)
	require.NoError(t, err)
	require.Len(t, platforms, 1)
	platform := platforms[0]

	devices, err := platform.AllDeviceList()
	require.NoError(t, err)
	require.Len(t, devices, 2)

	ctx, err := NewContext(NewContextProperties().Platform(platform), devices)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctx.Release() })

	queue, err := NewQueue(ctx, devices[0])
	require.NoError(t, err)
	t.Cleanup(func() { _ = queue.Release() })

	return &testEnv{drv: drv, platform: platform, devices: devices, ctx: ctx, queue: queue}
}
