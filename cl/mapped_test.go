package cl

import (
	"testing"

	"github.com/gocl/gocl/driver"
	"github.com/stretchr/testify/require"
)

func TestMapWriteUnmapReadBack(t *testing.T) {
	env := newTestEnv(t)
	buf, err := NewBuffer(env.ctx, 16*4)
	require.NoError(t, err)
	defer func() { require.NoError(t, buf.Release()) }()

	m, err := Map[float32](env.queue, buf, driver.MapWrite, 0, 16)
	require.NoError(t, err)
	require.Equal(t, 16, m.Len())
	require.False(t, m.IsUnmapped())

	values := m.Slice()
	require.Len(t, values, 16)
	for i := range values {
		values[i] = float32(i) * 0.5
	}
	require.NoError(t, m.Unmap(nil, nil, nil))
	require.True(t, m.IsUnmapped())

	// The device sees the written values through a fresh read mapping.
	r, err := Map[float32](env.queue, buf, driver.MapRead, 0, 16)
	require.NoError(t, err)
	for i, v := range r.Slice() {
		require.Equal(t, float32(i)*0.5, v)
	}
	require.NoError(t, r.Unmap(nil, nil, nil))
}

func TestMapAtElementOffset(t *testing.T) {
	env := newTestEnv(t)
	buf, err := NewBuffer(env.ctx, 8*4)
	require.NoError(t, err)
	defer func() { _ = buf.Release() }()

	m, err := Map[int32](env.queue, buf, driver.MapWrite, 4, 4)
	require.NoError(t, err)
	for i := range m.Slice() {
		m.Slice()[i] = int32(100 + i)
	}
	require.NoError(t, m.Unmap(nil, nil, nil))

	whole, err := Map[int32](env.queue, buf, driver.MapRead, 0, 8)
	require.NoError(t, err)
	require.Equal(t, []int32{0, 0, 0, 0, 100, 101, 102, 103}, append([]int32(nil), whole.Slice()...))
	require.NoError(t, whole.Unmap(nil, nil, nil))
}

func TestMapRejectsOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	buf, err := NewBuffer(env.ctx, 8*4)
	require.NoError(t, err)
	defer func() { _ = buf.Release() }()

	_, err = Map[int32](env.queue, buf, driver.MapRead, 0, 9)
	require.Error(t, err)
	_, err = Map[int32](env.queue, buf, driver.MapRead, 8, 1)
	require.Error(t, err)
	_, err = Map[int32](env.queue, buf, driver.MapRead, 0, 0)
	require.Error(t, err)
}

func TestUnmapTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	buf, err := NewBuffer(env.ctx, 64)
	require.NoError(t, err)
	defer func() { _ = buf.Release() }()

	m, err := Map[byte](env.queue, buf, driver.MapRead, 0, 64)
	require.NoError(t, err)
	require.NoError(t, m.Unmap(nil, nil, nil))

	err = m.Unmap(nil, nil, nil)
	require.ErrorIs(t, err, ErrAlreadyUnmapped)
}

func TestSliceAfterUnmapPanics(t *testing.T) {
	env := newTestEnv(t)
	buf, err := NewBuffer(env.ctx, 64)
	require.NoError(t, err)
	defer func() { _ = buf.Release() }()

	m, err := Map[byte](env.queue, buf, driver.MapRead, 0, 64)
	require.NoError(t, err)
	require.NoError(t, m.Unmap(nil, nil, nil))

	require.Panics(t, func() { _ = m.Slice() })
}

func TestUnmapPopulatesOutEvent(t *testing.T) {
	env := newTestEnv(t)
	buf, err := NewBuffer(env.ctx, 64)
	require.NoError(t, err)
	defer func() { _ = buf.Release() }()

	m, err := Map[byte](env.queue, buf, driver.MapWrite, 0, 64)
	require.NoError(t, err)

	var done Event
	require.False(t, done.IsSet())
	require.NoError(t, m.Unmap(nil, nil, &done))
	require.True(t, done.IsSet())
	require.NoError(t, done.Wait())
	require.NoError(t, done.Release())
}

func TestUnmapCompletionEvent(t *testing.T) {
	env := newTestEnv(t)
	buf, err := NewBuffer(env.ctx, 64)
	require.NoError(t, err)
	defer func() { _ = buf.Release() }()

	m, err := Map[byte](env.queue, buf, driver.MapWrite, 0, 64)
	require.NoError(t, err)

	unmapped, err := m.CreateUnmapEvent()
	require.NoError(t, err)
	require.Same(t, unmapped, m.UnmapEvent())

	// Only one completion event per region.
	_, err = m.CreateUnmapEvent()
	require.ErrorIs(t, err, ErrCallbackSet)

	require.NoError(t, m.Unmap(nil, nil, nil))
	require.NoError(t, unmapped.Wait())
	require.NoError(t, unmapped.Release())
}

func TestUnmapOutEventAndCompletionEventTogether(t *testing.T) {
	env := newTestEnv(t)
	buf, err := NewBuffer(env.ctx, 64)
	require.NoError(t, err)
	defer func() { _ = buf.Release() }()

	m, err := Map[byte](env.queue, buf, driver.MapWrite, 0, 64)
	require.NoError(t, err)
	unmapped, err := m.CreateUnmapEvent()
	require.NoError(t, err)

	// The out slot holds its own reference, independent of the completion trigger's.
	var done Event
	require.NoError(t, m.Unmap(nil, nil, &done))
	require.NoError(t, unmapped.Wait())
	require.NoError(t, done.Wait())
	require.NoError(t, done.Release())
	require.NoError(t, unmapped.Release())
}

func TestCreateUnmapEventAfterUnmapFails(t *testing.T) {
	env := newTestEnv(t)
	buf, err := NewBuffer(env.ctx, 64)
	require.NoError(t, err)
	defer func() { _ = buf.Release() }()

	m, err := Map[byte](env.queue, buf, driver.MapRead, 0, 64)
	require.NoError(t, err)
	require.NoError(t, m.Unmap(nil, nil, nil))

	_, err = m.CreateUnmapEvent()
	require.ErrorIs(t, err, ErrAlreadyUnmapped)
}

func TestUnmapWaitList(t *testing.T) {
	env := newTestEnv(t)
	buf, err := NewBuffer(env.ctx, 64)
	require.NoError(t, err)
	defer func() { _ = buf.Release() }()

	m, err := Map[byte](env.queue, buf, driver.MapWrite, 0, 64)
	require.NoError(t, err)

	gate, err := NewUserEvent(env.ctx)
	require.NoError(t, err)
	require.NoError(t, gate.SetComplete())

	require.NoError(t, m.Unmap(nil, []*Event{&gate.Event}, nil))
	require.NoError(t, gate.Release())
}

func TestCloseDefaultPanicsWhileMapped(t *testing.T) {
	env := newTestEnv(t)
	buf, err := NewBuffer(env.ctx, 64)
	require.NoError(t, err)

	m, err := Map[byte](env.queue, buf, driver.MapRead, 0, 64)
	require.NoError(t, err)

	require.Panics(t, func() { _ = m.Close() })

	// Still mapped after the panic; unmapping normally still works.
	require.NoError(t, m.Unmap(nil, nil, nil))
	require.NoError(t, buf.Release())
}

func TestCloseWithUnmapOnClose(t *testing.T) {
	env := newTestEnv(t)
	buf, err := NewBuffer(env.ctx, 64)
	require.NoError(t, err)
	defer func() { _ = buf.Release() }()

	m, err := Map[byte](env.queue, buf, driver.MapRead, 0, 64, WithUnmapPolicy(UnmapOnClose))
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.True(t, m.IsUnmapped())

	// Close is idempotent once unmapped, under either policy.
	require.NoError(t, m.Close())
}

func TestReleaseBufferWhileMappedFails(t *testing.T) {
	env := newTestEnv(t)
	buf, err := NewBuffer(env.ctx, 64)
	require.NoError(t, err)

	m, err := Map[byte](env.queue, buf, driver.MapRead, 0, 64)
	require.NoError(t, err)

	require.Error(t, buf.Release())

	require.NoError(t, m.Unmap(nil, nil, nil))
	require.NoError(t, buf.Release())
}

func TestNewMappedRegionNilPointerPanics(t *testing.T) {
	env := newTestEnv(t)
	buf, err := NewBuffer(env.ctx, 64)
	require.NoError(t, err)
	defer func() { _ = buf.Release() }()

	require.Panics(t, func() {
		NewMappedRegion[byte](nil, 64, env.queue, buf, PanicIfMapped)
	})
}
