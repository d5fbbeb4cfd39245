package cl

import (
	"testing"

	"github.com/gocl/gocl/driver"
	"github.com/stretchr/testify/require"
)

// rawPairs decodes a packed property list back into a key to value map, checking the
// pairing and the zero terminator on the way.
func rawPairs(t *testing.T, raw []uintptr) map[uintptr]uintptr {
	t.Helper()
	require.NotEmpty(t, raw)
	require.Equal(t, uintptr(0), raw[len(raw)-1], "packed list must end with a zero word")
	body := raw[:len(raw)-1]
	require.Zero(t, len(body)%2, "packed list body must be (key, value) pairs")
	pairs := make(map[uintptr]uintptr, len(body)/2)
	for i := 0; i < len(body); i += 2 {
		pairs[body[i]] = body[i+1]
	}
	return pairs
}

func TestContextPropertiesToRaw(t *testing.T) {
	env := newTestEnv(t)

	props := NewContextProperties().
		Platform(env.platform).
		InteropUserSync(true).
		GlContext(0xBEEF)
	require.Equal(t, 3, props.Len())

	raw := props.ToRaw()
	require.Len(t, raw, 2*3+1)
	pairs := rawPairs(t, raw)
	require.Equal(t, uintptr(env.platform.ID()), pairs[driver.RawContextPlatform])
	require.Equal(t, uintptr(1), pairs[driver.RawContextInteropUserSync])
	require.Equal(t, uintptr(0xBEEF), pairs[driver.RawGLContext])
}

func TestContextPropertiesOverwrite(t *testing.T) {
	props := NewContextProperties().InteropUserSync(true)
	props.SetInteropUserSync(false)
	require.Equal(t, 1, props.Len())

	pairs := rawPairs(t, props.ToRaw())
	require.Equal(t, uintptr(0), pairs[driver.RawContextInteropUserSync])
}

func TestContextPropertiesEmpty(t *testing.T) {
	var nilProps *ContextProperties
	require.Nil(t, nilProps.ToRaw())
	require.Zero(t, nilProps.Len())

	require.Nil(t, NewContextProperties().ToRaw())
}

func TestContextPropertiesGetters(t *testing.T) {
	env := newTestEnv(t)

	props := NewContextProperties()
	_, found := props.GetPlatform()
	require.False(t, found)

	props.SetPlatform(env.platform)
	p, found := props.GetPlatform()
	require.True(t, found)
	require.Same(t, env.platform, p)

	_, found = props.GetCglSharegroup()
	require.False(t, found)
}

func TestSetValueRoutesSupportedVariants(t *testing.T) {
	env := newTestEnv(t)

	props := NewContextProperties().
		Value(PlatformValue{Platform: env.platform}).
		Value(InteropUserSyncValue(true)).
		Value(GlContextValue(7))
	require.Equal(t, 3, props.Len())
}

func TestSetValueRejectsPlaceholderVariants(t *testing.T) {
	props := NewContextProperties()
	require.Panics(t, func() { props.SetValue(D3D10DeviceValue(1)) })
	require.Panics(t, func() { props.SetValue(EglDisplayValue(1)) })
	require.Panics(t, func() { props.SetValue(AdapterDXVAValue(1)) })
}

func TestContextPropertyWireComplete(t *testing.T) {
	// Every enum value must pack to a distinct native key.
	seen := make(map[uintptr]ContextProperty)
	for _, key := range ContextPropertyValues() {
		raw := key.Raw()
		require.NotZero(t, raw, "property %s has no wire key", key)
		prev, dup := seen[raw]
		require.False(t, dup, "properties %s and %s share wire key %#x", prev, key, raw)
		seen[raw] = key
	}
}
