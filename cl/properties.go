package cl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/gocl/gocl/driver"
	"github.com/gocl/gocl/types/xslices"
	"github.com/gomlx/exceptions"
)

// ContextProperty is the key of a context property. It is a plain Go enum; the native
// wire values live in the explicit contextPropertyWire table below.
type ContextProperty int

//go:generate go tool enumer -type=ContextProperty -trimprefix=Property -output=gen_contextproperty_enumer.go properties.go

const (
	PropertyPlatform ContextProperty = iota
	PropertyInteropUserSync
	PropertyGlContext
	PropertyEglDisplay
	PropertyGlxDisplay
	PropertyWglHDC
	PropertyCglSharegroup
	PropertyD3D10Device
	PropertyD3D11Device
	PropertyAdapterD3D9
	PropertyAdapterD3D9Ex
	PropertyAdapterDXVA
)

// contextPropertyWire maps every ContextProperty to its native wire key. Completeness is
// enforced by a test over ContextPropertyValues().
var contextPropertyWire = map[ContextProperty]uintptr{
	PropertyPlatform:        driver.RawContextPlatform,
	PropertyInteropUserSync: driver.RawContextInteropUserSync,
	PropertyGlContext:       driver.RawGLContext,
	PropertyEglDisplay:      driver.RawEGLDisplay,
	PropertyGlxDisplay:      driver.RawGLXDisplay,
	PropertyWglHDC:          driver.RawWGLHDC,
	PropertyCglSharegroup:   driver.RawCGLSharegroup,
	PropertyD3D10Device:     driver.RawD3D10Device,
	PropertyD3D11Device:     driver.RawD3D11Device,
	PropertyAdapterD3D9:     driver.RawAdapterD3D9,
	PropertyAdapterD3D9Ex:   driver.RawAdapterD3D9Ex,
	PropertyAdapterDXVA:     driver.RawAdapterDXVA,
}

// Raw returns the native wire key for the property. An unmapped value is a bug in this
// package.
func (p ContextProperty) Raw() uintptr {
	raw, found := contextPropertyWire[p]
	if !found {
		exceptions.Panicf("cl: ContextProperty %s has no wire mapping", p)
	}
	return raw
}

// ContextPropertyValue is a value stored under a ContextProperty key. The supported
// variants a caller may set are PlatformValue, InteropUserSyncValue, GlContextValue and
// CglSharegroupValue; the remaining variants exist to name the native keys but cannot be
// routed through SetValue yet.
type ContextPropertyValue interface {
	// PropertyKey is the key this value is stored under.
	PropertyKey() ContextProperty
}

// PlatformValue selects the platform the context is created against.
type PlatformValue struct{ Platform *Platform }

// InteropUserSyncValue specifies whether the user is responsible for synchronization
// between the compute API and other APIs.
type InteropUserSyncValue bool

// GlContextValue is an OpenGL context handle to share with.
type GlContextValue uintptr

// CglSharegroupValue is a CGL share group handle to associate the context with.
type CglSharegroupValue uintptr

// Placeholder variants for interop keys this layer does not support yet. They may only
// be produced internally, never stored through SetValue.
type (
	EglDisplayValue    uintptr
	GlxDisplayValue    uintptr
	WglHDCValue        uintptr
	D3D10DeviceValue   uintptr
	D3D11DeviceValue   uintptr
	AdapterD3D9Value   uintptr
	AdapterD3D9ExValue uintptr
	AdapterDXVAValue   uintptr
)

func (PlatformValue) PropertyKey() ContextProperty        { return PropertyPlatform }
func (InteropUserSyncValue) PropertyKey() ContextProperty { return PropertyInteropUserSync }
func (GlContextValue) PropertyKey() ContextProperty       { return PropertyGlContext }
func (CglSharegroupValue) PropertyKey() ContextProperty   { return PropertyCglSharegroup }
func (EglDisplayValue) PropertyKey() ContextProperty      { return PropertyEglDisplay }
func (GlxDisplayValue) PropertyKey() ContextProperty      { return PropertyGlxDisplay }
func (WglHDCValue) PropertyKey() ContextProperty          { return PropertyWglHDC }
func (D3D10DeviceValue) PropertyKey() ContextProperty     { return PropertyD3D10Device }
func (D3D11DeviceValue) PropertyKey() ContextProperty     { return PropertyD3D11Device }
func (AdapterD3D9Value) PropertyKey() ContextProperty     { return PropertyAdapterD3D9 }
func (AdapterD3D9ExValue) PropertyKey() ContextProperty   { return PropertyAdapterD3D9Ex }
func (AdapterDXVAValue) PropertyKey() ContextProperty     { return PropertyAdapterDXVA }

// ContextProperties is the property list consumed by context creation. At most one value
// is stored per property key: setting a key again overwrites.
//
// Build one either chained:
//
//	props := cl.NewContextProperties().Platform(p).InteropUserSync(true)
//
// or in place with the Set* methods, then hand it to NewContext, which packs it with
// ToRaw.
type ContextProperties struct {
	values map[ContextProperty]ContextPropertyValue
}

// NewContextProperties returns an empty property list.
func NewContextProperties() *ContextProperties {
	return &ContextProperties{values: make(map[ContextProperty]ContextPropertyValue, 4)}
}

// Platform specifies a platform (chainable).
func (cp *ContextProperties) Platform(p *Platform) *ContextProperties {
	cp.SetPlatform(p)
	return cp
}

// InteropUserSync specifies whether the user is responsible for synchronization between
// the compute API and other APIs (chainable).
func (cp *ContextProperties) InteropUserSync(sync bool) *ContextProperties {
	cp.SetInteropUserSync(sync)
	return cp
}

// GlContext specifies an OpenGL context handle (chainable).
func (cp *ContextProperties) GlContext(glCtx uintptr) *ContextProperties {
	cp.SetGlContext(glCtx)
	return cp
}

// CglSharegroup specifies a CGL share group to associate the context with (chainable).
func (cp *ContextProperties) CglSharegroup(group unsafe.Pointer) *ContextProperties {
	cp.SetCglSharegroup(group)
	return cp
}

// Value stores a pre-built ContextPropertyValue (chainable). Same restrictions as
// SetValue.
func (cp *ContextProperties) Value(v ContextPropertyValue) *ContextProperties {
	cp.SetValue(v)
	return cp
}

// SetPlatform specifies a platform.
func (cp *ContextProperties) SetPlatform(p *Platform) {
	p.AssertValid()
	cp.values[PropertyPlatform] = PlatformValue{Platform: p}
}

// SetInteropUserSync specifies whether the user is responsible for synchronization
// between the compute API and other APIs.
func (cp *ContextProperties) SetInteropUserSync(sync bool) {
	cp.values[PropertyInteropUserSync] = InteropUserSyncValue(sync)
}

// SetGlContext specifies an OpenGL context handle.
func (cp *ContextProperties) SetGlContext(glCtx uintptr) {
	cp.values[PropertyGlContext] = GlContextValue(glCtx)
}

// SetCglSharegroup specifies a CGL share group to associate the context with.
func (cp *ContextProperties) SetCglSharegroup(group unsafe.Pointer) {
	cp.values[PropertyCglSharegroup] = CglSharegroupValue(group)
}

// SetValue stores a pre-built ContextPropertyValue under its key. Only the supported
// variants may pass through here; storing a placeholder variant is a contract violation
// and panics.
func (cp *ContextProperties) SetValue(v ContextPropertyValue) {
	switch v := v.(type) {
	case PlatformValue:
		cp.SetPlatform(v.Platform)
	case InteropUserSyncValue:
		cp.values[PropertyInteropUserSync] = v
	case GlContextValue:
		cp.values[PropertyGlContext] = v
	case CglSharegroupValue:
		cp.values[PropertyCglSharegroup] = v
	default:
		exceptions.Panicf("cl: context property variant %T (key %s) is not yet supported", v, v.PropertyKey())
	}
}

// GetPlatform returns the stored platform, if any.
func (cp *ContextProperties) GetPlatform() (*Platform, bool) {
	v, found := cp.values[PropertyPlatform]
	if !found {
		return nil, false
	}
	pv, ok := v.(PlatformValue)
	if !ok {
		exceptions.Panicf("cl: internal error: %T stored under %s", v, PropertyPlatform)
	}
	return pv.Platform, true
}

// GetCglSharegroup returns the stored CGL share group, if any.
func (cp *ContextProperties) GetCglSharegroup() (unsafe.Pointer, bool) {
	v, found := cp.values[PropertyCglSharegroup]
	if !found {
		return nil, false
	}
	cv, ok := v.(CglSharegroupValue)
	if !ok {
		exceptions.Panicf("cl: internal error: %T stored under %s", v, PropertyCglSharegroup)
	}
	return *(*unsafe.Pointer)(unsafe.Pointer(&cv)), true
}

// Len returns the number of properties set.
func (cp *ContextProperties) Len() int {
	if cp == nil {
		return 0
	}
	return len(cp.values)
}

// ToRaw converts the list into the packed form consumed by the native context creation
// entry point: flat (key, value) word pairs terminated by a zero word. Pair order
// follows the map and is not significant; only the pairing and the sentinel are. A nil
// receiver packs to nil (no properties).
func (cp *ContextProperties) ToRaw() []uintptr {
	if cp == nil || len(cp.values) == 0 {
		return nil
	}
	raw := make([]uintptr, 0, 2*len(cp.values)+1)
	for key, v := range cp.values {
		switch v := v.(type) {
		case PlatformValue:
			raw = append(raw, key.Raw(), uintptr(v.Platform.ID()))
		case InteropUserSyncValue:
			word := uintptr(0)
			if v {
				word = 1
			}
			raw = append(raw, key.Raw(), word)
		case GlContextValue:
			raw = append(raw, key.Raw(), uintptr(v))
		case CglSharegroupValue:
			raw = append(raw, key.Raw(), uintptr(v))
		default:
			// SetValue filters these out; reaching here is a bug in this package.
			exceptions.Panicf("cl: internal error: unsupported variant %T reached ToRaw", v)
		}
	}
	raw = append(raw, 0)
	return raw
}

// String implements fmt.Stringer, listing properties in key order.
func (cp *ContextProperties) String() string {
	if cp == nil || len(cp.values) == 0 {
		return "ContextProperties{}"
	}
	parts := xslices.Map(xslices.SortedKeys(cp.values), func(key ContextProperty) string {
		return fmt.Sprintf("%s: %v", key, cp.values[key])
	})
	return "ContextProperties{" + strings.Join(parts, ", ") + "}"
}
