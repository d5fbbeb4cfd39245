package cl

import (
	"github.com/gocl/gocl/driver"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Context is a typed handle to a native context, created over one or more devices of a
// platform.
type Context struct {
	drv      driver.Driver
	id       driver.ContextID
	platform *Platform
	devices  []*Device
}

// NewContext creates a context over the given devices, configured by props (which may be
// nil). The property list is consumed here: it is packed with ToRaw and handed to the
// native call.
//
// The context's platform is taken from props if set there, otherwise from the first
// device's driver default platform.
func NewContext(props *ContextProperties, devices []*Device) (*Context, error) {
	if len(devices) == 0 {
		return nil, errors.Wrapf(ErrNoDevices, "cl: NewContext")
	}
	for _, d := range devices {
		d.AssertValid()
	}
	drv := devices[0].drv

	var platform *Platform
	if props != nil {
		if p, found := props.GetPlatform(); found {
			platform = p
		}
	}
	if platform == nil {
		platforms, err := Platforms(drv)
		if err != nil {
			return nil, errors.WithMessagef(err, "cl: NewContext resolving default platform")
		}
		if len(platforms) == 0 {
			return nil, errors.Errorf("cl: driver %q exposes no platforms", drv.Name())
		}
		platform = platforms[0]
	}

	id, err := drv.CreateContext(props.ToRaw(), deviceIDList(devices))
	if err != nil {
		return nil, errors.WithMessagef(err, "cl: creating context on %d device(s)", len(devices))
	}
	return &Context{
		drv:      drv,
		id:       id,
		platform: platform,
		devices:  append([]*Device(nil), devices...),
	}, nil
}

// AssertValid panics if the context is nil or was already released.
func (c *Context) AssertValid() {
	if c == nil || c.drv == nil {
		exceptions.Panicf("cl: Context is nil or was already released")
	}
}

// ID returns the raw driver handle.
func (c *Context) ID() driver.ContextID { return c.id }

// Platform returns the platform the context was created against.
func (c *Context) Platform() *Platform {
	c.AssertValid()
	return c.platform
}

// Devices returns the devices the context spans.
func (c *Context) Devices() []*Device {
	c.AssertValid()
	return c.devices
}

// Release destroys the native context and invalidates the handle. Safe to call more than
// once.
func (c *Context) Release() error {
	if c == nil || c.drv == nil {
		return nil
	}
	err := c.drv.ReleaseContext(c.id)
	c.drv = nil
	c.id = 0
	return err
}
