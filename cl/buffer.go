package cl

import (
	"github.com/gocl/gocl/driver"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Buffer is a typed handle to a device memory object.
//
// The handle itself may be shared: several mapped regions can hold references to the
// same buffer at once. The host-visible windows those regions expose are what must not
// be shared for mutation.
type Buffer struct {
	drv       driver.Driver
	id        driver.MemID
	ctx       *Context
	sizeBytes int
}

// NewBuffer allocates a device buffer of the given size in bytes.
func NewBuffer(ctx *Context, sizeBytes int) (*Buffer, error) {
	ctx.AssertValid()
	if sizeBytes <= 0 {
		return nil, errors.Errorf("cl: buffer size must be positive, got %d", sizeBytes)
	}
	id, err := ctx.drv.CreateBuffer(ctx.id, sizeBytes)
	if err != nil {
		return nil, errors.WithMessagef(err, "cl: allocating %d byte buffer", sizeBytes)
	}
	return &Buffer{drv: ctx.drv, id: id, ctx: ctx, sizeBytes: sizeBytes}, nil
}

// AssertValid panics if the buffer is nil or was already released.
func (b *Buffer) AssertValid() {
	if b == nil || b.drv == nil {
		exceptions.Panicf("cl: Buffer is nil or was already released")
	}
}

// ID returns the raw driver handle.
func (b *Buffer) ID() driver.MemID { return b.id }

// SizeBytes returns the allocation size.
func (b *Buffer) SizeBytes() int { return b.sizeBytes }

// Context returns the owning context.
func (b *Buffer) Context() *Context {
	b.AssertValid()
	return b.ctx
}

// Release destroys the native memory object and invalidates the handle. Drivers reject
// releasing a buffer that still has active mappings. Safe to call more than once.
func (b *Buffer) Release() error {
	if b == nil || b.drv == nil {
		return nil
	}
	err := b.drv.ReleaseMem(b.id)
	if err != nil {
		return err
	}
	b.drv = nil
	b.id = 0
	return nil
}
