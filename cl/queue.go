package cl

import (
	"github.com/gocl/gocl/driver"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Queue is a typed handle to a command queue bound to one device of a context.
//
// Commands enqueued on it execute asynchronously relative to the issuing goroutine;
// ordering between commands follows the queue's own in-order or out-of-order contract,
// which this layer does not alter.
type Queue struct {
	drv    driver.Driver
	id     driver.QueueID
	ctx    *Context
	device *Device
}

// QueueOption configures queue creation.
type QueueOption func(*queueConfig)

type queueConfig struct {
	outOfOrder bool
}

// WithOutOfOrderExecution creates the queue with out-of-order execution enabled.
func WithOutOfOrderExecution() QueueOption {
	return func(cfg *queueConfig) { cfg.outOfOrder = true }
}

// NewQueue creates a command queue for the given device, which must belong to the
// context.
func NewQueue(ctx *Context, device *Device, opts ...QueueOption) (*Queue, error) {
	ctx.AssertValid()
	device.AssertValid()
	var cfg queueConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	id, err := ctx.drv.CreateQueue(ctx.id, device.id, cfg.outOfOrder)
	if err != nil {
		return nil, errors.WithMessagef(err, "cl: creating command queue on %s", device)
	}
	return &Queue{drv: ctx.drv, id: id, ctx: ctx, device: device}, nil
}

// AssertValid panics if the queue is nil or was already released.
func (q *Queue) AssertValid() {
	if q == nil || q.drv == nil {
		exceptions.Panicf("cl: Queue is nil or was already released")
	}
}

// ID returns the raw driver handle.
func (q *Queue) ID() driver.QueueID { return q.id }

// Context returns the owning context.
func (q *Queue) Context() *Context {
	q.AssertValid()
	return q.ctx
}

// Device returns the device the queue is bound to.
func (q *Queue) Device() *Device {
	q.AssertValid()
	return q.device
}

// Release destroys the native queue and invalidates the handle. Safe to call more than
// once.
func (q *Queue) Release() error {
	if q == nil || q.drv == nil {
		return nil
	}
	err := q.drv.ReleaseQueue(q.id)
	q.drv = nil
	q.id = 0
	return err
}
