package cl

import (
	"github.com/gocl/gocl/driver"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Event is a typed handle to a completion event of an enqueued command.
//
// A zero Event is a valid placeholder: pass a pointer to one as the out-event of an
// operation (e.g. MappedRegion.Unmap) and it is populated with the new native handle,
// with its own reference, once the operation is enqueued.
type Event struct {
	drv driver.Driver
	id  driver.EventID
}

// AssertValid panics if the event holds no native handle.
func (e *Event) AssertValid() {
	if e == nil || e.drv == nil || e.id == 0 {
		exceptions.Panicf("cl: Event holds no native handle")
	}
}

// ID returns the raw driver handle.
func (e *Event) ID() driver.EventID { return e.id }

// IsSet reports whether the event holds a native handle.
func (e *Event) IsSet() bool { return e != nil && e.id != 0 }

// Wait blocks until the event completes, or fails if the underlying command failed.
func (e *Event) Wait() error {
	e.AssertValid()
	return e.drv.WaitForEvents([]driver.EventID{e.id})
}

// Retain increments the native reference count. Each holder releases its own reference.
func (e *Event) Retain() error {
	e.AssertValid()
	return e.drv.RetainEvent(e.id)
}

// Release drops this handle's reference and invalidates it. Safe to call more than once.
func (e *Event) Release() error {
	if e == nil || e.drv == nil || e.id == 0 {
		return nil
	}
	err := e.drv.ReleaseEvent(e.id)
	e.drv = nil
	e.id = 0
	return err
}

// WaitForEvents blocks until all listed events complete.
func WaitForEvents(events ...*Event) error {
	if len(events) == 0 {
		return nil
	}
	for _, e := range events {
		e.AssertValid()
	}
	return events[0].drv.WaitForEvents(eventIDs(events))
}

// UserEvent is an event whose completion is driven by the host instead of a device
// command. Mapped regions use one as their unmap-completion notification.
type UserEvent struct {
	Event
}

// NewUserEvent creates a user event in the given context.
func NewUserEvent(ctx *Context) (*UserEvent, error) {
	ctx.AssertValid()
	id, err := ctx.drv.CreateUserEvent(ctx.id)
	if err != nil {
		return nil, errors.WithMessagef(err, "cl: creating user event")
	}
	return &UserEvent{Event: Event{drv: ctx.drv, id: id}}, nil
}

// SetComplete marks the user event complete, releasing any waiter. May be called at most
// once per event.
func (u *UserEvent) SetComplete() error {
	u.AssertValid()
	return u.drv.SetUserEventStatus(u.id, driver.CommandComplete)
}

// SetError marks the user event failed with the given negative status code.
func (u *UserEvent) SetError(status driver.CommandStatus) error {
	u.AssertValid()
	if status >= 0 {
		return errors.Errorf("cl: SetError needs a negative status code, got %d", status)
	}
	return u.drv.SetUserEventStatus(u.id, status)
}
