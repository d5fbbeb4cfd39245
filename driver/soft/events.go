package soft

import (
	"github.com/gocl/gocl/driver"
	"github.com/pkg/errors"
)

// lockedNewCompleteEvent creates an event that is already complete. Most soft commands
// finish before the enqueue call returns. Caller must hold d.mu.
func (d *Driver) lockedNewCompleteEvent() driver.EventID {
	id := driver.EventID(d.newID())
	done := make(chan struct{})
	close(done)
	d.events[id] = &event{status: driver.CommandComplete, refs: 1, done: done}
	return id
}

// lockedEventChans collects the done channels of the listed events. Caller must hold d.mu.
func (d *Driver) lockedEventChans(list []driver.EventID) ([]chan struct{}, error) {
	chans := make([]chan struct{}, 0, len(list))
	for _, id := range list {
		ev, found := d.events[id]
		if !found {
			return nil, errors.Errorf("driver %q: unknown event %#x", DriverName, uintptr(id))
		}
		chans = append(chans, ev.done)
	}
	return chans, nil
}

func (d *Driver) CreateUserEvent(c driver.ContextID) (driver.EventID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, found := d.contexts[c]; !found {
		return 0, errors.Errorf("driver %q: unknown context %#x", DriverName, uintptr(c))
	}
	id := driver.EventID(d.newID())
	d.events[id] = &event{
		user:   true,
		status: driver.CommandSubmitted,
		refs:   1,
		done:   make(chan struct{}),
	}
	return id, nil
}

func (d *Driver) SetUserEventStatus(e driver.EventID, status driver.CommandStatus) error {
	if status != driver.CommandComplete && status >= 0 {
		return errors.Errorf("driver %q: user event status must be Complete or a negative error code, got %d",
			DriverName, status)
	}
	d.mu.Lock()
	ev, found := d.events[e]
	if !found {
		d.mu.Unlock()
		return errors.Errorf("driver %q: unknown event %#x", DriverName, uintptr(e))
	}
	if !ev.user {
		d.mu.Unlock()
		return errors.Errorf("driver %q: event %#x is not a user event", DriverName, uintptr(e))
	}
	if ev.statusSet {
		d.mu.Unlock()
		return errors.Errorf("driver %q: status of user event %#x was already set", DriverName, uintptr(e))
	}
	ev.statusSet = true
	ev.status = status
	callbacks := ev.callbacks
	ev.callbacks = nil
	close(ev.done)
	d.mu.Unlock()

	// Callbacks run outside the lock: they are allowed to call back into the driver.
	for _, cb := range callbacks {
		cb.fn(e, status)
	}
	return nil
}

func (d *Driver) RetainEvent(e driver.EventID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	ev, found := d.events[e]
	if !found {
		return errors.Errorf("driver %q: retain of unknown event %#x", DriverName, uintptr(e))
	}
	ev.refs++
	return nil
}

func (d *Driver) ReleaseEvent(e driver.EventID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	ev, found := d.events[e]
	if !found {
		return errors.Errorf("driver %q: release of unknown event %#x", DriverName, uintptr(e))
	}
	ev.refs--
	if ev.refs <= 0 {
		delete(d.events, e)
	}
	return nil
}

func (d *Driver) WaitForEvents(list []driver.EventID) error {
	d.mu.Lock()
	chans, err := d.lockedEventChans(list)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.mu.Unlock()
	for _, ch := range chans {
		<-ch
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range list {
		if ev, found := d.events[id]; found && ev.status < 0 {
			return errors.Errorf("driver %q: event %#x finished with error status %d",
				DriverName, uintptr(id), ev.status)
		}
	}
	return nil
}

func (d *Driver) SetEventCallback(e driver.EventID, status driver.CommandStatus, fn func(driver.EventID, driver.CommandStatus)) error {
	if status != driver.CommandComplete {
		return errors.Errorf("driver %q: callbacks are only supported at Complete, got %d", DriverName, status)
	}
	d.mu.Lock()
	ev, found := d.events[e]
	if !found {
		d.mu.Unlock()
		return errors.Errorf("driver %q: unknown event %#x", DriverName, uintptr(e))
	}
	if ev.status == driver.CommandComplete || ev.status < 0 {
		// Already reached the requested status: deliver immediately.
		final := ev.status
		d.mu.Unlock()
		fn(e, final)
		return nil
	}
	ev.callbacks = append(ev.callbacks, eventCallback{at: status, fn: fn})
	d.mu.Unlock()
	return nil
}

// SupportsEventCallbacks reports true: callbacks are delivered synchronously when the
// event completes.
func (d *Driver) SupportsEventCallbacks() bool {
	return true
}
