package cl

import (
	"unsafe"

	"github.com/gocl/gocl/driver"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// UnmapPolicy selects what MappedRegion.Close does with a region that is still mapped.
type UnmapPolicy int

const (
	// PanicIfMapped makes Close panic on a still-mapped region: the caller is expected
	// to have enqueued the unmap explicitly, with its wait list and completion event,
	// before the region goes away. This is the default.
	PanicIfMapped UnmapPolicy = iota

	// UnmapOnClose makes Close enqueue a best-effort unmap with no wait list, logging
	// and returning the error if the enqueue fails.
	UnmapOnClose
)

// MappedRegion is a host-visible window into a device buffer, parameterized by the
// element type. It owns the mapped pointer and tracks whether the unmap has been
// enqueued; once it has, the window is gone for good and any access to the slice
// panics, regardless of whether the device has finished the unmap.
//
// A region must not be shared across goroutines without external synchronization: the
// host-visible memory it exposes is exactly the kind of aliased mutable state the
// handles avoid elsewhere.
type MappedRegion[T Scalar] struct {
	ptr    *T
	n      int
	buffer *Buffer
	queue  *Queue

	unmapEvent *UserEvent
	policy     UnmapPolicy
	unmapped   bool
}

// MapOption configures a Map call.
type MapOption func(*mapConfig)

type mapConfig struct {
	policy UnmapPolicy
}

// WithUnmapPolicy overrides the Close behavior of the mapped region.
func WithUnmapPolicy(policy UnmapPolicy) MapOption {
	return func(c *mapConfig) { c.policy = policy }
}

// Map maps count elements of the buffer into host memory, starting at the given element
// offset, with the given access flags. The region is unmapped by enqueueing
// MappedRegion.Unmap (or Close, under UnmapOnClose) on the same queue.
func Map[T Scalar](q *Queue, b *Buffer, flags driver.MapFlags, offset, count int, opts ...MapOption) (*MappedRegion[T], error) {
	q.AssertValid()
	b.AssertValid()
	if count <= 0 {
		return nil, errors.Errorf("cl: Map needs a positive element count, got %d", count)
	}
	if offset < 0 {
		return nil, errors.Errorf("cl: Map needs a non-negative element offset, got %d", offset)
	}
	var cfg mapConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	elemBytes := int(unsafe.Sizeof(*new(T)))
	offsetBytes := offset * elemBytes
	sizeBytes := count * elemBytes
	if offsetBytes+sizeBytes > b.SizeBytes() {
		return nil, errors.Errorf("cl: Map of %d bytes at offset %d exceeds the %d byte buffer",
			sizeBytes, offsetBytes, b.SizeBytes())
	}

	ptr, err := q.drv.MapBuffer(q.id, b.id, flags, offsetBytes, sizeBytes)
	if err != nil {
		return nil, errors.WithMessagef(err, "cl: mapping %d bytes at offset %d", sizeBytes, offsetBytes)
	}
	return NewMappedRegion((*T)(ptr), count, q, b, cfg.policy), nil
}

// NewMappedRegion wraps an already-mapped pointer. Panics on a nil pointer: a region
// without memory behind it has no meaning, and the zero pointer is how a broken
// driver mapping would surface.
func NewMappedRegion[T Scalar](ptr *T, n int, q *Queue, b *Buffer, policy UnmapPolicy) *MappedRegion[T] {
	if ptr == nil {
		exceptions.Panicf("cl: NewMappedRegion with a nil mapped pointer")
	}
	return &MappedRegion[T]{
		ptr:    ptr,
		n:      n,
		buffer: b,
		queue:  q,
		policy: policy,
	}
}

// Slice returns the host-visible window as a Go slice. Panics once the unmap has been
// enqueued: the memory may already be gone on the native side.
func (m *MappedRegion[T]) Slice() []T {
	if m == nil || m.unmapped {
		exceptions.Panicf("cl: MappedRegion accessed after its unmap was enqueued")
	}
	return unsafe.Slice(m.ptr, m.n)
}

// Len returns the element count of the window.
func (m *MappedRegion[T]) Len() int { return m.n }

// Buffer returns the mapped buffer.
func (m *MappedRegion[T]) Buffer() *Buffer { return m.buffer }

// IsUnmapped reports whether the unmap has been enqueued. The flag only ever goes from
// false to true.
func (m *MappedRegion[T]) IsUnmapped() bool { return m != nil && m.unmapped }

// CreateUnmapEvent creates the user event completed when this region's unmap finishes
// on the device, and attaches it to the region. At most one such event exists per
// region: a second call fails with ErrCallbackSet and keeps the first.
//
// Must be called before Unmap. On drivers without event callback support the event is
// completed as soon as the unmap is enqueued instead.
func (m *MappedRegion[T]) CreateUnmapEvent() (*UserEvent, error) {
	if m.unmapped {
		return nil, errors.Wrapf(ErrAlreadyUnmapped, "cl: CreateUnmapEvent")
	}
	if m.unmapEvent != nil {
		return nil, errors.Wrapf(ErrCallbackSet, "cl: CreateUnmapEvent")
	}
	ev, err := NewUserEvent(m.buffer.Context())
	if err != nil {
		return nil, err
	}
	m.unmapEvent = ev
	return ev, nil
}

// UnmapEvent returns the attached unmap-completion event, or nil.
func (m *MappedRegion[T]) UnmapEvent() *UserEvent { return m.unmapEvent }

// Unmap enqueues the unmap of the region, after the given wait list. A non-nil queue
// overrides the queue the region was mapped on. If out is non-nil it is populated with
// the native unmap event, carrying its own reference for the caller to release.
//
// On success the region is permanently unmapped from the host's point of view, even
// though the device may still be working through the queue. A second call fails with
// ErrAlreadyUnmapped. If the enqueue itself fails the region stays mapped.
func (m *MappedRegion[T]) Unmap(queue *Queue, waitList []*Event, out *Event) error {
	if m == nil || m.unmapped {
		return errors.Wrapf(ErrAlreadyUnmapped, "cl: Unmap")
	}
	q := m.queue
	if queue != nil {
		queue.AssertValid()
		q = queue
	}
	for _, e := range waitList {
		e.AssertValid()
	}

	wantEvent := out != nil || m.unmapEvent != nil
	ptr := unsafe.Pointer(m.ptr)
	evID, err := q.drv.UnmapBuffer(q.id, m.buffer.id, ptr, eventIDs(waitList), wantEvent)
	if err != nil {
		return errors.WithMessagef(err, "cl: enqueueing unmap")
	}
	m.unmapped = true

	if !wantEvent {
		return nil
	}
	if evID == 0 {
		return errors.Errorf("cl: driver returned no unmap event although one was requested")
	}
	if m.unmapEvent != nil {
		if out != nil {
			// The completion trigger consumes the driver's reference; the caller's
			// slot gets one of its own.
			if err := q.drv.RetainEvent(evID); err != nil {
				return errors.WithMessagef(err, "cl: retaining unmap event for the out slot")
			}
			*out = Event{drv: q.drv, id: evID}
		}
		m.triggerOnComplete(Event{drv: q.drv, id: evID})
		return nil
	}
	*out = Event{drv: q.drv, id: evID}
	return nil
}

// triggerOnComplete completes the attached user event when the native unmap event does,
// then releases the reference it was handed. Completion is best effort: a failure here
// cannot un-enqueue the unmap, so it is only logged.
func (m *MappedRegion[T]) triggerOnComplete(native Event) {
	target := m.unmapEvent
	complete := func(status driver.CommandStatus) {
		var err error
		if status == driver.CommandComplete {
			err = target.SetComplete()
		} else {
			err = target.SetError(status)
		}
		if err != nil {
			klog.Warningf("cl: completing unmap event: %+v", err)
		}
		if err := native.Release(); err != nil {
			klog.Warningf("cl: releasing unmap event: %+v", err)
		}
	}
	if !native.drv.SupportsEventCallbacks() {
		// No way to hear back from the device; "enqueued" is the best signal there is.
		complete(driver.CommandComplete)
		return
	}
	err := native.drv.SetEventCallback(native.id, driver.CommandComplete,
		func(_ driver.EventID, status driver.CommandStatus) {
			complete(status)
		})
	if err != nil {
		klog.Warningf("cl: registering unmap completion callback: %+v", err)
		complete(driver.CommandComplete)
	}
}

// Close implements io.Closer. Under UnmapOnClose a still-mapped region is unmapped with
// no wait list, best effort. Under PanicIfMapped (the default) a still-mapped region is
// a leak on the caller's part and Close panics; unmap explicitly first.
func (m *MappedRegion[T]) Close() error {
	if m == nil || m.unmapped {
		return nil
	}
	if m.policy == PanicIfMapped {
		exceptions.Panicf("cl: MappedRegion closed while still mapped; enqueue Unmap first " +
			"or map with WithUnmapPolicy(UnmapOnClose)")
	}
	if err := m.Unmap(nil, nil, nil); err != nil {
		klog.Warningf("cl: unmap on close: %+v", err)
		return err
	}
	return nil
}
