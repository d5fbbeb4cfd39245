package soft

import (
	"unsafe"

	"github.com/gocl/gocl/driver"
	"github.com/pkg/errors"
)

// MapBuffer returns a pointer into the buffer's backing slice. The access flags are
// validated but otherwise ignored: host memory is always coherent here.
func (d *Driver) MapBuffer(q driver.QueueID, m driver.MemID, flags driver.MapFlags, offsetBytes, sizeBytes int) (unsafe.Pointer, error) {
	if flags == 0 {
		return nil, errors.Errorf("driver %q: MapBuffer with no access flags", DriverName)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, found := d.queues[q]; !found {
		return nil, errors.Errorf("driver %q: unknown queue %#x", DriverName, uintptr(q))
	}
	buf, found := d.buffers[m]
	if !found {
		return nil, errors.Errorf("driver %q: unknown memory object %#x", DriverName, uintptr(m))
	}
	if sizeBytes <= 0 || offsetBytes < 0 || offsetBytes+sizeBytes > len(buf.data) {
		return nil, errors.Errorf("driver %q: map range [%d, %d) out of bounds for %d byte buffer",
			DriverName, offsetBytes, offsetBytes+sizeBytes, len(buf.data))
	}
	ptr := unsafe.Pointer(&buf.data[offsetBytes])
	buf.mappings[uintptr(ptr)] = mapping{offsetBytes: offsetBytes, sizeBytes: sizeBytes}
	return ptr, nil
}

// UnmapBuffer completes immediately: host memory needs no writeback. The returned event,
// if requested, is created already complete, with one reference owned by the caller.
func (d *Driver) UnmapBuffer(q driver.QueueID, m driver.MemID, ptr unsafe.Pointer, waitList []driver.EventID, wantEvent bool) (driver.EventID, error) {
	d.mu.Lock()
	if _, found := d.queues[q]; !found {
		d.mu.Unlock()
		return 0, errors.Errorf("driver %q: unknown queue %#x", DriverName, uintptr(q))
	}
	buf, found := d.buffers[m]
	if !found {
		d.mu.Unlock()
		return 0, errors.Errorf("driver %q: unknown memory object %#x", DriverName, uintptr(m))
	}
	if _, found := buf.mappings[uintptr(ptr)]; !found {
		d.mu.Unlock()
		return 0, errors.Errorf("driver %q: pointer %p is not an active mapping of memory object %#x",
			DriverName, ptr, uintptr(m))
	}
	waitChans, err := d.lockedEventChans(waitList)
	if err != nil {
		d.mu.Unlock()
		return 0, err
	}
	d.mu.Unlock()

	// An in-order queue would serialize this against the wait list anyway; blocking the
	// host call is the closest a synchronous driver gets.
	for _, ch := range waitChans {
		<-ch
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	delete(buf.mappings, uintptr(ptr))
	if !wantEvent {
		return 0, nil
	}
	return d.lockedNewCompleteEvent(), nil
}
