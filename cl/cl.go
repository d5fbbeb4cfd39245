// Package cl is a typed, ownership-tracked layer over an OpenCL-style native compute
// driver.
//
// It replaces raw driver handles and manual lifetime tracking with Go types that carry
// their driver reference, and splits failures in two, following the rest of the module:
//
//   - Recoverable conditions (a device list that resolves empty, an unreadable source
//     file, a native call failure) are explicit error returns, built with
//     github.com/pkg/errors and classifiable with errors.Is against the Err* sentinels.
//   - Contract violations (touching a mapped region after its unmap was enqueued,
//     storing an unsupported property variant) are programming errors of the caller and
//     panic with a stack trace via github.com/gomlx/exceptions. They are never converted
//     to recoverable errors, since proceeding risks memory corruption on the native side.
//
// The native side is abstracted by the gocl/driver package; see driver/soft for a pure
// Go driver that makes this package fully testable without a native runtime.
package cl

import (
	"github.com/gocl/gocl/driver"
	"github.com/x448/float16"
)

// Half is the half-precision float scalar, from github.com/x448/float16. It is one of
// the Scalar types a mapped region or buffer region can be parameterized with.
type Half = float16.Float16

// Scalar constrains the element types that can live in device memory: the fixed-size
// numeric types. Half is admitted through ~uint16, matching its wire representation.
type Scalar interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// eventIDs extracts the raw driver handles of a wait list. A nil event in the list is a
// caller bug and surfaces as the zero EventID, which drivers reject.
func eventIDs(events []*Event) []driver.EventID {
	if len(events) == 0 {
		return nil
	}
	ids := make([]driver.EventID, len(events))
	for i, e := range events {
		if e != nil {
			ids[i] = e.id
		}
	}
	return ids
}
