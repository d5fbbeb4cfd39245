package cl

import "github.com/pkg/errors"

// Sentinel errors for the recoverable failure classes. They don't carry a stack;
// functions returning them attach one with errors.WithStack or errors.Wrapf, so
// callers classify with errors.Is.
var (
	// ErrNoDevices is returned when a program build's device specifier resolves to an
	// empty device list (or none was set). Building for zero devices is a
	// configuration error, not an empty no-op: it is caught before any native call,
	// which would otherwise surface an opaque driver error.
	ErrNoDevices = errors.New("no devices found")

	// ErrDeviceSpecifierSet is returned by ProgramBuilder.SetDevices when a specifier
	// was already set. The first specifier is kept.
	ErrDeviceSpecifierSet = errors.New("device specifier already set")

	// ErrEmbeddedNUL is returned when a source block, define or compiler option
	// contains an embedded NUL byte. Detected before anything reaches the native
	// layer, which would truncate at the NUL.
	ErrEmbeddedNUL = errors.New("embedded NUL byte in program text")

	// ErrAlreadyUnmapped is returned by MappedRegion.Unmap when the unmap was already
	// enqueued.
	ErrAlreadyUnmapped = errors.New("mapped region already unmapped")

	// ErrCallbackSet is returned when a second completion trigger is registered on
	// the same mapped region.
	ErrCallbackSet = errors.New("completion callback already set")
)
