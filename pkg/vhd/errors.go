package vhd

import "errors"

// Error kinds returned by this package. Callers should use errors.Is against
// these sentinels rather than comparing strings; wrapped context is added
// with fmt.Errorf("...: %w", ...) the same way the rest of this codebase
// wraps errors.
var (
	// ErrIO indicates the underlying stream's open/seek/read/write/truncate
	// call failed.
	ErrIO = errors.New("vhd: io error")

	// ErrTruncatedFile indicates a stream too short to hold a footer (fewer
	// than FooterSize bytes), as reported by ReadFooter.
	ErrTruncatedFile = errors.New("vhd: truncated file")

	// ErrMalformedFooter indicates a footer failed to decode or is an
	// inconsistent length.
	ErrMalformedFooter = errors.New("vhd: malformed footer")

	// ErrBadChecksum indicates a footer's stored checksum did not match its
	// recomputed value.
	ErrBadChecksum = errors.New("vhd: bad checksum")

	// ErrOutOfBounds indicates a sector read or write would cross the
	// virtual disk's data region boundary.
	ErrOutOfBounds = errors.New("vhd: out of bounds")

	// ErrInvalidArgument indicates a negative count, nil buffer, or
	// mis-sized buffer was passed to a sector operation, an unknown whence
	// was passed to Seek, or Create was given a size that is not a
	// non-negative multiple of 512.
	ErrInvalidArgument = errors.New("vhd: invalid argument")

	// ErrClosed indicates an operation was attempted on a Disk that has
	// already been closed.
	ErrClosed = errors.New("vhd: disk handle closed")
)
