// Package wire provides the fixed-width big-endian primitives the SlimProto
// codec, session, and discovery packages decode and encode bytes with.
package wire

import "errors"

// Sentinel errors from spec §7's error taxonomy. Session, codec, and
// discovery wrap these so callers can use errors.Is regardless of which
// package raised the failure. Unsupported has no sentinel: per §7 an
// unrecognized opcode is not an error, it decodes to message.Unknown.
var (
	// ErrTruncated means the input was shorter than a decoder's minimum.
	ErrTruncated = errors.New("wire: truncated")
	// ErrMalformed means fields were present but held an invalid value.
	ErrMalformed = errors.New("wire: malformed")
	// ErrNotConnected means send/receive was attempted before connect.
	ErrNotConnected = errors.New("wire: not connected")
	// ErrSocketClosed means a read returned 0 bytes mid-frame.
	ErrSocketClosed = errors.New("wire: socket closed")
	// ErrIoFailure wraps an underlying OS socket failure that isn't a
	// clean EOF.
	ErrIoFailure = errors.New("wire: io failure")
	// ErrInvalidArgument means a caller-supplied value failed validation
	// before any I/O was attempted.
	ErrInvalidArgument = errors.New("wire: invalid argument")
)
