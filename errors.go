package readback

import "errors"

var (
	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("readback: invalid dimensions")

	// ErrNilTransfer is returned by New when no transfer is supplied.
	ErrNilTransfer = errors.New("readback: nil transfer")

	// ErrInvalidRoles is returned when a role assignment is not {0, 1}.
	ErrInvalidRoles = errors.New("readback: invalid role assignment")

	// ErrSnapshotSize is returned when a snapshot is not width*height*4 bytes.
	ErrSnapshotSize = errors.New("readback: snapshot size mismatch")

	// ErrUnknownMode is returned by ParseMode for unrecognized names.
	ErrUnknownMode = errors.New("readback: unknown mode")

	// ErrClosed is returned by operations on a closed Staged.
	ErrClosed = errors.New("readback: closed")
)
