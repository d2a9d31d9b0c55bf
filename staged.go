package readback

import (
	"fmt"
)

// Staged owns the render loop's readback state: the transfer and its two
// buffers, the current role assignment and the pixel snapshot.
//
// A Staged is created once, mutated once per tick and released at shutdown.
// It is not safe for concurrent use; the render loop that owns it is the
// only caller.
type Staged struct {
	transfer Transfer
	width    int
	height   int
	mode     Mode

	roles    Roles
	snapshot []byte
	ticks    uint64
	closed   bool
}

// New allocates the transfer buffers through t and a snapshot of
// width*height*4 bytes, and sets the initial role assignment (read 0,
// write 1).
//
// Allocation failures are returned unchanged; the caller treats them as
// fatal.
func New(t Transfer, width, height int, opts ...Option) (*Staged, error) {
	if t == nil {
		return nil, ErrNilTransfer
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	size := FrameSize(width, height)
	snapshot := o.snapshot
	if snapshot == nil {
		snapshot = make([]byte, size)
	} else if len(snapshot) != size {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSnapshotSize, len(snapshot), size)
	}

	if err := t.Allocate(width, height); err != nil {
		return nil, fmt.Errorf("allocate transfer buffers: %w", err)
	}

	Logger().Debug("readback: initialized",
		"width", width, "height", height,
		"mode", o.mode.String(), "frameBytes", size)

	return &Staged{
		transfer: t,
		width:    width,
		height:   height,
		mode:     o.mode,
		roles:    InitialRoles(),
		snapshot: snapshot,
	}, nil
}

// FrameSize returns the number of bytes of an RGBA8 frame.
func FrameSize(width, height int) int {
	return width * height * 4
}

// Tick reads pixels back for the frame just rendered.
//
// In ModeStaged it issues an asynchronous copy into the write buffer,
// fetches the read buffer into the snapshot and swaps roles, so the
// snapshot holds the previous tick's frame. In ModeSynchronous it blocks
// until the current frame has been read into the snapshot.
func (s *Staged) Tick() error {
	if s.closed {
		return ErrClosed
	}

	switch s.mode {
	case ModeSynchronous:
		if err := ReadSync(s.transfer, s.snapshot); err != nil {
			return fmt.Errorf("synchronous readback: %w", err)
		}
	default:
		next, err := Tick(s.transfer, s.roles, s.snapshot)
		if err != nil {
			return fmt.Errorf("staged readback (read=%d write=%d): %w", s.roles.Read, s.roles.Write, err)
		}
		s.roles = next
		Logger().Debug("readback: roles swapped",
			"tick", s.ticks, "read", next.Read, "write", next.Write)
	}
	s.ticks++
	return nil
}

// Snapshot returns the host pixel buffer. The slice is allocated once and
// overwritten in place by every Tick; callers must copy it to retain a frame.
func (s *Staged) Snapshot() []byte {
	return s.snapshot
}

// Roles returns the assignment the next Tick will use.
func (s *Staged) Roles() Roles {
	return s.roles
}

// Ticks returns the number of completed ticks.
func (s *Staged) Ticks() uint64 {
	return s.ticks
}

// Ready reports whether the snapshot holds a rendered frame. A staged
// readback needs two ticks: the first fetch reads a buffer no copy has
// targeted yet.
func (s *Staged) Ready() bool {
	return s.ticks > uint64(s.mode.Latency())
}

// Mode returns the readback mode.
func (s *Staged) Mode() Mode {
	return s.mode
}

// Width returns the frame width in pixels.
func (s *Staged) Width() int {
	return s.width
}

// Height returns the frame height in pixels.
func (s *Staged) Height() int {
	return s.height
}

// Close releases the transfer buffers. Safe to call multiple times.
func (s *Staged) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.transfer.Release(); err != nil {
		Logger().Warn("readback: release transfer", "err", err)
		return fmt.Errorf("release transfer: %w", err)
	}
	return nil
}
