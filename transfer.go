package readback

// Transfer is the GPU side of a staged readback: two transfer buffers that
// can each receive an asynchronous copy of the current framebuffer and later
// be fetched into host memory.
//
// Implementations are driven from a single goroutine and need not be safe
// for concurrent use. Package transfer provides a wgpu HAL implementation
// and an in-memory one.
type Transfer interface {
	// Allocate creates BufferCount transfer buffers, each large enough to
	// hold a width x height RGBA8 frame.
	Allocate(width, height int) error

	// CopyAsync requests a copy of the full framebuffer into buffer buf.
	// It returns as soon as the request is issued; the copy completes on
	// the GPU's own timeline.
	CopyAsync(buf int) error

	// Fetch copies the contents of buffer buf into dst, which holds exactly
	// width*height*4 bytes. The copy previously issued into buf is assumed
	// to have resolved.
	Fetch(buf int, dst []byte) error

	// ReadSync performs a blocking read of the current framebuffer into dst.
	ReadSync(dst []byte) error

	// Release frees the transfer buffers.
	Release() error
}

// Tick performs one staged readback step against t: it issues an
// asynchronous copy into r.Write, fetches r.Read into snapshot and returns
// the swapped assignment for the next tick.
//
// After Tick returns, snapshot holds the frame that was current one tick
// earlier, not the frame just rendered.
func Tick(t Transfer, r Roles, snapshot []byte) (Roles, error) {
	if !r.Valid() {
		return r, ErrInvalidRoles
	}
	if err := t.CopyAsync(r.Write); err != nil {
		return r, err
	}
	if err := t.Fetch(r.Read, snapshot); err != nil {
		return r, err
	}
	return r.Swap(), nil
}

// ReadSync is the fallback path: a single blocking fetch of the current
// framebuffer into snapshot, with no frame of latency.
func ReadSync(t Transfer, snapshot []byte) error {
	return t.ReadSync(snapshot)
}
