package readback

import (
	"errors"
	"fmt"
)

var errInjected = errors.New("injected failure")

// fakeTransfer models the GPU timeline of a transfer: the framebuffer holds
// a single byte value (the frame number), CopyAsync captures it into a
// buffer and Fetch returns whatever that buffer last captured.
type fakeTransfer struct {
	width, height int
	framebuffer   byte
	buffers       [BufferCount][]byte

	calls []string

	failAllocate bool
	failCopy     bool
	failFetch    bool
	failSync     bool
	releases     int
}

func newFakeTransfer() *fakeTransfer {
	return &fakeTransfer{}
}

// render simulates a draw of frame n into the framebuffer.
func (f *fakeTransfer) render(n byte) {
	f.framebuffer = n
}

func (f *fakeTransfer) Allocate(width, height int) error {
	if f.failAllocate {
		return errInjected
	}
	f.width, f.height = width, height
	for i := range f.buffers {
		f.buffers[i] = make([]byte, width*height*4)
	}
	f.calls = append(f.calls, "allocate")
	return nil
}

func (f *fakeTransfer) CopyAsync(buf int) error {
	if f.failCopy {
		return errInjected
	}
	for i := range f.buffers[buf] {
		f.buffers[buf][i] = f.framebuffer
	}
	f.calls = append(f.calls, fmt.Sprintf("copy %d", buf))
	return nil
}

func (f *fakeTransfer) Fetch(buf int, dst []byte) error {
	if f.failFetch {
		return errInjected
	}
	copy(dst, f.buffers[buf])
	f.calls = append(f.calls, fmt.Sprintf("fetch %d", buf))
	return nil
}

func (f *fakeTransfer) ReadSync(dst []byte) error {
	if f.failSync {
		return errInjected
	}
	for i := range dst {
		dst[i] = f.framebuffer
	}
	f.calls = append(f.calls, "sync")
	return nil
}

func (f *fakeTransfer) Release() error {
	f.releases++
	return nil
}

// uniform reports whether every byte of buf equals v.
func uniform(buf []byte, v byte) bool {
	for _, b := range buf {
		if b != v {
			return false
		}
	}
	return true
}
