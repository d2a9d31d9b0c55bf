// Package readback reads rendered frames back from the GPU without stalling
// the render loop.
//
// # Overview
//
// A GPU to CPU pixel transfer has latency. Reading the framebuffer right
// after drawing forces the CPU to wait until the GPU has finished both the
// draw and the copy. Staged readback hides that latency behind pipelining:
// two transfer buffers alternate roles, so every tick issues an asynchronous
// copy of the frame just rendered into the "write" buffer and fetches the
// previous frame from the "read" buffer, whose copy resolved during the
// tick that has elapsed since.
//
//	tick n:   draw(n) -> CopyAsync(write) -> Fetch(read = frame n-1) -> swap
//	tick n+1: draw(n+1) -> CopyAsync(read) -> Fetch(write = frame n) -> swap
//
// The snapshot returned by [Staged.Snapshot] therefore always trails the
// rendered frame by exactly one tick. That latency is permanent.
//
// # Quick Start
//
//	sw := render.NewSoftware(512, 512)
//	rb, err := readback.New(transfer.NewMemory(sw), sw.Width(), sw.Height())
//	if err != nil {
//	    return err
//	}
//	defer rb.Close()
//
//	for {
//	    if err := sw.Draw(); err != nil {
//	        return err
//	    }
//	    if err := rb.Tick(); err != nil {
//	        return err
//	    }
//	    use(rb.Snapshot()) // frame rendered one tick ago
//	}
//
// # Modes
//
// [ModeStaged] is the default. [ModeSynchronous] performs a single blocking
// fetch of the current framebuffer each tick: zero latency, guaranteed
// pipeline stall. The mode is fixed when the [Staged] is created.
//
// # Transfers
//
// The GPU side is abstracted by the [Transfer] interface. Package transfer
// provides a wgpu HAL implementation and an in-memory one for software
// rendering and tests.
//
// # Synchronization
//
// By default no fence is waited on before a fetch: one tick is assumed to be
// enough for the previous copy to resolve. Under variable frame pacing this
// may read a copy that is still in flight. The HAL transfer can be configured
// with an explicit fence timeout to wait instead.
package readback
