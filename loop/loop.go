// Package loop drives a renderer and a staged readback once per frame.
//
// A Loop owns the render-loop state: the renderer, the *readback.Staged
// and the frame counter. Step draws one frame and reads pixels back; Run
// calls Step on a fixed interval until a frame count is reached or the
// context is done.
package loop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/readback"
	"github.com/gogpu/readback/render"
)

// DefaultInterval is the frame interval when none is configured (60 Hz).
const DefaultInterval = time.Second / 60

// ErrNilRenderer is returned when a loop is created without a renderer or
// readback.
var ErrNilRenderer = errors.New("loop: nil renderer or readback")

// Frame describes one completed Step.
type Frame struct {
	// Index is the zero-based frame number.
	Index uint64

	// Snapshot is the readback's pixel buffer after the tick. It is
	// overwritten by the next Step.
	Snapshot []byte

	// Roles is the buffer assignment used by this tick.
	Roles readback.Roles

	// Ready reports whether Snapshot holds a rendered frame.
	Ready bool

	Render   time.Duration
	Readback time.Duration
}

// Loop renders and reads back frames on a single goroutine.
type Loop struct {
	renderer render.Renderer
	rb       *readback.Staged

	interval time.Duration
	onFrame  func(Frame) error
	now      func() time.Time

	stats  *Stats
	frames uint64
}

// New creates a loop over r and rb. Both must describe the same frame size.
func New(r render.Renderer, rb *readback.Staged, opts ...Option) (*Loop, error) {
	if r == nil || rb == nil {
		return nil, ErrNilRenderer
	}
	if r.Width() != rb.Width() || r.Height() != rb.Height() {
		return nil, fmt.Errorf("loop: renderer is %dx%d, readback is %dx%d",
			r.Width(), r.Height(), rb.Width(), rb.Height())
	}
	l := &Loop{
		renderer: r,
		rb:       rb,
		interval: DefaultInterval,
		now:      time.Now,
		stats:    NewStats(DefaultStatsWindow),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Step draws one frame and runs one readback tick.
func (l *Loop) Step() (Frame, error) {
	f := Frame{Index: l.frames, Roles: l.rb.Roles()}

	start := l.now()
	if err := l.renderer.Draw(); err != nil {
		return f, fmt.Errorf("frame %d: draw: %w", f.Index, err)
	}
	drawn := l.now()
	if err := l.rb.Tick(); err != nil {
		return f, fmt.Errorf("frame %d: %w", f.Index, err)
	}
	done := l.now()

	f.Render = drawn.Sub(start)
	f.Readback = done.Sub(drawn)
	f.Snapshot = l.rb.Snapshot()
	f.Ready = l.rb.Ready()
	l.frames++
	l.stats.Add(f.Render, f.Readback)

	readback.Logger().Debug("loop: frame",
		"index", f.Index, "read", f.Roles.Read, "write", f.Roles.Write,
		"ready", f.Ready, "render", f.Render, "readback", f.Readback)

	if l.onFrame != nil {
		if err := l.onFrame(f); err != nil {
			return f, fmt.Errorf("frame %d: callback: %w", f.Index, err)
		}
	}
	return f, nil
}

// Run calls Step every interval. It returns after frames steps, or when
// ctx is done if frames <= 0. A step runs to completion before the next
// tick is taken; ticks missed during a slow step are dropped.
func (l *Loop) Run(ctx context.Context, frames int) error {
	log := readback.Logger()
	log.Info("loop: start", "frames", frames, "interval", l.interval, "mode", l.rb.Mode().String())

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for n := 0; frames <= 0 || n < frames; n++ {
		if ctx.Err() == nil {
			select {
			case <-ctx.Done():
			case <-ticker.C:
			}
		}
		if err := ctx.Err(); err != nil {
			log.Info("loop: stopped", "frames", l.frames, "err", err)
			if frames <= 0 {
				return nil
			}
			return err
		}
		if _, err := l.Step(); err != nil {
			return err
		}
	}
	log.Info("loop: done", "frames", l.frames)
	return nil
}

// Frames returns the number of completed steps.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Stats returns the timing window of recent frames.
func (l *Loop) Stats() *Stats {
	return l.stats
}

// Readback returns the staged readback driven by l.
func (l *Loop) Readback() *readback.Staged {
	return l.rb
}
