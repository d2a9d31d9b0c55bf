package readback

import (
	"fmt"
	"strings"
)

// Mode selects how a Staged reads pixels back each tick.
// The mode is fixed when the Staged is created.
type Mode int

const (
	// ModeStaged alternates two transfer buffers: each tick issues an
	// asynchronous copy of the current frame and fetches the previous one.
	// The snapshot lags the rendered frame by one tick and the render loop
	// never waits on the GPU.
	ModeStaged Mode = iota

	// ModeSynchronous fetches the current framebuffer with a single
	// blocking read. Zero latency, but the CPU stalls until the GPU has
	// finished the frame.
	ModeSynchronous
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeStaged:
		return "Staged"
	case ModeSynchronous:
		return "Synchronous"
	default:
		return "Unknown"
	}
}

// Latency returns how many ticks the snapshot trails the rendered frame.
func (m Mode) Latency() int {
	if m == ModeStaged {
		return 1
	}
	return 0
}

// ParseMode maps a configuration name to a Mode. Matching is case
// insensitive; "pbo" and "sync" are accepted as aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "staged", "pbo", "":
		return ModeStaged, nil
	case "synchronous", "sync":
		return ModeSynchronous, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}
