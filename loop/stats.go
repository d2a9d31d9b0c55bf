package loop

import "time"

// DefaultStatsWindow is the number of frames Stats keeps by default.
const DefaultStatsWindow = 120

// Summary aggregates the frames in a Stats window.
type Summary struct {
	Frames       uint64 // all frames ever added
	Window       int    // frames in the window
	MeanRender   time.Duration
	MaxRender    time.Duration
	MeanReadback time.Duration
	MaxReadback  time.Duration
}

type sample struct {
	render   time.Duration
	readback time.Duration
}

// Stats is a fixed-size ring of recent frame timings.
type Stats struct {
	ring  []sample
	next  int
	full  bool
	total uint64
}

// NewStats creates a ring holding the last n frames. n < 1 is treated as 1.
func NewStats(n int) *Stats {
	return &Stats{ring: make([]sample, max(n, 1))}
}

// Add records one frame.
func (s *Stats) Add(render, readback time.Duration) {
	s.ring[s.next] = sample{render: render, readback: readback}
	s.next++
	if s.next == len(s.ring) {
		s.next = 0
		s.full = true
	}
	s.total++
}

// Len returns the number of frames in the window.
func (s *Stats) Len() int {
	if s.full {
		return len(s.ring)
	}
	return s.next
}

// Summary computes the window's means and maxima.
func (s *Stats) Summary() Summary {
	sum := Summary{Frames: s.total, Window: s.Len()}
	if sum.Window == 0 {
		return sum
	}
	var render, readback time.Duration
	for _, smp := range s.ring[:sum.Window] {
		render += smp.render
		readback += smp.readback
		sum.MaxRender = max(sum.MaxRender, smp.render)
		sum.MaxReadback = max(sum.MaxReadback, smp.readback)
	}
	sum.MeanRender = render / time.Duration(sum.Window)
	sum.MeanReadback = readback / time.Duration(sum.Window)
	return sum
}
