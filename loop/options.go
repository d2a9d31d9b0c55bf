package loop

import "time"

// Option configures a Loop.
type Option func(*Loop)

// WithInterval sets the time between frames. Non-positive values keep
// DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithOnFrame registers fn to run after every frame. An error from fn
// stops the loop.
func WithOnFrame(fn func(Frame) error) Option {
	return func(l *Loop) {
		l.onFrame = fn
	}
}

// WithStatsWindow sets the number of frames kept in Stats.
func WithStatsWindow(n int) Option {
	return func(l *Loop) {
		l.stats = NewStats(n)
	}
}

// withClock replaces time.Now, for tests.
func withClock(now func() time.Time) Option {
	return func(l *Loop) {
		l.now = now
	}
}
