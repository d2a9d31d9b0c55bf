package readback

// Option configures a Staged during creation.
//
// Example:
//
//	// Default staged readback
//	rb, _ := readback.New(t, 1024, 1024)
//
//	// Blocking readback for latency comparison
//	rb, _ := readback.New(t, 1024, 1024, readback.WithMode(readback.ModeSynchronous))
type Option func(*options)

// options holds optional configuration for a Staged.
type options struct {
	mode     Mode
	snapshot []byte
}

// defaultOptions returns the default options.
func defaultOptions() options {
	return options{
		mode: ModeStaged,
	}
}

// WithMode selects the readback path.
func WithMode(m Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithSnapshot supplies the host buffer the snapshot is written into.
// Its length must be exactly width*height*4; New fails otherwise.
func WithSnapshot(buf []byte) Option {
	return func(o *options) {
		o.snapshot = buf
	}
}
