// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

// Software renders the test pattern on the CPU into a PixmapTarget.
//
// Software is both a Renderer and a Framebuffer, so it can be handed to
// transfer.NewMemory as the copy source.
type Software struct {
	target  *PixmapTarget
	pattern Pattern
	frame   uint64
}

// SoftwareOption configures a Software renderer.
type SoftwareOption func(*Software)

// WithPattern replaces the gradient with p. Tests use a frame-dependent
// pattern to tell consecutive frames apart.
func WithPattern(p Pattern) SoftwareOption {
	return func(s *Software) {
		if p != nil {
			s.pattern = p
		}
	}
}

// NewSoftware creates a CPU renderer for a width x height frame.
// It panics if width or height is not positive.
func NewSoftware(width, height int, opts ...SoftwareOption) *Software {
	if !validSize(width, height) {
		panic(ErrInvalidDimensions)
	}
	s := &Software{
		target:  NewPixmapTarget(width, height),
		pattern: GradientPattern,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Draw clears the framebuffer and rasterizes the full-screen quad.
// Every pixel is covered, so the clear color never survives a draw.
func (s *Software) Draw() error {
	s.target.Clear(Background)

	w, h := s.target.Width(), s.target.Height()
	pix := s.target.Pixels()
	for y := 0; y < h; y++ {
		row := pix[y*w*4 : (y+1)*w*4]
		for x := 0; x < w; x++ {
			c := s.pattern(x, y, w, h, s.frame)
			row[x*4+0] = c.R
			row[x*4+1] = c.G
			row[x*4+2] = c.B
			row[x*4+3] = c.A
		}
	}
	s.frame++
	return nil
}

// Frames returns the number of frames drawn so far.
func (s *Software) Frames() uint64 {
	return s.frame
}

// Width returns the framebuffer width in pixels.
func (s *Software) Width() int {
	return s.target.Width()
}

// Height returns the framebuffer height in pixels.
func (s *Software) Height() int {
	return s.target.Height()
}

// Pixels returns the framebuffer contents.
func (s *Software) Pixels() []byte {
	return s.target.Pixels()
}

// Target returns the backing framebuffer.
func (s *Software) Target() *PixmapTarget {
	return s.target
}

var (
	_ Renderer    = (*Software)(nil)
	_ Framebuffer = (*Software)(nil)
)
