package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/readback/internal/config"
	"github.com/gogpu/readback/loop"
	"github.com/gogpu/readback/render"
)

func TestVerify(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		frames int
	}{
		{"small", 4, 4, 4},
		{"padded rows", 100, 3, 6},
		{"two frames", 8, 8, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := verify(tt.w, tt.h, tt.frames)
			if err != nil {
				t.Fatalf("verify failed: %v", err)
			}
			if !rep.ok() {
				t.Errorf("report = %+v, want no mismatches", rep)
			}
		})
	}
}

func TestVerifyRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		frames  int
		wantErr error
	}{
		{"zero width", 0, 4, 8, render.ErrInvalidDimensions},
		{"negative height", 4, -1, 8, render.ErrInvalidDimensions},
		{"no frames", 4, 4, 0, errTooFewFrames},
		{"single frame", 4, 4, 1, errTooFewFrames},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := verify(tt.w, tt.h, tt.frames)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("verify(%d, %d, %d) error = %v, want %v", tt.w, tt.h, tt.frames, err, tt.wantErr)
			}
			if rep.LagMismatches != 0 || rep.SteadyDiff != 0 {
				t.Errorf("report = %+v, want no comparisons", rep)
			}
		})
	}
}

func TestNewPipelineSoftware(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 8, 8
	p, err := newPipeline(cfg)
	if err != nil {
		t.Fatalf("newPipeline failed: %v", err)
	}
	defer p.close()
	if p.renderer.Width() != 8 {
		t.Errorf("renderer width = %d, want 8", p.renderer.Width())
	}
}

func TestNewPipelineNoop(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 16, 16
	cfg.Backend = "noop"
	cfg.FenceTimeout = time.Second
	p, err := newPipeline(cfg)
	if err != nil {
		t.Fatalf("newPipeline failed: %v", err)
	}
	if err := p.close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	printStats(&buf, cfg, loop.Summary{Frames: 1200, Window: 120, MeanRender: 1500 * time.Microsecond})

	out := buf.String()
	for _, want := range []string{"render", "readback", "1,200 frames", "1,024x1,024", "4,194,304 bytes/frame", "1,500.0 µs"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats table missing %q:\n%s", want, out)
		}
	}
}
