package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/gogpu/readback"
	"github.com/gogpu/readback/internal/snapshot"
	"github.com/gogpu/readback/loop"
	"github.com/gogpu/readback/render"
	"github.com/gogpu/readback/transfer"
)

var (
	// errVerify is returned when the staged and synchronous paths disagree.
	errVerify = errors.New("verification failed")

	// errTooFewFrames is returned when verify is asked for fewer frames than
	// the one-frame lag can be observed over.
	errTooFewFrames = errors.New("too few frames")
)

// minVerifyFrames is the shortest sequence with a previous frame to compare.
const minVerifyFrames = 2

// report is the outcome of comparing the two readback paths.
type report struct {
	Frames int

	// LagMismatches counts frames where the staged snapshot was not the
	// synchronous snapshot of the previous frame.
	LagMismatches int

	// SteadyDiff is the number of differing gradient pixels once the staged
	// path is ready.
	SteadyDiff int
}

func (r report) ok() bool {
	return r.LagMismatches == 0 && r.SteadyDiff == 0
}

// framePattern tags each frame with its index so snapshots can be matched
// to the frame they came from.
func framePattern(x, y, w, h int, frame uint64) color.RGBA {
	c := render.Gradient(x, y, w, h)
	c.B = byte(frame)
	return c
}

// newSoftwareLoop builds a software renderer, memory transfer and loop.
func newSoftwareLoop(w, h int, mode readback.Mode, opts ...render.SoftwareOption) (*loop.Loop, error) {
	sw := render.NewSoftware(w, h, opts...)
	rb, err := readback.New(transfer.NewMemory(sw), w, h, readback.WithMode(mode))
	if err != nil {
		return nil, err
	}
	return loop.New(sw, rb)
}

// verify steps a staged and a synchronous loop side by side. The lag check
// needs at least two frames.
func verify(w, h, frames int) (report, error) {
	rep := report{Frames: frames}
	if w <= 0 || h <= 0 {
		return rep, fmt.Errorf("verify: %w: %dx%d", render.ErrInvalidDimensions, w, h)
	}
	if frames < minVerifyFrames {
		return rep, fmt.Errorf("verify: %w: %d frames, need at least %d", errTooFewFrames, frames, minVerifyFrames)
	}

	staged, err := newSoftwareLoop(w, h, readback.ModeStaged, render.WithPattern(framePattern))
	if err != nil {
		return rep, err
	}
	defer staged.Readback().Close()
	sync, err := newSoftwareLoop(w, h, readback.ModeSynchronous, render.WithPattern(framePattern))
	if err != nil {
		return rep, err
	}
	defer sync.Readback().Close()

	prev := make([]byte, readback.FrameSize(w, h))
	for i := 0; i < frames; i++ {
		sf, err := staged.Step()
		if err != nil {
			return rep, err
		}
		yf, err := sync.Step()
		if err != nil {
			return rep, err
		}
		if i > 0 && !bytes.Equal(sf.Snapshot, prev) {
			rep.LagMismatches++
		}
		copy(prev, yf.Snapshot)
	}

	// The plain gradient does not change over time, so at steady state both
	// paths must produce the same pixels.
	gs, err := newSoftwareLoop(w, h, readback.ModeStaged)
	if err != nil {
		return rep, err
	}
	defer gs.Readback().Close()
	gy, err := newSoftwareLoop(w, h, readback.ModeSynchronous)
	if err != nil {
		return rep, err
	}
	defer gy.Readback().Close()
	for i := 0; i < 2; i++ {
		if _, err := gs.Step(); err != nil {
			return rep, err
		}
		if _, err := gy.Step(); err != nil {
			return rep, err
		}
	}
	rep.SteadyDiff, err = snapshot.Diff(gs.Readback().Snapshot(), gy.Readback().Snapshot(), 0)
	return rep, err
}

func verifyCommand(ctx *cli.Context) error {
	setupLogging(ctx, slog.LevelWarn)

	rep, err := verify(ctx.Int("width"), ctx.Int("height"), ctx.Int("frames"))
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Check", "Result"})
	table.Append([]string{"staged lags sync by one frame",
		printer.Sprintf("%d/%d frames", rep.Frames-1-rep.LagMismatches, rep.Frames-1)})
	table.Append([]string{"steady state matches", printer.Sprintf("%d differing pixels", rep.SteadyDiff)})
	table.Render()

	if !rep.ok() {
		return fmt.Errorf("%w: %d lag mismatches, %d differing pixels", errVerify, rep.LagMismatches, rep.SteadyDiff)
	}
	return nil
}
