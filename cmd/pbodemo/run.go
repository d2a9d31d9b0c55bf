package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli"
	"go.uber.org/multierr"

	"github.com/gogpu/readback"
	"github.com/gogpu/readback/internal/config"
	"github.com/gogpu/readback/internal/device"
	"github.com/gogpu/readback/internal/snapshot"
	"github.com/gogpu/readback/loop"
	"github.com/gogpu/readback/render"
	"github.com/gogpu/readback/transfer"
)

func runFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{Name: "width", Usage: "frame width"},
		cli.IntFlag{Name: "height", Usage: "frame height"},
		cli.IntFlag{Name: "frames, n", Usage: "number of frames, 0 runs until interrupted"},
		cli.StringFlag{Name: "mode, m", Usage: "readback mode (staged, sync)"},
		cli.StringFlag{Name: "backend, b", Usage: "renderer backend (software, noop, vulkan)"},
		cli.DurationFlag{Name: "interval", Usage: "time between frames"},
		cli.DurationFlag{Name: "fence-timeout", Usage: "wait for each staged copy before fetching it, 0 disables"},
		cli.StringFlag{Name: "out, o", Usage: "image filename for the final snapshot"},
	}
}

// loadConfig reads the --config file, applies the command's flags and
// validates the result.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := ctx.GlobalString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	var o config.Overrides
	if ctx.IsSet("width") {
		v := ctx.Int("width")
		o.Width = &v
	}
	if ctx.IsSet("height") {
		v := ctx.Int("height")
		o.Height = &v
	}
	if ctx.IsSet("frames") {
		v := ctx.Int("frames")
		o.Frames = &v
	}
	if ctx.IsSet("mode") {
		v := ctx.String("mode")
		o.Mode = &v
	}
	if ctx.IsSet("backend") {
		v := ctx.String("backend")
		o.Backend = &v
	}
	if ctx.IsSet("interval") {
		v := ctx.Duration("interval")
		o.Interval = &v
	}
	if ctx.IsSet("fence-timeout") {
		v := ctx.Duration("fence-timeout")
		o.FenceTimeout = &v
	}
	if ctx.IsSet("out") {
		v := ctx.String("out")
		o.Output = &v
	}
	cfg = cfg.Apply(o)
	return cfg, cfg.Validate()
}

// pipeline is a renderer and the transfer that reads it back.
type pipeline struct {
	renderer render.Renderer
	transfer readback.Transfer
	close    func() error
}

// newPipeline builds the renderer and transfer for cfg's backend.
func newPipeline(cfg config.Config) (*pipeline, error) {
	backend, err := device.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	if backend == device.BackendSoftware {
		sw := render.NewSoftware(cfg.Width, cfg.Height)
		return &pipeline{
			renderer: sw,
			transfer: transfer.NewMemory(sw),
			close:    func() error { return nil },
		}, nil
	}

	dev, err := device.Open(backend)
	if err != nil {
		return nil, err
	}
	gpu, err := render.NewGPURenderer(dev.Device, dev.Queue, cfg.Width, cfg.Height)
	if err != nil {
		dev.Close()
		return nil, err
	}
	hal, err := transfer.NewHAL(dev.Device, dev.Queue, gpu.Texture(),
		transfer.WithSourceFormat(render.ColorFormat),
		transfer.WithFenceTimeout(cfg.FenceTimeout),
		transfer.WithLabel("pbodemo"))
	if err != nil {
		_ = gpu.Destroy()
		dev.Close()
		return nil, err
	}
	return &pipeline{
		renderer: gpu,
		transfer: hal,
		close: func() error {
			err := gpu.Destroy()
			dev.Close()
			return err
		},
	}, nil
}

func runCommand(ctx *cli.Context) (err error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	setupLogging(ctx, level)

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, p.close()) }()

	rb, err := readback.New(p.transfer, cfg.Width, cfg.Height, readback.WithMode(cfg.ParseMode()))
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, rb.Close()) }()

	l, err := loop.New(p.renderer, rb, loop.WithInterval(cfg.Interval))
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := l.Run(runCtx, cfg.Frames); err != nil {
		return err
	}

	printStats(os.Stdout, cfg, l.Stats().Summary())

	if cfg.Output != "" {
		if !rb.Ready() {
			return fmt.Errorf("no frame read back yet, run at least %d frames", rb.Mode().Latency()+1)
		}
		img, err := snapshot.ToImage(rb.Snapshot(), cfg.Width, cfg.Height)
		if err != nil {
			return err
		}
		if err := snapshot.Write(cfg.Output, img); err != nil {
			return err
		}
		readback.Logger().Info("pbodemo: snapshot written", "path", cfg.Output)
	}
	return nil
}
