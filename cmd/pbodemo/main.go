// Command pbodemo renders a gradient quad and reads every frame back
// through a double-buffered staged readback, or the synchronous fallback.
//
// Usage:
//
//	pbodemo run --width 1024 --height 1024 --frames 120 --out frame.png
//	pbodemo verify
//	pbodemo devices --backend vulkan
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "pbodemo"
	app.Usage = "double-buffered asynchronous pixel readback demo"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load settings from a YAML file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "render frames and read them back",
			Description: `
Render the gradient quad for a number of frames and read each one back into
the pixel snapshot. In staged mode the snapshot lags the framebuffer by one
frame; in sync mode every read blocks until the current frame is available.

The final snapshot is written to --out when given (.png, .bmp, .tiff, .webp).`,
			Flags:  runFlags(),
			Action: runCommand,
		},
		{
			Name:  "verify",
			Usage: "check the staged path against the synchronous fallback",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 64,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 64,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "frames",
					Value: 8,
					Usage: "number of frames to compare",
				},
			},
			Action: verifyCommand,
		},
		{
			Name:  "devices",
			Usage: "list GPU adapters",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "backend, b",
					Value: "vulkan",
					Usage: "backend to enumerate (vulkan, noop)",
				},
			},
			Action: devicesCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "pbodemo:", err)
		os.Exit(1)
	}
}
