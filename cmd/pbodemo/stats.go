package main

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/readback"
	"github.com/gogpu/readback/internal/config"
	"github.com/gogpu/readback/loop"
)

var printer = message.NewPrinter(language.English)

// printStats renders the frame timing table.
func printStats(w io.Writer, cfg config.Config, sum loop.Summary) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Stage", "Mean", "Max"})
	table.Append([]string{"render", formatDuration(sum.MeanRender), formatDuration(sum.MaxRender)})
	table.Append([]string{"readback", formatDuration(sum.MeanReadback), formatDuration(sum.MaxReadback)})
	table.SetFooter([]string{
		fmt.Sprintf("%s %s", cfg.ParseMode(), printer.Sprintf("%dx%d", cfg.Width, cfg.Height)),
		printer.Sprintf("%d frames", sum.Frames),
		printer.Sprintf("%d bytes/frame", readback.FrameSize(cfg.Width, cfg.Height)),
	})
	table.Render()
	fmt.Fprint(w, buf.String())
}

func formatDuration(d time.Duration) string {
	return printer.Sprintf("%.1f µs", float64(d)/float64(time.Microsecond))
}
