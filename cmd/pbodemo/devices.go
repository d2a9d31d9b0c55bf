package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/gogpu/readback/internal/device"
)

func devicesCommand(ctx *cli.Context) error {
	setupLogging(ctx, slog.LevelWarn)

	backend, err := device.ParseBackend(ctx.String("backend"))
	if err != nil {
		return err
	}
	adapters, err := device.Adapters(backend)
	if err != nil {
		return err
	}
	if len(adapters) == 0 {
		fmt.Println("no adapters found")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"#", "Name", "Type", "Selected"})
	for _, a := range adapters {
		table.Append([]string{
			fmt.Sprintf("%d", a.Index),
			a.Name,
			fmt.Sprintf("%v", a.Type),
			fmt.Sprintf("%t", a.Selected),
		})
	}
	table.Render()
	return nil
}
